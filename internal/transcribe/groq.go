package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"driveflow/pkg/httputil"
)

const (
	baseURL      = "https://api.groq.com/openai/v1"
	timeout      = 120 * time.Second
	defaultModel = "whisper-large-v3"
)

// Client transcribes audio through Groq's Whisper endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *httputil.RetryClient
}

type option func(*Client)

func withBaseURL(url string) option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func NewClient(apiKey, model string) *Client {
	return newClient(apiKey, model)
}

func newClient(apiKey, model string, opts ...option) *Client {
	if model == "" {
		model = defaultModel
	}

	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httputil.NewRetryClient(&http.Client{Timeout: timeout}, httputil.DefaultRetryConfig()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe submits audio bytes and returns the spoken text. fileName
// is only used to hint the container format to the API.
func (c *Client) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filePart, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := filePart.Write(audio); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}

	url := c.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body.Bytes()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription failed: %s", string(respBody))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("empty transcript")
	}

	return result.Text, nil
}
