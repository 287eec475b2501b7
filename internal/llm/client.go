// Package llm wraps the Groq chat API for text-grounded metadata
// generation.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conneroisu/groq-go"

	"driveflow/internal/metadata"
	"driveflow/pkg/prompts"
)

const defaultModel = "llama-3.3-70b-versatile"

type Client struct {
	client  *groq.Client
	model   groq.ChatModel
	prompts *prompts.Prompts
}

var _ metadata.TextGenerator = (*Client)(nil)

func NewClient(apiKey, model string, p *prompts.Prompts, opts ...groq.Opts) (*Client, error) {
	client, err := groq.NewClient(apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}

	return &Client{
		client:  client,
		model:   groq.ChatModel(model),
		prompts: p,
	}, nil
}

func (c *Client) FromTranscript(ctx context.Context, fileName, transcript string) (*metadata.Metadata, error) {
	prompt, err := c.prompts.RenderTranscript(prompts.TranscriptParams{
		FileName:   fileName,
		Transcript: transcript,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	return c.generateMetadata(ctx, prompt)
}

func (c *Client) FromFileName(ctx context.Context, fileName string) (*metadata.Metadata, error) {
	prompt, err := c.prompts.RenderFilename(prompts.FilenameParams{FileName: fileName})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	return c.generateMetadata(ctx, prompt)
}

func (c *Client) generateMetadata(ctx context.Context, userPrompt string) (*metadata.Metadata, error) {
	content, err := c.generateJSONContent(ctx, c.prompts.System.Metadata, userPrompt)
	if err != nil {
		return nil, err
	}

	var m metadata.Metadata
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if m.Title == "" {
		return nil, fmt.Errorf("response missing title")
	}

	return &m, nil
}

func (c *Client) generateJSONContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
		ResponseFormat: &groq.ChatResponseFormat{
			Type: "json_object",
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	return content, nil
}
