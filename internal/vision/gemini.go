// Package vision wraps Gemini on Vertex AI for frame-grounded metadata
// generation.
package vision

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"driveflow/internal/metadata"
	"driveflow/pkg/prompts"
)

const defaultModel = "gemini-2.0-flash"

type Client struct {
	client  *genai.Client
	model   string
	prompts *prompts.Prompts
}

var _ metadata.VisionGenerator = (*Client)(nil)

var metadataSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString, Description: "Engaging video title"},
		"description": {Type: genai.TypeString, Description: "Video description"},
		"tags":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"title", "description", "tags"},
}

func NewClient(ctx context.Context, project, location, model string, p *prompts.Prompts) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}

	return &Client{
		client:  client,
		model:   model,
		prompts: p,
	}, nil
}

func (c *Client) FromFrames(ctx context.Context, fileName string, frames [][]byte) (*metadata.Metadata, error) {
	prompt, err := c.prompts.RenderVision(prompts.VisionParams{
		FileName:   fileName,
		FrameCount: len(frames),
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	parts := make([]*genai.Part, 0, len(frames)+1)
	parts = append(parts, &genai.Part{Text: prompt})
	for _, frame := range frames {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: frame},
		})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: c.prompts.System.Vision}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   metadataSchema,
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response")
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var m metadata.Metadata
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if m.Title == "" {
		return nil, fmt.Errorf("response missing title")
	}

	return &m, nil
}
