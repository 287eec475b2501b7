package prompts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

type Prompts struct {
	System   SystemPrompts   `yaml:"system"`
	Metadata MetadataPrompts `yaml:"metadata"`
}

type SystemPrompts struct {
	Metadata string `yaml:"metadata"`
	Vision   string `yaml:"vision"`
}

type MetadataPrompts struct {
	Transcript string `yaml:"transcript"`
	Vision     string `yaml:"vision"`
	Filename   string `yaml:"filename"`
}

type TranscriptParams struct {
	FileName   string
	Transcript string
}

type VisionParams struct {
	FileName   string
	FrameCount int
}

type FilenameParams struct {
	FileName string
}

// Defaults returns the built-in prompt set used when no prompts.yaml
// override exists next to the binary.
func Defaults() *Prompts {
	return &Prompts{
		System: SystemPrompts{
			Metadata: "You are a YouTube metadata writer. Given information about a short video, " +
				"produce an engaging title, a description, and a list of tags. " +
				"Respond with JSON only, matching the schema " +
				`{"title": string, "description": string, "tags": [string]}.`,
			Vision: "You are a YouTube metadata writer. You will be shown frames sampled from a video. " +
				"Describe what the video is about and produce an engaging title, a description, " +
				"and a list of tags. Respond with JSON only, matching the schema " +
				`{"title": string, "description": string, "tags": [string]}.`,
		},
		Metadata: MetadataPrompts{
			Transcript: "The video file is named {{.FileName}}. Its spoken transcript follows:\n\n" +
				"{{.Transcript}}\n\n" +
				"Write the title, description and tags for this video.",
			Vision: "The video file is named {{.FileName}}. The {{.FrameCount}} attached images are frames " +
				"sampled evenly across its duration. Write the title, description and tags for this video.",
			Filename: "The only information available about this video is its file name: {{.FileName}}. " +
				"Infer the likely subject and write the title, description and tags for it.",
		},
	}
}

// Load reads prompts.yaml from the working directory when present and
// falls back to the built-in defaults otherwise.
func Load() (*Prompts, error) {
	if _, err := os.Stat(defaultPromptsPath); os.IsNotExist(err) {
		return Defaults(), nil
	}
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p := Defaults()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return p, nil
}

func (p *Prompts) RenderTranscript(params TranscriptParams) (string, error) {
	return render(p.Metadata.Transcript, params)
}

func (p *Prompts) RenderVision(params VisionParams) (string, error) {
	return render(p.Metadata.Vision, params)
}

func (p *Prompts) RenderFilename(params FilenameParams) (string, error) {
	return render(p.Metadata.Filename, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
