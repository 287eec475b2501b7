package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.System.Metadata == "" {
		t.Error("System.Metadata default is empty")
	}
	if p.Metadata.Transcript == "" {
		t.Error("Metadata.Transcript default is empty")
	}
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	promptsPath := filepath.Join(tmpDir, "custom.yaml")

	promptsContent := `
metadata:
  transcript: "Custom transcript prompt for {{.FileName}}"
`
	if err := os.WriteFile(promptsPath, []byte(promptsContent), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFrom(promptsPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if !strings.HasPrefix(p.Metadata.Transcript, "Custom transcript prompt") {
		t.Errorf("Metadata.Transcript = %q, want custom override", p.Metadata.Transcript)
	}
	if p.Metadata.Filename == "" {
		t.Error("Metadata.Filename should keep its default when not overridden")
	}
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom("/nonexistent/path.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	promptsPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(promptsPath, []byte("not: valid: yaml: content:"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(promptsPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestRenderTranscript(t *testing.T) {
	p := &Prompts{
		Metadata: MetadataPrompts{
			Transcript: "File {{.FileName}}: {{.Transcript}}",
		},
	}

	result, err := p.RenderTranscript(TranscriptParams{
		FileName:   "clip.mp4",
		Transcript: "hello world",
	})
	if err != nil {
		t.Fatalf("RenderTranscript() error = %v", err)
	}

	expected := "File clip.mp4: hello world"
	if result != expected {
		t.Errorf("RenderTranscript() = %q, want %q", result, expected)
	}
}

func TestRenderVision(t *testing.T) {
	p := &Prompts{
		Metadata: MetadataPrompts{
			Vision: "{{.FrameCount}} frames from {{.FileName}}",
		},
	}

	result, err := p.RenderVision(VisionParams{FileName: "clip.mp4", FrameCount: 3})
	if err != nil {
		t.Fatalf("RenderVision() error = %v", err)
	}

	expected := "3 frames from clip.mp4"
	if result != expected {
		t.Errorf("RenderVision() = %q, want %q", result, expected)
	}
}

func TestRenderFilename(t *testing.T) {
	p := Defaults()

	result, err := p.RenderFilename(FilenameParams{FileName: "sunset timelapse"})
	if err != nil {
		t.Fatalf("RenderFilename() error = %v", err)
	}

	if !strings.Contains(result, "sunset timelapse") {
		t.Errorf("RenderFilename() = %q, want file name included", result)
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	p := &Prompts{
		Metadata: MetadataPrompts{
			Transcript: "{{.Invalid",
		},
	}

	_, err := p.RenderTranscript(TranscriptParams{FileName: "clip.mp4"})
	if err == nil {
		t.Error("expected error for invalid template")
	}
}
