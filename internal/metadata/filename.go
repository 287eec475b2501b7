package metadata

import (
	"context"
	"path/filepath"
	"strings"
)

// TextGenerator produces metadata from text-only signals.
type TextGenerator interface {
	FromTranscript(ctx context.Context, fileName, transcript string) (*Metadata, error)
	FromFileName(ctx context.Context, fileName string) (*Metadata, error)
}

// FilenameStrategy is the terminal strategy. It asks the model for
// metadata based on the file name alone and degrades to a deterministic
// placeholder when the call errors, so it can never fail.
type FilenameStrategy struct {
	generator TextGenerator
}

func NewFilenameStrategy(generator TextGenerator) *FilenameStrategy {
	return &FilenameStrategy{generator: generator}
}

func (s *FilenameStrategy) Name() string { return "filename" }

func (s *FilenameStrategy) Attempt(ctx context.Context, src Source, _ Prior) (*Result, error) {
	m, err := s.generator.FromFileName(ctx, CleanName(src.FileName))
	if err != nil || m == nil {
		return &Result{Metadata: fallbackMetadata(src.FileName)}, nil
	}
	return &Result{Metadata: *m}, nil
}

// CleanName turns a file name into a human-readable title candidate by
// stripping the extension and replacing separators with spaces.
func CleanName(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

func fallbackMetadata(fileName string) Metadata {
	name := CleanName(fileName)
	if name == "" {
		name = "Untitled video"
	}
	return Metadata{
		Title:       "[AI Failed] " + name,
		Description: "Uploaded automatically.",
		Tags:        []string{"video", "shorts"},
	}
}
