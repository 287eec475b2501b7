package metadata

import (
	"context"
	"fmt"
)

// DefaultPrefixBytes bounds how much of a video file is downloaded for
// speech-to-text. Audio sits at the front of common containers, so a
// prefix is enough for transcription while staying cheap on bandwidth.
const DefaultPrefixBytes = 10 << 20

// PrefixReader reads the leading bytes of a Drive file.
type PrefixReader interface {
	ReadPrefix(ctx context.Context, fileID string, limit int64) ([]byte, error)
}

// Transcriber converts media bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, fileName string, media []byte) (string, error)
}

// TranscriptStrategy downloads a bounded prefix of the video, runs
// speech-to-text on it and grounds the generative call on the resulting
// transcript. The transcript rides along on the error path too, so the
// selector can persist it even when the LLM call fails.
type TranscriptStrategy struct {
	reader      PrefixReader
	transcriber Transcriber
	generator   TextGenerator
	prefixBytes int64
}

func NewTranscriptStrategy(reader PrefixReader, transcriber Transcriber, generator TextGenerator, prefixBytes int64) *TranscriptStrategy {
	if prefixBytes <= 0 {
		prefixBytes = DefaultPrefixBytes
	}
	return &TranscriptStrategy{
		reader:      reader,
		transcriber: transcriber,
		generator:   generator,
		prefixBytes: prefixBytes,
	}
}

func (s *TranscriptStrategy) Name() string { return "transcript" }

func (s *TranscriptStrategy) Attempt(ctx context.Context, src Source, _ Prior) (*Result, error) {
	media, err := s.reader.ReadPrefix(ctx, src.DriveID, s.prefixBytes)
	if err != nil {
		return nil, fmt.Errorf("read media prefix: %w", err)
	}

	transcript, err := s.transcriber.Transcribe(ctx, src.FileName, media)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	m, err := s.generator.FromTranscript(ctx, src.FileName, transcript)
	if err != nil {
		return &Result{Transcript: transcript}, fmt.Errorf("generate from transcript: %w", err)
	}

	return &Result{Metadata: *m, Transcript: transcript}, nil
}
