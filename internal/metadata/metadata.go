// Package metadata generates YouTube titles, descriptions and tags for
// videos discovered in Drive, preferring transcript-grounded generation,
// then frame-based vision, then filename-only generation. The selector
// never fails: when every generative path errors it falls back to a
// deterministic placeholder built from the file name.
package metadata

import (
	"context"
	"errors"
	"log/slog"
)

type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Source identifies the video a strategy works on.
type Source struct {
	DriveID  string
	FileName string
}

// Prior carries state produced by earlier strategies in the same
// selector run. A vision strategy declines to run when a transcript
// already exists.
type Prior struct {
	Transcript string
}

// Result is the selector output. Transcript is carried even when the
// strategy that produced it did not win, so callers can persist it.
type Result struct {
	Metadata   Metadata
	Transcript string
	Strategy   string
}

// ErrSkip is returned by a strategy that declines to run for a source.
var ErrSkip = errors.New("strategy not applicable")

// Strategy attempts one generation path. A partial Result may accompany
// an error when the strategy produced useful state before failing, such
// as a transcript whose LLM call errored.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, src Source, prior Prior) (*Result, error)
}

// Selector runs strategies in order and returns the first success. It
// never returns an error: the terminal strategy cannot fail, and a
// placeholder covers an empty strategy list.
type Selector struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewSelector(logger *slog.Logger, strategies ...Strategy) *Selector {
	return &Selector{strategies: strategies, logger: logger}
}

func (s *Selector) Generate(ctx context.Context, src Source) *Result {
	var prior Prior
	for _, st := range s.strategies {
		res, err := st.Attempt(ctx, src, prior)
		if err != nil {
			if errors.Is(err, ErrSkip) {
				s.logger.Debug("metadata strategy skipped",
					"strategy", st.Name(), "file", src.FileName)
				continue
			}
			if res != nil && res.Transcript != "" {
				prior.Transcript = res.Transcript
			}
			s.logger.Warn("metadata strategy failed",
				"strategy", st.Name(),
				"file", src.FileName,
				"error", err)
			continue
		}
		if res.Transcript == "" {
			res.Transcript = prior.Transcript
		}
		res.Metadata = Normalize(res.Metadata)
		res.Strategy = st.Name()
		return res
	}

	return &Result{
		Metadata:   Normalize(fallbackMetadata(src.FileName)),
		Transcript: prior.Transcript,
		Strategy:   "fallback",
	}
}
