package chunker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrInvalidOptions = errors.New("invalid chunker options")

// Options control chunk sizing. Sizes are in characters, TokenLimit is in
// estimator units.
type Options struct {
	BaseChunkSize int
	Overlap       int
	TokenLimit    int
	MinChunkSize  int
}

// DefaultOptions match the sizes the runners have always used.
var DefaultOptions = Options{
	BaseChunkSize: 1000,
	Overlap:       100,
	TokenLimit:    4096,
	MinChunkSize:  500,
}

func (o Options) Validate() error {
	switch {
	case o.BaseChunkSize <= 0:
		return fmt.Errorf("%w: base chunk size must be positive", ErrInvalidOptions)
	case o.Overlap < 0:
		return fmt.Errorf("%w: overlap must not be negative", ErrInvalidOptions)
	case o.Overlap >= o.BaseChunkSize:
		return fmt.Errorf("%w: overlap must be smaller than base chunk size", ErrInvalidOptions)
	case o.TokenLimit <= 0:
		return fmt.Errorf("%w: token limit must be positive", ErrInvalidOptions)
	case o.MinChunkSize <= o.Overlap:
		return fmt.Errorf("%w: min chunk size must exceed overlap", ErrInvalidOptions)
	}
	return nil
}

// Chunker splits oversized prompts into overlapping segments sized to stay
// under a model budget.
type Chunker struct {
	estimator Estimator
	opts      Options
}

func New(estimator Estimator, opts Options) (*Chunker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if estimator == nil {
		estimator = WordEstimator{}
	}
	return &Chunker{estimator: estimator, opts: opts}, nil
}

// Estimate returns the token estimate for text.
func (c *Chunker) Estimate(text string) int { return c.estimator.Count(text) }

// ChunkSize returns the character size used for text: the base size when the
// text fits the limit, otherwise the base size shrunk by how far the text
// exceeds the limit, floored at MinChunkSize.
func (c *Chunker) ChunkSize(text string) int {
	tokens := c.estimator.Count(text)
	if tokens <= c.opts.TokenLimit {
		return c.opts.BaseChunkSize
	}
	factor := float64(tokens) / float64(c.opts.TokenLimit)
	return max(int(float64(c.opts.BaseChunkSize)/factor), c.opts.MinChunkSize)
}

// Split returns text as a single chunk when it fits the limit, otherwise the
// ordered overlapping chunks. Blank input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tokens := c.estimator.Count(text)
	if tokens <= c.opts.TokenLimit {
		return []string{text}
	}

	size := c.ChunkSize(text)
	chunks := NewRecursiveSplitter(size, c.opts.Overlap).Split(text)
	slog.Debug("chunker: split prompt",
		"tokens", tokens,
		"limit", c.opts.TokenLimit,
		"chunk_size", size,
		"chunks", len(chunks),
	)
	return chunks
}
