package chunker

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// Estimator approximates how many model tokens a text costs.
type Estimator interface {
	Count(text string) int
}

// WordEstimator counts whitespace-delimited words. It is the historical
// heuristic and the default.
type WordEstimator struct{}

func (WordEstimator) Count(text string) int { return len(strings.Fields(text)) }

// TiktokenEstimator counts cl100k_base BPE tokens. Switching to it changes
// where chunk boundaries fall compared with WordEstimator.
type TiktokenEstimator struct {
	codec tokenizer.Codec
}

func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load cl100k tokenizer: %w", err)
	}
	return &TiktokenEstimator{codec: codec}, nil
}

// Count falls back to the word heuristic if encoding fails.
func (e *TiktokenEstimator) Count(text string) int {
	ids, _, err := e.codec.Encode(text)
	if err != nil {
		return WordEstimator{}.Count(text)
	}
	return len(ids)
}

// NewEstimator resolves an estimator by name: "words" (or empty) or "cl100k".
func NewEstimator(name string) (Estimator, error) {
	switch name {
	case "", "words":
		return WordEstimator{}, nil
	case "cl100k", "tiktoken":
		return NewTiktokenEstimator()
	default:
		return nil, fmt.Errorf("unknown token estimator %q", name)
	}
}
