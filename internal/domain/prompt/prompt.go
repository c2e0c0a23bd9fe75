package prompt

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/stlc-manager/internal/domain/process"
)

var ErrNotFound = errors.New("prompt template not found")

// Template stores the base prompt for one process type.
// At most one template exists per ProcessType; it is never overwritten.
type Template struct {
	ID           uuid.UUID    `json:"id"`
	ProcessType  process.Type `json:"process_type"`
	PromptText   string       `json:"prompt_text"`
	SystemSuffix string       `json:"system_suffix"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"created_at"`
}

func New(processType process.Type, text, suffix, description string) Template {
	return Template{
		ID:           uuid.New(),
		ProcessType:  processType,
		PromptText:   text,
		SystemSuffix: suffix,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
}

// Source records where the template used for a run came from.
type Source string

const (
	SourceCustom Source = "custom"
	SourceBase   Source = "base"
)

// Normalize collapses whitespace runs and lowercases, so cosmetic edits do
// not count as a changed prompt.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// IsEdited reports whether a caller-supplied prompt departs from the stored base.
// No custom prompt is never an edit; a custom prompt with no base always is.
func IsEdited(custom, base string) bool {
	if custom == "" {
		return false
	}
	if base == "" {
		return true
	}
	return Normalize(custom) != Normalize(base)
}
