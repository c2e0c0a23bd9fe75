package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/stlc-manager/internal/domain/process"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrMissingField = errors.New("missing session field")
)

// ProcessResult is the sub-record one process run writes into a session.
type ProcessResult struct {
	Output       map[string]string `json:"output"`
	EditedPrompt bool              `json:"edited_prompt"`
	UsedPrompt   string            `json:"used_prompt"`
	UsedModel    string            `json:"used_model"`
	Timestamp    time.Time         `json:"timestamp"`
}

// Record is one caller-identified unit of work. Each process type owns its
// own key in Processes, so runs of different processes never collide.
type Record struct {
	SessionID string                         `json:"session_id"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
	Processes map[process.Type]ProcessResult `json:"processes"`
}

// DeriveID builds a time-based session id for runs submitted without one. The
// random suffix keeps runs landing in the same millisecond apart.
func DeriveID(now time.Time) string {
	return fmt.Sprintf("session-%s-%s", now.UTC().Format("20060102T150405.000Z"), uuid.NewString()[:8])
}

// Validate checks the fields every saved run must carry. The edited flag is
// typed and so always present.
func (r ProcessResult) Validate(sessionID string) error {
	switch {
	case sessionID == "":
		return fmt.Errorf("%w: session_id", ErrMissingField)
	case len(r.Output) == 0:
		return fmt.Errorf("%w: output", ErrMissingField)
	case r.UsedPrompt == "":
		return fmt.Errorf("%w: used_prompt", ErrMissingField)
	}
	return nil
}
