package event

import (
	"time"

	"github.com/alanyang/stlc-manager/internal/domain/process"
)

type Type string

const (
	TypeRunCompleted    Type = "run_completed"
	TypeRunFailed       Type = "run_failed"
	TypeTemplateCreated Type = "template_created"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
type Channel string

const (
	ChannelRun    Channel = "run"
	ChannelPrompt Channel = "prompt"
)

var typeToChannel = map[Type]Channel{
	TypeRunCompleted:    ChannelRun,
	TypeRunFailed:       ChannelRun,
	TypeTemplateCreated: ChannelPrompt,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the appropriate repository.
type Event struct {
	Type        Type         `json:"type"`
	ProcessType process.Type `json:"process_type"`
	SessionID   string       `json:"session_id,omitempty"`
	Detail      string       `json:"detail,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

func New(eventType Type, processType process.Type, sessionID string) Event {
	return Event{
		Type:        eventType,
		ProcessType: processType,
		SessionID:   sessionID,
		Timestamp:   time.Now().UTC(),
	}
}
