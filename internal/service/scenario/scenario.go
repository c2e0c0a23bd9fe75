package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyang/stlc-manager/internal/domain/event"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainscenario "github.com/alanyang/stlc-manager/internal/domain/scenario"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	domainupload "github.com/alanyang/stlc-manager/internal/domain/upload"
	portbus "github.com/alanyang/stlc-manager/internal/port/eventbus"
	portgen "github.com/alanyang/stlc-manager/internal/port/generation"
)

var (
	ErrInvalidInput = errors.New("invalid scenario request")
	ErrNoFiles      = fmt.Errorf("%w: no files uploaded", ErrInvalidInput)
)

// SessionStore persists run results.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, processType process.Type, r domainsession.ProcessResult) error
}

type RunRequest struct {
	domainscenario.Request
	Files     []domainupload.File
	ModelKey  string
	SessionID string
}

type RunResult struct {
	domainscenario.Result
	Model string `json:"model"`
}

// Service generates structured test scenarios. Unlike the template-driven
// processes it builds its prompt from checkbox selections and expects a JSON
// reply.
type Service struct {
	gen      portgen.Generator
	sessions SessionStore
	bus      portbus.EventBus
	now      func() time.Time
}

func NewService(gen portgen.Generator, sessions SessionStore, bus portbus.EventBus) *Service {
	return &Service{gen: gen, sessions: sessions, bus: bus, now: time.Now}
}

// GeneratePrompt renders the instructions for req without calling the model.
func (s *Service) GeneratePrompt(req domainscenario.Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	return domainscenario.BuildPrompt(req), nil
}

// Run appends the uploaded documents to the generated instructions, makes a
// single completion call and validates the reply.
func (s *Service) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	if len(req.Files) == 0 {
		return RunResult{}, ErrNoFiles
	}
	prompt, err := s.GeneratePrompt(req.Request)
	if err != nil {
		return RunResult{}, err
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\nDocuments:")
	for _, f := range req.Files {
		fmt.Fprintf(&b, "\n\n### File: %s\n\n%s", f.Name, f.Content)
	}

	model := s.gen.ResolveModel(req.ModelKey)
	reply, err := s.gen.Generate(ctx, model, b.String())
	if err != nil {
		s.publish(ctx, event.TypeRunFailed, req.SessionID, err.Error())
		return RunResult{}, fmt.Errorf("generate scenarios: %w", err)
	}

	parsed, err := domainscenario.Parse(reply)
	if err != nil {
		s.publish(ctx, event.TypeRunFailed, req.SessionID, err.Error())
		return RunResult{}, fmt.Errorf("generate scenarios: %w", err)
	}

	if req.SessionID != "" {
		encoded, _ := json.Marshal(parsed)
		rec := domainsession.ProcessResult{
			Output:     map[string]string{"scenarios": string(encoded)},
			UsedPrompt: prompt,
			UsedModel:  model,
			Timestamp:  s.now().UTC(),
		}
		if err := s.sessions.Save(ctx, req.SessionID, process.TypeTestScenarioGeneration, rec); err != nil {
			return RunResult{}, err
		}
	}

	slog.InfoContext(ctx, "scenario generation completed",
		"session_id", req.SessionID, "model", model, "scenarios", len(parsed.Scenarios))
	s.publish(ctx, event.TypeRunCompleted, req.SessionID, "")
	return RunResult{Result: parsed, Model: model}, nil
}

func validate(req domainscenario.Request) error {
	switch {
	case strings.TrimSpace(req.TestType) == "":
		return fmt.Errorf("%w: test_type is required", ErrInvalidInput)
	case strings.TrimSpace(req.TestCategory) == "":
		return fmt.Errorf("%w: test_category is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, t event.Type, sessionID, detail string) {
	if s.bus == nil {
		return
	}
	e := event.New(t, process.TypeTestScenarioGeneration, sessionID)
	e.Detail = detail
	if err := s.bus.Publish(context.WithoutCancel(ctx), e); err != nil {
		slog.ErrorContext(ctx, "failed to publish scenario event", "type", t, "error", err)
	}
}
