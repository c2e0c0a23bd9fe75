package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alanyang/stlc-manager/internal/domain/event"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
	portbus "github.com/alanyang/stlc-manager/internal/port/eventbus"
	portlocker "github.com/alanyang/stlc-manager/internal/port/locker"
	portprompt "github.com/alanyang/stlc-manager/internal/port/prompt"
)

// View is the public shape of a process's prompt configuration.
type View struct {
	ProcessType  process.Type `json:"process_type"`
	PromptText   string       `json:"prompt_text"`
	SystemSuffix string       `json:"system_suffix"`
}

// Service is the prompt store: base template lookup, suffix resolution with
// built-in fallbacks, insert-only saves and startup seeding.
type Service struct {
	repo     portprompt.Repository
	registry *process.Registry
	bus      portbus.EventBus
	locker   portlocker.AdvisoryLocker
	seeds    []domainprompt.Template
}

func NewService(
	repo portprompt.Repository,
	registry *process.Registry,
	bus portbus.EventBus,
	locker portlocker.AdvisoryLocker,
	seeds []domainprompt.Template,
) *Service {
	return &Service{repo: repo, registry: registry, bus: bus, locker: locker, seeds: seeds}
}

// GetBase returns the stored template for processType. Storage errors are
// logged and reported as absent so callers see "not configured", not a crash.
func (s *Service) GetBase(ctx context.Context, processType process.Type) (domainprompt.Template, bool) {
	t, err := s.repo.Get(ctx, processType)
	if err != nil {
		if !errors.Is(err, domainprompt.ErrNotFound) {
			slog.ErrorContext(ctx, "base prompt lookup failed", "process", processType, "error", err)
		}
		return domainprompt.Template{}, false
	}
	return t, true
}

// GetSuffix never fails: a missing template, an empty stored suffix or an
// unreachable store all fall back to the process's built-in suffix.
func (s *Service) GetSuffix(ctx context.Context, processType process.Type) string {
	t, err := s.repo.Get(ctx, processType)
	if err == nil && t.SystemSuffix != "" {
		return t.SystemSuffix
	}
	if err != nil && !errors.Is(err, domainprompt.ErrNotFound) {
		slog.WarnContext(ctx, "suffix lookup failed, using default", "process", processType, "error", err)
	}

	cfg, lerr := s.registry.Lookup(string(processType))
	if lerr != nil {
		return ""
	}
	return cfg.DefaultSuffix
}

// SaveCustom inserts text as the base template for processType unless one
// already exists. It reports whether the insert happened; failures are
// logged, never returned.
func (s *Service) SaveCustom(ctx context.Context, processType process.Type, text string) bool {
	cfg, err := s.registry.Lookup(string(processType))
	if err != nil {
		slog.WarnContext(ctx, "save prompt for unknown process", "process", processType)
		return false
	}

	t := domainprompt.New(cfg.Type, text, cfg.DefaultSuffix, "Custom "+cfg.Slug+" prompt")
	inserted, err := s.repo.InsertIfAbsent(ctx, t)
	if err != nil {
		slog.ErrorContext(ctx, "save prompt failed", "process", processType, "error", err)
		return false
	}
	if !inserted {
		slog.InfoContext(ctx, "base prompt already exists, not overwriting", "process", processType)
		return false
	}

	s.publishCreated(ctx, cfg.Type)
	return true
}

// Describe returns the stored prompt and effective suffix, or ErrNotFound.
func (s *Service) Describe(ctx context.Context, processType process.Type) (View, error) {
	t, ok := s.GetBase(ctx, processType)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", domainprompt.ErrNotFound, processType)
	}
	suffix := t.SystemSuffix
	if suffix == "" {
		suffix = s.GetSuffix(ctx, processType)
	}
	return View{ProcessType: processType, PromptText: t.PromptText, SystemSuffix: suffix}, nil
}

// EnsureSeeded inserts every built-in template that has no stored
// counterpart. It holds an advisory lock so replicas starting together do
// not race, and is safe to call any number of times.
func (s *Service) EnsureSeeded(ctx context.Context) (int, error) {
	var inserted int
	err := s.locker.WithLock(ctx, portlocker.KeySeedTemplates, func(ctx context.Context) error {
		for _, seed := range s.seeds {
			ok, err := s.repo.InsertIfAbsent(ctx, seed)
			if err != nil {
				return fmt.Errorf("seed %s prompt: %w", seed.ProcessType, err)
			}
			if ok {
				inserted++
				slog.InfoContext(ctx, "seeded base prompt", "process", seed.ProcessType)
				s.publishCreated(ctx, seed.ProcessType)
			}
		}
		return nil
	})
	if err != nil {
		return inserted, fmt.Errorf("ensure seeded: %w", err)
	}
	return inserted, nil
}

func (s *Service) publishCreated(ctx context.Context, processType process.Type) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.New(event.TypeTemplateCreated, processType, "")); err != nil {
		slog.ErrorContext(ctx, "failed to publish TemplateCreated event", "process", processType, "error", err)
	}
}
