package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyang/stlc-manager/internal/chunker"
	"github.com/alanyang/stlc-manager/internal/domain/event"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	domainupload "github.com/alanyang/stlc-manager/internal/domain/upload"
	portbus "github.com/alanyang/stlc-manager/internal/port/eventbus"
	portgen "github.com/alanyang/stlc-manager/internal/port/generation"
	portupload "github.com/alanyang/stlc-manager/internal/port/upload"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoFiles           = fmt.Errorf("%w: no files uploaded", ErrInvalidInput)
	ErrTypeCountMismatch = fmt.Errorf("%w: number of types must match number of files", ErrInvalidInput)
	ErrNoPrompt          = errors.New("no prompt configured")
	ErrGenerationFailed  = errors.New("generation failed")
)

// DefaultThreshold is the estimated token count above which a prompt is
// chunked.
const DefaultThreshold = 4000

// UnknownSessionID is reported to callers that did not supply a session id.
const UnknownSessionID = "unknown"

// FailurePolicy decides what a failed chunk does to a chunked run.
type FailurePolicy string

const (
	// PolicyFailFast aborts the run on the first failed chunk.
	PolicyFailFast FailurePolicy = "fail_fast"
	// PolicyBestEffort skips failed or empty chunks and combines the rest.
	PolicyBestEffort FailurePolicy = "best_effort"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyFailFast:
		return PolicyFailFast, nil
	case PolicyBestEffort:
		return PolicyBestEffort, nil
	default:
		return "", fmt.Errorf("unknown chunk failure policy %q", s)
	}
}

// PromptStore is the subset of the prompt service a run needs.
type PromptStore interface {
	GetBase(ctx context.Context, processType process.Type) (domainprompt.Template, bool)
	GetSuffix(ctx context.Context, processType process.Type) string
}

// SessionStore persists run results.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, processType process.Type, r domainsession.ProcessResult) error
}

// Request is one submitted run.
type Request struct {
	Files        []domainupload.File
	Types        []string
	ModelKey     string
	CustomPrompt string
	SessionID    string
}

// Result is what a successful run returns to the caller.
type Result struct {
	Config       process.Config
	Files        string
	Output       string
	Source       domainprompt.Source
	SessionID    string
	RecordID     string
	Model        string
	Chunks       int
	EditedPrompt bool
}

type Options struct {
	Threshold int
	Policy    FailurePolicy
	Now       func() time.Time
}

func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Policy: PolicyFailFast, Now: time.Now}
}

// Service is the single Process Runner. Every template-driven process runs
// through it; the per-process differences live in process.Config.
type Service struct {
	registry *process.Registry
	prompts  PromptStore
	sessions SessionStore
	gen      portgen.Generator
	uploads  portupload.Storage
	chunker  *chunker.Chunker
	bus      portbus.EventBus
	opts     Options
}

func NewService(
	registry *process.Registry,
	prompts PromptStore,
	sessions SessionStore,
	gen portgen.Generator,
	uploads portupload.Storage,
	chk *chunker.Chunker,
	bus portbus.EventBus,
	opts Options,
) *Service {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Policy == "" {
		opts.Policy = PolicyFailFast
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		registry: registry,
		prompts:  prompts,
		sessions: sessions,
		gen:      gen,
		uploads:  uploads,
		chunker:  chk,
		bus:      bus,
		opts:     opts,
	}
}

// Run executes one process end to end: validate, ingest, resolve model and
// prompt, assemble, generate (chunked when large), persist, clean up.
func (s *Service) Run(ctx context.Context, processName string, req Request) (res Result, err error) {
	cfg, err := s.registry.Lookup(processName)
	if err != nil {
		return Result{}, err
	}
	res.Config = cfg

	if err := validate(cfg, req); err != nil {
		return Result{}, err
	}

	log := slog.With("process", cfg.Type, "session_id", req.SessionID)
	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "process run failed", "error", err)
			s.publish(ctx, event.TypeRunFailed, cfg.Type, req.SessionID, err.Error())
		}
	}()

	code, requirements, err := s.ingest(ctx, cfg, req)
	if err != nil {
		return Result{}, err
	}

	res.Model = s.gen.ResolveModel(req.ModelKey)

	base, hasBase := s.prompts.GetBase(ctx, cfg.Type)
	template := req.CustomPrompt
	res.Source = domainprompt.SourceCustom
	if template == "" {
		if !hasBase || base.PromptText == "" {
			return Result{}, fmt.Errorf("%w for %s", ErrNoPrompt, cfg.Type)
		}
		template = base.PromptText
		res.Source = domainprompt.SourceBase
	}

	now := s.opts.Now()
	assembled := s.assemble(ctx, cfg, template, code, requirements, now)

	res.Output, res.Chunks, err = s.generate(ctx, cfg, res.Model, assembled)
	if err != nil {
		return Result{}, err
	}

	names := make([]string, len(req.Files))
	for i, f := range req.Files {
		names[i] = f.Name
	}
	res.Files = "Files analyzed:\n" + strings.Join(names, "\n")

	res.EditedPrompt = domainprompt.IsEdited(req.CustomPrompt, base.PromptText)
	res.SessionID = req.SessionID
	res.RecordID = req.SessionID
	if req.SessionID == "" {
		res.SessionID = UnknownSessionID
		res.RecordID = domainsession.DeriveID(now)
	}

	record := domainsession.ProcessResult{
		Output:       map[string]string{"files": res.Files, cfg.SessionOutputKey: res.Output},
		EditedPrompt: res.EditedPrompt,
		UsedPrompt:   template,
		UsedModel:    res.Model,
		Timestamp:    now.UTC(),
	}
	if err := s.sessions.Save(ctx, res.RecordID, cfg.Type, record); err != nil {
		if !errors.Is(err, domainsession.ErrMissingField) {
			return Result{}, err
		}
		log.WarnContext(ctx, "run result not persisted", "error", err)
	}

	log.InfoContext(ctx, "process run completed",
		"record_id", res.RecordID, "model", res.Model, "chunks", res.Chunks, "source", res.Source)
	s.publish(ctx, event.TypeRunCompleted, cfg.Type, res.RecordID, "")
	return res, nil
}

func validate(cfg process.Config, req Request) error {
	if len(req.Files) == 0 {
		return ErrNoFiles
	}
	if cfg.RequiresTypes && len(req.Types) != len(req.Files) {
		return fmt.Errorf("%w (got %d types for %d files)", ErrTypeCountMismatch, len(req.Types), len(req.Files))
	}
	return nil
}

// ingest stores the uploads in a run-scoped location, reads them back and
// splits them into the code and requirement buckets. The run directory is
// removed before returning; removal failures are only logged.
func (s *Service) ingest(ctx context.Context, cfg process.Config, req Request) (code, requirements string, err error) {
	runID, stored, err := s.uploads.Save(ctx, req.SessionID, req.Files)
	if runID != "" {
		defer func() {
			if rerr := s.uploads.RemoveRun(context.WithoutCancel(ctx), runID); rerr != nil {
				slog.WarnContext(ctx, "failed to remove uploaded files", "run_id", runID, "error", rerr)
			}
		}()
	}
	if err != nil {
		return "", "", fmt.Errorf("store uploads: %w", err)
	}

	var codeBuf, reqBuf strings.Builder
	for i, f := range stored {
		data, err := s.uploads.Read(ctx, f)
		if err != nil {
			return "", "", fmt.Errorf("read uploads: %w", err)
		}
		var tag string
		if i < len(req.Types) {
			tag = req.Types[i]
		}
		switch cfg.Classify(f.Name, tag) {
		case process.BucketRequirement:
			reqBuf.Write(data)
			reqBuf.WriteString("\n")
		default:
			fmt.Fprintf(&codeBuf, "\n\n### File: %s\n\n", f.Name)
			codeBuf.Write(data)
		}
	}
	return codeBuf.String(), reqBuf.String(), nil
}

func (s *Service) assemble(ctx context.Context, cfg process.Config, template, code, requirements string, now time.Time) string {
	full := template
	if cfg.AppendSuffix {
		full += s.prompts.GetSuffix(ctx, cfg.Type)
	}

	values := make(map[string]string, len(cfg.Placeholders))
	for _, p := range cfg.Placeholders {
		switch p {
		case process.PlaceholderCode:
			values[p] = code
		case process.PlaceholderRequirementDocument:
			values[p] = requirements
		case process.PlaceholderToday:
			values[p] = now.Format(time.DateOnly)
		}
	}
	return domainprompt.Substitute(full, values)
}

// generate calls the model once, or once per chunk in order when the
// assembled prompt is over the threshold.
func (s *Service) generate(ctx context.Context, cfg process.Config, model, prompt string) (string, int, error) {
	if s.chunker.Estimate(prompt) <= s.opts.Threshold {
		out, err := s.gen.Generate(ctx, model, prompt)
		if err != nil {
			return "", 1, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		if strings.TrimSpace(out) == "" {
			return "", 1, fmt.Errorf("%w: empty response", ErrGenerationFailed)
		}
		return out, 1, nil
	}

	chunks := s.chunker.Split(prompt)
	slog.InfoContext(ctx, "prompt over threshold, generating in chunks",
		"process", cfg.Type, "chunks", len(chunks), "policy", s.opts.Policy)

	outputs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := s.gen.Generate(ctx, model, chunk)
		if err == nil && strings.TrimSpace(out) == "" {
			err = errors.New("empty response")
		}
		if err != nil {
			if s.opts.Policy == PolicyFailFast {
				return "", len(chunks), fmt.Errorf("%w: chunk %d of %d: %w", ErrGenerationFailed, i+1, len(chunks), err)
			}
			slog.WarnContext(ctx, "skipping failed chunk", "process", cfg.Type, "chunk", i+1, "error", err)
			continue
		}
		outputs = append(outputs, out)
	}
	if len(outputs) == 0 {
		return "", len(chunks), fmt.Errorf("%w: no chunk produced output", ErrGenerationFailed)
	}
	return cfg.CombineHeading + "\n\n" + strings.Join(outputs, "\n\n"), len(chunks), nil
}

func (s *Service) publish(ctx context.Context, t event.Type, pt process.Type, sessionID, detail string) {
	if s.bus == nil {
		return
	}
	e := event.New(t, pt, sessionID)
	e.Detail = detail
	if err := s.bus.Publish(context.WithoutCancel(ctx), e); err != nil {
		slog.ErrorContext(ctx, "failed to publish run event", "type", t, "error", err)
	}
}
