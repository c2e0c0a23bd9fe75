package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	portsession "github.com/alanyang/stlc-manager/internal/port/session"
)

// Service persists per-process run results into session records.
type Service struct {
	repo portsession.Repository
}

func NewService(repo portsession.Repository) *Service {
	return &Service{repo: repo}
}

// Save upserts the processType sub-record of sessionID. A record missing a
// mandatory field is rejected with domainsession.ErrMissingField before any
// storage call.
func (s *Service) Save(ctx context.Context, sessionID string, processType process.Type, r domainsession.ProcessResult) error {
	if err := r.Validate(sessionID); err != nil {
		slog.WarnContext(ctx, "session not saved", "process", processType, "session_id", sessionID, "error", err)
		return err
	}
	if err := s.repo.UpsertProcess(ctx, sessionID, processType, r); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (domainsession.Record, error) {
	rec, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return domainsession.Record{}, fmt.Errorf("get session: %w", err)
	}
	return rec, nil
}
