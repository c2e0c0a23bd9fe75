package session

//go:generate mockgen -destination=../../mocks/mock_session_repository.go -package=mocks -mock_names=Repository=MockSessionRepository github.com/alanyang/stlc-manager/internal/port/session Repository

import (
	"context"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
)

type Repository interface {
	// UpsertProcess creates the session record if needed and replaces only the
	// sub-record for processType. Other process types are left untouched.
	UpsertProcess(ctx context.Context, sessionID string, processType process.Type, r domainsession.ProcessResult) error

	// Get returns the record or domainsession.ErrNotFound.
	Get(ctx context.Context, sessionID string) (domainsession.Record, error)
}
