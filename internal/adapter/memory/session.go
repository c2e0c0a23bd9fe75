package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
)

// SessionRepository implements port/session.Repository in process memory.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domainsession.Record
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]domainsession.Record)}
}

func (r *SessionRepository) UpsertProcess(_ context.Context, sessionID string, processType process.Type, res domainsession.ProcessResult) error {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.sessions[sessionID]
	if !ok {
		rec = domainsession.Record{
			SessionID: sessionID,
			CreatedAt: now,
			Processes: make(map[process.Type]domainsession.ProcessResult),
		}
	}
	rec.UpdatedAt = now
	rec.Processes[processType] = res
	r.sessions[sessionID] = rec
	return nil
}

// Get returns a copy so callers cannot mutate the stored record.
func (r *SessionRepository) Get(_ context.Context, sessionID string) (domainsession.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.sessions[sessionID]
	if !ok {
		return domainsession.Record{}, fmt.Errorf("%w: %s", domainsession.ErrNotFound, sessionID)
	}
	rec.Processes = maps.Clone(rec.Processes)
	return rec, nil
}
