package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
)

// Repository implements port/session.Repository. Each process type is a key of
// the processes JSONB column, so concurrent runs of different processes for
// the same session merge instead of overwriting each other.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) UpsertProcess(ctx context.Context, sessionID string, processType process.Type, res domainsession.ProcessResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling process result: %w", err)
	}

	query := `
		INSERT INTO sessions (session_id, processes, created_at, updated_at)
		VALUES ($1, jsonb_build_object($2::text, $3::jsonb), NOW(), NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET processes  = sessions.processes || jsonb_build_object($2::text, $3::jsonb),
		    updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, sessionID, string(processType), string(payload)); err != nil {
		return fmt.Errorf("upserting session %s: %w", sessionID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, sessionID string) (domainsession.Record, error) {
	query := `SELECT session_id, processes, created_at, updated_at FROM sessions WHERE session_id = $1`

	var (
		rec       domainsession.Record
		processes []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&rec.SessionID, &processes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainsession.Record{}, fmt.Errorf("%w: %s", domainsession.ErrNotFound, sessionID)
		}
		return domainsession.Record{}, fmt.Errorf("querying session: %w", err)
	}

	if err := json.Unmarshal(processes, &rec.Processes); err != nil {
		return domainsession.Record{}, fmt.Errorf("decoding session processes: %w", err)
	}
	return rec, nil
}
