package prompt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
)

// Repository implements port/prompt.Repository using Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, processType process.Type) (domainprompt.Template, error) {
	query := `
		SELECT id, process_type, prompt_text, system_suffix, description, created_at
		FROM prompt_templates WHERE process_type = $1`

	var t domainprompt.Template
	err := r.pool.QueryRow(ctx, query, processType).Scan(
		&t.ID, &t.ProcessType, &t.PromptText, &t.SystemSuffix, &t.Description, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainprompt.Template{}, fmt.Errorf("%w: %s", domainprompt.ErrNotFound, processType)
		}
		return domainprompt.Template{}, fmt.Errorf("querying prompt template: %w", err)
	}
	return t, nil
}

// InsertIfAbsent relies on the process_type primary key: a conflicting row is
// left as is and reported through RowsAffected.
func (r *Repository) InsertIfAbsent(ctx context.Context, t domainprompt.Template) (bool, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO prompt_templates (id, process_type, prompt_text, system_suffix, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (process_type) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, t.ID, t.ProcessType, t.PromptText, t.SystemSuffix, t.Description, t.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting prompt template: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) List(ctx context.Context) ([]domainprompt.Template, error) {
	query := `
		SELECT id, process_type, prompt_text, system_suffix, description, created_at
		FROM prompt_templates ORDER BY process_type`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing prompt templates: %w", err)
	}
	defer rows.Close()

	var out []domainprompt.Template
	for rows.Next() {
		var t domainprompt.Template
		if err := rows.Scan(&t.ID, &t.ProcessType, &t.PromptText, &t.SystemSuffix, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning prompt template row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
