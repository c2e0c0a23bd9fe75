package prompt

//go:generate mockgen -destination=../../mocks/mock_prompt_repository.go -package=mocks -mock_names=Repository=MockPromptRepository github.com/alanyang/stlc-manager/internal/port/prompt Repository

import (
	"context"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
)

// Repository is the storage abstraction for base prompt templates.
// Postgres and in-memory implementations are interchangeable.
type Repository interface {
	// Get returns the template for the process type, or domainprompt.ErrNotFound.
	Get(ctx context.Context, processType process.Type) (domainprompt.Template, error)

	// InsertIfAbsent stores t unless a template for t.ProcessType already exists.
	// It reports whether the row was inserted; an existing template is not an error.
	InsertIfAbsent(ctx context.Context, t domainprompt.Template) (bool, error)

	// List returns every stored template ordered by process type.
	List(ctx context.Context) ([]domainprompt.Template, error)
}
