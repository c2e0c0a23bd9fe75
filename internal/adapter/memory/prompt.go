package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
)

// PromptRepository implements port/prompt.Repository in process memory.
type PromptRepository struct {
	mu        sync.RWMutex
	templates map[process.Type]domainprompt.Template
}

func NewPromptRepository() *PromptRepository {
	return &PromptRepository{templates: make(map[process.Type]domainprompt.Template)}
}

func (r *PromptRepository) Get(_ context.Context, processType process.Type) (domainprompt.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[processType]
	if !ok {
		return domainprompt.Template{}, fmt.Errorf("%w: %s", domainprompt.ErrNotFound, processType)
	}
	return t, nil
}

func (r *PromptRepository) InsertIfAbsent(_ context.Context, t domainprompt.Template) (bool, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.ProcessType]; ok {
		return false, nil
	}
	r.templates[t.ProcessType] = t
	return true, nil
}

func (r *PromptRepository) List(_ context.Context) ([]domainprompt.Template, error) {
	r.mu.RLock()
	out := make([]domainprompt.Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ProcessType < out[j].ProcessType })
	return out, nil
}
