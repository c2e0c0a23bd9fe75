package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/stlc-manager/internal/adapter/memory"
	"github.com/alanyang/stlc-manager/internal/domain/event"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
)

func TestPromptRepository_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPromptRepository()

	_, err := repo.Get(ctx, process.TypeCodeReview)
	assert.True(t, errors.Is(err, domainprompt.ErrNotFound))

	ok, err := repo.InsertIfAbsent(ctx, domainprompt.Template{ProcessType: process.TypeCodeReview, PromptText: "first"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.InsertIfAbsent(ctx, domainprompt.Template{ProcessType: process.TypeCodeReview, PromptText: "second"})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, process.TypeCodeReview)
	require.NoError(t, err)
	assert.Equal(t, "first", got.PromptText)
	assert.NotZero(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPromptRepository_ConcurrentInsertKeepsOne(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPromptRepository()

	var wg sync.WaitGroup
	results := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := repo.InsertIfAbsent(ctx, domainprompt.Template{ProcessType: process.TypeTestPlanning, PromptText: "x"})
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	var inserted int
	for ok := range results {
		if ok {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)
}

func TestPromptRepository_ListSorted(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPromptRepository()
	for _, pt := range []process.Type{process.TypeTestPlanning, process.TypeCodeReview} {
		_, err := repo.InsertIfAbsent(ctx, domainprompt.Template{ProcessType: pt, PromptText: "p"})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, process.TypeCodeReview, all[0].ProcessType)
}

func TestSessionRepository_NamespacedUpsert(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()

	_, err := repo.Get(ctx, "s1")
	assert.True(t, errors.Is(err, domainsession.ErrNotFound))

	review := domainsession.ProcessResult{Output: map[string]string{"review": "r"}, UsedPrompt: "p"}
	plan := domainsession.ProcessResult{Output: map[string]string{"plan": "p"}, UsedPrompt: "p"}
	require.NoError(t, repo.UpsertProcess(ctx, "s1", process.TypeCodeReview, review))
	require.NoError(t, repo.UpsertProcess(ctx, "s1", process.TypeTestPlanning, plan))

	rec, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, rec.Processes, 2)

	// Mutating the returned record does not leak into the store.
	delete(rec.Processes, process.TypeCodeReview)
	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.Processes, 2)
}

func TestEventBus_DeliversByChannel(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()

	var runEvents, promptEvents []event.Type
	runSub, err := bus.Subscribe(ctx, event.ChannelRun, func(_ context.Context, e event.Event) { runEvents = append(runEvents, e.Type) })
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, event.ChannelPrompt, func(_ context.Context, e event.Event) { promptEvents = append(promptEvents, e.Type) })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeRunCompleted, process.TypeCodeReview, "s")))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeTemplateCreated, process.TypeCodeReview, "")))
	runSub.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeRunFailed, process.TypeCodeReview, "s")))

	assert.Equal(t, []event.Type{event.TypeRunCompleted}, runEvents)
	assert.Equal(t, []event.Type{event.TypeTemplateCreated}, promptEvents)
}

func TestLocker_TryWithLock(t *testing.T) {
	l := memory.NewLocker()
	err := l.WithLock(context.Background(), 1, func(ctx context.Context) error {
		ran, err := l.TryWithLock(ctx, 1, func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.False(t, ran)

		ran, err = l.TryWithLock(ctx, 2, func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.True(t, ran)
		return nil
	})
	require.NoError(t, err)
}

func TestIdempotencyCache_FirstResponseWins(t *testing.T) {
	ctx := context.Background()
	c := memory.NewIdempotencyCache(0)

	_, found, err := c.Check(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Store(ctx, "k", "code_review", []byte("one")))
	require.NoError(t, c.Store(ctx, "k", "code_review", []byte("two")))

	got, found, err := c.Check(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "one", string(got))
}
