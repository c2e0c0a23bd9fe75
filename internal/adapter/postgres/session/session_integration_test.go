//go:build integration

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgsession "github.com/alanyang/stlc-manager/internal/adapter/postgres/session"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	"github.com/alanyang/stlc-manager/internal/testutil"
)

func result(key, out string) domainsession.ProcessResult {
	return domainsession.ProcessResult{
		Output:     map[string]string{"files": "Files analyzed:\na.go", key: out},
		UsedPrompt: "prompt",
		UsedModel:  "llama-3.2-1b-instruct",
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestSessionRepo_GetMissing(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := pgsession.New(pool)

	_, err := repo.Get(context.Background(), "missing-"+uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainsession.ErrNotFound))
}

func TestSessionRepo_ProcessesAccumulate(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgsession.New(pool)
	id := "it-" + uuid.NewString()

	require.NoError(t, repo.UpsertProcess(ctx, id, process.TypeCodeReview, result("review", "r1")))
	require.NoError(t, repo.UpsertProcess(ctx, id, process.TypeTestPlanning, result("plan", "p1")))

	rec, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.SessionID)
	require.Len(t, rec.Processes, 2)
	assert.Equal(t, "r1", rec.Processes[process.TypeCodeReview].Output["review"])
	assert.Equal(t, "p1", rec.Processes[process.TypeTestPlanning].Output["plan"])
}

func TestSessionRepo_SameProcessLastWriteWins(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgsession.New(pool)
	id := "it-" + uuid.NewString()

	require.NoError(t, repo.UpsertProcess(ctx, id, process.TypeCodeReview, result("review", "old")))
	second := result("review", "new")
	second.EditedPrompt = true
	require.NoError(t, repo.UpsertProcess(ctx, id, process.TypeCodeReview, second))

	rec, err := repo.Get(ctx, id)
	require.NoError(t, err)
	got := rec.Processes[process.TypeCodeReview]
	assert.Equal(t, "new", got.Output["review"])
	assert.True(t, got.EditedPrompt)
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))
}
