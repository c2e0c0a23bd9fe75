//go:build integration

package idempotency_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgidem "github.com/alanyang/stlc-manager/internal/adapter/postgres/idempotency"
	"github.com/alanyang/stlc-manager/internal/testutil"
)

func TestIdempotencyRepo_StoreAndCheck(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgidem.New(pool)
	key := uuid.NewString()

	_, found, err := repo.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Store(ctx, key, "code_review", []byte(`{"status":"success"}`)))
	// Second store keeps the first response.
	require.NoError(t, repo.Store(ctx, key, "code_review", []byte(`{"status":"other"}`)))

	got, found, err := repo.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"status":"success"}`, string(got))
}

func TestIdempotencyRepo_Purge(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgidem.New(pool)
	key := uuid.NewString()

	require.NoError(t, repo.Store(ctx, key, "code_review", []byte(`{}`)))
	_, err := repo.Purge(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, found, err := repo.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}
