package idempotency

//go:generate mockgen -destination=../../mocks/mock_idempotency_store.go -package=mocks -mock_names=Store=MockIdempotencyStore github.com/alanyang/stlc-manager/internal/port/idempotency Store

import "context"

// Store remembers the response of a completed operation by client key.
type Store interface {
	// Check returns the stored response body and whether the key is known.
	Check(ctx context.Context, key string) ([]byte, bool, error)

	// Store records the response for key. A key that already exists is kept.
	Store(ctx context.Context, key, operation string, response []byte) error
}
