package locker

//go:generate mockgen -destination=../../mocks/mock_locker.go -package=mocks github.com/alanyang/stlc-manager/internal/port/locker AdvisoryLocker

import "context"

// Lock keys used across the service.
const (
	KeySeedTemplates    int64 = 0x5354_4c43_0001
	KeyIdempotencyPurge int64 = 0x5354_4c43_0002
)

// AdvisoryLocker serialises critical sections across replicas using Postgres
// session advisory locks. Lock and unlock run on the same DB connection.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error

	// TryWithLock skips fn and returns false when another holder has the lock.
	TryWithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error)
}
