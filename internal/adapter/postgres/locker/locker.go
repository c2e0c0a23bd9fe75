package locker

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Locker implements port/locker.AdvisoryLocker using Postgres session advisory locks.
// Lock and unlock must run on the same acquired connection because
// pg_advisory_lock is session-level: unlock on a different connection is a no-op.
type Locker struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Locker {
	return &Locker{pool: pool}
}

// WithLock blocks until the lock for key is held, then runs fn.
func (l *Locker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	_, err := l.run(ctx, false, key, fn)
	return err
}

// TryWithLock runs fn only if the lock for key is free right now. It reports
// whether fn ran.
func (l *Locker) TryWithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error) {
	return l.run(ctx, true, key, fn)
}

func (l *Locker) run(ctx context.Context, try bool, key int64, fn func(ctx context.Context) error) (bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection for advisory lock: %w", err)
	}
	defer conn.Release()

	if try {
		var acquired bool
		if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
			return false, fmt.Errorf("try advisory lock: %w", err)
		}
		if !acquired {
			return false, nil
		}
	} else if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		return false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	// context.Background() ensures unlock fires even if ctx was cancelled mid-fn.
	defer conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", key) //nolint:errcheck

	return true, fn(ctx)
}
