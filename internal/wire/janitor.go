package wire

import (
	"context"
	"log/slog"
	"time"

	portlocker "github.com/alanyang/stlc-manager/internal/port/locker"
	portupload "github.com/alanyang/stlc-manager/internal/port/upload"
)

// idempotencyPurger is implemented by both idempotency stores.
type idempotencyPurger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// janitor removes run directories left behind by crashed runs and expires
// stored idempotent responses. Upload directories are local to the replica,
// so every replica sweeps its own; the shared idempotency table is purged by
// whichever replica wins the advisory lock.
type janitor struct {
	uploads        portupload.Storage
	purger         idempotencyPurger
	locker         portlocker.AdvisoryLocker
	uploadMaxAge   time.Duration
	idempotencyTTL time.Duration
	now            func() time.Time
}

// startJanitor runs one pass immediately and then every interval until ctx
// is cancelled.
func startJanitor(ctx context.Context, j *janitor, every time.Duration) {
	go func() {
		j.runOnce(ctx)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.runOnce(ctx)
			}
		}
	}()
}

func (j *janitor) runOnce(ctx context.Context) {
	now := j.now()

	removed, err := j.uploads.Sweep(ctx, now.Add(-j.uploadMaxAge))
	if err != nil {
		slog.ErrorContext(ctx, "janitor: upload sweep failed", "error", err)
	}
	if removed > 0 {
		slog.InfoContext(ctx, "janitor: removed stale upload runs", "count", removed)
	}

	if j.purger == nil {
		return
	}
	acquired, err := j.locker.TryWithLock(ctx, portlocker.KeyIdempotencyPurge, func(ctx context.Context) error {
		n, err := j.purger.Purge(ctx, now.Add(-j.idempotencyTTL))
		if err != nil {
			return err
		}
		if n > 0 {
			slog.InfoContext(ctx, "janitor: purged idempotency keys", "count", n)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "janitor: idempotency purge failed", "error", err)
	} else if !acquired {
		slog.DebugContext(ctx, "janitor: idempotency purge held by another replica")
	}
}
