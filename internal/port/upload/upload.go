package upload

//go:generate mockgen -destination=../../mocks/mock_upload_storage.go -package=mocks -mock_names=Storage=MockUploadStorage github.com/alanyang/stlc-manager/internal/port/upload Storage

import (
	"context"
	"time"

	domainupload "github.com/alanyang/stlc-manager/internal/domain/upload"
)

// Storage keeps the uploads of one run in a run-scoped location so that
// concurrent runs with same-named files never share a path.
type Storage interface {
	// Save writes files under a fresh run directory and returns the run id
	// together with the stored files in input order.
	Save(ctx context.Context, sessionID string, files []domainupload.File) (runID string, stored []domainupload.Stored, err error)

	// Read returns the content of a stored file.
	Read(ctx context.Context, f domainupload.Stored) ([]byte, error)

	// RemoveRun deletes everything saved under runID.
	RemoveRun(ctx context.Context, runID string) error

	// Sweep removes run directories last modified before cutoff and returns
	// how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
