package tempfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	domainupload "github.com/alanyang/stlc-manager/internal/domain/upload"
)

// runPrefix marks directories owned by this storage so Sweep never touches
// anything else under the root.
const runPrefix = "run-"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Storage implements port/upload.Storage on the local filesystem. Every run
// gets its own directory named after the session id plus a random suffix.
type Storage struct {
	root string
}

func New(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) Root() string { return s.root }

func (s *Storage) Save(ctx context.Context, sessionID string, files []domainupload.File) (string, []domainupload.Stored, error) {
	runID := runPrefix + sanitize(sessionID, "anon") + "-" + uuid.NewString()
	dir := filepath.Join(s.root, runID)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("create run dir: %w", err)
	}

	stored := make([]domainupload.Stored, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return runID, stored, err
		}
		// The index prefix keeps same-named uploads within one run apart.
		path := filepath.Join(dir, fmt.Sprintf("%03d_%s", i, sanitize(filepath.Base(f.Name), "file")))
		if err := os.WriteFile(path, f.Content, 0o600); err != nil {
			return runID, stored, fmt.Errorf("write upload %s: %w", f.Name, err)
		}
		stored = append(stored, domainupload.Stored{File: f, Path: path})
	}
	return runID, stored, nil
}

func (s *Storage) Read(_ context.Context, f domainupload.Stored) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", f.Name, err)
	}
	return data, nil
}

func (s *Storage) RemoveRun(_ context.Context, runID string) error {
	if !strings.HasPrefix(runID, runPrefix) || strings.ContainsAny(runID, `/\`) {
		return fmt.Errorf("remove run: invalid run id %q", runID)
	}
	if err := os.RemoveAll(filepath.Join(s.root, runID)); err != nil {
		return fmt.Errorf("remove run %s: %w", runID, err)
	}
	return nil
}

func (s *Storage) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("list upload root: %w", err)
	}

	var removed int
	var errs []error
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if !e.IsDir() || !strings.HasPrefix(e.Name(), runPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func sanitize(name, fallback string) string {
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return fallback
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
