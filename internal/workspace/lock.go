package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// LockFile coordinates access to a workspace root between processes.
	LockFile = ".roy-workspaces.lock"

	lockPollInterval = 50 * time.Millisecond
)

// ErrLockTimeout is returned when the root lock could not be acquired in time.
var ErrLockTimeout = errors.New("timeout waiting for workspace lock")

// withLock runs fn while holding the root lock. Writers take it exclusively
// and readers share it. A reader against a root that does not exist yet runs
// unlocked, since there is nothing to protect and no place for the lock file.
func (m *Manager) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	mode := "shared"
	if exclusive {
		mode = "exclusive"
		if err := os.MkdirAll(m.root, 0755); err != nil {
			return fmt.Errorf("creating workspace root: %w", err)
		}
	} else if _, err := os.Stat(m.root); errors.Is(err, fs.ErrNotExist) {
		return fn()
	}

	fl := flock.New(filepath.Join(m.root, LockFile))
	start := time.Now()

	var (
		locked bool
		err    error
	)
	if m.lockTimeout <= 0 {
		if exclusive {
			locked, err = fl.TryLock()
		} else {
			locked, err = fl.TryRLock()
		}
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
		defer cancel()
		if exclusive {
			locked, err = fl.TryLockContext(lockCtx, lockPollInterval)
		} else {
			locked, err = fl.TryRLockContext(lockCtx, lockPollInterval)
		}
	}
	if !locked {
		if ctx.Err() != nil {
			return fmt.Errorf("acquiring %s workspace lock: %w", mode, ctx.Err())
		}
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("acquiring %s workspace lock: %w", mode, err)
		}
		return fmt.Errorf("%w: %s lock not acquired after %v (another process may be writing - try again in a moment)",
			ErrLockTimeout, mode, time.Since(start).Round(time.Millisecond))
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			slog.Warn("releasing workspace lock", "path", fl.Path(), "error", err)
		}
	}()

	slog.Debug("acquired workspace lock", "mode", mode, "path", fl.Path(), "waited", time.Since(start))
	return fn()
}
