package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roy-tools/roy/internal/platform"
	"github.com/roy-tools/roy/internal/scaffold"
	"github.com/roy-tools/roy/internal/timestamp"
)

// Manager creates and queries the workspaces under one root directory.
type Manager struct {
	root        string
	clock       timestamp.Clock
	lockTimeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for created_at and last_updated.
func WithClock(clock timestamp.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithLockTimeout bounds how long an operation waits for the root lock.
// Zero or less means a single attempt.
func WithLockTimeout(d time.Duration) Option {
	return func(m *Manager) { m.lockTimeout = d }
}

// New returns a Manager rooted at root. A relative root is resolved against
// the working directory.
func New(root string, opts ...Option) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root %q: %w", root, err)
	}
	m := &Manager{
		root:        abs,
		clock:       time.Now,
		lockTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Root returns the absolute workspace root.
func (m *Manager) Root() string { return m.root }

// Create makes a new workspace for taskID. The directory name is derived
// from title and made unique among the existing workspaces. On failure
// nothing is left behind.
func (m *Manager) Create(ctx context.Context, taskID, title, description string) (*Metadata, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, fmt.Errorf("%w: task id is required", ErrInvalidInput)
	}

	var meta *Metadata
	err := m.withLock(ctx, true, func() error {
		entries, err := m.scan()
		if err != nil {
			return err
		}

		existing := make(map[string]bool, len(entries))
		for _, e := range entries {
			existing[e.Name] = true
			if e.Doc != nil && e.Doc.TaskID() == taskID {
				return fmt.Errorf("%w: task %s already has workspace %s", ErrAlreadyExists, taskID, e.Name)
			}
		}

		name := GenerateDirectoryName(title, existing)
		meta, err = m.create(name, taskID, title, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created workspace", "task_id", taskID, "dir", meta.WorkspacePath)
	return meta, nil
}

func (m *Manager) create(name, taskID, title, description string) (meta *Metadata, err error) {
	path := filepath.Join(m.root, name)
	if err := os.Mkdir(path, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return nil, fmt.Errorf("creating workspace directory: %w", err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(path); rmErr != nil {
				slog.Warn("removing partial workspace", "dir", path, "error", rmErr)
			}
		}
	}()

	for _, sub := range Subdirectories {
		if err := os.MkdirAll(filepath.Join(path, filepath.FromSlash(sub)), 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", sub, err)
		}
	}

	now := timestamp.Format(m.clock())
	meta = newMetadata(taskID, name, path, title, description, now)

	data, err := marshalIndent(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	if err := platform.WriteFileAtomic(filepath.Join(path, MetadataFile), data, 0644); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	readme := scaffold.WorkspaceData{
		Title:         title,
		TaskID:        taskID,
		DirectoryName: name,
		CreatedAt:     now,
		Description:   description,
		Stage:         meta.WorkflowState.CurrentStage,
		Progress:      meta.WorkflowState.StageProgress,
	}
	if _, err := scaffold.Generate(scaffold.SetWorkspace, readme, path); err != nil {
		return nil, fmt.Errorf("writing README: %w", err)
	}

	return meta, nil
}

// Get returns the metadata of the workspace for taskID. It fails with
// ErrNotFound when none exists and with a *DuplicateTaskError when several
// directories claim the id.
func (m *Manager) Get(ctx context.Context, taskID string) (Document, error) {
	var found entry
	err := m.withLock(ctx, false, func() error {
		var err error
		found, err = m.find(taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return found.Doc, nil
}

// List returns the metadata of every workspace, ordered by directory name.
// Directories without metadata are ignored; unreadable metadata is skipped
// with a warning.
func (m *Manager) List(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := m.withLock(ctx, false, func() error {
		entries, err := m.scan()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Doc != nil {
				docs = append(docs, e.Doc)
			}
		}
		return nil
	})
	return docs, err
}

// UpdateMetadata deep-merges updates into the metadata of the workspace for
// taskID and rewrites it in place. The merged document is returned.
func (m *Manager) UpdateMetadata(ctx context.Context, taskID string, updates map[string]any) (Document, error) {
	var (
		merged Document
		dir    string
	)
	err := m.withLock(ctx, true, func() error {
		found, err := m.find(taskID)
		if err != nil {
			return err
		}

		Merge(found.Doc, updates)

		data, err := marshalIndent(found.Doc)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		if err := platform.WriteFileAtomic(filepath.Join(found.Path, MetadataFile), data, 0644); err != nil {
			return fmt.Errorf("writing metadata: %w", err)
		}
		merged, dir = found.Doc, found.Path
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("updated workspace metadata", "task_id", taskID, "dir", dir)
	return merged, nil
}

// entry is one candidate workspace directory found by scan.
type entry struct {
	Name string
	Path string

	// Doc is nil when the directory has no metadata or it could not be read.
	Doc Document
	// Err is set when metadata exists but could not be read or decoded.
	Err error
}

// scan lists the non-hidden directories of the root in name order, reading
// the metadata of each. A missing root yields no entries.
func (m *Manager) scan() ([]entry, error) {
	dirEntries, err := os.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading workspace root: %w", err)
	}

	var entries []entry
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(m.root, name)
		if !isDir(de, path) {
			continue
		}

		e := entry{Name: name, Path: path}
		data, err := os.ReadFile(filepath.Join(path, MetadataFile))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			e.Err = err
		default:
			e.Doc, e.Err = ParseDocument(data)
		}
		if e.Err != nil {
			slog.Warn("skipping workspace with unreadable metadata", "dir", name, "error", e.Err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m *Manager) find(taskID string) (entry, error) {
	entries, err := m.scan()
	if err != nil {
		return entry{}, err
	}

	var matches []entry
	for _, e := range entries {
		if e.Doc != nil && e.Doc.TaskID() == taskID {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return entry{}, fmt.Errorf("%w: no workspace for task %s", ErrNotFound, taskID)
	case 1:
		return matches[0], nil
	default:
		dup := &DuplicateTaskError{TaskID: taskID}
		for _, e := range matches {
			dup.Dirs = append(dup.Dirs, e.Name)
		}
		return entry{}, dup
	}
}

// isDir reports whether de is a directory, following symlinks.
func isDir(de fs.DirEntry, path string) bool {
	if de.IsDir() {
		return true
	}
	if de.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
