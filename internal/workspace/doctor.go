package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Check inspects every workspace under the root and writes one line per
// finding to w. When fix is true, missing standard subdirectories are
// recreated. It returns the number of problems left unresolved.
func (m *Manager) Check(ctx context.Context, w io.Writer, fix bool) (int, error) {
	problems := 0
	// A fix writes into the root, so it takes the writer lock.
	err := m.withLock(ctx, fix, func() error {
		fmt.Fprintf(w, "Workspace root %s:\n", m.root)

		entries, err := m.scan()
		if err != nil {
			return err
		}

		owners := make(map[string][]string)
		workspaces := 0
		for _, e := range entries {
			switch {
			case e.Err != nil:
				fmt.Fprintf(w, "  [FAIL] %s: unreadable %s: %v\n", e.Name, MetadataFile, e.Err)
				problems++
				continue
			case e.Doc == nil:
				continue
			}
			workspaces++
			problems += m.checkWorkspace(w, e, fix)
			if id := e.Doc.TaskID(); id != "" {
				owners[id] = append(owners[id], e.Name)
			}
		}

		ids := make([]string, 0, len(owners))
		for id := range owners {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if dirs := owners[id]; len(dirs) > 1 {
				fmt.Fprintf(w, "  [FAIL] task %s is claimed by %d workspaces: %v\n", id, len(dirs), dirs)
				problems++
			}
		}

		if problems == 0 {
			fmt.Fprintf(w, "  [ OK ] %d workspace(s) healthy\n", workspaces)
		}
		return nil
	})
	return problems, err
}

func (m *Manager) checkWorkspace(w io.Writer, e entry, fix bool) int {
	problems := 0

	if e.Doc.TaskID() == "" {
		fmt.Fprintf(w, "  [FAIL] %s: metadata has no task_id\n", e.Name)
		problems++
	}
	if name := e.Doc.DirectoryName(); name != e.Name {
		fmt.Fprintf(w, "  [WARN] %s: directory_name is %q\n", e.Name, name)
		problems++
	}

	for _, sub := range Subdirectories {
		path := filepath.Join(e.Path, filepath.FromSlash(sub))
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			continue
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "  [FAIL] %s: %s: %v\n", e.Name, sub, err)
			problems++
			continue
		}
		if err == nil {
			fmt.Fprintf(w, "  [FAIL] %s: %s is not a directory\n", e.Name, sub)
			problems++
			continue
		}

		fmt.Fprintf(w, "  [MISS] %s: %s\n", e.Name, sub)
		if !fix {
			problems++
			continue
		}
		if mkErr := os.MkdirAll(path, 0755); mkErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
			problems++
			continue
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
	}

	return problems
}
