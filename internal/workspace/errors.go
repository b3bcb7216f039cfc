package workspace

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no workspace carries the requested task id.
	ErrNotFound = errors.New("workspace not found")

	// ErrAlreadyExists is returned when a workspace directory or task id is
	// already taken.
	ErrAlreadyExists = errors.New("workspace already exists")

	// ErrInvalidInput is returned for empty task ids and malformed update
	// documents.
	ErrInvalidInput = errors.New("invalid input")
)

// DuplicateTaskError reports a task id claimed by more than one workspace.
type DuplicateTaskError struct {
	TaskID string
	Dirs   []string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %s has %d workspaces: %s", e.TaskID, len(e.Dirs), strings.Join(e.Dirs, ", "))
}
