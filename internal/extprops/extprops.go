// Package extprops reads and writes the extended-properties file kept next to
// each task: one JSON document per task id holding the roy workflow state,
// the TDD analysis and optional GitLab passthrough fields.
package extprops

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roy-tools/roy/internal/platform"
	"github.com/roy-tools/roy/internal/tdd"
)

const (
	// StateDraft is the state every new task starts in.
	StateDraft = "Draft"
	// CreatedByCommand records which workflow command produced the file.
	CreatedByCommand = "/roy-task-create"

	fileExt = ".json"
)

// ErrInvalidTaskID is returned for ids that cannot be used as a file name.
var ErrInvalidTaskID = errors.New("invalid task id")

// Document is the extended-properties file for one task.
type Document struct {
	Roy    Roy            `json:"roy"`
	TDD    TDD            `json:"tdd"`
	GitLab map[string]any `json:"gitlab,omitempty"`
}

// Roy holds workflow fields owned by the roy tooling.
type Roy struct {
	State              string   `json:"state"`
	Behavior           string   `json:"behavior"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	ExpectedResults    []string `json:"expected_results"`
	InferredFrom       string   `json:"inferred_from"`
	CreatedByCommand   string   `json:"created_by_command"`
	CreatedAt          string   `json:"created_at"`
	TestStrategy       string   `json:"test_strategy"`
	Tags               []string `json:"tags"`
}

// TDD records how the analysis was produced.
type TDD struct {
	InferenceQuality string `json:"inference_quality"`
}

// New builds a Draft document from an analysis of description.
func New(description string, analysis tdd.Analysis, gitlab map[string]any, createdAt string) *Document {
	quality := analysis.InferenceQuality
	if quality == "" {
		quality = tdd.QualityMedium
	}
	return &Document{
		Roy: Roy{
			State:              StateDraft,
			Behavior:           analysis.Behavior,
			AcceptanceCriteria: nonNil(analysis.AcceptanceCriteria),
			ExpectedResults:    nonNil(analysis.ExpectedResults),
			InferredFrom:       description,
			CreatedByCommand:   CreatedByCommand,
			CreatedAt:          createdAt,
			TestStrategy:       analysis.TestStrategy,
			Tags:               []string{},
		},
		TDD:    TDD{InferenceQuality: quality},
		GitLab: gitlab,
	}
}

// Path returns the file path for taskID inside dir.
func Path(dir, taskID string) (string, error) {
	if err := checkTaskID(taskID); err != nil {
		return "", err
	}
	return filepath.Join(dir, taskID+fileExt), nil
}

// Write stores doc as <dir>/<taskID>.json, creating dir if needed, and
// returns the file path.
func Write(dir, taskID string, doc *Document) (string, error) {
	path, err := Path(dir, taskID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating extended properties directory %s: %w", dir, err)
	}

	data, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	if err := platform.WriteFileExclusive(path, data, 0644); err != nil {
		return "", fmt.Errorf("extended properties for task %s: %w", taskID, err)
	}
	return path, nil
}

// Read loads the document for taskID from dir. The raw file bytes are
// returned alongside the decoded document.
func Read(dir, taskID string) (*Document, []byte, error) {
	path, err := Path(dir, taskID)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading extended properties %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, data, fmt.Errorf("parsing extended properties %s: %w", path, err)
	}
	return &doc, data, nil
}

// Marshal encodes doc as indented JSON without HTML escaping.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding extended properties: %w", err)
	}
	return buf.Bytes(), nil
}

func checkTaskID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidTaskID, id)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
