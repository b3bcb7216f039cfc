package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a decoded metadata file. Numbers are kept as json.Number so a
// merge never changes how an untouched value is written back.
type Document map[string]any

// ParseDocument decodes data, which must hold a single JSON object.
func ParseDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidInput)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidInput)
	}
	return doc, nil
}

// TaskID returns the task_id field, or "" when absent.
func (d Document) TaskID() string { return d.str("task_id") }

// DirectoryName returns the directory_name field.
func (d Document) DirectoryName() string { return d.str("directory_name") }

// Title returns the task_title field.
func (d Document) Title() string { return d.str("task_title") }

// CreatedAt returns the created_at field.
func (d Document) CreatedAt() string { return d.str("created_at") }

// Stage returns workflow_state.current_stage.
func (d Document) Stage() string {
	state, _ := d["workflow_state"].(map[string]any)
	s, _ := state["current_stage"].(string)
	return s
}

// Progress returns workflow_state.stage_progress as written, or "" when it is
// missing or not a number.
func (d Document) Progress() string {
	state, _ := d["workflow_state"].(map[string]any)
	n, _ := state["stage_progress"].(json.Number)
	return n.String()
}

func (d Document) str(key string) string {
	s, _ := d[key].(string)
	return s
}

// marshalIndent renders v the way metadata files are stored: two-space
// indentation, no HTML escaping, trailing newline.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
