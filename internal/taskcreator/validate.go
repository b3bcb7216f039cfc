package taskcreator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/roy-tools/roy/internal/archon"
	"github.com/roy-tools/roy/internal/extprops"
	"github.com/roy-tools/roy/internal/schema"
)

// Report is the outcome of the post-creation validation pass.
type Report struct {
	TaskID         string             `json:"task_id"`
	TaskExists     bool               `json:"task_exists"`
	PropsExists    bool               `json:"extended_props_exists"`
	PropertiesPath string             `json:"extended_props_path"`
	Task           *archon.Task       `json:"task,omitempty"`
	Properties     *extprops.Document `json:"extended_props,omitempty"`
	Errors         []string           `json:"errors"`
}

// OK reports whether the validation pass found no problems.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

func (r *Report) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Validate re-fetches the task from the service and re-reads its
// extended-properties file. Every problem is collected into the report;
// Validate itself never fails.
func (c *Creator) Validate(ctx context.Context, taskID string) *Report {
	report := &Report{TaskID: taskID, Errors: []string{}}

	task, err := c.service.GetTask(ctx, taskID)
	if err != nil {
		report.addError("Failed to query task: %v", err)
	} else {
		report.TaskExists = true
		report.Task = task
	}

	path, err := extprops.Path(c.propsDir, taskID)
	if err != nil {
		report.addError("Failed to locate extended properties: %v", err)
		return report
	}
	report.PropertiesPath = path

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		report.addError("Extended properties file not found: %s", path)
		return report
	}
	report.PropsExists = true

	doc, data, err := extprops.Read(c.propsDir, taskID)
	if err != nil {
		report.addError("Failed to read extended properties: %v", err)
		return report
	}
	report.Properties = doc

	result, err := schema.ValidateExtendedProperties(data)
	if err != nil {
		report.addError("Failed to validate extended properties: %v", err)
		return report
	}
	for _, issue := range result.Issues {
		report.addError("Extended properties schema: %s", issue)
	}
	return report
}

// MarshalJSON keeps Task as the raw service response when one was captured.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	out := struct {
		*alias
		Task json.RawMessage `json:"task,omitempty"`
	}{alias: (*alias)(r)}
	if r.Task != nil {
		if len(r.Task.Raw) > 0 {
			out.Task = r.Task.Raw
		} else {
			raw, err := json.Marshal(r.Task)
			if err != nil {
				return nil, err
			}
			out.Task = raw
		}
	}
	return json.Marshal(out)
}
