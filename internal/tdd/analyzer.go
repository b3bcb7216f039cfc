// Package tdd derives test-driven-development fields for a task from its
// free-form description.
package tdd

import "context"

// QualityMedium is the inference quality recorded for template analyses.
const QualityMedium = "medium"

// Analysis is the TDD view of a task description.
type Analysis struct {
	Behavior           string   `json:"behavior"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	ExpectedResults    []string `json:"expected_results"`
	TestStrategy       string   `json:"test_strategy"`
	InferenceQuality   string   `json:"inference_quality"`
}

// Analyzer turns a description into an Analysis. Implementations that call a
// language model can replace TemplateAnalyzer without touching the task
// creation flow.
type Analyzer interface {
	Analyze(ctx context.Context, description string) (Analysis, error)
}

// TemplateAnalyzer returns placeholder text for every description. The
// placeholders are meant to be filled in by whoever picks up the task.
type TemplateAnalyzer struct{}

// Analyze ignores description and returns the fixed template.
func (TemplateAnalyzer) Analyze(_ context.Context, _ string) (Analysis, error) {
	return Analysis{
		Behavior: "TEMPLATE: Describe what this task should accomplish",
		AcceptanceCriteria: []string{
			"TEMPLATE: Testable criterion 1",
			"TEMPLATE: Testable criterion 2",
			"TEMPLATE: Testable criterion 3",
		},
		ExpectedResults: []string{
			"TEMPLATE: Observable outcome 1",
			"TEMPLATE: Observable outcome 2",
		},
		TestStrategy:     "TEMPLATE: Describe how to verify completion",
		InferenceQuality: QualityMedium,
	}, nil
}
