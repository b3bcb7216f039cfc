package taskcreator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/roy-tools/roy/internal/archon"
	"github.com/roy-tools/roy/internal/extprops"
	"github.com/roy-tools/roy/internal/tdd"
	"github.com/roy-tools/roy/internal/timestamp"
)

// titleMaxRunes is how much of the description a derived title keeps.
const titleMaxRunes = 50

// ErrInvalidRequest is returned when a Request is missing required fields.
var ErrInvalidRequest = errors.New("invalid request")

// Service is the part of the task-tracking service the creator uses.
type Service interface {
	CreateTask(ctx context.Context, task archon.NewTask) (string, error)
	GetTask(ctx context.Context, id string) (*archon.Task, error)
}

// Request describes a task to create.
type Request struct {
	ProjectID   string
	Description string
	Title       string         // derived from Description when empty
	Feature     string         // optional feature label
	GitLab      map[string]any // optional passthrough section
}

// Result is the outcome of a successful Create.
type Result struct {
	TaskID         string             `json:"task_id"`
	Title          string             `json:"title"`
	PropertiesPath string             `json:"properties_path"`
	Properties     *extprops.Document `json:"-"`
	Validation     *Report            `json:"validation"`
}

// Creator creates tasks in the tracking service and records their extended
// properties locally.
type Creator struct {
	service  Service
	analyzer tdd.Analyzer
	propsDir string
	clock    timestamp.Clock
}

// Option configures a Creator.
type Option func(*Creator)

// WithAnalyzer replaces the default template analyzer.
func WithAnalyzer(a tdd.Analyzer) Option {
	return func(c *Creator) {
		c.analyzer = a
	}
}

// WithClock sets the clock used for created_at timestamps.
func WithClock(clock timestamp.Clock) Option {
	return func(c *Creator) {
		c.clock = clock
	}
}

// New creates a Creator that writes extended properties into propsDir.
func New(service Service, propsDir string, opts ...Option) *Creator {
	c := &Creator{
		service:  service,
		analyzer: tdd.TemplateAnalyzer{},
		propsDir: propsDir,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeriveTitle returns the first 50 characters of description, with "..."
// appended when anything was cut.
func DeriveTitle(description string) string {
	if utf8.RuneCountInString(description) <= titleMaxRunes {
		return description
	}
	runes := []rune(description)
	return string(runes[:titleMaxRunes]) + "..."
}

// Create analyzes the description, creates the remote task, writes its
// extended-properties file and then runs the validation pass. When the remote
// call fails nothing is written locally. Validation problems never fail
// Create; they are reported in Result.Validation.
func (c *Creator) Create(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.ProjectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}

	title := req.Title
	if title == "" {
		title = DeriveTitle(req.Description)
	}

	analysis, err := c.analyzer.Analyze(ctx, req.Description)
	if err != nil {
		return nil, fmt.Errorf("analyzing description: %w", err)
	}

	taskID, err := c.service.CreateTask(ctx, archon.NewTask{
		ProjectID:   req.ProjectID,
		Title:       title,
		Description: req.Description,
		Status:      archon.StatusTodo,
		Assignee:    archon.AssigneeUser,
		Feature:     req.Feature,
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("created task", "task_id", taskID, "project_id", req.ProjectID)

	doc := extprops.New(req.Description, analysis, req.GitLab, timestamp.Format(c.clock()))
	path, err := extprops.Write(c.propsDir, taskID, doc)
	if err != nil {
		return nil, fmt.Errorf("task %s was created but its extended properties were not saved: %w", taskID, err)
	}

	return &Result{
		TaskID:         taskID,
		Title:          title,
		PropertiesPath: path,
		Properties:     doc,
		Validation:     c.Validate(ctx, taskID),
	}, nil
}
