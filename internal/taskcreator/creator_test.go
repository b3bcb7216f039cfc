package taskcreator

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/roy-tools/roy/internal/archon"
	"github.com/roy-tools/roy/internal/extprops"
	"github.com/roy-tools/roy/internal/tdd"
)

// fakeService records created tasks and serves them back by id.
type fakeService struct {
	mu        sync.Mutex
	nextID    string
	createErr error
	getErr    error
	created   []archon.NewTask
}

func (f *fakeService) CreateTask(_ context.Context, task archon.NewTask) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, task)
	return f.nextID, nil
}

func (f *fakeService) GetTask(_ context.Context, id string) (*archon.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.created) == 0 {
		return nil, &archon.RemoteServiceError{Op: "get task", StatusCode: http.StatusNotFound}
	}
	task := f.created[len(f.created)-1]
	return &archon.Task{ID: id, Title: task.Title, Status: task.Status, Assignee: task.Assignee}, nil
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
}

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("a", 60)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Add login flow", "Add login flow"},
		{"exactly fifty", strings.Repeat("b", 50), strings.Repeat("b", 50)},
		{"truncated", long, strings.Repeat("a", 50) + "..."},
		{"multibyte", strings.Repeat("é", 51), strings.Repeat("é", 50) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.in); got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	svc := &fakeService{nextID: "t-42"}
	dir := filepath.Join(t.TempDir(), "extended")
	c := New(svc, dir, WithClock(fixedClock))

	result, err := c.Create(context.Background(), Request{ProjectID: "proj-1", Description: "Add login flow"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if result.TaskID != "t-42" {
		t.Errorf("TaskID = %q, want %q", result.TaskID, "t-42")
	}
	if result.PropertiesPath != filepath.Join(dir, "t-42.json") {
		t.Errorf("PropertiesPath = %q", result.PropertiesPath)
	}

	if len(svc.created) != 1 {
		t.Fatalf("created %d tasks, want 1", len(svc.created))
	}
	sent := svc.created[0]
	if sent.ProjectID != "proj-1" || sent.Title != "Add login flow" ||
		sent.Status != archon.StatusTodo || sent.Assignee != archon.AssigneeUser {
		t.Errorf("unexpected task sent: %+v", sent)
	}

	doc, _, err := extprops.Read(dir, "t-42")
	if err != nil {
		t.Fatalf("reading extended properties: %v", err)
	}
	if doc.Roy.InferredFrom != "Add login flow" {
		t.Errorf("roy.inferred_from = %q, want %q", doc.Roy.InferredFrom, "Add login flow")
	}
	if doc.Roy.State != "Draft" {
		t.Errorf("roy.state = %q, want Draft", doc.Roy.State)
	}
	if doc.Roy.CreatedAt != "2026-10-19 09:00:00 ET" {
		t.Errorf("roy.created_at = %q", doc.Roy.CreatedAt)
	}

	if !result.Validation.OK() {
		t.Errorf("validation errors: %v", result.Validation.Errors)
	}
	if !result.Validation.TaskExists || !result.Validation.PropsExists {
		t.Errorf("validation flags: %+v", result.Validation)
	}
}

func TestCreate_TitleAndFeature(t *testing.T) {
	svc := &fakeService{nextID: "t-7"}
	c := New(svc, t.TempDir())

	gitlab := map[string]any{"project": "group/repo"}
	result, err := c.Create(context.Background(), Request{
		ProjectID:   "p",
		Description: strings.Repeat("x", 80),
		Title:       "Custom Title",
		Feature:     "auth",
		GitLab:      gitlab,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if svc.created[0].Title != "Custom Title" || svc.created[0].Feature != "auth" {
		t.Errorf("unexpected task sent: %+v", svc.created[0])
	}
	if result.Properties.GitLab["project"] != "group/repo" {
		t.Errorf("gitlab section not stored: %v", result.Properties.GitLab)
	}
}

func TestCreate_RemoteFailureWritesNothing(t *testing.T) {
	remoteErr := &archon.RemoteServiceError{Op: "create task", StatusCode: 503}
	svc := &fakeService{createErr: remoteErr}
	dir := filepath.Join(t.TempDir(), "extended")
	c := New(svc, dir)

	_, err := c.Create(context.Background(), Request{ProjectID: "p", Description: "d"})
	var rse *archon.RemoteServiceError
	if !errors.As(err, &rse) {
		t.Fatalf("expected *RemoteServiceError, got %v", err)
	}
	if _, statErr := os.Stat(dir); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("extended properties directory should not exist after a failed create")
	}
}

func TestCreate_InvalidRequest(t *testing.T) {
	c := New(&fakeService{nextID: "x"}, t.TempDir())
	for _, req := range []Request{
		{Description: "d"},
		{ProjectID: "p"},
		{ProjectID: "p", Description: "   "},
	} {
		if _, err := c.Create(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Create(%+v) error = %v, want ErrInvalidRequest", req, err)
		}
	}
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, string) (tdd.Analysis, error) {
	return tdd.Analysis{}, errors.New("model unavailable")
}

func TestCreate_AnalyzerFailure(t *testing.T) {
	svc := &fakeService{nextID: "x"}
	c := New(svc, t.TempDir(), WithAnalyzer(failingAnalyzer{}))
	if _, err := c.Create(context.Background(), Request{ProjectID: "p", Description: "d"}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(svc.created) != 0 {
		t.Error("no task should be created when analysis fails")
	}
}

func TestCreate_ValidationFailureIsNotFatal(t *testing.T) {
	svc := &fakeService{nextID: "t-9", getErr: errors.New("connection reset")}
	c := New(svc, t.TempDir())

	result, err := c.Create(context.Background(), Request{ProjectID: "p", Description: "d"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if result.Validation.OK() {
		t.Fatal("expected validation errors")
	}
	if result.Validation.TaskExists {
		t.Error("TaskExists should be false when the re-fetch fails")
	}
	if !result.Validation.PropsExists {
		t.Error("PropsExists should still be true")
	}
	if !strings.Contains(result.Validation.Errors[0], "connection reset") {
		t.Errorf("unexpected error text: %q", result.Validation.Errors[0])
	}
}

func TestValidate_MissingAndCorruptFile(t *testing.T) {
	svc := &fakeService{nextID: "t-1"}
	svc.created = append(svc.created, archon.NewTask{Title: "x"})
	dir := t.TempDir()
	c := New(svc, dir)

	report := c.Validate(context.Background(), "t-1")
	if report.PropsExists {
		t.Error("PropsExists should be false for a missing file")
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "not found") {
		t.Errorf("unexpected errors: %v", report.Errors)
	}

	if err := os.WriteFile(filepath.Join(dir, "t-1.json"), []byte(`{"roy": {"state": "Draft"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	report = c.Validate(context.Background(), "t-1")
	if !report.PropsExists || report.OK() {
		t.Errorf("expected schema errors for an incomplete document, got %+v", report)
	}
	hasSchema := false
	for _, e := range report.Errors {
		if strings.HasPrefix(e, "Extended properties schema:") {
			hasSchema = true
		}
	}
	if !hasSchema {
		t.Errorf("expected a schema error, got %v", report.Errors)
	}
}

func TestCreate_AgainstHTTPService(t *testing.T) {
	var mu sync.Mutex
	tasks := map[string]map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/tasks":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			body["id"] = "t-42"
			tasks["t-42"] = body
			json.NewEncoder(w).Encode(map[string]string{"id": "t-42"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/tasks/"):
			task, ok := tasks[strings.TrimPrefix(r.URL.Path, "/api/tasks/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(task)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := archon.New(server.URL, archon.WithHTTPClient(server.Client()))
	dir := t.TempDir()
	result, err := New(client, dir).Create(context.Background(), Request{ProjectID: "proj-1", Description: "Add login flow"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !result.Validation.OK() {
		t.Fatalf("validation errors: %v", result.Validation.Errors)
	}
	if result.Validation.Task.Title != "Add login flow" || result.Validation.Task.Status != archon.StatusTodo {
		t.Errorf("unexpected fetched task: %+v", result.Validation.Task)
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshaling result: %v", err)
	}
	if !strings.Contains(string(out), `"project_id":"proj-1"`) {
		t.Errorf("result JSON should embed the raw fetched task: %s", out)
	}
}

func TestCreate_ReusedTaskID(t *testing.T) {
	svc := &fakeService{nextID: "t-5"}
	dir := t.TempDir()
	c := New(svc, dir, WithClock(fixedClock))

	first, err := c.Create(context.Background(), Request{ProjectID: "p", Description: "First description"})
	if err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	before, err := os.ReadFile(first.PropertiesPath)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Create(context.Background(), Request{ProjectID: "p", Description: "Second description"})
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second Create() error = %v, want fs.ErrExist", err)
	}
	if !strings.Contains(err.Error(), "t-5") {
		t.Errorf("error should name the reused id: %v", err)
	}

	after, err := os.ReadFile(first.PropertiesPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Error("extended properties were overwritten")
	}
}
