package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir       string // HOME and the config file location
	ConfigFile    string // ROY_CONFIG
	WorkspaceRoot string // ROY_WORKSPACE_ROOT
	ExtendedDir   string // ROY_EXTENDED_DIR
	Service       *fakeService
}

// setupTestEnv creates isolated temp directories, starts a fake task service
// and points both tools at them through environment variables.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	env := &testEnv{
		HomeDir:       home,
		ConfigFile:    filepath.Join(home, ".roy", "config.yaml"),
		WorkspaceRoot: t.TempDir(),
		ExtendedDir:   filepath.Join(t.TempDir(), "extended"),
		Service:       newFakeService(t),
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("ROY_CONFIG", env.ConfigFile)
	t.Setenv("ROY_WORKSPACE_ROOT", env.WorkspaceRoot)
	t.Setenv("ROY_EXTENDED_DIR", env.ExtendedDir)
	t.Setenv("ROY_SERVICE_URL", env.Service.URL)
	t.Setenv("ROY_LOG_LEVEL", "error")

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	return env
}

// runCmd executes root with args and returns what it wrote to stdout and
// stderr. Flags are reset first since the command trees are package state.
func runCmd(t *testing.T, root *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(root)
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetArgs(nil)
	})

	err := execute(root, "test", "abc123", "today")
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// fakeService is an in-memory task service.
type fakeService struct {
	*httptest.Server

	mu     sync.Mutex
	tasks  map[string]map[string]any
	fail   bool
	nextID int
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{tasks: map[string]map[string]any{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeService) setFailing(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeService) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/tasks":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nextID++
		id := fmt.Sprintf("task-%d", f.nextID)
		body["id"] = id
		f.tasks[id] = body
		json.NewEncoder(w).Encode(map[string]string{"id": id})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/tasks/"):
		task, ok := f.tasks[strings.TrimPrefix(r.URL.Path, "/api/tasks/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(task)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) task(id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id]
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s to exist: %v", path, err)
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("expected output to contain %q, got:\n%s", substr, content)
	}
}
