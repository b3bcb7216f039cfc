package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/roy-tools/roy/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// Global flags shared by both tools.
var (
	configFile string
	logLevel   string
)

// cfg is resolved once per invocation in the root PersistentPreRunE.
var cfg *config.Config

// UsageError reports missing or malformed command-line input.
type UsageError struct {
	Cmd *cobra.Command
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(cmd *cobra.Command, format string, args ...any) error {
	return &UsageError{Cmd: cmd, Err: fmt.Errorf(format, args...)}
}

// minArgs requires at least n positional arguments.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErrorf(cmd, "requires at least %d argument(s), received %d", n, len(args))
		}
		return nil
	}
}

// setupRoot applies the settings both tool roots share.
func setupRoot(root *cobra.Command) {
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentPreRunE = loadConfig
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Cmd: cmd, Err: err}
	})

	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.roy/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newConfigCmd())
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: c.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	slog.Debug("loaded config", "file", c.File, "service_url", c.ServiceURL, "workspace_root", c.WorkspaceRoot)

	cfg = c
	return nil
}

// execute runs root with build info injected via ldflags. Errors are printed
// to stderr and returned so main can set the exit status.
func execute(root *cobra.Command, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Cobra only hands the root context to commands that have none yet, so a
	// second run in the same process would inherit the cancelled one.
	setContext(ctx, root)

	err := root.ExecuteContext(ctx)
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

func setContext(ctx context.Context, cmd *cobra.Command) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(ctx, sub)
	}
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", failLabel("Error:"), err)
	var ue *UsageError
	if errors.As(err, &ue) && ue.Cmd != nil {
		fmt.Fprintf(w, "Usage: %s\n", ue.Cmd.UseLine())
	}
}

// ExecuteTaskCreator runs the task_creator tool.
func ExecuteTaskCreator(version, commit, date string) error {
	return execute(taskCreatorCmd, version, commit, date)
}

// ExecuteWorkspaceManager runs the workspace_manager tool.
func ExecuteWorkspaceManager(version, commit, date string) error {
	return execute(workspaceCmd, version, commit, date)
}
