package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roy-tools/roy/internal/archon"
	"github.com/roy-tools/roy/internal/branding"
	"github.com/roy-tools/roy/internal/taskcreator"
	"github.com/spf13/cobra"
)

var (
	taskTitle   string
	taskFeature string
	taskGitLab  string
	taskJSON    bool
)

var taskCreatorCmd = &cobra.Command{
	Use:   branding.TaskCreatorName() + " <project_id> <description>",
	Short: "Create a task with TDD extended properties",
	Long: branding.DisplayName() + ` task creator. Creates a task in the task service, infers
its TDD properties from the description and saves them as an
extended-properties file next to the task. The task is fetched back and the
file re-read afterwards; problems found there are reported as warnings.

` + branding.Description() + ".",
	Args: minArgs(2),
	RunE: runTaskCreator,
}

func init() {
	taskCreatorCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (default: derived from the description)")
	taskCreatorCmd.Flags().StringVar(&taskFeature, "feature", "", "Feature label for the task")
	taskCreatorCmd.Flags().StringVar(&taskGitLab, "gitlab", "", "GitLab fields to store with the task, as a JSON object")
	taskCreatorCmd.Flags().BoolVar(&taskJSON, "json", false, "Print the result as JSON")
	setupRoot(taskCreatorCmd)
}

func runTaskCreator(cmd *cobra.Command, args []string) error {
	req := taskcreator.Request{
		ProjectID:   args[0],
		Description: args[1],
		Title:       taskTitle,
		Feature:     taskFeature,
	}
	if taskGitLab != "" {
		if err := json.Unmarshal([]byte(taskGitLab), &req.GitLab); err != nil || req.GitLab == nil {
			return usageErrorf(cmd, "--gitlab must be a JSON object")
		}
	}

	client := archon.New(cfg.ServiceURL, archon.WithTimeout(cfg.RequestTimeout))
	creator := taskcreator.New(client, cfg.ExtendedDir)
	out := cmd.OutOrStdout()

	if !taskJSON {
		title := req.Title
		if title == "" {
			title = taskcreator.DeriveTitle(req.Description)
		}
		fmt.Fprintf(out, "Creating task in %s\n", client.BaseURL())
		fmt.Fprintf(out, "  Project:     %s\n", req.ProjectID)
		fmt.Fprintf(out, "  Title:       %s\n", title)
		fmt.Fprintf(out, "  Description: %s\n\n", req.Description)
	}

	result, err := creator.Create(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, taskcreator.ErrInvalidRequest) {
			return &UsageError{Cmd: cmd, Err: err}
		}
		return err
	}

	if taskJSON {
		return printJSON(out, result)
	}
	printTaskSummary(out, result)
	return nil
}

func printTaskSummary(w io.Writer, r *taskcreator.Result) {
	fmt.Fprintf(w, "%s Created task %s\n", okMark(), r.TaskID)
	fmt.Fprintf(w, "%s Saved extended properties to %s\n", okMark(), r.PropertiesPath)

	report := r.Validation
	fmt.Fprintln(w, "\nValidation:")
	if report.OK() {
		fmt.Fprintf(w, "  %s Task and extended properties verified\n", okMark())
	}
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  %s %s\n", warnMark(), e)
	}

	if task := report.Task; task != nil {
		fmt.Fprintln(w, "\nTask:")
		fmt.Fprintf(w, "  Title:    %s\n", task.Title)
		fmt.Fprintf(w, "  Status:   %s\n", task.Status)
		fmt.Fprintf(w, "  Assignee: %s\n", task.Assignee)
	}

	if props := report.Properties; props != nil {
		fmt.Fprintln(w, "\nExtended properties:")
		fmt.Fprintf(w, "  State:               %s\n", props.Roy.State)
		fmt.Fprintf(w, "  Behavior:            %s\n", preview(props.Roy.Behavior, 60))
		fmt.Fprintf(w, "  Acceptance criteria: %d\n", len(props.Roy.AcceptanceCriteria))
		fmt.Fprintf(w, "  Expected results:    %d\n", len(props.Roy.ExpectedResults))
		fmt.Fprintf(w, "  Inference quality:   %s\n", props.TDD.InferenceQuality)
	}

	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  1. Review and refine the TDD properties in %s\n", r.PropertiesPath)
	fmt.Fprintf(w, "  2. Create a workspace: %s create %s %q <description>\n",
		branding.WorkspaceManagerName(), r.TaskID, r.Title)
}

// preview shortens s to at most n runes, marking the cut with "...".
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
