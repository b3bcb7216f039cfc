package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createSummary bool

var createCmd = &cobra.Command{
	Use:   "create <task_id> <title> <description>",
	Short: "Create a workspace for a task",
	Long: `Create a workspace directory named after the task title, with the
standard artifacts/ and checkpoints/ subdirectories, a metadata file and a
README. The new metadata document is printed as JSON.`,
	Args: minArgs(3),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().BoolVar(&createSummary, "summary", false, "Print a short human-readable summary instead of JSON")
	workspaceCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	meta, err := mgr.Create(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !createSummary {
		return printJSON(out, meta)
	}
	fmt.Fprintf(out, "%s Created workspace %s\n", okMark(), meta.DirectoryName)
	fmt.Fprintf(out, "  Path:    %s\n", meta.WorkspacePath)
	fmt.Fprintf(out, "  Task ID: %s\n", meta.TaskID)
	fmt.Fprintf(out, "  Stage:   %s\n", meta.WorkflowState.CurrentStage)
	return nil
}
