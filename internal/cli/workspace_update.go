package cli

import (
	"fmt"

	"github.com/roy-tools/roy/internal/workspace"
	"github.com/spf13/cobra"
)

var updateJSON bool

var updateMetadataCmd = &cobra.Command{
	Use:   "update-metadata <task_id> <json-updates>",
	Short: "Deep-merge a JSON object into a workspace's metadata",
	Long: `Merge a JSON object into the metadata of the task's workspace. Nested
objects are merged key by key; any other value, arrays included, replaces the
stored one.

Example:
  workspace_manager update-metadata abc-123 '{"workflow_state": {"current_stage": "analysis"}}'`,
	Args: minArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]
		updates, err := workspace.ParseDocument([]byte(args[1]))
		if err != nil {
			return &UsageError{Cmd: cmd, Err: fmt.Errorf("parsing updates: %w", err)}
		}

		mgr, err := newManager()
		if err != nil {
			return err
		}
		merged, err := mgr.UpdateMetadata(cmd.Context(), taskID, updates)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if updateJSON {
			return printJSON(out, merged)
		}
		fmt.Fprintf(out, "%s Updated metadata for task %s (%s)\n", okMark(), taskID, merged.DirectoryName())
		return nil
	},
}

func init() {
	updateMetadataCmd.Flags().BoolVar(&updateJSON, "json", false, "Print the merged metadata as JSON")
	workspaceCmd.AddCommand(updateMetadataCmd)
}
