package cli

import (
	"github.com/spf13/cobra"
)

var getFormat string

var getCmd = &cobra.Command{
	Use:   "get <task_id>",
	Short: "Print the metadata of a task's workspace",
	Args:  minArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(cmd, getFormat, formatJSON, formatYAML); err != nil {
			return err
		}
		mgr, err := newManager()
		if err != nil {
			return err
		}
		doc, err := mgr.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printFormat(cmd.OutOrStdout(), getFormat, doc)
	},
}

func init() {
	getCmd.Flags().StringVar(&getFormat, "format", formatJSON, "Output format: json, yaml")
	workspaceCmd.AddCommand(getCmd)
}
