package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roy-tools/roy/internal/workspace"
	"github.com/spf13/cobra"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workspaces",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", formatJSON, "Output format: json, yaml, table")
	workspaceCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(cmd, listFormat, formatJSON, formatYAML, formatTable); err != nil {
		return err
	}
	mgr, err := newManager()
	if err != nil {
		return err
	}
	docs, err := mgr.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch listFormat {
	case formatTable:
		if len(docs) == 0 {
			fmt.Fprintln(out, "No workspaces found.")
			return nil
		}
		return printListTable(out, docs)
	default:
		if docs == nil {
			docs = []workspace.Document{}
		}
		return printFormat(out, listFormat, docs)
	}
}

func printListTable(w io.Writer, docs []workspace.Document) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "DIRECTORY\tTASK ID\tSTAGE\tPROGRESS\tTITLE")
	for _, d := range docs {
		progress := "-"
		if p := d.Progress(); p != "" {
			progress = p + "%"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			orDash(d.DirectoryName()), orDash(d.TaskID()), orDash(d.Stage()), progress, d.Title())
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
