package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the workspaces under the root",
	Long: `Check every workspace for unreadable metadata, a directory_name that does
not match its directory, task ids claimed twice and missing standard
subdirectories. Exits non-zero when a problem remains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		problems, err := mgr.Check(cmd.Context(), cmd.OutOrStdout(), doctorFix)
		if err != nil {
			return err
		}
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Recreate missing standard subdirectories")
	workspaceCmd.AddCommand(doctorCmd)
}
