package cli

import (
	"github.com/roy-tools/roy/internal/branding"
	"github.com/roy-tools/roy/internal/workspace"
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   branding.WorkspaceManagerName(),
	Short: "Manage per-task workspace directories",
	Long: branding.DisplayName() + ` workspace manager. Creates and inspects the working
directories that hold a task's artifacts, checkpoints and workflow metadata.
Workspaces live under the configured workspace_root (default: the current
directory).

` + branding.Description() + ".",
	RunE: func(cmd *cobra.Command, args []string) error {
		return usageErrorf(cmd, "a command is required (create, get, list, update-metadata, doctor)")
	},
}

func init() {
	setupRoot(workspaceCmd)
}

func newManager() (*workspace.Manager, error) {
	return workspace.New(cfg.WorkspaceRoot, workspace.WithLockTimeout(cfg.LockTimeout))
}
