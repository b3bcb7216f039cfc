// Package cli defines the Cobra command trees for the task_creator and
// workspace_manager tools. Each file registers one command with its root.
// Command implementations delegate to internal packages for business logic
// and only handle argument parsing, output formatting and exit status.
package cli
