// Package branding provides compile-time identity values for both tools.
//
// Values live in branding.yaml next to this file and are baked into the
// binaries with //go:embed. Hard defaults cover a missing or empty file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	DisplayName          string `yaml:"display_name"`
	Description          string `yaml:"description"`
	HomeDir              string `yaml:"home_dir"`
	EnvPrefix            string `yaml:"env_prefix"`
	GoModule             string `yaml:"go_module"`
	TaskCreatorName      string `yaml:"task_creator_name"`
	WorkspaceManagerName string `yaml:"workspace_manager_name"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			DisplayName:          "Roy",
			Description:          "Task and workspace tooling for the roy workflow",
			HomeDir:              ".roy",
			EnvPrefix:            "ROY",
			GoModule:             "github.com/roy-tools/roy",
			TaskCreatorName:      "task_creator",
			WorkspaceManagerName: "workspace_manager",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// DisplayName returns the human-readable product name (e.g., "Roy").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".roy").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "ROY").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// TaskCreatorName returns the task creator binary name.
func TaskCreatorName() string { load(); return defaults.TaskCreatorName }

// WorkspaceManagerName returns the workspace manager binary name.
func WorkspaceManagerName() string { load(); return defaults.WorkspaceManagerName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("log_level") → "ROY_LOG_LEVEL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
