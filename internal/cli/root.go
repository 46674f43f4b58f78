// Package cli implements the taskdeck command tree. Dependencies are
// wired into package-level variables by internal.NewApp before Execute
// runs.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/provider"
	"github.com/taskdeck/taskdeck/internal/workflow"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// Wired dependencies.
var (
	BasePath     string
	TaskProvider provider.Provider
	WorkflowCfg  *workflow.Config
	StatusSvc    *workflow.StatusService
	Validation   *workflow.ValidationService
	EventLog     observability.EventLog
	MetricsCalc  observability.MetricsCalculator
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "taskdeck - workflow-aware task tracking for AI coding assistants",
	Long: `taskdeck is a task tracker with a configurable status workflow. It
exposes task lifecycle operations (create, update, checklist tracking,
status transitions with recommendations) both as CLI commands and as an
MCP server that AI coding assistants can drive directly.

Statuses are defined in .taskdeck.yaml as a mapping from internal keys
to display labels, plus a transitions graph; checklist completion can
automatically advance tasks through the early lifecycle stages.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskdeck %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
