package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	tdmcp "github.com/taskdeck/taskdeck/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the taskdeck MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskdeck MCP server on stdio",
	Long: `Start the taskdeck MCP server on stdio transport.

The server exposes task operations as MCP tools that AI coding
assistants can call: create_task, get_task, list_tasks, update_task,
set_task_status, update_todos, get_task_status, complete_task.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}

		srv := tdmcp.NewServer(TaskProvider, WorkflowCfg, StatusSvc, Validation, EventLog, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
