package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/workflow"
	"github.com/taskdeck/taskdeck/pkg/models"
)

var statusFilter string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display tasks grouped by workflow status",
	Long: `Display all tasks organized by their workflow status, in the order
the status mapping defines (canonical lifecycle stages first, then any
custom stages).

Optionally filter to a single status label using --filter.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}

		if statusFilter != "" {
			tasks, err := TaskProvider.ListTasks(statusFilter)
			if err != nil {
				return fmt.Errorf("fetching tasks: %w", err)
			}
			printStatusGroup(statusFilter, tasks)
			return nil
		}

		tasks, err := TaskProvider.ListTasks("")
		if err != nil {
			return fmt.Errorf("fetching tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		grouped := make(map[string][]*models.Task)
		for _, task := range tasks {
			grouped[task.Status] = append(grouped[task.Status], task)
		}

		order := StatusSvc.KnownLabels()
		for _, label := range order {
			if group, ok := grouped[label]; ok && len(group) > 0 {
				printStatusGroup(label, group)
				fmt.Println()
				delete(grouped, label)
			}
		}
		// Tasks carrying labels outside the mapping still show up.
		for label, group := range grouped {
			printStatusGroup(label+" (unknown)", group)
			fmt.Println()
		}

		return nil
	},
}

// printStatusGroup prints a table of tasks under a status heading.
func printStatusGroup(status string, tasks []*models.Task) {
	fmt.Printf("== %s (%d) ==\n", strings.ToUpper(status), len(tasks))
	fmt.Printf("  %-12s %-9s %-6s %s\n", "ID", "TYPE", "TODOS", "TITLE")
	fmt.Printf("  %-12s %-9s %-6s %s\n", "----", "----", "-----", "-----")
	for _, task := range tasks {
		stats := workflow.ComputeTodoStats(task.Todos)
		todos := "-"
		if stats.Total > 0 {
			todos = fmt.Sprintf("%d%%", stats.Percentage)
		}
		fmt.Printf("  %-12s %-9s %-6s %s\n", task.ID, task.Type, todos, task.Title)
	}
}

func init() {
	statusCmd.Flags().StringVar(&statusFilter, "filter", "", "Filter by status display label")
	rootCmd.AddCommand(statusCmd)
}
