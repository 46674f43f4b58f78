package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/workflow"
	"github.com/taskdeck/taskdeck/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	createTitle       string
	createType        string
	createDescription string
)

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}

		if err := Validation.ValidateTaskCreation(createTitle, createType, createDescription); err != nil {
			return err
		}
		status, err := StatusSvc.DefaultStatus()
		if err != nil {
			return err
		}

		task, err := TaskProvider.CreateTask(createTitle, createType, createDescription, status)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		logEvent(observability.EventTaskCreated, task.ID, "task created", map[string]any{
			"type":   task.Type,
			"status": task.Status,
		})

		fmt.Printf("Created %s (%s, %s)\n", task.ID, task.Type, task.Status)
		return nil
	},
}

var listStatus string

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered by status label",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}

		tasks, err := TaskProvider.ListTasks(listStatus)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("%-12s %-9s %-14s %-6s %s\n", "ID", "TYPE", "STATUS", "TODOS", "TITLE")
		for _, t := range tasks {
			stats := workflow.ComputeTodoStats(t.Todos)
			todos := "-"
			if stats.Total > 0 {
				todos = fmt.Sprintf("%d/%d", stats.Completed, stats.Total)
			}
			fmt.Printf("%-12s %-9s %-14s %-6s %s\n", t.ID, t.Type, t.Status, todos, t.Title)
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task's details and checklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}

		task, err := TaskProvider.GetTask(args[0])
		if err != nil {
			return fmt.Errorf("getting task %s: %w", args[0], err)
		}

		fmt.Printf("%s  %s\n", task.ID, task.Title)
		fmt.Printf("Type:    %s\n", task.Type)
		fmt.Printf("Status:  %s\n", task.Status)
		fmt.Printf("Created: %s\n", task.Created.Format(time.RFC3339))
		fmt.Printf("Updated: %s\n", task.Updated.Format(time.RFC3339))
		if task.Description != "" {
			fmt.Printf("\n%s\n", task.Description)
		}
		if task.Summary != "" {
			fmt.Printf("\nSummary: %s\n", task.Summary)
		}
		printTodos(task.Todos)
		return nil
	},
}

var setStatusConfirmed bool

var taskSetStatusCmd = &cobra.Command{
	Use:   "set-status <task-id> <status>",
	Short: "Set a task's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}
		taskID, target := args[0], args[1]

		task, err := TaskProvider.GetTask(taskID)
		if err != nil {
			return fmt.Errorf("getting task %s: %w", taskID, err)
		}
		if err := Validation.ValidateStatusTransition(task.Status, target); err != nil {
			return err
		}
		if task.Status != target &&
			WorkflowCfg.RequiresConfirmation(StatusSvc.StatusKey(target)) && !setStatusConfirmed {
			return fmt.Errorf("status %q requires sign-off: rerun with --confirmed", target)
		}

		oldStatus := task.Status
		task, err = TaskProvider.SetStatus(taskID, target)
		if err != nil {
			return fmt.Errorf("setting status for task %s: %w", taskID, err)
		}

		if oldStatus != task.Status {
			logEvent(observability.EventTaskStatusChanged, task.ID, "status changed", map[string]any{
				"old_status": oldStatus,
				"new_status": task.Status,
			})
		}

		fmt.Printf("%s: %s -> %s\n", task.ID, oldStatus, task.Status)
		return nil
	},
}

var (
	completeSummary   string
	completeConfirmed bool
)

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task done with a completion summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}
		taskID := args[0]

		if err := Validation.ValidateSummary(completeSummary); err != nil {
			return err
		}
		doneLabel := StatusSvc.Label(workflow.KeyDone)
		if doneLabel == "" {
			return fmt.Errorf("workflow config: required status key %q is missing from status_mapping", workflow.KeyDone)
		}

		task, err := TaskProvider.GetTask(taskID)
		if err != nil {
			return fmt.Errorf("getting task %s: %w", taskID, err)
		}
		if task.Status != doneLabel &&
			WorkflowCfg.RequiresConfirmation(workflow.KeyDone) && !completeConfirmed {
			return fmt.Errorf("status %q requires sign-off: rerun with --confirmed", doneLabel)
		}

		if _, err := TaskProvider.SetSummary(taskID, completeSummary); err != nil {
			return fmt.Errorf("setting summary for task %s: %w", taskID, err)
		}
		oldStatus := task.Status
		task, err = TaskProvider.SetStatus(taskID, doneLabel)
		if err != nil {
			return fmt.Errorf("setting status for task %s: %w", taskID, err)
		}

		logEvent(observability.EventTaskCompleted, task.ID, "task completed", map[string]any{
			"old_status": oldStatus,
			"new_status": task.Status,
		})

		fmt.Printf("Completed %s\n", task.ID)
		return nil
	},
}

var (
	todoAdd    []string
	todoToggle int
)

var taskTodoCmd = &cobra.Command{
	Use:   "todo <task-id>",
	Short: "Show or edit a task's checklist",
	Long: `Show a task's checklist with completion stats. Use --add to append
items or --toggle to flip the completion of item N (1-based). Checklist
progress can auto-advance the task's status.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}
		taskID := args[0]

		task, err := TaskProvider.GetTask(taskID)
		if err != nil {
			return fmt.Errorf("getting task %s: %w", taskID, err)
		}

		changed := false
		todos := append([]models.TodoItem(nil), task.Todos...)

		for _, text := range todoAdd {
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("todo text must not be empty")
			}
			todos = append(todos, models.TodoItem{Text: text})
			changed = true
		}

		if todoToggle > 0 {
			if todoToggle > len(todos) {
				return fmt.Errorf("todo %d does not exist (task has %d)", todoToggle, len(todos))
			}
			todos[todoToggle-1].Completed = !todos[todoToggle-1].Completed
			changed = true
		}

		if changed {
			task, err = TaskProvider.UpdateTodos(taskID, todos)
			if err != nil {
				return fmt.Errorf("updating todos for task %s: %w", taskID, err)
			}
			stats := workflow.ComputeTodoStats(task.Todos)
			logEvent(observability.EventTaskTodosUpdated, task.ID, "todos updated", map[string]any{
				"total":      stats.Total,
				"completed":  stats.Completed,
				"percentage": stats.Percentage,
			})
			if task, err = maybeAutoProgress(task, stats); err != nil {
				return err
			}
		}

		printTodos(task.Todos)
		return nil
	},
}

// maybeAutoProgress advances the task when its stage is auto-eligible
// and the recommendation does not require sign-off.
func maybeAutoProgress(task *models.Task, stats workflow.TodoStats) (*models.Task, error) {
	auto, err := StatusSvc.ShouldAutoProgress(task.Status)
	if err != nil {
		return nil, err
	}
	recommended, err := StatusSvc.NextRecommendedStatus(task.Status, stats.Percentage)
	if err != nil {
		return nil, err
	}
	if !auto || recommended == "" || recommended == task.Status ||
		WorkflowCfg.RequiresConfirmation(StatusSvc.StatusKey(recommended)) {
		if recommended != "" && recommended != task.Status {
			fmt.Printf("Recommended next status: %s\n", recommended)
		}
		return task, nil
	}

	taskID := task.ID
	oldStatus := task.Status
	task, err = TaskProvider.SetStatus(taskID, recommended)
	if err != nil {
		return nil, fmt.Errorf("auto-advancing task %s: %w", taskID, err)
	}
	logEvent(observability.EventTaskAutoProgress, task.ID, "auto-progressed", map[string]any{
		"old_status": oldStatus,
		"new_status": task.Status,
		"percentage": stats.Percentage,
	})
	fmt.Printf("%s auto-advanced: %s -> %s\n", task.ID, oldStatus, task.Status)
	return task, nil
}

func printTodos(todos []models.TodoItem) {
	if len(todos) == 0 {
		return
	}
	stats := workflow.ComputeTodoStats(todos)
	fmt.Printf("\nTodos (%d/%d, %d%%):\n", stats.Completed, stats.Total, stats.Percentage)
	for i, item := range todos {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		fmt.Printf("  %2s. [%s] %s\n", strconv.Itoa(i+1), mark, item.Text)
	}
}

// logEvent writes to the event log when observability is enabled.
func logEvent(eventType, taskID, msg string, data map[string]any) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Write(observability.Event{
		Time:    time.Now().UTC(),
		Type:    eventType,
		TaskID:  taskID,
		Message: msg,
		Data:    data,
	})
}

func init() {
	taskCreateCmd.Flags().StringVar(&createTitle, "title", "", "Task title (required)")
	taskCreateCmd.Flags().StringVar(&createType, "type", "", "Task type label (required)")
	taskCreateCmd.Flags().StringVar(&createDescription, "description", "", "Task description (required)")

	taskListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status display label")

	taskSetStatusCmd.Flags().BoolVar(&setStatusConfirmed, "confirmed", false, "Confirm entering a status that requires sign-off")

	taskCompleteCmd.Flags().StringVar(&completeSummary, "summary", "", "Completion summary (required)")
	taskCompleteCmd.Flags().BoolVar(&completeConfirmed, "confirmed", false, "Confirm completion when the done status requires sign-off")

	taskTodoCmd.Flags().StringArrayVar(&todoAdd, "add", nil, "Append a checklist item (repeatable)")
	taskTodoCmd.Flags().IntVar(&todoToggle, "toggle", 0, "Toggle completion of item N (1-based)")

	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskShowCmd, taskSetStatusCmd, taskCompleteCmd, taskTodoCmd)
	rootCmd.AddCommand(taskCmd)
}
