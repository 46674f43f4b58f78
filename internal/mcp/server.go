// Package mcp provides the MCP (Model Context Protocol) server that
// exposes taskdeck's task-management operations as tools for AI coding
// assistants. Handlers translate engine validation failures into error
// results; the engine itself never catches its own errors.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/provider"
	"github.com/taskdeck/taskdeck/internal/workflow"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// Server wraps the workflow engine and a task provider and exposes them
// as MCP tools.
type Server struct {
	server     *gomcp.Server
	provider   provider.Provider
	statusSvc  *workflow.StatusService
	validation *workflow.ValidationService
	cfg        *workflow.Config
	eventLog   observability.EventLog
}

// NewServer creates a new MCP server. eventLog may be nil if
// observability is disabled.
func NewServer(p provider.Provider, cfg *workflow.Config, statusSvc *workflow.StatusService, validation *workflow.ValidationService, eventLog observability.EventLog, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		provider:   p,
		statusSvc:  statusSvc,
		validation: validation,
		cfg:        cfg,
		eventLog:   eventLog,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskdeck", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type createTaskInput struct {
	Title       string `json:"title" jsonschema:"required,short task title"`
	Type        string `json:"type" jsonschema:"required,task type label from the configured set (e.g. Feature, Bug, Chore)"`
	Description string `json:"description" jsonschema:"required,what the task is about and how to tell it is done"`
}

type taskOutput struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Status      string            `json:"status"`
	Description string            `json:"description,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Todos       []models.TodoItem `json:"todos,omitempty"`
	Created     string            `json:"created"`
	Updated     string            `json:"updated"`
}

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier (e.g. TASK-00042)"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter tasks by status display label"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type updateTaskInput struct {
	TaskID      string  `json:"task_id" jsonschema:"required,the unique task identifier"`
	Title       *string `json:"title,omitempty" jsonschema:"new task title"`
	Type        *string `json:"type,omitempty" jsonschema:"new task type label"`
	Description *string `json:"description,omitempty" jsonschema:"new task description"`
}

type setTaskStatusInput struct {
	TaskID    string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Status    string `json:"status" jsonschema:"required,the target status display label"`
	Confirmed bool   `json:"confirmed,omitempty" jsonschema:"set true to confirm entering a status that requires sign-off"`
}

type updateTodosInput struct {
	TaskID string              `json:"task_id" jsonschema:"required,the unique task identifier"`
	Todos  []models.TodoUpdate `json:"todos" jsonschema:"required,full replacement checklist; each item needs todoText and completed"`
}

type updateTodosOutput struct {
	Task           taskOutput         `json:"task"`
	Stats          workflow.TodoStats `json:"stats"`
	AutoProgressed bool               `json:"auto_progressed"`
	NewStatus      string             `json:"new_status,omitempty"`
	Recommended    string             `json:"recommended,omitempty"`
}

type getTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type taskStatusOutput struct {
	Current            string             `json:"current"`
	Available          []string           `json:"available"`
	Recommended        string             `json:"recommended,omitempty"`
	ShouldAutoProgress bool               `json:"should_auto_progress"`
	AutoEligible       bool               `json:"auto_eligible"`
	Stats              workflow.TodoStats `json:"stats"`
}

type completeTaskInput struct {
	TaskID    string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Summary   string `json:"summary" jsonschema:"required,what was done; a real summary, not a placeholder"`
	Confirmed bool   `json:"confirmed,omitempty" jsonschema:"set true to confirm completion when the done status requires sign-off"`
}

type statusChangeOutput struct {
	Message string     `json:"message"`
	Task    taskOutput `json:"task"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task with a title, type, and description. The task starts in the configured default status.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID, including its checklist.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with an optional status filter. Returns an array of task summaries.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Update a task's title, type, or description. Omitted fields are left unchanged.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_task_status",
		Description: "Set a task's status to any known status label. Statuses configured to require sign-off need confirmed: true.",
	}, s.handleSetTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_todos",
		Description: "Replace a task's checklist. Items need todoText and completed. Completion progress may auto-advance the task's status.",
	}, s.handleUpdateTodos)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task_status",
		Description: "Get a task's current status, the statuses reachable from it, the recommended next status, and checklist progress.",
	}, s.handleGetTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task done with a completion summary.",
	}, s.handleCompleteTask)
}

// --- Tool handlers ---

func (s *Server) handleCreateTask(_ context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if err := s.validation.ValidateTaskCreation(input.Title, input.Type, input.Description); err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}

	status, err := s.statusSvc.DefaultStatus()
	if err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}

	task, err := s.provider.CreateTask(input.Title, input.Type, input.Description, status)
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}

	s.logEvent(observability.EventTaskCreated, task.ID, "task created", map[string]any{
		"type":   task.Type,
		"status": task.Status,
	})

	return nil, taskToOutput(task), nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.provider.GetTask(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	tasks, err := s.provider.ListTasks(input.Status)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}

	return nil, out, nil
}

func (s *Server) handleUpdateTask(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	update := models.TaskUpdate{
		Title:       input.Title,
		Type:        input.Type,
		Description: input.Description,
	}
	if err := s.validation.ValidateTaskUpdate(update); err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}

	task, err := s.provider.UpdateTask(input.TaskID, update)
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	s.logEvent(observability.EventTaskUpdated, task.ID, "task updated", nil)

	return nil, taskToOutput(task), nil
}

func (s *Server) handleSetTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input setTaskStatusInput) (*gomcp.CallToolResult, statusChangeOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), statusChangeOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), statusChangeOutput{}, nil
	}

	task, err := s.provider.GetTask(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), statusChangeOutput{}, nil
	}

	if err := s.validation.ValidateStatusTransition(task.Status, input.Status); err != nil {
		return errorResult(err.Error()), statusChangeOutput{}, nil
	}

	if task.Status != input.Status {
		key := s.statusSvc.StatusKey(input.Status)
		if s.cfg.RequiresConfirmation(key) && !input.Confirmed {
			return errorResult(fmt.Sprintf("status %q requires sign-off: retry with confirmed: true", input.Status)), statusChangeOutput{}, nil
		}
	}

	oldStatus := task.Status
	task, err = s.provider.SetStatus(input.TaskID, input.Status)
	if err != nil {
		return errorResult(fmt.Sprintf("setting status for task %s: %s", input.TaskID, err)), statusChangeOutput{}, nil
	}

	if oldStatus != task.Status {
		s.logEvent(observability.EventTaskStatusChanged, task.ID, "status changed", map[string]any{
			"old_status": oldStatus,
			"new_status": task.Status,
		})
	}

	out := statusChangeOutput{
		Message: fmt.Sprintf("task %s status set to %s", task.ID, task.Status),
		Task:    taskToOutput(task),
	}
	return nil, out, nil
}

func (s *Server) handleUpdateTodos(_ context.Context, _ *gomcp.CallToolRequest, input updateTodosInput) (*gomcp.CallToolResult, updateTodosOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), updateTodosOutput{}, nil
	}

	if err := s.validation.ValidateTodoUpdates(input.Todos); err != nil {
		return errorResult(err.Error()), updateTodosOutput{}, nil
	}

	items := make([]models.TodoItem, len(input.Todos))
	for i, u := range input.Todos {
		items[i] = models.TodoItem{Text: u.TodoText, Completed: *u.Completed}
	}

	task, err := s.provider.UpdateTodos(input.TaskID, items)
	if err != nil {
		return errorResult(fmt.Sprintf("updating todos for task %s: %s", input.TaskID, err)), updateTodosOutput{}, nil
	}

	stats := workflow.ComputeTodoStats(task.Todos)
	s.logEvent(observability.EventTaskTodosUpdated, task.ID, "todos updated", map[string]any{
		"total":      stats.Total,
		"completed":  stats.Completed,
		"percentage": stats.Percentage,
	})

	out := updateTodosOutput{Task: taskToOutput(task), Stats: stats}

	auto, err := s.statusSvc.ShouldAutoProgress(task.Status)
	if err != nil {
		return errorResult(err.Error()), updateTodosOutput{}, nil
	}
	recommended, err := s.statusSvc.NextRecommendedStatus(task.Status, stats.Percentage)
	if err != nil {
		return errorResult(err.Error()), updateTodosOutput{}, nil
	}
	out.Recommended = recommended

	// Auto-advance only from auto-eligible stages, never into a status
	// that requires sign-off.
	if auto && recommended != "" && recommended != task.Status &&
		!s.cfg.RequiresConfirmation(s.statusSvc.StatusKey(recommended)) {
		oldStatus := task.Status
		task, err = s.provider.SetStatus(task.ID, recommended)
		if err != nil {
			return errorResult(fmt.Sprintf("auto-advancing task %s: %s", input.TaskID, err)), updateTodosOutput{}, nil
		}
		out.Task = taskToOutput(task)
		out.AutoProgressed = true
		out.NewStatus = task.Status

		s.logEvent(observability.EventTaskAutoProgress, task.ID, "auto-progressed", map[string]any{
			"old_status": oldStatus,
			"new_status": task.Status,
			"percentage": stats.Percentage,
		})
	}

	return nil, out, nil
}

func (s *Server) handleGetTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input getTaskStatusInput) (*gomcp.CallToolResult, taskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskStatusOutput{}, nil
	}

	task, err := s.provider.GetTask(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskStatusOutput{}, nil
	}

	stats := workflow.ComputeTodoStats(task.Todos)
	info, err := s.statusSvc.TaskStatus(task.Status, stats.Percentage)
	if err != nil {
		return errorResult(err.Error()), taskStatusOutput{}, nil
	}
	autoEligible, err := s.statusSvc.ShouldAutoProgress(task.Status)
	if err != nil {
		return errorResult(err.Error()), taskStatusOutput{}, nil
	}

	out := taskStatusOutput{
		Current:            info.Current,
		Available:          info.Available,
		Recommended:        info.Recommended,
		ShouldAutoProgress: info.ShouldAutoProgress,
		AutoEligible:       autoEligible,
		Stats:              stats,
	}
	return nil, out, nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input completeTaskInput) (*gomcp.CallToolResult, statusChangeOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), statusChangeOutput{}, nil
	}

	if err := s.validation.ValidateSummary(input.Summary); err != nil {
		return errorResult(err.Error()), statusChangeOutput{}, nil
	}

	doneLabel := s.statusSvc.Label(workflow.KeyDone)
	if doneLabel == "" {
		return errorResult(fmt.Sprintf("workflow config: required status key %q is missing from status_mapping", workflow.KeyDone)), statusChangeOutput{}, nil
	}

	task, err := s.provider.GetTask(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), statusChangeOutput{}, nil
	}

	if task.Status != doneLabel && s.cfg.RequiresConfirmation(workflow.KeyDone) && !input.Confirmed {
		return errorResult(fmt.Sprintf("status %q requires sign-off: retry with confirmed: true", doneLabel)), statusChangeOutput{}, nil
	}

	if _, err := s.provider.SetSummary(input.TaskID, input.Summary); err != nil {
		return errorResult(fmt.Sprintf("setting summary for task %s: %s", input.TaskID, err)), statusChangeOutput{}, nil
	}

	oldStatus := task.Status
	task, err = s.provider.SetStatus(input.TaskID, doneLabel)
	if err != nil {
		return errorResult(fmt.Sprintf("setting status for task %s: %s", input.TaskID, err)), statusChangeOutput{}, nil
	}

	s.logEvent(observability.EventTaskCompleted, task.ID, "task completed", map[string]any{
		"old_status": oldStatus,
		"new_status": task.Status,
	})

	out := statusChangeOutput{
		Message: fmt.Sprintf("task %s completed", task.ID),
		Task:    taskToOutput(task),
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Type:        t.Type,
		Status:      t.Status,
		Description: t.Description,
		Summary:     t.Summary,
		Todos:       t.Todos,
		Created:     t.Created.Format(time.RFC3339),
		Updated:     t.Updated.Format(time.RFC3339),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// logEvent writes to the event log when one is configured. Logging
// failures never fail the tool call.
func (s *Server) logEvent(eventType, taskID, msg string, data map[string]any) {
	if s.eventLog == nil {
		return
	}
	_ = s.eventLog.Write(observability.Event{
		Time:    time.Now().UTC(),
		Type:    eventType,
		TaskID:  taskID,
		Message: msg,
		Data:    data,
	})
}
