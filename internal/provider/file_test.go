package provider

import (
	"strings"
	"testing"

	"github.com/taskdeck/taskdeck/pkg/models"
)

func newTestProvider(t *testing.T) Provider {
	t.Helper()
	return NewFileProvider(t.TempDir())
}

func TestCreateAndGetTask(t *testing.T) {
	p := newTestProvider(t)

	created, err := p.CreateTask("Add auth", "Feature", "Implement login flow", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if created.ID != "TASK-00001" {
		t.Errorf("ID = %q, want TASK-00001", created.ID)
	}
	if created.Status != "Not Started" {
		t.Errorf("Status = %q, want Not Started", created.Status)
	}
	if created.Created.IsZero() || created.Updated.IsZero() {
		t.Error("timestamps must be set on creation")
	}

	got, err := p.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != "Add auth" || got.Type != "Feature" {
		t.Errorf("got %+v, want title/type round-tripped", got)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.GetTask("TASK-99999")
	if err == nil {
		t.Fatal("expected error for missing task")
	}
	if !strings.Contains(err.Error(), "TASK-99999") {
		t.Errorf("error %q should name the task ID", err)
	}
}

func TestTaskIDsIncrement(t *testing.T) {
	p := newTestProvider(t)

	first, err := p.CreateTask("one", "Bug", "d", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	second, err := p.CreateTask("two", "Bug", "d", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("IDs must be unique, both were %q", first.ID)
	}
	if second.ID != "TASK-00002" {
		t.Errorf("second ID = %q, want TASK-00002", second.ID)
	}
}

func TestListTasks(t *testing.T) {
	p := newTestProvider(t)

	if _, err := p.CreateTask("one", "Bug", "d", "Not Started"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := p.CreateTask("two", "Feature", "d", "In Progress"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := p.CreateTask("three", "Bug", "d", "In Progress"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	all, err := p.ListTasks("")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	// Sorted by ID.
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("tasks not sorted: %q before %q", all[i-1].ID, all[i].ID)
		}
	}

	inProgress, err := p.ListTasks("In Progress")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(inProgress) != 2 {
		t.Errorf("len(inProgress) = %d, want 2", len(inProgress))
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	p := newTestProvider(t)

	created, err := p.CreateTask("old title", "Bug", "old description", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	newTitle := "new title"
	updated, err := p.UpdateTask(created.ID, models.TaskUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if updated.Title != "new title" {
		t.Errorf("Title = %q, want %q", updated.Title, "new title")
	}
	if updated.Description != "old description" {
		t.Errorf("Description = %q, untouched fields must be kept", updated.Description)
	}
	if !updated.Updated.After(created.Updated) && updated.Updated != created.Updated {
		t.Error("Updated timestamp should move forward")
	}
}

func TestSetStatusAndTodosAndSummary(t *testing.T) {
	p := newTestProvider(t)

	created, err := p.CreateTask("t", "Bug", "d", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	task, err := p.SetStatus(created.ID, "In Progress")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if task.Status != "In Progress" {
		t.Errorf("Status = %q, want In Progress", task.Status)
	}

	todos := []models.TodoItem{
		{Text: "write tests", Completed: true},
		{Text: "wire CI"},
	}
	task, err = p.UpdateTodos(created.ID, todos)
	if err != nil {
		t.Fatalf("UpdateTodos: %v", err)
	}
	if len(task.Todos) != 2 || task.Todos[0].Text != "write tests" {
		t.Errorf("Todos = %+v, want the submitted checklist", task.Todos)
	}

	task, err = p.SetSummary(created.ID, "All done and verified.")
	if err != nil {
		t.Fatalf("SetSummary: %v", err)
	}
	if task.Summary != "All done and verified." {
		t.Errorf("Summary = %q", task.Summary)
	}
}

func TestPersistenceAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	p1 := NewFileProvider(dir)
	created, err := p1.CreateTask("persisted", "Feature", "d", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// A fresh provider over the same directory sees the task and
	// continues the ID sequence.
	p2 := NewFileProvider(dir)
	got, err := p2.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask from second instance: %v", err)
	}
	if got.Title != "persisted" {
		t.Errorf("Title = %q, want persisted", got.Title)
	}

	next, err := p2.CreateTask("second", "Bug", "d", "Not Started")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if next.ID != "TASK-00002" {
		t.Errorf("next ID = %q, want TASK-00002", next.ID)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	p := newTestProvider(t)

	if err := reg.Register("file", p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("file", p); err == nil {
		t.Error("duplicate registration must fail")
	}
	if err := reg.Register("", p); err == nil {
		t.Error("empty name must fail")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Error("nil provider must fail")
	}

	got, err := reg.Get("file")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != p {
		t.Error("Get returned a different provider")
	}

	if _, err := reg.Get("jira"); err == nil {
		t.Error("unknown provider must fail")
	}

	if err := reg.Register("backup", newTestProvider(t)); err != nil {
		t.Fatalf("Register backup: %v", err)
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "backup" || names[1] != "file" {
		t.Fatalf("Names = %v, want [backup file]", names)
	}
}
