// Package provider defines the pluggable task-tracking provider boundary.
// Providers own Task persistence; the workflow engine only validates
// proposed changes and computes recommendations, it never mutates a task
// itself.
package provider

import (
	"fmt"
	"sort"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// Provider is the interface a task-tracking backend must implement.
// Status values are display labels as configured in the workflow; the
// provider stores them opaquely.
type Provider interface {
	// CreateTask stores a new task and returns it with its assigned ID
	// and timestamps filled in.
	CreateTask(title, taskType, description, status string) (*models.Task, error)

	// GetTask returns the task with the given ID.
	GetTask(id string) (*models.Task, error)

	// ListTasks returns all tasks, optionally filtered to a single
	// status label ("" means no filter), sorted by ID.
	ListTasks(status string) ([]*models.Task, error)

	// UpdateTask applies a partial update. Nil fields are untouched.
	UpdateTask(id string, update models.TaskUpdate) (*models.Task, error)

	// SetStatus changes the task's status label.
	SetStatus(id, status string) (*models.Task, error)

	// UpdateTodos replaces the task's checklist.
	UpdateTodos(id string, todos []models.TodoItem) (*models.Task, error)

	// SetSummary records the completion summary for a task.
	SetSummary(id, summary string) (*models.Task, error)
}

// Registry holds named providers. It is constructed explicitly and
// injected where needed; there is no package-level instance.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under the given name.
func (r *Registry) Register(name string, p Provider) error {
	if name == "" {
		return fmt.Errorf("registering provider: name must not be empty")
	}
	if p == nil {
		return fmt.Errorf("registering provider %s: provider must not be nil", name)
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("registering provider %s: already registered", name)
	}
	r.providers[name] = p
	return nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not registered (available: %v)", name, r.Names())
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
