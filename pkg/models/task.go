// Package models defines the shared domain types for taskdeck: tasks,
// checklist items, and partial-update payloads exchanged between the
// workflow engine, the provider layer, and the MCP tool surface.
package models

import "time"

// TodoItem is a single checklist line item on a task.
type TodoItem struct {
	Text      string `yaml:"text" json:"text"`
	Completed bool   `yaml:"completed" json:"completed"`
}

// Task represents a unit of work owned by the task-tracking provider.
// Status holds the provider-facing display label, not an internal
// workflow key; the workflow engine resolves labels to keys itself.
type Task struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Type        string     `yaml:"type" json:"type"`
	Status      string     `yaml:"status" json:"status"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Summary     string     `yaml:"summary,omitempty" json:"summary,omitempty"`
	Todos       []TodoItem `yaml:"todos,omitempty" json:"todos,omitempty"`
	Created     time.Time  `yaml:"created" json:"created"`
	Updated     time.Time  `yaml:"updated" json:"updated"`
}

// TaskUpdate is a partial update to a task. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Status      *string
	Type        *string
	Description *string
}

// TodoUpdate is one element of a todo batch update as submitted by a
// tool caller. Completed is a pointer so that a missing boolean can be
// told apart from an explicit false. Content captures the most common
// caller mistake (sending "content" instead of "todoText") so the
// validator can name it in its error message.
// All fields are schema-optional so that malformed items reach the
// validator instead of being rejected opaquely at the protocol layer.
type TodoUpdate struct {
	TodoText  string `json:"todoText,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	Content   string `json:"content,omitempty"`
}
