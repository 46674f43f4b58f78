package workflow

import (
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// ValidationService guards every task-mutation entry point before it
// reaches the provider. All checks are synchronous and fail on the first
// violation with a message carrying the offending value and the accepted
// set; nothing is batched or retried.
type ValidationService struct {
	cfg    *Config
	status *StatusService
}

// NewValidationService creates a ValidationService using the given
// StatusService as its status-resolution collaborator.
func NewValidationService(cfg *Config, status *StatusService) *ValidationService {
	return &ValidationService{cfg: cfg, status: status}
}

// ValidateTaskType checks a task type against the configured set,
// case-insensitively.
func (v *ValidationService) ValidateTaskType(taskType string) error {
	for _, allowed := range v.cfg.TaskTypes {
		if strings.EqualFold(taskType, allowed) {
			return nil
		}
	}
	return fmt.Errorf("invalid task type %q: must be one of %s", taskType, strings.Join(v.cfg.TaskTypes, ", "))
}

// ValidateStatusTransition checks a requested status change. Setting a
// task to its current status is always legal. Beyond requiring the
// target to be a known label, any transition is accepted: the
// transitions graph constrains recommendations, not user overrides.
func (v *ValidationService) ValidateStatusTransition(from, to string) error {
	if from == to {
		return nil
	}
	if v.status.StatusKey(to) == KeyUnknown {
		return fmt.Errorf("invalid status %q: must be one of %s", to, strings.Join(v.status.KnownLabels(), ", "))
	}
	return nil
}

// ValidateTaskUpdate checks a partial task update. Absent fields are
// skipped; present fields must be non-empty, and a present type must be
// an allowed task type.
func (v *ValidationService) ValidateTaskUpdate(u models.TaskUpdate) error {
	if u.Type != nil {
		if err := v.ValidateTaskType(*u.Type); err != nil {
			return err
		}
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("invalid title: must be a non-empty string")
	}
	if u.Status != nil && strings.TrimSpace(*u.Status) == "" {
		return fmt.Errorf("invalid status: must be a non-empty string")
	}
	return nil
}

// ValidateTaskCreation checks the required fields for creating a task,
// reporting a specific message for the first missing or invalid one.
func (v *ValidationService) ValidateTaskCreation(title, taskType, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required and must be a non-empty string")
	}
	if strings.TrimSpace(taskType) == "" {
		return fmt.Errorf("type is required and must be a non-empty string")
	}
	if err := v.ValidateTaskType(taskType); err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is required and must be a non-empty string")
	}
	return nil
}

// ValidateTodoUpdates checks a batch of todo updates. The batch must be
// non-empty and every element must carry a non-empty todoText and an
// explicit completed flag. An element that supplied "content" instead of
// "todoText" gets a targeted message naming the exact mistake; AI agents
// make this slip far more often than human API clients do.
func (v *ValidationService) ValidateTodoUpdates(updates []models.TodoUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("todos must be a non-empty array")
	}
	for i, u := range updates {
		if u.TodoText == "" && u.Content != "" {
			return fmt.Errorf("todos[%d] uses field %q: the todo text field is named %q, not %q", i, "content", "todoText", "content")
		}
		if strings.TrimSpace(u.TodoText) == "" {
			return fmt.Errorf("todos[%d].todoText is required and must be a non-empty string", i)
		}
		if u.Completed == nil {
			return fmt.Errorf("todos[%d].completed is required and must be a boolean", i)
		}
	}
	return nil
}

// ValidateSummary checks a completion summary. The literal strings
// "undefined" and "null" are rejected: they are the footprint of a
// caller stringifying a missing value.
func (v *ValidationService) ValidateSummary(summary string) error {
	trimmed := strings.TrimSpace(summary)
	if trimmed == "" {
		return fmt.Errorf("summary is required and must be a non-empty string")
	}
	if trimmed == "undefined" || trimmed == "null" {
		return fmt.Errorf("summary is %q: a real completion summary is required", trimmed)
	}
	return nil
}
