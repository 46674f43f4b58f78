package workflow

import (
	"strings"
	"testing"

	"github.com/taskdeck/taskdeck/pkg/models"
)

func newValidationService() *ValidationService {
	cfg := fourStageConfig()
	return NewValidationService(cfg, NewStatusService(cfg))
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestValidateTaskType(t *testing.T) {
	v := newValidationService()

	tests := []struct {
		taskType string
		wantErr  bool
	}{
		{"Feature", false},
		{"feature", false},
		{"BUG", false},
		{"chore", false},
		{"unknown", true},
		{"", true},
	}

	for _, tt := range tests {
		err := v.ValidateTaskType(tt.taskType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTaskType(%q) error = %v, wantErr %v", tt.taskType, err, tt.wantErr)
		}
	}
}

func TestValidateTaskTypeErrorListsAllowed(t *testing.T) {
	v := newValidationService()

	err := v.ValidateTaskType("epic")
	if err == nil {
		t.Fatal("expected error for unknown task type")
	}
	for _, allowed := range []string{"Feature", "Bug", "Chore"} {
		if !strings.Contains(err.Error(), allowed) {
			t.Errorf("error %q should list allowed type %q", err, allowed)
		}
	}
	if !strings.Contains(err.Error(), "epic") {
		t.Errorf("error %q should include the offending value", err)
	}
}

func TestValidateStatusTransition(t *testing.T) {
	v := newValidationService()

	// Idempotent status-set is always legal, even for unknown labels.
	if err := v.ValidateStatusTransition("Done", "Done"); err != nil {
		t.Errorf("same-status transition should be legal: %v", err)
	}
	if err := v.ValidateStatusTransition("Whatever", "Whatever"); err != nil {
		t.Errorf("same-status transition should be legal for any label: %v", err)
	}

	// Any transition between two known statuses is accepted, including
	// ones the transitions graph would not recommend.
	if err := v.ValidateStatusTransition("Done", "Not Started"); err != nil {
		t.Errorf("transition between known statuses should be accepted: %v", err)
	}
	if err := v.ValidateStatusTransition("Not Started", "Done"); err != nil {
		t.Errorf("transition between known statuses should be accepted: %v", err)
	}

	// Unknown target is rejected with the valid label set.
	err := v.ValidateStatusTransition("Not Started", "Shipped")
	if err == nil {
		t.Fatal("expected error for unknown target status")
	}
	if !strings.Contains(err.Error(), "Shipped") {
		t.Errorf("error %q should include the offending label", err)
	}
	for _, label := range []string{"Not Started", "In Progress", "Test", "Done"} {
		if !strings.Contains(err.Error(), label) {
			t.Errorf("error %q should list valid label %q", err, label)
		}
	}
}

func TestValidateTaskUpdate(t *testing.T) {
	v := newValidationService()

	tests := []struct {
		name    string
		update  models.TaskUpdate
		wantErr bool
	}{
		{"empty update", models.TaskUpdate{}, false},
		{"valid title", models.TaskUpdate{Title: strPtr("New title")}, false},
		{"blank title", models.TaskUpdate{Title: strPtr("   ")}, true},
		{"valid type", models.TaskUpdate{Type: strPtr("bug")}, false},
		{"invalid type", models.TaskUpdate{Type: strPtr("epic")}, true},
		{"valid status", models.TaskUpdate{Status: strPtr("Done")}, false},
		{"blank status", models.TaskUpdate{Status: strPtr("")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTaskUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskUpdate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTaskCreation(t *testing.T) {
	v := newValidationService()

	tests := []struct {
		name        string
		title       string
		taskType    string
		description string
		wantErr     string
	}{
		{"valid", "Add auth", "Feature", "Implement login flow", ""},
		{"empty title", "  ", "Feature", "desc", "title"},
		{"empty type", "Add auth", "", "desc", "type"},
		{"bad type", "Add auth", "epic", "desc", "invalid task type"},
		{"empty description", "Add auth", "Feature", " ", "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTaskCreation(tt.title, tt.taskType, tt.description)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTodoUpdates(t *testing.T) {
	v := newValidationService()

	if err := v.ValidateTodoUpdates(nil); err == nil {
		t.Error("nil batch must be rejected")
	}
	if err := v.ValidateTodoUpdates([]models.TodoUpdate{}); err == nil {
		t.Error("empty batch must be rejected")
	}

	good := []models.TodoUpdate{
		{TodoText: "write tests", Completed: boolPtr(true)},
		{TodoText: "wire CI", Completed: boolPtr(false)},
	}
	if err := v.ValidateTodoUpdates(good); err != nil {
		t.Errorf("valid batch rejected: %v", err)
	}

	missingCompleted := []models.TodoUpdate{{TodoText: "x"}}
	if err := v.ValidateTodoUpdates(missingCompleted); err == nil {
		t.Error("missing completed flag must be rejected")
	} else if !strings.Contains(err.Error(), "completed") {
		t.Errorf("error %q should name the completed field", err)
	}

	blankText := []models.TodoUpdate{{TodoText: "  ", Completed: boolPtr(true)}}
	if err := v.ValidateTodoUpdates(blankText); err == nil {
		t.Error("blank todoText must be rejected")
	}
}

func TestValidateTodoUpdatesNamesWrongField(t *testing.T) {
	v := newValidationService()

	wrong := []models.TodoUpdate{{Content: "renamed field", Completed: boolPtr(true)}}
	err := v.ValidateTodoUpdates(wrong)
	if err == nil {
		t.Fatal("expected error for content-instead-of-todoText")
	}
	if !strings.Contains(err.Error(), "content") || !strings.Contains(err.Error(), "todoText") {
		t.Errorf("error %q should name both the wrong field and the right one", err)
	}
}

func TestValidateSummary(t *testing.T) {
	v := newValidationService()

	tests := []struct {
		summary string
		wantErr bool
	}{
		{"Implemented and verified the login flow.", false},
		{"", true},
		{"   \n\t ", true},
		{"undefined", true},
		{"null", true},
		{" undefined ", true},
	}

	for _, tt := range tests {
		err := v.ValidateSummary(tt.summary)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSummary(%q) error = %v, wantErr %v", tt.summary, err, tt.wantErr)
		}
	}
}
