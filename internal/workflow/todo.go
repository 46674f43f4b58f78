package workflow

import (
	"math"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// nextTodoPreviewLimit caps how many pending todo texts are included in
// a TodoStats preview.
const nextTodoPreviewLimit = 3

// TodoStats aggregates a task's checklist into completion counts and the
// percentage that drives status recommendations. Percentage is
// round(completed/total*100), defined as 0 for an empty list. Computed
// per request, never persisted.
type TodoStats struct {
	Total      int      `json:"total"`
	Completed  int      `json:"completed"`
	Percentage int      `json:"percentage"`
	NextTodos  []string `json:"next_todos,omitempty"`
}

// ComputeTodoStats derives TodoStats from a task's checklist items.
func ComputeTodoStats(items []models.TodoItem) TodoStats {
	stats := TodoStats{Total: len(items)}

	for _, item := range items {
		if item.Completed {
			stats.Completed++
			continue
		}
		if len(stats.NextTodos) < nextTodoPreviewLimit {
			stats.NextTodos = append(stats.NextTodos, item.Text)
		}
	}

	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats
}
