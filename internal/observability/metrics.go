package observability

import (
	"fmt"
	"time"
)

// Metrics holds aggregates derived from the event log over a window.
type Metrics struct {
	TasksCreated   int            `json:"tasks_created"`
	TasksCompleted int            `json:"tasks_completed"`
	AutoProgressed int            `json:"auto_progressed"`
	TasksByStatus  map[string]int `json:"tasks_by_status"`
	TasksByType    map[string]int `json:"tasks_by_type"`
	EventCount     int            `json:"event_count"`
	OldestEvent    *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
// TasksByStatus counts status-change destinations, so it reflects flow
// through the workflow rather than a point-in-time census.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		TasksByStatus: make(map[string]int),
		TasksByType:   make(map[string]int),
	}
	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventTaskCreated:
			m.TasksCreated++
			if taskType, ok := event.Data["type"].(string); ok {
				m.TasksByType[taskType]++
			}
		case EventTaskCompleted:
			m.TasksCompleted++
		case EventTaskStatusChanged:
			if status, ok := event.Data["new_status"].(string); ok {
				m.TasksByStatus[status]++
			}
		case EventTaskAutoProgress:
			m.AutoProgressed++
			if status, ok := event.Data["new_status"].(string); ok {
				m.TasksByStatus[status]++
			}
		}
	}

	return m, nil
}
