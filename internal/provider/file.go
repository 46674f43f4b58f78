package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// tasksFile is the top-level structure of tasks.yaml. NextID is the
// monotonically increasing counter behind TASK-XXXXX IDs.
type tasksFile struct {
	Version string                 `yaml:"version"`
	NextID  int                    `yaml:"next_id"`
	Tasks   map[string]models.Task `yaml:"tasks"`
}

// fileProvider implements Provider with a YAML file store. Every
// operation loads the file, applies the change, and saves it back, so
// external edits between calls are picked up.
type fileProvider struct {
	basePath string
	idWidth  int
	mu       sync.Mutex
	data     tasksFile
}

// NewFileProvider creates a Provider backed by a tasks.yaml file in the
// given base directory. IDs look like TASK-00042.
func NewFileProvider(basePath string) Provider {
	return &fileProvider{
		basePath: basePath,
		idWidth:  5,
		data: tasksFile{
			Version: "1.0",
			Tasks:   make(map[string]models.Task),
		},
	}
}

func (p *fileProvider) filePath() string {
	return filepath.Join(p.basePath, "tasks.yaml")
}

func (p *fileProvider) CreateTask(title, taskType, description, status string) (*models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.load(); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	p.data.NextID++
	now := time.Now().UTC()
	task := models.Task{
		ID:          fmt.Sprintf("TASK-%0*d", p.idWidth, p.data.NextID),
		Title:       title,
		Type:        taskType,
		Status:      status,
		Description: description,
		Created:     now,
		Updated:     now,
	}
	p.data.Tasks[task.ID] = task

	if err := p.save(); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return &task, nil
}

func (p *fileProvider) GetTask(id string) (*models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.load(); err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	task, ok := p.data.Tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s not found", id)
	}
	return &task, nil
}

func (p *fileProvider) ListTasks(status string) ([]*models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.load(); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var tasks []*models.Task
	for id := range p.data.Tasks {
		task := p.data.Tasks[id]
		if status != "" && task.Status != status {
			continue
		}
		tasks = append(tasks, &task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (p *fileProvider) UpdateTask(id string, update models.TaskUpdate) (*models.Task, error) {
	return p.mutate(id, "updating task", func(task *models.Task) {
		if update.Title != nil {
			task.Title = *update.Title
		}
		if update.Type != nil {
			task.Type = *update.Type
		}
		if update.Status != nil {
			task.Status = *update.Status
		}
		if update.Description != nil {
			task.Description = *update.Description
		}
	})
}

func (p *fileProvider) SetStatus(id, status string) (*models.Task, error) {
	return p.mutate(id, "setting status for task", func(task *models.Task) {
		task.Status = status
	})
}

func (p *fileProvider) UpdateTodos(id string, todos []models.TodoItem) (*models.Task, error) {
	return p.mutate(id, "updating todos for task", func(task *models.Task) {
		task.Todos = todos
	})
}

func (p *fileProvider) SetSummary(id, summary string) (*models.Task, error) {
	return p.mutate(id, "setting summary for task", func(task *models.Task) {
		task.Summary = summary
	})
}

// mutate loads the store, applies fn to the task, bumps Updated, and
// saves the store back.
func (p *fileProvider) mutate(id, op string, fn func(*models.Task)) (*models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.load(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}

	task, ok := p.data.Tasks[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: task %s not found", op, id, id)
	}

	fn(&task)
	task.Updated = time.Now().UTC()
	p.data.Tasks[id] = task

	if err := p.save(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	return &task, nil
}

func (p *fileProvider) load() error {
	data, err := os.ReadFile(p.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			p.data = tasksFile{
				Version: "1.0",
				Tasks:   make(map[string]models.Task),
			}
			return nil
		}
		return fmt.Errorf("loading task store: %w", err)
	}

	var tf tasksFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("loading task store: parsing YAML: %w", err)
	}
	if tf.Tasks == nil {
		tf.Tasks = make(map[string]models.Task)
	}
	p.data = tf
	return nil
}

func (p *fileProvider) save() error {
	if err := os.MkdirAll(p.basePath, 0o750); err != nil {
		return fmt.Errorf("saving task store: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&p.data)
	if err != nil {
		return fmt.Errorf("saving task store: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(p.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving task store: writing file: %w", err)
	}
	return nil
}
