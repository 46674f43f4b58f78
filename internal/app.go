// Package internal provides the App struct that wires all taskdeck
// components together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskdeck/taskdeck/internal/cli"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/provider"
	"github.com/taskdeck/taskdeck/internal/workflow"
)

// App holds all service dependencies for taskdeck.
type App struct {
	BasePath string

	// Configuration
	Config *config.AppConfig

	// Provider layer
	Registry *provider.Registry
	Provider provider.Provider

	// Workflow engine
	StatusSvc  *workflow.StatusService
	Validation *workflow.ValidationService

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory
// holding .taskdeck.yaml and the task data files.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Provider layer ---
	app.Registry = provider.NewRegistry()
	if err := app.Registry.Register("file", provider.NewFileProvider(basePath)); err != nil {
		return nil, fmt.Errorf("registering file provider: %w", err)
	}
	app.Provider, err = app.Registry.Get(cfg.Provider)
	if err != nil {
		return nil, err
	}

	// --- Workflow engine ---
	app.StatusSvc = workflow.NewStatusService(cfg.Workflow)
	app.Validation = workflow.NewValidationService(cfg.Workflow, app.StatusSvc)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".taskdeck_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.TaskProvider = app.Provider
	cli.WorkflowCfg = cfg.Workflow
	cli.StatusSvc = app.StatusSvc
	cli.Validation = app.Validation
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. Safe to call when EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the taskdeck data directory. It checks the
// TASKDECK_HOME env var, then walks up from the current directory
// looking for a .taskdeck.yaml, and falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("TASKDECK_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".taskdeck.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
