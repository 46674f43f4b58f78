// Package config loads the .taskdeck.yaml configuration file: provider
// selection plus the workflow definition consumed by the status engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/internal/workflow"
)

// AppConfig is the merged application configuration. The workflow
// section is validated before it leaves this package, so downstream
// consumers can rely on its invariants.
type AppConfig struct {
	BasePath string
	Provider string
	Workflow *workflow.Config
}

// Load reads .taskdeck.yaml from basePath. A missing file yields the
// default file provider and the canonical four-stage workflow.
func Load(basePath string) (*AppConfig, error) {
	cfg := &AppConfig{
		BasePath: basePath,
		Provider: "file",
		Workflow: workflow.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName(".taskdeck")
	v.SetConfigType("yaml")
	v.AddConfigPath(basePath)
	v.SetDefault("provider", cfg.Provider)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .taskdeck.yaml: %w", err)
	}

	cfg.Provider = v.GetString("provider")

	// Viper lowercases map keys, which would mangle camelCase internal
	// status keys like "notStarted", so the workflow section is decoded
	// straight from the file with yaml.v3 instead.
	if v.IsSet("workflow") {
		wf, err := loadWorkflowSection(v.ConfigFileUsed())
		if err != nil {
			return nil, err
		}
		cfg.Workflow = wf
	}

	if err := cfg.Workflow.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadWorkflowSection decodes the workflow block of the config file.
func loadWorkflowSection(path string) (*workflow.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow config: %w", err)
	}

	var doc struct {
		Workflow workflow.Config `yaml:"workflow"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing workflow config: %w", err)
	}
	return &doc.Workflow, nil
}

// WriteDefault writes a .taskdeck.yaml with the default provider and
// workflow to basePath. It refuses to overwrite an existing file.
func WriteDefault(basePath string) (string, error) {
	path := filepath.Join(basePath, ".taskdeck.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file %s already exists", path)
	}

	doc := struct {
		Provider string          `yaml:"provider"`
		Workflow workflow.Config `yaml:"workflow"`
	}{
		Provider: "file",
		Workflow: *workflow.DefaultConfig(),
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}
