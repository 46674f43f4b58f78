// Package workflow implements the status lifecycle engine for taskdeck:
// the finite-state model over configurable status labels, the completion
// driven recommendation rules, and the validation guards that sit in
// front of every task mutation.
package workflow

import (
	"fmt"
	"strings"
)

// Canonical internal keys for the four lifecycle stages. Deployments may
// relabel them freely via StatusMapping and add custom keys alongside
// them; only these four participate in auto-progression.
const (
	KeyNotStarted = "notStarted"
	KeyInProgress = "inProgress"
	KeyTest       = "test"
	KeyDone       = "done"

	// KeyUnknown is the sentinel returned by StatusService.StatusKey for
	// labels with no mapping. It is never a valid StatusMapping key.
	KeyUnknown = "unknown"
)

// Config is the static workflow configuration. It is loaded once at
// startup and treated as immutable afterwards, so it is safe to share
// across concurrent request handlers without coordination.
type Config struct {
	// StatusMapping maps internal status keys to display labels.
	// Labels are what the provider and the user see; keys are what the
	// engine reasons about.
	StatusMapping map[string]string `yaml:"status_mapping" mapstructure:"status_mapping"`

	// Transitions maps an internal key to the ordered list of internal
	// keys a task may move to from that status.
	Transitions map[string][]string `yaml:"transitions" mapstructure:"transitions"`

	// TaskTypes is the set of allowed task type labels.
	TaskTypes []string `yaml:"task_types" mapstructure:"task_types"`

	// DefaultStatus is the internal key assigned to newly created tasks.
	DefaultStatus string `yaml:"default_status" mapstructure:"default_status"`

	// RequiresValidation lists internal keys whose statuses need explicit
	// human confirmation before a task may enter them.
	RequiresValidation []string `yaml:"requires_validation" mapstructure:"requires_validation"`
}

// DefaultConfig returns the canonical four-stage workflow used when no
// configuration file is present.
func DefaultConfig() *Config {
	return &Config{
		StatusMapping: map[string]string{
			KeyNotStarted: "Not Started",
			KeyInProgress: "In Progress",
			KeyTest:       "Test",
			KeyDone:       "Done",
		},
		Transitions: map[string][]string{
			KeyNotStarted: {KeyInProgress},
			KeyInProgress: {KeyTest},
			KeyTest:       {KeyDone, KeyInProgress},
			KeyDone:       {KeyTest},
		},
		TaskTypes:          []string{"Feature", "Bug", "Chore"},
		DefaultStatus:      KeyNotStarted,
		RequiresValidation: []string{KeyDone},
	}
}

// Validate checks the structural invariants of the configuration:
// every key referenced in Transitions (sources and destinations) must
// exist in StatusMapping, DefaultStatus must exist in StatusMapping,
// and display labels must be unique so the reverse lookup is well defined.
func (c *Config) Validate() error {
	if len(c.StatusMapping) == 0 {
		return fmt.Errorf("workflow config: status_mapping must not be empty")
	}

	var errs []string

	seen := make(map[string]string, len(c.StatusMapping))
	for key, label := range c.StatusMapping {
		if key == KeyUnknown {
			errs = append(errs, fmt.Sprintf("status_mapping key %q is reserved", KeyUnknown))
		}
		if strings.TrimSpace(label) == "" {
			errs = append(errs, fmt.Sprintf("status_mapping key %q has an empty label", key))
			continue
		}
		if prev, dup := seen[label]; dup {
			errs = append(errs, fmt.Sprintf("status label %q is mapped by both %q and %q", label, prev, key))
		}
		seen[label] = key
	}

	for from, dests := range c.Transitions {
		if _, ok := c.StatusMapping[from]; !ok {
			errs = append(errs, fmt.Sprintf("transitions key %q has no status_mapping entry", from))
		}
		for _, to := range dests {
			if _, ok := c.StatusMapping[to]; !ok {
				errs = append(errs, fmt.Sprintf("transition %s -> %s references unmapped key %q", from, to, to))
			}
		}
	}

	if c.DefaultStatus == "" {
		errs = append(errs, "default_status must not be empty")
	} else if _, ok := c.StatusMapping[c.DefaultStatus]; !ok {
		errs = append(errs, fmt.Sprintf("default_status %q has no status_mapping entry", c.DefaultStatus))
	}

	for _, key := range c.RequiresValidation {
		if _, ok := c.StatusMapping[key]; !ok {
			errs = append(errs, fmt.Sprintf("requires_validation key %q has no status_mapping entry", key))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("workflow config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// RequiresConfirmation reports whether the given internal key is listed
// in RequiresValidation.
func (c *Config) RequiresConfirmation(key string) bool {
	for _, k := range c.RequiresValidation {
		if k == key {
			return true
		}
	}
	return false
}
