package workflow

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty mapping",
			mutate:  func(c *Config) { c.StatusMapping = nil },
			wantErr: "status_mapping",
		},
		{
			name:    "transition source unmapped",
			mutate:  func(c *Config) { c.Transitions["ghost"] = []string{KeyDone} },
			wantErr: "ghost",
		},
		{
			name:    "transition destination unmapped",
			mutate:  func(c *Config) { c.Transitions[KeyDone] = []string{"ghost"} },
			wantErr: "ghost",
		},
		{
			name:    "default status unmapped",
			mutate:  func(c *Config) { c.DefaultStatus = "ghost" },
			wantErr: "default_status",
		},
		{
			name:    "default status empty",
			mutate:  func(c *Config) { c.DefaultStatus = "" },
			wantErr: "default_status",
		},
		{
			name: "duplicate labels",
			mutate: func(c *Config) {
				c.StatusMapping[KeyTest] = c.StatusMapping[KeyDone]
			},
			wantErr: "mapped by both",
		},
		{
			name:    "empty label",
			mutate:  func(c *Config) { c.StatusMapping[KeyTest] = "  " },
			wantErr: "empty label",
		},
		{
			name:    "reserved key",
			mutate:  func(c *Config) { c.StatusMapping[KeyUnknown] = "Unknown" },
			wantErr: "reserved",
		},
		{
			name:    "requires_validation unmapped",
			mutate:  func(c *Config) { c.RequiresValidation = []string{"ghost"} },
			wantErr: "requires_validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequiresConfirmation(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.RequiresConfirmation(KeyDone) {
		t.Error("done should require confirmation in the default config")
	}
	if cfg.RequiresConfirmation(KeyInProgress) {
		t.Error("inProgress should not require confirmation")
	}
}
