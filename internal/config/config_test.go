package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider.Name != "anthropic" {
		t.Errorf("Provider.Name = %q", cfg.Provider.Name)
	}
	if cfg.Provider.MaxTokens != 2000 {
		t.Errorf("Provider.MaxTokens = %d", cfg.Provider.MaxTokens)
	}
	if cfg.Agent.MaxIterations != 10 {
		t.Errorf("Agent.MaxIterations = %d", cfg.Agent.MaxIterations)
	}
	if cfg.Agent.ParserMode != "marker" {
		t.Errorf("Agent.ParserMode = %q", cfg.Agent.ParserMode)
	}
	if cfg.ServerAddress() != "127.0.0.1:7342" {
		t.Errorf("ServerAddress = %q", cfg.ServerAddress())
	}
	if !strings.HasSuffix(cfg.DBPath(), "reagent.db") {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
provider:
  name: gemini
  model: gemini-2.0-flash
agent:
  parserMode: tag
  mcpServerUrl: http://localhost:9000
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider.Name != "gemini" || cfg.Provider.Model != "gemini-2.0-flash" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Agent.ParserMode != "tag" {
		t.Errorf("ParserMode = %q", cfg.Agent.ParserMode)
	}
	// Untouched fields keep defaults.
	if cfg.Provider.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want default 2000", cfg.Provider.MaxTokens)
	}
	if cfg.Server.Port != 7342 {
		t.Errorf("Server.Port = %d, want default 7342", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load accepted a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestBuildLogger(t *testing.T) {
	tests := []struct {
		name    string
		lc      LogConfig
		wantErr bool
	}{
		{name: "console info", lc: LogConfig{Level: "info", Format: "console"}},
		{name: "json debug", lc: LogConfig{Level: "debug", Format: "json"}},
		{name: "bad level", lc: LogConfig{Level: "loud", Format: "console"}, wantErr: true},
		{name: "bad format", lc: LogConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := tt.lc.BuildLogger()
			if tt.wantErr {
				if err == nil {
					t.Error("BuildLogger succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildLogger failed: %v", err)
			}
			logger.Sync()
		})
	}
}

func TestParseTaskFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.yaml")
	content := `
kind: Task
name: todo-sweep
task: Find all TODO comments and summarize them
spec:
  parserMode: tag
  maxIterations: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tasks, err := ParseTaskFile(path)
	if err != nil {
		t.Fatalf("ParseTaskFile failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Name != "todo-sweep" {
		t.Errorf("Name = %q", task.Name)
	}
	if task.Spec.ParserMode != "tag" || task.Spec.MaxIterations != 5 {
		t.Errorf("Spec = %+v", task.Spec)
	}
}

func TestParseTaskBytesMultiDocument(t *testing.T) {
	content := `
kind: Task
task: first task
---
kind: Task
task: second task
---
`
	tasks, err := ParseTaskBytes([]byte(content))
	if err != nil {
		t.Fatalf("ParseTaskBytes failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[1].Task != "second task" {
		t.Errorf("tasks[1] = %+v", tasks[1])
	}
}

func TestParseTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "wrong kind", content: "kind: Job\ntask: something"},
		{name: "empty task", content: "kind: Task\nname: x"},
		{name: "bad parser mode", content: "kind: Task\ntask: x\nspec:\n  parserMode: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTaskBytes([]byte(tt.content)); err == nil {
				t.Error("validation accepted invalid manifest")
			}
		})
	}
}
