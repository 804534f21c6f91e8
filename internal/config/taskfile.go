package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TaskKind is the manifest kind for agent task documents.
const TaskKind = "Task"

// Task is a YAML task manifest: a task description plus optional per-run
// overrides of the agent and provider settings.
type Task struct {
	Kind string   `yaml:"kind"`
	Name string   `yaml:"name"`
	Task string   `yaml:"task"`
	Spec TaskSpec `yaml:"spec"`
}

type TaskSpec struct {
	RepoPath      string `yaml:"repoPath"`
	MaxIterations int    `yaml:"maxIterations"`
	ParserMode    string `yaml:"parserMode"`
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	MCPServerURL  string `yaml:"mcpServerUrl"`
}

// ParseTaskFile reads a YAML task manifest at the given path. Multi-document
// YAML (separated by ---) is supported; every document must be kind: Task.
func ParseTaskFile(path string) ([]*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file %s: %w", path, err)
	}
	return ParseTaskBytes(data)
}

// ParseTaskBytes parses raw YAML bytes into task manifests.
func ParseTaskBytes(data []byte) ([]*Task, error) {
	var tasks []*Task

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decoding yaml document: %w", err)
		}

		// Skip empty documents.
		if node.Kind == 0 {
			continue
		}

		var t Task
		if err := node.Decode(&t); err != nil {
			return nil, fmt.Errorf("decoding Task: %w", err)
		}
		if t.Kind == "" && t.Task == "" {
			continue
		}

		if err := validateTask(&t); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}

	return tasks, nil
}

// validateTask checks required fields on a task manifest.
func validateTask(t *Task) error {
	if t.Kind != TaskKind {
		return fmt.Errorf("unknown manifest kind: %q", t.Kind)
	}
	if t.Task == "" {
		return fmt.Errorf("validation failed: Task description must not be empty")
	}
	if t.Spec.ParserMode != "" && t.Spec.ParserMode != "marker" && t.Spec.ParserMode != "tag" {
		return fmt.Errorf("validation failed: parserMode must be marker or tag, got %q", t.Spec.ParserMode)
	}
	return nil
}
