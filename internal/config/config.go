package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Agent    AgentConfig    `yaml:"agent"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

type ProviderConfig struct {
	Name      string `yaml:"name"`      // "anthropic" or "gemini"
	Model     string `yaml:"model"`     // default "claude-3-5-sonnet-20241022"
	MaxTokens int    `yaml:"maxTokens"` // default 2000
}

type AgentConfig struct {
	RepoPath      string `yaml:"repoPath"`      // default "."
	MaxIterations int    `yaml:"maxIterations"` // default 10
	ParserMode    string `yaml:"parserMode"`    // "marker" or "tag"
	MCPServerURL  string `yaml:"mcpServerUrl"`  // empty disables remote tools
}

type ServerConfig struct {
	Port int    `yaml:"port"` // default 7342
	Host string `yaml:"host"` // default "127.0.0.1"
}

type StoreConfig struct {
	Type    string `yaml:"type"`    // "bolt" or "memory"
	DataDir string `yaml:"dataDir"` // default "~/.reagent/data"
}

type LogConfig struct {
	Level  string `yaml:"level"`  // default "info"
	Format string `yaml:"format"` // default "console"
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:      "anthropic",
			Model:     "claude-3-5-sonnet-20241022",
			MaxTokens: 2000,
		},
		Agent: AgentConfig{
			RepoPath:      ".",
			MaxIterations: 10,
			ParserMode:    "marker",
		},
		Server: ServerConfig{
			Port: 7342,
			Host: "127.0.0.1",
		},
		Store: StoreConfig{
			Type:    "bolt",
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ServerAddress returns the listen address in "host:port" format.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DBPath returns the full path to the BoltDB file (DataDir + "/reagent.db").
func (c *Config) DBPath() string {
	return filepath.Join(c.Store.DataDir, "reagent.db")
}

// defaultDataDir resolves the default data directory.
// It uses os.UserHomeDir() + "/.reagent/data", falling back to
// "/tmp/reagent/data" if the home directory cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "reagent", "data")
	}
	return filepath.Join(home, ".reagent", "data")
}
