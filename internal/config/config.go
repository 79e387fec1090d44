// Package config handles runtime configuration and the .profilerelay
// directory structure. Every project that runs the pipeline gets a
// .profilerelay/ folder holding config.yaml, the run log, and optional
// presenter template plugins.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir is the name of the directory created next to the caller.
const Dir = ".profilerelay"

const (
	// BackendTemplate selects the deterministic template generator.
	BackendTemplate = "template"
	// BackendOpenRouter selects the LLM-backed generator.
	BackendOpenRouter = "openrouter"
)

const defaultConfigYAML = `# profilerelay configuration
version: 1

generator:
  # template: deterministic rendering, no network
  # openrouter: LLM-backed, reads the API token from the token_env variable
  backend: template
  model: openrouter/auto
  token_env: OPENROUTER_API_KEY

# Optional directory source. Relative paths resolve against this file's
# directory. Leave empty to use the built-in demo table.
users_file: ""
`

// GeneratorConfig selects and parameterizes the generation backend.
type GeneratorConfig struct {
	Backend  string `yaml:"backend"`
	Model    string `yaml:"model"`
	TokenEnv string `yaml:"token_env"`
}

// FileConfig models config.yaml.
type FileConfig struct {
	Version   int             `yaml:"version"`
	Generator GeneratorConfig `yaml:"generator"`
	UsersFile string          `yaml:"users_file"`
}

// Config holds the resolved runtime configuration.
type Config struct {
	// ProjectDir is where the command was run.
	ProjectDir string
	// RelayDir is ProjectDir/.profilerelay.
	RelayDir string

	File FileConfig
}

// LogPath returns the run log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.RelayDir, "logs", "run.log")
}

// TemplatesDir returns where presenter template plugins live.
func (c *Config) TemplatesDir() string {
	return filepath.Join(c.RelayDir, "templates")
}

// UsersPath resolves the configured users file, empty when unset.
func (c *Config) UsersPath() string {
	if c.File.UsersFile == "" {
		return ""
	}
	if filepath.IsAbs(c.File.UsersFile) {
		return c.File.UsersFile
	}
	return filepath.Join(c.RelayDir, c.File.UsersFile)
}

// Token reads the generator API token from the configured environment
// variable.
func (c *Config) Token() string {
	if c.File.Generator.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.File.Generator.TokenEnv)
}

// New loads configuration for projectDir, creating the .profilerelay
// structure and a default config.yaml on first run.
func New(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		RelayDir:   filepath.Join(projectDir, Dir),
	}
	if err := initDir(cfg.RelayDir); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.RelayDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg.File); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validate(cfg.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initDir(relayDir string) error {
	for _, dir := range []string{relayDir, filepath.Join(relayDir, "logs"), filepath.Join(relayDir, "templates")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	path := filepath.Join(relayDir, "config.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
			return fmt.Errorf("config: write default %s: %w", path, err)
		}
	}
	return nil
}

func validate(file FileConfig) error {
	switch file.Generator.Backend {
	case BackendTemplate, BackendOpenRouter:
	case "":
		return fmt.Errorf("config: generator.backend is required")
	default:
		return fmt.Errorf("config: unknown generator.backend %q", file.Generator.Backend)
	}
	if file.Generator.Backend == BackendOpenRouter && file.Generator.Model == "" {
		return fmt.Errorf("config: generator.model is required for the openrouter backend")
	}
	return nil
}
