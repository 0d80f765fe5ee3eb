package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Error indicates invalid or missing configuration. Configuration errors are
// fatal: the caller should abort before any generation starts.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Reason)
}

// Supported provider families. Selection of the concrete backend variant
// happens once at startup when the model registry is built.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

// DefaultOllamaBaseURL is used when an ollama model omits base_url.
const DefaultOllamaBaseURL = "http://localhost:11434"

// ModelConfig holds the per-backend generation parameters for one named
// model. It is read-only during a run.
type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SimulationConfig controls the dialogue loop and where transcripts land.
type SimulationConfig struct {
	MaxTurns  int    `yaml:"max_turns"`
	OutputDir string `yaml:"output_dir"`
}

// Config is the full simulator configuration, loaded once at startup and
// threaded explicitly through the batch runner and orchestrator.
type Config struct {
	Models             map[string]ModelConfig `yaml:"models"`
	Simulation         SimulationConfig       `yaml:"simulation"`
	PatientProfilePath string                 `yaml:"patient_profile_path"`
	SplitManifestPath  string                 `yaml:"split_manifest_path"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Reason: err.Error()}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Path: path, Reason: "invalid YAML: " + err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is complete enough to run a batch.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return &Error{Reason: "no models configured"}
	}
	for name, m := range c.Models {
		if m.ModelName == "" {
			return &Error{Reason: fmt.Sprintf("model %q: model_name is required", name)}
		}
		switch m.Provider {
		case ProviderOpenAI:
			if m.APIKeyEnv == "" {
				return &Error{Reason: fmt.Sprintf("model %q: api_key_env is required for provider openai", name)}
			}
		case ProviderDeepSeek:
			if m.APIKeyEnv == "" {
				return &Error{Reason: fmt.Sprintf("model %q: api_key_env is required for provider deepseek", name)}
			}
			if m.BaseURL == "" {
				return &Error{Reason: fmt.Sprintf("model %q: base_url is required for provider deepseek", name)}
			}
		case ProviderOllama:
			// base_url defaults to the local service endpoint
		default:
			return &Error{Reason: fmt.Sprintf("model %q: unknown provider %q", name, m.Provider)}
		}
		if m.MaxTokens <= 0 {
			return &Error{Reason: fmt.Sprintf("model %q: max_tokens must be positive", name)}
		}
	}
	if c.Simulation.MaxTurns < 1 {
		return &Error{Reason: "simulation.max_turns must be at least 1"}
	}
	if c.Simulation.OutputDir == "" {
		return &Error{Reason: "simulation.output_dir is required"}
	}
	if c.PatientProfilePath == "" {
		return &Error{Reason: "patient_profile_path is required"}
	}
	if c.SplitManifestPath == "" {
		return &Error{Reason: "split_manifest_path is required"}
	}
	return nil
}
