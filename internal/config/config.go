// Package config loads recall's configuration from ~/.recall and
// resolves the filesystem paths the rest of the system uses.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the user-editable configuration, read from config.yaml in
// the recall directory. Missing file means all defaults.
type Config struct {
	Privacy PrivacyConfig `yaml:"privacy"`
	LLM     LLMConfig     `yaml:"llm"`
}

// PrivacyConfig controls which commands never reach the store.
type PrivacyConfig struct {
	IgnorePatterns []string `yaml:"ignore_patterns"`
}

// LLMConfig points the summarizer/answerer at an OpenAI-compatible API.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// DefaultIgnorePatterns keep obvious credential-bearing commands out of
// the history even with no config file present.
func DefaultIgnorePatterns() []string {
	return []string{
		"export *KEY*",
		"export *SECRET*",
		"export *TOKEN*",
		"export *PASSWORD*",
		"*AWS_SECRET*",
	}
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Privacy: PrivacyConfig{IgnorePatterns: DefaultIgnorePatterns()},
		LLM: LLMConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
		},
	}
}

// Dir returns the recall data directory (~/.recall).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recall"
	}
	return filepath.Join(home, ".recall")
}

// DBPath returns the SQLite database path.
func DBPath() string {
	return filepath.Join(Dir(), "recall.db")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// PauseFile returns the path of the recording pause flag. The file's
// existence is the persisted pause state; the capture path itself only
// sees the boolean derived from it.
func PauseFile() string {
	return filepath.Join(Dir(), ".paused")
}

// EnvFile returns the path of the optional KEY=value environment file.
func EnvFile() string {
	return filepath.Join(Dir(), "env")
}

// EnsureDir creates the recall directory if missing.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("config: create %s: %w", Dir(), err)
	}
	return nil
}

// Paused reports whether recording is currently paused.
func Paused() bool {
	_, err := os.Stat(PauseFile())
	return err == nil
}

// Load reads config.yaml, falling back to defaults when it does not
// exist. The env file is applied first so config values may reference
// previously unset environment variables.
func Load() (Config, error) {
	LoadEnvFile(EnvFile())

	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(cfg.Privacy.IgnorePatterns) == 0 {
		cfg.Privacy.IgnorePatterns = DefaultIgnorePatterns()
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = Default().LLM.Model
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = Default().LLM.BaseURL
	}
	return cfg, nil
}

// LoadEnvFile reads KEY=value lines and sets any variable not already
// present in the environment. Missing file is a no-op.
func LoadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}
