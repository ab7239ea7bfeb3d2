package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Server   Server   `yaml:"server"`
	Gemini   Gemini   `yaml:"gemini"`
	Analysis Analysis `yaml:"analysis"`
	Logging  Logging  `yaml:"logging"`
}

type Server struct {
	Port int `yaml:"port"`
}

// Gemini configures the text-insight provider. The credential itself is
// read from the environment variable named by APIKeyEnv and never stored in
// the config file.
type Gemini struct {
	Model          string `yaml:"model"`
	Endpoint       string `yaml:"endpoint"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Analysis struct {
	TopLocations int `yaml:"top_locations"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for mediascope.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "mediascope")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/mediascope/config.yaml > ./config.yaml.
// No file found with no explicit path is not an error: built-in defaults
// apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded default config: %v", err))
	}
	return cfg
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults for unset fields.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Server: Server{Port: 8000},
		Gemini: Gemini{
			Model:          "gemini-2.0-flash",
			Endpoint:       "https://generativelanguage.googleapis.com",
			APIKeyEnv:      "GEMINI_API_KEY",
			MaxTokens:      512,
			TimeoutSeconds: 60,
		},
		Analysis: Analysis{TopLocations: 5},
		Logging:  Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
