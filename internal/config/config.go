package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wrenlabs/specwright/internal/provider"
	"gopkg.in/yaml.v3"
)

// Dir is the project-local settings directory.
const Dir = ".specwright"

// Settings is the resolved tool configuration.
type Settings struct {
	Provider        string        `yaml:"provider"`
	OutputDir       string        `yaml:"outputDir"`
	FirstPrinciples bool          `yaml:"firstPrinciples"`
	MaxRetries      int           `yaml:"maxRetries"`
	ReceiveTimeout  time.Duration `yaml:"receiveTimeout"`
}

// rawSettings distinguishes missing keys from explicit zero values.
type rawSettings struct {
	Provider        *string `yaml:"provider"`
	OutputDir       *string `yaml:"outputDir"`
	FirstPrinciples *bool   `yaml:"firstPrinciples"`
	MaxRetries      *int    `yaml:"maxRetries"`
	ReceiveTimeout  *string `yaml:"receiveTimeout"`
}

// RawProviderConfig holds per-provider overrides from YAML. Pointer
// fields distinguish "not set" (nil) from "set to empty".
type RawProviderConfig struct {
	Args []string `yaml:"args"`
	Env  []string `yaml:"env"`
}

type file struct {
	rawSettings `yaml:",inline"`
	Providers   map[string]*RawProviderConfig `yaml:"providers"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Provider:       "claude",
		OutputDir:      Dir,
		MaxRetries:     3,
		ReceiveTimeout: provider.DefaultReceiveTimeout,
	}
}

// Validate checks the resolved settings.
func (s Settings) Validate() error {
	if s.Provider == "" {
		return fmt.Errorf("provider must not be empty")
	}
	if s.OutputDir == "" {
		return fmt.Errorf("outputDir must not be empty")
	}
	if s.MaxRetries <= 0 {
		return fmt.Errorf("maxRetries must be greater than 0")
	}
	if s.ReceiveTimeout <= 0 {
		return fmt.Errorf("receiveTimeout must be greater than 0")
	}
	return nil
}

func path(dir string) string {
	return filepath.Join(dir, Dir, "config.yaml")
}

// Load reads config.yaml from dir's settings directory. A missing file
// yields the defaults; a set key overrides its default, an unset key
// keeps it.
func Load(dir string) (Settings, error) {
	data, err := os.ReadFile(path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, err
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}

	s := Default()
	if f.Provider != nil {
		s.Provider = *f.Provider
	}
	if f.OutputDir != nil {
		s.OutputDir = *f.OutputDir
	}
	if f.FirstPrinciples != nil {
		s.FirstPrinciples = *f.FirstPrinciples
	}
	if f.MaxRetries != nil {
		s.MaxRetries = *f.MaxRetries
	}
	if f.ReceiveTimeout != nil {
		d, err := time.ParseDuration(*f.ReceiveTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid receiveTimeout: %w", err)
		}
		s.ReceiveTimeout = d
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadProviderConfig reads per-provider overrides from config.yaml.
// Returns nil when the provider has no overrides.
func LoadProviderConfig(dir, name string) *RawProviderConfig {
	data, err := os.ReadFile(path(dir))
	if err != nil {
		return nil
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil
	}

	raw, ok := f.Providers[name]
	if !ok || raw == nil {
		return nil
	}
	if len(raw.Args) == 0 && len(raw.Env) == 0 {
		return nil
	}
	return raw
}
