package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ProjectConfig holds repository-level defaults. Flags and environment
// variables override every field.
type ProjectConfig struct {
	// ConnectionStringEnv names the environment variable holding the
	// connection string, for repos that keep one per environment.
	ConnectionStringEnv string            `yaml:"connection_string_env,omitempty"`
	Action              string            `yaml:"action,omitempty"`
	Arguments           string            `yaml:"arguments,omitempty"`
	BuildArguments      string            `yaml:"build_arguments,omitempty"`
	Timeout             string            `yaml:"timeout,omitempty"`
	Variables           map[string]string `yaml:"variables,omitempty"`
	SQLPackagePath      string            `yaml:"sqlpackage_path,omitempty"`
	CloudSQLInstance    string            `yaml:"cloudsql_instance,omitempty"`
}

const ConfigFileName = "sqlaction.yaml"

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", sqlaction.ErrInvalidConfig, configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return &cfg, nil
}

// Validate checks fields that have a restricted format.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if c.Action != "" {
		if _, err := sqlaction.ParsePublishAction(c.Action); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: timeout %q is not a positive duration", sqlaction.ErrInvalidConfig, c.Timeout)
	}
	return d, nil
}
