package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// RetryConfig configures the backoff after a failed scan step.
type RetryConfig struct {
	Initial time.Duration `mapstructure:"initial"`
	Max     time.Duration `mapstructure:"max"`
}

// Config represents the application configuration.
type Config struct {
	Roots         []string      `mapstructure:"roots"`
	CommandBuffer int           `mapstructure:"command_buffer"`
	Refresh       time.Duration `mapstructure:"refresh"`
	Retry         RetryConfig   `mapstructure:"retry"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// SetDefaults registers drill's defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("roots", []string{DefaultRoot})
	v.SetDefault("command_buffer", DefaultCommandBuffer)
	v.SetDefault("refresh", DefaultRefresh)
	v.SetDefault("retry.initial", DefaultRetryInitial)
	v.SetDefault("retry.max", DefaultRetryMax)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means DefaultLogPath
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"coordinator": "info",
		"worker":      "info",
		"tui":         "info",
	})
}

// AddConfigPaths registers the config file search path on v.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/drill/config.yaml
//   - $HOME/.config/drill/config.yaml
func AddConfigPaths(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "drill"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "drill"))
	}
}

// BindEnv enables DRILL_ prefixed environment overrides on v,
// e.g. DRILL_RETRY_MAX=10s.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("DRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load loads configuration from the config file and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	AddConfigPaths(v)
	BindEnv(v)
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills in defaults for zero values and rejects inconsistent ones.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		c.Roots = []string{DefaultRoot}
	}
	if c.CommandBuffer < 1 {
		c.CommandBuffer = DefaultCommandBuffer
	}
	if c.Refresh <= 0 {
		c.Refresh = DefaultRefresh
	}
	if c.Retry.Initial <= 0 {
		c.Retry.Initial = DefaultRetryInitial
	}
	if c.Retry.Max <= 0 {
		c.Retry.Max = DefaultRetryMax
	}
	if c.Retry.Max < c.Retry.Initial {
		return fmt.Errorf("retry.max (%s) is shorter than retry.initial (%s)", c.Retry.Max, c.Retry.Initial)
	}
	return nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "drill"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "drill"), nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# drill configuration

# Paths scanned when none are given on the command line
roots:
  - %s

# Capacity of the command queue between the UI and the coordinator
command_buffer: %d

# TUI redraw interval
refresh: %s

# Backoff after a scan step fails with an unexpected filesystem error
retry:
  initial: %s
  max: %s

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means $XDG_STATE_HOME/drill/drill.log)
  path: ""
  rotation:
    max_size: %s
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    coordinator: info
    worker: info
    tui: info
`, DefaultRoot, DefaultCommandBuffer, DefaultRefresh, DefaultRetryInitial, DefaultRetryMax, DefaultLogMaxSize)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/drill/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "drill")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "drill.log")
}
