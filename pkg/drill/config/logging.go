package config

import (
	"fmt"

	"github.com/jamesainslie/drill/pkg/drill/logging"
	"github.com/jamesainslie/drill/pkg/drill/types"
)

// LogConfig converts the logging section into a logging.Config.
// The console level and TUI mode are decided by the caller.
func (c LoggingConfig) LogConfig() (logging.Config, error) {
	rotation := logging.DefaultRotationConfig()
	if c.Rotation.MaxSize != "" {
		size, err := types.ParseSize(c.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		rotation.MaxSize = size
	}
	if c.Rotation.MaxAge > 0 {
		rotation.MaxAge = c.Rotation.MaxAge
	}
	if c.Rotation.MaxBackups > 0 {
		rotation.MaxBackups = c.Rotation.MaxBackups
	}
	rotation.Daily = c.Rotation.Daily

	path := c.Path
	if path == "" {
		path = DefaultLogPath()
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return logging.Config{}, err
	}

	return logging.Config{
		Level:      c.Level,
		Path:       expanded,
		Rotation:   rotation,
		Components: c.Components,
	}, nil
}
