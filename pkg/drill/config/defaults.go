// Package config provides configuration management for drill.
package config

import "time"

// Default configuration values for drill.
const (
	// DefaultRoot is scanned when no paths are given.
	DefaultRoot = "."

	// DefaultCommandBuffer is the capacity of the consumer command queue.
	DefaultCommandBuffer = 256

	// DefaultRetryInitial is the first delay after a failed scan step.
	DefaultRetryInitial = 100 * time.Millisecond

	// DefaultRetryMax caps the delay between failed scan steps.
	DefaultRetryMax = 5 * time.Second

	// DefaultRefresh is the TUI redraw interval.
	DefaultRefresh = 100 * time.Millisecond

	// DefaultLogMaxSize is the log size that triggers rotation.
	DefaultLogMaxSize = "10MB"
)
