// Package output provides formatters for drill's non-interactive report
// (pretty, plain, json, yaml).
//
// The package uses a registry pattern so the CLI can select a formatter by
// name at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/jamesainslie/drill/pkg/drill/types"
)

// Entry kinds.
const (
	KindDir  = "dir"
	KindFile = "file"
)

// RootInfo describes one top-level entry of the root set.
type RootInfo struct {
	// Path is the canonical path of the entry.
	Path string

	// Kind is KindDir or KindFile.
	Kind string

	// Size is the aggregated size in bytes.
	Size int64

	// SizeHuman is the human-readable size (e.g., "1.5 GiB").
	SizeHuman string

	// Done reports whether the whole subtree has been enumerated.
	// Always true for files.
	Done bool

	// Children is the number of immediate children found so far.
	Children int

	// Verified is the size reported by an independent full walk, if one
	// was requested.
	Verified *int64
}

// Mismatch reports whether a full walk disagreed with the scanned size.
func (r RootInfo) Mismatch() bool {
	return r.Verified != nil && *r.Verified != r.Size
}

// Stats summarizes the pipeline that produced the result.
type Stats struct {
	Steps     int64
	Discarded int64
	Failures  int64
	Commands  int64
	Rejected  int64
	Listed    int64
	Duration  time.Duration
}

// Result contains the complete report data for formatting.
type Result struct {
	// Roots holds the root set entries, sorted descending by size.
	Roots []RootInfo

	// Stats contains pipeline counters.
	Stats Stats

	// Complete reports whether every directory was fully enumerated.
	Complete bool

	// Interrupted indicates the run was stopped by a signal or timeout
	// before completion.
	Interrupted bool

	// Warnings contains messages generated during the run.
	Warnings []string
}

// TotalSize returns the sum of all root sizes.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, root := range r.Roots {
		total += root.Size
	}
	return total
}

// FromRootSet converts a root set into report rows, keeping its order.
func FromRootSet(rs rootset.RootSet) []RootInfo {
	roots := make([]RootInfo, 0, rs.Len())
	for _, e := range rs.Entries() {
		info := RootInfo{
			Path:      e.Path(),
			Size:      e.Size(),
			SizeHuman: types.FormatSize(e.Size()),
		}
		switch v := e.(type) {
		case *entry.Directory:
			info.Kind = KindDir
			info.Done = v.Done()
			info.Children = v.NumChildren()
		case *entry.File:
			info.Kind = KindFile
			info.Done = true
		}
		roots = append(roots, info)
	}
	return roots
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any existing
// formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
