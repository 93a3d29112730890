// Package coordinator owns the current root set and runs the scan worker.
//
// The coordinator is the only goroutine that changes the current snapshot.
// It hands the snapshot to a background worker, which advances it by one
// step and sends back the pair (baseline, advanced). Commands from the
// consumer are applied in between. A result is accepted only if its baseline
// still equals the current snapshot; otherwise a command got there first and
// the result is dropped. Every accepted change is published to subscribers.
package coordinator

import (
	"errors"
	"time"

	"github.com/jamesainslie/drill/pkg/drill/rootset"
)

// Default values for Options.
const (
	DefaultCommandBuffer = 256
	DefaultRetryInitial  = 100 * time.Millisecond
	DefaultRetryMax      = 5 * time.Second
)

// ErrNoAdvancer is returned by Validate when Options.Advancer is nil.
var ErrNoAdvancer = errors.New("coordinator requires an advancer")

// Advancer performs one scan step. *scanner.Scanner implements it.
type Advancer interface {
	Advance(rs rootset.RootSet) (rootset.RootSet, error)
}

// Options configures a Coordinator.
type Options struct {
	// Advancer performs scan steps on the worker goroutine.
	Advancer Advancer

	// CommandBuffer is the capacity of the command queue. Submitting to a
	// full queue blocks.
	CommandBuffer int

	// RetryInitial is the delay after the first failed step. It doubles on
	// every consecutive failure up to RetryMax and resets on success.
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// Validate checks the options and fills in defaults for unset values.
func (o *Options) Validate() error {
	if o.Advancer == nil {
		return ErrNoAdvancer
	}
	if o.CommandBuffer < 1 {
		o.CommandBuffer = DefaultCommandBuffer
	}
	if o.RetryInitial <= 0 {
		o.RetryInitial = DefaultRetryInitial
	}
	if o.RetryMax < o.RetryInitial {
		o.RetryMax = max(DefaultRetryMax, o.RetryInitial)
	}
	return nil
}
