// Package scanner advances a root set by one unit of traversal work at a
// time. Each step lists one unlisted directory, chosen uniformly at random
// among the pending directories, so no deep subtree can starve the others.
package scanner

import (
	"math/rand/v2"
	"time"

	"github.com/jamesainslie/drill/pkg/drill/entry"
)

// Options configures the scanner behavior.
type Options struct {
	// Rand picks the next directory to advance. It is not safe for
	// concurrent use, so each Scanner needs its own source.
	// If nil, a time-seeded source is used.
	Rand *rand.Rand

	// List reads one directory. If nil, entry.List is used.
	List func(dir string) ([]entry.Entry, error)

	// OnList is called with every directory about to be listed.
	// It is called from the goroutine running Advance.
	OnList func(dir string)
}

// DefaultOptions returns options that scan the real filesystem.
func DefaultOptions() Options {
	return Options{
		List: entry.List,
	}
}

// Validate fills in defaults for unset options.
func (o *Options) Validate() error {
	if o.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		o.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if o.List == nil {
		o.List = entry.List
	}
	return nil
}
