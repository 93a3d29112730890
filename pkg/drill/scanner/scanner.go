package scanner

import (
	"fmt"
	"sync/atomic"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
)

// Scanner performs single-step incremental scanning.
// Advance must not be called concurrently on the same Scanner.
type Scanner struct {
	opts Options

	// listed counts directory listings, for progress reporting.
	listed atomic.Int64
}

// New creates a new Scanner with the given options.
func New(opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scanner options: %w", err)
	}
	return &Scanner{opts: opts}, nil
}

// Listed returns the number of directories listed so far.
func (s *Scanner) Listed() int64 {
	return s.listed.Load()
}

// Advance performs exactly one unit of work on rs and returns the result.
// When no directory is pending, rs is returned unchanged. On error rs is
// returned along with the error; nothing is partially applied.
func (s *Scanner) Advance(rs rootset.RootSet) (rootset.RootSet, error) {
	pending := entry.Pending(rs.Entries())
	if len(pending) == 0 {
		return rs, nil
	}

	i := pending[s.opts.Rand.IntN(len(pending))]
	dir := rs.At(i).(*entry.Directory)

	next, err := s.advance(dir)
	if err != nil {
		return rs, err
	}
	return rs.Replace(i, next), nil
}

// advance lists dir if it has never been listed, or else descends into one
// randomly chosen pending child.
func (s *Scanner) advance(dir *entry.Directory) (*entry.Directory, error) {
	if dir.Done() {
		return dir, nil
	}

	if dir.NumChildren() == 0 {
		if s.opts.OnList != nil {
			s.opts.OnList(dir.Path())
		}
		children, err := s.opts.List(dir.Path())
		if err != nil {
			return nil, err
		}
		s.listed.Add(1)
		return dir.WithChildren(children), nil
	}

	children := dir.Children()
	pending := entry.Pending(children)
	if len(pending) == 0 {
		return dir.Completed(), nil
	}

	i := pending[s.opts.Rand.IntN(len(pending))]
	child, err := s.advance(children[i].(*entry.Directory))
	if err != nil {
		return nil, err
	}
	return dir.WithChild(i, child), nil
}
