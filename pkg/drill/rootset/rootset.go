// Package rootset provides the ordered, immutable top-level view of a scan
// together with the structural operations a consumer can request on it.
package rootset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jamesainslie/drill/pkg/drill/entry"
)

// ErrNotFound indicates that no entry with the requested path is present.
var ErrNotFound = errors.New("entry not in root set")

// ErrNotSplittable indicates a split target with nothing to promote: a file,
// or a directory that has no children yet.
var ErrNotSplittable = errors.New("entry has no children to split")

// RootSet is an ordered collection of entries, sorted descending by size.
// The zero value is an empty set. A RootSet is never modified; operations
// return a new value.
type RootSet struct {
	entries []entry.Entry
}

// New builds a root set from filesystem paths. Each path is canonicalized;
// duplicates and paths nested below another root are dropped so that no two
// entries overlap. Paths that are neither files nor directories are skipped.
func New(paths []string) (RootSet, error) {
	var canonical []string
	for _, p := range paths {
		c, err := entry.Canonical(p)
		if err != nil {
			return RootSet{}, fmt.Errorf("resolving root %s: %w", p, err)
		}
		canonical = append(canonical, c)
	}

	var entries []entry.Entry
	for i, p := range canonical {
		if covered(p, canonical, i) {
			continue
		}
		e, err := entry.FromPath(p)
		if errors.Is(err, entry.ErrUnsupported) {
			continue
		}
		if err != nil {
			return RootSet{}, fmt.Errorf("reading root %s: %w", p, err)
		}
		entries = append(entries, e)
	}

	return FromEntries(entries), nil
}

// covered reports whether paths[i] repeats an earlier path or lies below
// another path in the list.
func covered(p string, paths []string, i int) bool {
	for j, other := range paths {
		if j == i {
			continue
		}
		if other == p && j < i {
			return true
		}
		if other != p && isBelow(other, p) {
			return true
		}
	}
	return false
}

// isBelow reports whether p lies strictly below dir.
func isBelow(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// FromEntries returns a root set holding entries sorted descending by size.
// Ties keep their relative order. The input slice is not retained.
func FromEntries(entries []entry.Entry) RootSet {
	sorted := make([]entry.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size() > sorted[j].Size()
	})
	return RootSet{entries: sorted}
}

// Len returns the number of top-level entries.
func (rs RootSet) Len() int { return len(rs.entries) }

// At returns the i-th entry in display order.
func (rs RootSet) At(i int) entry.Entry { return rs.entries[i] }

// Entries returns a copy of the entries in display order.
func (rs RootSet) Entries() []entry.Entry {
	out := make([]entry.Entry, len(rs.entries))
	copy(out, rs.entries)
	return out
}

// Find returns the entry with the given path.
func (rs RootSet) Find(path string) (entry.Entry, bool) {
	i := rs.index(path)
	if i < 0 {
		return nil, false
	}
	return rs.entries[i], true
}

func (rs RootSet) index(path string) int {
	for i, e := range rs.entries {
		if e.Path() == path {
			return i
		}
	}
	return -1
}

// TotalSize returns the summed size of all top-level entries.
func (rs RootSet) TotalSize() int64 {
	return entry.Sum(rs.entries)
}

// Complete reports whether every directory in the set is done.
func (rs RootSet) Complete() bool {
	return len(entry.Pending(rs.entries)) == 0
}

// Equal reports whether rs and other represent the same scan state.
func (rs RootSet) Equal(other RootSet) bool {
	if len(rs.entries) != len(other.entries) {
		return false
	}
	for i := range rs.entries {
		if !entry.Equal(rs.entries[i], other.entries[i]) {
			return false
		}
	}
	return true
}

// Replace returns a copy of rs with the i-th entry replaced, re-sorted.
func (rs RootSet) Replace(i int, e entry.Entry) RootSet {
	entries := rs.Entries()
	entries[i] = e
	return FromEntries(entries)
}

// Split replaces the directory at path with its immediate children.
// A missing path returns rs with ErrNotFound; a file or a directory without
// children returns rs with ErrNotSplittable.
func (rs RootSet) Split(path string) (RootSet, error) {
	i := rs.index(path)
	if i < 0 {
		return rs, fmt.Errorf("split %s: %w", path, ErrNotFound)
	}

	dir, ok := rs.entries[i].(*entry.Directory)
	if !ok || dir.NumChildren() == 0 {
		return rs, fmt.Errorf("split %s: %w", path, ErrNotSplittable)
	}

	entries := make([]entry.Entry, 0, len(rs.entries)-1+dir.NumChildren())
	entries = append(entries, rs.entries[:i]...)
	entries = append(entries, dir.Children()...)
	entries = append(entries, rs.entries[i+1:]...)
	return FromEntries(entries), nil
}

// Ignore removes the entry with e's path. A missing entry returns rs with
// ErrNotFound.
func (rs RootSet) Ignore(e entry.Entry) (RootSet, error) {
	if e == nil {
		return rs, fmt.Errorf("ignore: %w", ErrNotFound)
	}

	i := rs.index(e.Path())
	if i < 0 {
		return rs, fmt.Errorf("ignore %s: %w", e.Path(), ErrNotFound)
	}

	entries := make([]entry.Entry, 0, len(rs.entries)-1)
	entries = append(entries, rs.entries[:i]...)
	entries = append(entries, rs.entries[i+1:]...)
	return RootSet{entries: entries}, nil
}
