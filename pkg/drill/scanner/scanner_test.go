package scanner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTree serves listings from memory.
type fakeTree map[string][]entry.Entry

func (f fakeTree) list(dir string) ([]entry.Entry, error) {
	return f[dir], nil
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func newTestScanner(t *testing.T, seed uint64, list func(string) ([]entry.Entry, error)) *Scanner {
	t.Helper()
	s, err := New(Options{Rand: seeded(seed), List: list})
	require.NoError(t, err)
	return s
}

// checkInvariants verifies sizes aggregate and done flags match children.
func checkInvariants(t *testing.T, e entry.Entry) {
	t.Helper()
	d, ok := e.(*entry.Directory)
	if !ok {
		return
	}
	children := d.Children()
	assert.Equal(t, entry.Sum(children), d.Size(), "size of %s", d.Path())
	if d.Done() {
		assert.Empty(t, entry.Pending(children), "done directory %s has pending children", d.Path())
	}
	for _, c := range children {
		checkInvariants(t, c)
	}
}

// doneDirs collects the paths of all done directories.
func doneDirs(e entry.Entry, into map[string]bool) {
	d, ok := e.(*entry.Directory)
	if !ok {
		return
	}
	if d.Done() {
		into[d.Path()] = true
	}
	for i := 0; i < d.NumChildren(); i++ {
		doneDirs(d.Child(i), into)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NotNil(t, opts.List)
	assert.Nil(t, opts.Rand)

	require.NoError(t, opts.Validate())
	assert.NotNil(t, opts.Rand)
}

func TestNewFillsDefaults(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NotNil(t, s.opts.Rand)
	assert.NotNil(t, s.opts.List)
	assert.Zero(t, s.Listed())
}

func TestAdvanceListsFilesAndCompletes(t *testing.T) {
	tree := fakeTree{
		"/a": {entry.NewFile("/a/f1", 100), entry.NewFile("/a/f2", 200)},
	}
	s := newTestScanner(t, 1, tree.list)
	rs := rootset.FromEntries([]entry.Entry{entry.NewDirectory("/a")})

	first, err := s.Advance(rs)
	require.NoError(t, err)

	dir, ok := first.At(0).(*entry.Directory)
	require.True(t, ok)
	assert.Equal(t, int64(300), dir.Size())
	assert.True(t, dir.Done())
	assert.Equal(t, 2, dir.NumChildren())
	assert.Equal(t, int64(1), s.Listed())

	second, err := s.Advance(first)
	require.NoError(t, err)
	assert.True(t, second.Equal(first))
	assert.Equal(t, int64(1), s.Listed(), "no further listing")
}

func TestAdvanceDescendsOneLevelPerStep(t *testing.T) {
	tree := fakeTree{
		"/r":     {entry.NewDirectory("/r/x"), entry.NewFile("/r/f", 1)},
		"/r/x":   {entry.NewDirectory("/r/x/y")},
		"/r/x/y": {entry.NewFile("/r/x/y/z", 10)},
	}
	s := newTestScanner(t, 7, tree.list)
	rs := rootset.FromEntries([]entry.Entry{entry.NewDirectory("/r")})

	var listed []string
	s.opts.OnList = func(dir string) { listed = append(listed, dir) }

	for step := 1; step <= 3; step++ {
		var err error
		rs, err = s.Advance(rs)
		require.NoError(t, err)
		assert.Len(t, listed, step, "exactly one listing per step")
		checkInvariants(t, rs.At(0))
	}

	assert.Equal(t, []string{"/r", "/r/x", "/r/x/y"}, listed)
	root := rs.At(0).(*entry.Directory)
	assert.True(t, root.Done())
	assert.Equal(t, int64(11), root.Size())
	assert.True(t, rs.Complete())
}

func TestAdvanceNoPendingIsNoop(t *testing.T) {
	s := newTestScanner(t, 1, fakeTree{}.list)

	t.Run("empty set", func(t *testing.T) {
		next, err := s.Advance(rootset.RootSet{})
		require.NoError(t, err)
		assert.Zero(t, next.Len())
	})

	t.Run("files only", func(t *testing.T) {
		rs := rootset.FromEntries([]entry.Entry{entry.NewFile("/f", 3)})
		next, err := s.Advance(rs)
		require.NoError(t, err)
		assert.True(t, next.Equal(rs))
	})
}

func TestAdvanceLeavesDoneDirectoryAlone(t *testing.T) {
	finished := entry.NewDirectory("/p/c").WithChildren(nil)
	parent := entry.NewDirectory("/p").WithChildren([]entry.Entry{entry.NewDirectory("/p/c")}).WithChild(0, finished)
	require.True(t, parent.Done(), "finishing the last child closes the parent")

	s := newTestScanner(t, 1, func(string) ([]entry.Entry, error) {
		t.Fatal("unexpected listing")
		return nil, nil
	})
	next, err := s.advance(parent)
	require.NoError(t, err)
	assert.Same(t, parent, next)
}

func TestAdvancePropagatesUnexpectedErrors(t *testing.T) {
	boom := &entry.ListError{Path: "/bad", Err: errors.New("i/o error")}
	s := newTestScanner(t, 1, func(dir string) ([]entry.Entry, error) {
		return nil, boom
	})
	rs := rootset.FromEntries([]entry.Entry{entry.NewDirectory("/bad")})

	next, err := s.Advance(rs)
	assert.ErrorIs(t, err, boom)
	assert.True(t, next.Equal(rs), "failed step leaves the input untouched")
	assert.Zero(t, s.Listed())
}

func TestAdvanceSelectionIsRandom(t *testing.T) {
	tree := fakeTree{
		"/a": {entry.NewFile("/a/f", 1)},
		"/b": {entry.NewFile("/b/f", 1)},
		"/c": {entry.NewFile("/c/f", 1)},
	}
	rs := rootset.FromEntries([]entry.Entry{
		entry.NewDirectory("/a"),
		entry.NewDirectory("/b"),
		entry.NewDirectory("/c"),
	})

	firstPicks := map[string]int{}
	for seed := uint64(0); seed < 200; seed++ {
		s := newTestScanner(t, seed, tree.list)
		var first string
		s.opts.OnList = func(dir string) {
			if first == "" {
				first = dir
			}
		}
		_, err := s.Advance(rs)
		require.NoError(t, err)
		firstPicks[first]++
	}

	require.Len(t, firstPicks, 3, "every root is picked first for some seed")
	for dir, n := range firstPicks {
		assert.Greater(t, n, 20, "root %s picked too rarely", dir)
	}
}

// buildTree creates a random directory tree under root.
func buildTree(t *testing.T, r *rand.Rand, dir string, depth int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for i := range r.IntN(4) {
		name := filepath.Join(dir, fmt.Sprintf("f%d.bin", i))
		require.NoError(t, os.WriteFile(name, make([]byte, r.IntN(4096)), 0o644))
	}
	if depth == 0 {
		return
	}
	for i := range r.IntN(3) + 1 {
		buildTree(t, r, filepath.Join(dir, fmt.Sprintf("d%d", i)), depth-1)
	}
}

func TestAdvanceEventuallyCompletes(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			root, err := entry.Canonical(t.TempDir())
			require.NoError(t, err)
			buildTree(t, seeded(seed), root, 3)

			rs, err := rootset.New([]string{root})
			require.NoError(t, err)

			s, err := New(Options{Rand: seeded(seed * 31)})
			require.NoError(t, err)
			seen := map[string]bool{}
			steps := 0
			for !rs.Complete() {
				steps++
				require.Less(t, steps, 10000, "scan did not converge")

				rs, err = s.Advance(rs)
				require.NoError(t, err)
				checkInvariants(t, rs.At(0))

				now := map[string]bool{}
				doneDirs(rs.At(0), now)
				for p := range seen {
					assert.True(t, now[p], "%s reverted to not done", p)
				}
				seen = now
			}

			want, err := Measure(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, want, rs.TotalSize())

			again, err := s.Advance(rs)
			require.NoError(t, err)
			assert.True(t, again.Equal(rs), "complete set is a fixed point")
		})
	}
}

func TestAdvanceInterleavedWithCommands(t *testing.T) {
	root, err := entry.Canonical(t.TempDir())
	require.NoError(t, err)
	r := seeded(99)
	buildTree(t, r, root, 3)

	rs, err := rootset.New([]string{root})
	require.NoError(t, err)
	s, err := New(Options{Rand: seeded(3)})
	require.NoError(t, err)

	for step := 0; step < 500 && !rs.Complete(); step++ {
		rs, err = s.Advance(rs)
		require.NoError(t, err)

		if rs.Len() == 0 {
			break
		}
		target := rs.At(r.IntN(rs.Len()))
		switch r.IntN(10) {
		case 0:
			rs, _ = rs.Ignore(target)
		case 1, 2:
			rs, _ = rs.Split(target.Path())
		}

		seenPaths := map[string]bool{}
		for _, e := range rs.Entries() {
			checkInvariants(t, e)
			assert.False(t, seenPaths[e.Path()], "duplicate path %s", e.Path())
			seenPaths[e.Path()] = true
		}
	}
}
