package entry_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalTempDir returns a symlink-resolved temp dir.
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := entry.Canonical(t.TempDir())
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestFromPath(t *testing.T) {
	root := canonicalTempDir(t)
	writeFile(t, filepath.Join(root, "file.bin"), 42)
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	t.Run("regular file", func(t *testing.T) {
		e, err := entry.FromPath(filepath.Join(root, "file.bin"))
		require.NoError(t, err)

		f, ok := e.(*entry.File)
		require.True(t, ok)
		assert.Equal(t, int64(42), f.Size())
	})

	t.Run("directory", func(t *testing.T) {
		e, err := entry.FromPath(filepath.Join(root, "sub"))
		require.NoError(t, err)

		d, ok := e.(*entry.Directory)
		require.True(t, ok)
		assert.False(t, d.Listed())
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := entry.FromPath(filepath.Join(root, "nope"))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("symlink is unsupported", func(t *testing.T) {
		link := filepath.Join(root, "link")
		if err := os.Symlink(filepath.Join(root, "file.bin"), link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		_, err := entry.FromPath(link)
		assert.ErrorIs(t, err, entry.ErrUnsupported)
	})
}

func TestList(t *testing.T) {
	root := canonicalTempDir(t)
	writeFile(t, filepath.Join(root, "a.bin"), 100)
	writeFile(t, filepath.Join(root, "b.bin"), 200)
	writeFile(t, filepath.Join(root, "sub", "c.bin"), 300)

	children, err := entry.List(root)
	require.NoError(t, err)
	require.Len(t, children, 3)

	sizes := map[string]int64{}
	for _, c := range children {
		sizes[filepath.Base(c.Path())] = c.Size()
	}
	assert.Equal(t, int64(100), sizes["a.bin"])
	assert.Equal(t, int64(200), sizes["b.bin"])
	assert.Equal(t, int64(0), sizes["sub"], "sub-directories are not listed yet")
}

func TestListSkipsSymlinks(t *testing.T) {
	root := canonicalTempDir(t)
	outside := canonicalTempDir(t)
	writeFile(t, filepath.Join(outside, "big.bin"), 1000)
	writeFile(t, filepath.Join(root, "real.bin"), 10)

	if err := os.Symlink(filepath.Join(outside, "big.bin"), filepath.Join(root, "file-link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "dir-link")))

	children, err := entry.List(root)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, filepath.Join(root, "real.bin"), children[0].Path())
}

func TestListExcludesPathsOutsideDir(t *testing.T) {
	base := canonicalTempDir(t)
	target := filepath.Join(base, "real")
	writeFile(t, filepath.Join(target, "f.bin"), 64)
	writeFile(t, filepath.Join(target, "nested", "g.bin"), 32)

	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// Children of link resolve below target, not below link.
	children, err := entry.List(link)
	require.NoError(t, err)
	assert.Empty(t, children)

	children, err = entry.List(target)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestListEmptyDirectory(t *testing.T) {
	children, err := entry.List(canonicalTempDir(t))
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestListRecoverableFailures(t *testing.T) {
	t.Run("vanished directory yields no children", func(t *testing.T) {
		children, err := entry.List(filepath.Join(canonicalTempDir(t), "gone"))
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("permission denied yields no children", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}
		locked := filepath.Join(canonicalTempDir(t), "locked")
		writeFile(t, filepath.Join(locked, "secret.bin"), 10)
		require.NoError(t, os.Chmod(locked, 0o000))
		t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

		children, err := entry.List(locked)
		require.NoError(t, err)
		assert.Empty(t, children)
	})
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, entry.IsRecoverable(fs.ErrPermission))
	assert.True(t, entry.IsRecoverable(&fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}))
	assert.False(t, entry.IsRecoverable(errors.New("disk on fire")))
}

func TestListError(t *testing.T) {
	inner := errors.New("i/o error")
	err := error(&entry.ListError{Path: "/mnt/x", Err: inner})

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/mnt/x")

	var le *entry.ListError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "/mnt/x", le.Path)
}
