package entry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported indicates a path that is neither a regular file nor a directory.
var ErrUnsupported = errors.New("not a regular file or directory")

// lstat is replaced in tests to simulate entries changing mid-listing.
var lstat = os.Lstat

// ListError reports an unexpected failure while listing a directory.
type ListError struct {
	// Path is the directory being listed.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("listing %s: %v", e.Path, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether a listing failure means "no children" rather
// than a failed scan step: permission denied, or the directory changed while
// it was being read.
func IsRecoverable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || isChanged(err)
}

// Canonical returns the absolute, symlink-resolved form of path.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// FromPath classifies path without following symlinks. Regular files become
// a *File with their current length, directories an unlisted *Directory.
// Anything else yields ErrUnsupported.
func FromPath(path string) (Entry, error) {
	info, err := lstat(path)
	if err != nil {
		return nil, err
	}

	switch {
	case info.Mode().IsRegular():
		return NewFile(path, info.Size()), nil
	case info.IsDir():
		return NewDirectory(path), nil
	default:
		return nil, ErrUnsupported
	}
}

// List reads dir and maps every surviving child to an Entry.
//
// Symlinks are skipped, as is any child that no longer lies within dir after
// canonicalization. Recoverable failures yield no children and a nil error;
// any other failure is returned as a *ListError.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if IsRecoverable(err) {
			return nil, nil
		}
		return nil, &ListError{Path: dir, Err: err}
	}

	children := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.Type()&fs.ModeSymlink != 0 {
			continue
		}

		resolved, err := filepath.EvalSymlinks(filepath.Join(dir, d.Name()))
		if err != nil {
			if IsRecoverable(err) {
				return nil, nil
			}
			return nil, &ListError{Path: dir, Err: err}
		}
		if !within(dir, resolved) {
			continue
		}

		child, err := FromPath(resolved)
		switch {
		case errors.Is(err, ErrUnsupported):
			continue
		case err != nil && IsRecoverable(err):
			return nil, nil
		case err != nil:
			return nil, &ListError{Path: dir, Err: err}
		}
		children = append(children, child)
	}

	return children, nil
}

// within reports whether path lies strictly below dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
