// Package entry models the scanned filesystem tree as immutable values.
//
// An Entry is either a *File or a *Directory. Neither is ever mutated after
// construction: every scan step builds new values and shares the subtrees it
// did not touch, so two snapshots can be compared cheaply with Equal.
package entry

// Entry is a node of the scanned tree.
type Entry interface {
	// Path is the canonical, symlink-resolved path of the entry.
	Path() string

	// Size is the byte count of the entry. For directories it is the sum of
	// the children's sizes.
	Size() int64

	isEntry()
}

// File is a regular file. Its size is fixed at discovery time.
type File struct {
	path string
	size int64
}

// NewFile returns a file entry.
func NewFile(path string, size int64) *File {
	if size < 0 {
		size = 0
	}
	return &File{path: path, size: size}
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Size returns the file length in bytes.
func (f *File) Size() int64 { return f.size }

func (*File) isEntry() {}

// Directory is a possibly partially scanned directory.
//
// A directory with no children that is not done has never been listed. One
// with children that is not done is still descending into unfinished
// sub-directories.
type Directory struct {
	path     string
	size     int64
	done     bool
	children []Entry
}

// NewDirectory returns an unlisted directory.
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Path returns the directory path.
func (d *Directory) Path() string { return d.path }

// Size returns the aggregated size of the children.
func (d *Directory) Size() int64 { return d.size }

func (*Directory) isEntry() {}

// Done reports whether the whole subtree has been enumerated.
func (d *Directory) Done() bool { return d.done }

// Listed reports whether the directory has been listed at least once.
func (d *Directory) Listed() bool { return d.done || len(d.children) > 0 }

// NumChildren returns the number of children.
func (d *Directory) NumChildren() int { return len(d.children) }

// Child returns the i-th child.
func (d *Directory) Child(i int) Entry { return d.children[i] }

// Children returns a copy of the children in discovery order.
func (d *Directory) Children() []Entry {
	out := make([]Entry, len(d.children))
	copy(out, d.children)
	return out
}

// WithChildren returns a listed copy of d holding children. The directory is
// done when no child is a pending directory. The slice is owned by the result.
func (d *Directory) WithChildren(children []Entry) *Directory {
	return &Directory{
		path:     d.path,
		size:     Sum(children),
		done:     len(Pending(children)) == 0,
		children: children,
	}
}

// WithChild returns a copy of d whose i-th child is replaced. The other
// children are shared with d.
func (d *Directory) WithChild(i int, child Entry) *Directory {
	children := make([]Entry, len(d.children))
	copy(children, d.children)
	children[i] = child
	return d.WithChildren(children)
}

// Completed returns a done copy of d sharing its children.
func (d *Directory) Completed() *Directory {
	if d.done {
		return d
	}
	return &Directory{
		path:     d.path,
		size:     d.size,
		done:     true,
		children: d.children,
	}
}

// IsPending reports whether e is a directory that is not done.
func IsPending(e Entry) bool {
	d, ok := e.(*Directory)
	return ok && !d.done
}

// Pending returns the indexes of the entries that are pending directories.
func Pending(entries []Entry) []int {
	var idx []int
	for i, e := range entries {
		if IsPending(e) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Sum returns the total size of entries.
func Sum(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Size()
	}
	return total
}

// Equal reports whether a and b describe the same scan state.
// Shared subtrees short-circuit on pointer identity.
func Equal(a, b Entry) bool {
	switch x := a.(type) {
	case *File:
		y, ok := b.(*File)
		if !ok {
			return false
		}
		return x == y || (x.path == y.path && x.size == y.size)
	case *Directory:
		y, ok := b.(*Directory)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if x.path != y.path || x.size != y.size || x.done != y.done || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
