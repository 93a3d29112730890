//go:build unix

package entry

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// isChanged reports errors caused by the tree moving underneath a listing:
// the entry vanished, a directory was replaced by a file, or an NFS handle
// went stale.
func isChanged(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, unix.ENOTDIR) ||
		errors.Is(err, unix.ESTALE)
}
