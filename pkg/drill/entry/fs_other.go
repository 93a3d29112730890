//go:build !unix

package entry

import (
	"errors"
	"io/fs"
)

// isChanged reports errors caused by the tree moving underneath a listing.
func isChanged(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
