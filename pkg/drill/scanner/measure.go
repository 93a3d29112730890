package scanner

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Measure walks root in full and returns the total size of the regular files
// below it, using the same rules as incremental scanning: symlinks are not
// followed and unreadable directories count as empty. It is used to verify
// completed scans.
func Measure(ctx context.Context, root string) (int64, error) {
	conf := fastwalk.Config{
		Follow: false,
	}

	var total atomic.Int64
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable entries count as empty.
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(info.Size())
		return nil
	})
	if err != nil && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return 0, err
	}

	return total.Load(), nil
}
