package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jamesainslie/drill/pkg/drill/coordinator"
	"github.com/jamesainslie/drill/pkg/drill/output"
	"github.com/jamesainslie/drill/pkg/drill/scanner"
)

// reportOptions configures a non-interactive run.
type reportOptions struct {
	Formatter output.Formatter

	// Timeout stops the scan early. Zero waits for completion.
	Timeout time.Duration

	// Verify re-measures every completed directory root with a full walk.
	Verify bool
}

// runReport drives coord until the scan completes or ctx is cancelled, then
// writes one report of the last published snapshot to w.
func runReport(ctx context.Context, w io.Writer, coord *coordinator.Coordinator, listed func() int64, opts reportOptions) error {
	ctx, cancel := signalContext(ctx, opts.Timeout)
	defer cancel()

	sub := coord.Subscribe()
	if sub == nil {
		return coordinator.ErrStopped
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() {
		_ = coord.Run(runCtx)
	}()

	startTime := time.Now()
	snap, interrupted := waitComplete(ctx, sub.Values)
	elapsed := time.Since(startTime)

	stop()
	<-coord.Done()

	result := &output.Result{
		Roots:       output.FromRootSet(snap.Roots),
		Stats:       reportStats(snap.Stats, listed, elapsed),
		Complete:    snap.Complete,
		Interrupted: interrupted,
	}
	if interrupted {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("scan stopped after %s, sizes are lower bounds", elapsed.Round(time.Millisecond)))
	}

	if opts.Verify {
		warnings, err := verifyRoots(ctx, result.Roots)
		if err != nil {
			return err
		}
		result.Warnings = append(result.Warnings, warnings...)
	}

	var buf bytes.Buffer
	if err := opts.Formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// waitComplete reads snapshots until one is complete. It returns the last
// snapshot seen and whether it stopped early.
func waitComplete(ctx context.Context, values <-chan coordinator.Snapshot) (coordinator.Snapshot, bool) {
	var last coordinator.Snapshot
	for {
		select {
		case <-ctx.Done():
			return last, true
		case snap, ok := <-values:
			if !ok {
				return last, !last.Complete
			}
			last = snap
			if snap.Complete {
				return last, false
			}
		}
	}
}

func reportStats(s coordinator.Stats, listed func() int64, elapsed time.Duration) output.Stats {
	stats := output.Stats{
		Steps:     s.Steps,
		Discarded: s.Discarded,
		Failures:  s.Failures,
		Commands:  s.Commands,
		Rejected:  s.Rejected,
		Duration:  elapsed,
	}
	if listed != nil {
		stats.Listed = listed()
	}
	return stats
}

// verifyRoots measures each done directory root with a full walk and records
// the result on it. Disagreements come back as warnings.
func verifyRoots(ctx context.Context, roots []output.RootInfo) ([]string, error) {
	var warnings []string
	for i := range roots {
		root := &roots[i]
		if root.Kind != output.KindDir || !root.Done {
			continue
		}

		size, err := scanner.Measure(ctx, root.Path)
		if err != nil {
			if ctx.Err() != nil {
				warnings = append(warnings, "verification interrupted")
				return warnings, nil
			}
			return warnings, fmt.Errorf("verifying %s: %w", root.Path, err)
		}
		root.Verified = &size
		if root.Mismatch() {
			warnings = append(warnings, fmt.Sprintf("%s: scanned %d bytes, walk found %d", root.Path, root.Size, size))
		}
	}
	return warnings, nil
}
