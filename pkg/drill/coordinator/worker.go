package coordinator

import (
	"context"
	"time"

	"github.com/jamesainslie/drill/pkg/drill/logging"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
)

// ScanResult is the outcome of one scan step.
type ScanResult struct {
	// Baseline is the snapshot the step started from.
	Baseline rootset.RootSet

	// Advanced is the snapshot after the step. On failure it equals Baseline.
	Advanced rootset.RootSet

	// Err is the unexpected listing failure that aborted the step, if any.
	Err error

	// Elapsed is the time spent inside the step.
	Elapsed time.Duration
}

// worker advances snapshots it receives and reports each outcome. Apart from
// the current retry delay it keeps no state between steps.
type worker struct {
	advancer Advancer
	initial  time.Duration
	max      time.Duration
	log      *logging.Logger
}

func newWorker(opts Options) *worker {
	return &worker{
		advancer: opts.Advancer,
		initial:  opts.RetryInitial,
		max:      opts.RetryMax,
		log:      logging.Get("worker"),
	}
}

// run loops until ctx is done: receive a snapshot, advance it, send back the
// result. After a failed step it waits before reporting, so that a directory
// failing persistently is retried at a bounded rate.
func (w *worker) run(ctx context.Context, work <-chan rootset.RootSet, results chan<- ScanResult) {
	delay := w.initial

	for {
		var baseline rootset.RootSet
		select {
		case <-ctx.Done():
			return
		case baseline = <-work:
		}

		start := time.Now()
		advanced, err := w.advancer.Advance(baseline)
		res := ScanResult{
			Baseline: baseline,
			Advanced: advanced,
			Err:      err,
			Elapsed:  time.Since(start),
		}

		if err != nil {
			res.Advanced = baseline
			w.log.Warn("scan step failed, backing off", "error", err, "delay", delay)
			if !sleep(ctx, delay) {
				return
			}
			delay = min(delay*2, w.max)
		} else {
			delay = w.initial
		}

		select {
		case <-ctx.Done():
			return
		case results <- res:
		}
	}
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
