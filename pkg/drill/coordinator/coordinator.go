package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/logging"
	"github.com/jamesainslie/drill/pkg/drill/publisher"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
)

// ErrStopped is returned when submitting to a coordinator that has stopped.
var ErrStopped = errors.New("coordinator stopped")

// ErrAlreadyRunning is returned when Run is called more than once.
var ErrAlreadyRunning = errors.New("coordinator already running")

// Stats counts coordinator transitions.
type Stats struct {
	// Steps is the number of accepted scan results.
	Steps int64

	// Discarded is the number of scan results dropped as stale.
	Discarded int64

	// Failures is the number of scan steps that failed unexpectedly.
	Failures int64

	// Commands is the number of commands applied.
	Commands int64

	// Rejected is the number of commands whose target was missing or could
	// not be split.
	Rejected int64
}

// Snapshot is a published view of the coordinator state.
type Snapshot struct {
	Roots    rootset.RootSet
	Stats    Stats
	Complete bool
}

// Coordinator serializes scan results and consumer commands against a single
// current root set.
type Coordinator struct {
	opts Options
	log  *logging.Logger

	commands chan Command
	work     chan rootset.RootSet
	results  chan ScanResult
	pub      *publisher.Publisher[Snapshot]
	done     chan struct{}
	started  atomic.Bool

	// Owned by the Run goroutine.
	current rootset.RootSet
	busy    bool

	steps     atomic.Int64
	discarded atomic.Int64
	failures  atomic.Int64
	applied   atomic.Int64
	rejected  atomic.Int64
}

// New creates a coordinator starting from initial. Call Run to start it.
func New(initial rootset.RootSet, opts Options) (*Coordinator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid coordinator options: %w", err)
	}

	c := &Coordinator{
		opts:     opts,
		log:      logging.Get("coordinator"),
		commands: make(chan Command, opts.CommandBuffer),
		work:     make(chan rootset.RootSet, 1),
		results:  make(chan ScanResult, 1),
		pub:      publisher.New[Snapshot](),
		done:     make(chan struct{}),
		current:  initial,
	}
	c.pub.Publish(c.snapshot())
	return c, nil
}

// Run processes scan results and commands until ctx is done. It returns the
// context's error. The worker goroutine stops at its next suspension point;
// a listing call already in progress is not interrupted.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(c.done)
	defer c.pub.Close()

	go newWorker(c.opts).run(ctx, c.work, c.results)

	c.log.Info("coordinator started", "roots", c.current.Len())
	c.dispatch()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("coordinator stopped", "steps", c.steps.Load(), "discarded", c.discarded.Load())
			return ctx.Err()
		case cmd := <-c.commands:
			c.apply(cmd)
		case res := <-c.results:
			c.resolve(res)
		}
	}
}

// apply runs a consumer command against the current snapshot.
func (c *Coordinator) apply(cmd Command) {
	next, err := cmd.apply(c.current)
	if err != nil {
		c.rejected.Add(1)
		c.log.Warn("command rejected", "command", cmd.String(), "error", err)
		c.publish()
		return
	}

	c.current = next
	c.applied.Add(1)
	c.log.Debug("command applied", "command", cmd.String(), "roots", next.Len())
	c.publish()
	c.dispatch()
}

// resolve accepts a scan result computed from the current snapshot and
// drops one computed from an older snapshot.
func (c *Coordinator) resolve(res ScanResult) {
	c.busy = false

	switch {
	case res.Err != nil:
		c.failures.Add(1)
		var listErr *entry.ListError
		if errors.As(res.Err, &listErr) {
			c.log.Error("scan step failed", "dir", listErr.Path, "error", listErr.Err)
		} else {
			c.log.Error("scan step failed", "error", res.Err)
		}
	case !res.Baseline.Equal(c.current):
		c.discarded.Add(1)
		c.log.Debug("discarded stale scan result", "elapsed", res.Elapsed)
	default:
		c.current = res.Advanced
		c.steps.Add(1)
	}

	c.publish()
	c.dispatch()
}

// dispatch hands the current snapshot to the idle worker. Nothing is sent
// while the set is complete, so a finished scan leaves the worker parked.
func (c *Coordinator) dispatch() {
	if c.busy || c.current.Complete() {
		return
	}
	c.busy = true
	// The worker drained the slot before reporting, so this never blocks.
	c.work <- c.current
}

func (c *Coordinator) publish() {
	c.pub.Publish(c.snapshot())
}

func (c *Coordinator) snapshot() Snapshot {
	return Snapshot{
		Roots:    c.current,
		Stats:    c.Stats(),
		Complete: c.current.Complete(),
	}
}

// Submit queues cmd. It blocks while the queue is full, until ctx is done or
// the coordinator stops.
func (c *Coordinator) Submit(ctx context.Context, cmd Command) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	select {
	case c.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
}

// Ignore queues removal of e from the root set.
func (c *Coordinator) Ignore(ctx context.Context, e entry.Entry) error {
	return c.Submit(ctx, Ignore{Entry: e})
}

// Split queues replacement of the directory at path with its children.
func (c *Coordinator) Split(ctx context.Context, path string) error {
	return c.Submit(ctx, Split{Path: path})
}

// Subscribe returns a subscription to published snapshots. The current
// snapshot is delivered immediately. Returns nil once the coordinator has
// stopped.
func (c *Coordinator) Subscribe() *publisher.Subscription[Snapshot] {
	return c.pub.Subscribe()
}

// Unsubscribe cancels a subscription.
func (c *Coordinator) Unsubscribe(id string) {
	c.pub.Unsubscribe(id)
}

// Latest returns the most recently published snapshot.
func (c *Coordinator) Latest() Snapshot {
	s, _ := c.pub.Latest()
	return s
}

// Stats returns the current transition counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Steps:     c.steps.Load(),
		Discarded: c.discarded.Load(),
		Failures:  c.failures.Load(),
		Commands:  c.applied.Load(),
		Rejected:  c.rejected.Load(),
	}
}

// Done is closed when Run returns.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}
