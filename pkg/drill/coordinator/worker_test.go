package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type advanceFunc func(rootset.RootSet) (rootset.RootSet, error)

func (f advanceFunc) Advance(rs rootset.RootSet) (rootset.RootSet, error) { return f(rs) }

func TestWorkerReportsBaselineOnFailure(t *testing.T) {
	errIO := errors.New("input/output error")
	w := newWorker(Options{
		Advancer: advanceFunc(func(rs rootset.RootSet) (rootset.RootSet, error) {
			return rootset.RootSet{}, errIO
		}),
		RetryInitial: time.Millisecond,
		RetryMax:     time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	work := make(chan rootset.RootSet, 1)
	results := make(chan ScanResult, 1)
	go w.run(ctx, work, results)

	baseline := rootset.FromEntries([]entry.Entry{entry.NewDirectory("/a")})
	work <- baseline

	select {
	case res := <-results:
		assert.ErrorIs(t, res.Err, errIO)
		assert.True(t, res.Baseline.Equal(baseline))
		assert.True(t, res.Advanced.Equal(baseline), "failed step must not change the snapshot")
	case <-time.After(waitTimeout):
		t.Fatal("no result from worker")
	}
}

func TestWorkerRecoversAfterFailures(t *testing.T) {
	fail := true
	w := newWorker(Options{
		Advancer: advanceFunc(func(rs rootset.RootSet) (rootset.RootSet, error) {
			if fail {
				return rs, errors.New("boom")
			}
			return rs, nil
		}),
		RetryInitial: time.Millisecond,
		RetryMax:     4 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	work := make(chan rootset.RootSet, 1)
	results := make(chan ScanResult, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx, work, results)
	}()

	// Each exchange is synchronous, so fail is only touched between steps.
	for i := 0; i < 4; i++ {
		work <- rootset.RootSet{}
		res := <-results
		require.Error(t, res.Err)
	}
	fail = false
	work <- rootset.RootSet{}
	res := <-results
	require.NoError(t, res.Err)

	cancel()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerStopsDuringBackoff(t *testing.T) {
	w := newWorker(Options{
		Advancer: advanceFunc(func(rs rootset.RootSet) (rootset.RootSet, error) {
			return rs, errors.New("boom")
		}),
		RetryInitial: time.Hour,
		RetryMax:     time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	work := make(chan rootset.RootSet, 1)
	results := make(chan ScanResult, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx, work, results)
	}()

	work <- rootset.RootSet{}
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("worker blocked in backoff after cancel")
	}
	assert.Empty(t, results)
}

func TestSleep(t *testing.T) {
	assert.True(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
}
