package tui

import (
	"context"
	"errors"
	"strings"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/drill/pkg/drill/coordinator"
	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/logging"
	"github.com/jamesainslie/drill/pkg/drill/publisher"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records submitted commands and publishes snapshots on demand.
type fakeEngine struct {
	pub       *publisher.Publisher[coordinator.Snapshot]
	submitted []coordinator.Command
	err       error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pub: publisher.New[coordinator.Snapshot]()}
}

func (f *fakeEngine) Submit(_ context.Context, cmd coordinator.Command) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, cmd)
	return nil
}

func (f *fakeEngine) Subscribe() *publisher.Subscription[coordinator.Snapshot] {
	return f.pub.Subscribe()
}

func (f *fakeEngine) Unsubscribe(id string) {
	f.pub.Unsubscribe(id)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleRoots() rootset.RootSet {
	listed := entry.NewDirectory("/data/listed").WithChildren([]entry.Entry{
		entry.NewFile("/data/listed/a", 300),
		entry.NewDirectory("/data/listed/sub"),
	})
	return rootset.FromEntries([]entry.Entry{
		listed,
		entry.NewDirectory("/data/unlisted"),
		entry.NewFile("/data/file", 100),
	})
}

// newTestModel returns a model that has picked up one snapshot.
func newTestModel(t *testing.T, eng *fakeEngine) Model {
	t.Helper()
	eng.pub.Publish(coordinator.Snapshot{Roots: sampleRoots()})

	m := NewModel(context.Background(), eng, Options{})
	next, _ := m.Update(pollMsg{})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelPicksUpSnapshot(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	require.Equal(t, 3, m.snapshot.Roots.Len())
	require.NotNil(t, m.list.Selected())
	assert.Equal(t, "/data/listed", m.list.Selected().Path())
}

func TestSplitSubmitsForListedDirectory(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	// Sorted by size: listed (300), file (100), unlisted (0).
	require.Equal(t, "/data/listed", m.list.Selected().Path())

	m = update(t, m, keyPress("enter"))
	require.Len(t, eng.submitted, 1)
	assert.Equal(t, coordinator.Split{Path: "/data/listed"}, eng.submitted[0])
	assert.Contains(t, m.status, "Split /data/listed")
}

func TestSplitRefusedWithoutChildren(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	// The file cannot be split.
	m = update(t, m, keyPress("down"))
	require.Equal(t, "/data/file", m.list.Selected().Path())
	m = update(t, m, keyPress("s"))
	assert.Empty(t, eng.submitted)
	assert.Contains(t, m.status, "Nothing to split")

	// Neither can a directory that was never listed.
	m = update(t, m, keyPress("G"))
	require.Equal(t, "/data/unlisted", m.list.Selected().Path())
	m = update(t, m, keyPress("s"))
	assert.Empty(t, eng.submitted)
}

func TestIgnoreSubmitsSelectedEntry(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	m = update(t, m, keyPress("down"))
	m = update(t, m, keyPress("d"))
	require.Len(t, eng.submitted, 1)
	cmd, ok := eng.submitted[0].(coordinator.Ignore)
	require.True(t, ok)
	assert.Equal(t, "/data/file", cmd.Entry.Path())
	assert.Contains(t, m.status, "Ignore /data/file")
}

func TestSubmitErrorShownInStatus(t *testing.T) {
	eng := newFakeEngine()
	eng.err = errors.New("coordinator stopped")
	m := newTestModel(t, eng)

	m = update(t, m, keyPress("x"))
	assert.Contains(t, m.status, "coordinator stopped")
}

func TestCommandsKeepKeyOrder(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	m = update(t, m, keyPress("down"))
	m = update(t, m, keyPress("d"))
	m = update(t, m, keyPress("up"))
	update(t, m, keyPress("enter"))

	require.Len(t, eng.submitted, 2)
	assert.IsType(t, coordinator.Ignore{}, eng.submitted[0])
	assert.IsType(t, coordinator.Split{}, eng.submitted[1])
}

func TestCursorFollowsPathAcrossResort(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	m = update(t, m, keyPress("G"))
	require.Equal(t, "/data/unlisted", m.list.Selected().Path())

	// The unlisted directory grows and moves to the top.
	grown := entry.NewDirectory("/data/unlisted").WithChildren([]entry.Entry{entry.NewFile("/data/unlisted/big", 5000)})
	rs := sampleRoots()
	for i := 0; i < rs.Len(); i++ {
		if rs.At(i).Path() == "/data/unlisted" {
			rs = rs.Replace(i, grown)
		}
	}
	eng.pub.Publish(coordinator.Snapshot{Roots: rs})
	m = update(t, m, pollMsg{})

	assert.Equal(t, 0, m.list.Cursor())
	assert.Equal(t, "/data/unlisted", m.list.Selected().Path())
}

func TestQuitUnsubscribes(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)
	require.Equal(t, 1, eng.pub.SubscriberCount())

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, 0, eng.pub.SubscriberCount())
}

func TestEngineStopQuits(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	eng.pub.Close()
	next, cmd := m.Update(pollMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, next.(Model).stopped)
}

func TestCompletionFreezesElapsed(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)
	assert.Zero(t, m.elapsed)

	eng.pub.Publish(coordinator.Snapshot{Roots: rootset.RootSet{}, Complete: true})
	m = update(t, m, pollMsg{})
	assert.NotZero(t, m.elapsed)
}

func TestViewRendersRoots(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := m.View()
	assert.Contains(t, view, "DRILL")
	assert.Contains(t, view, "/data/listed/")
	assert.Contains(t, view, "/data/file")
	assert.Contains(t, view, "300 B")
	assert.Contains(t, view, "split")
	assert.True(t, strings.Contains(view, "scanning"))
}

func TestStatusExpiresOnPoll(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng)

	m = update(t, m, keyPress("x"))
	require.NotEmpty(t, m.status)

	m = update(t, m, pollMsg{})
	assert.NotEmpty(t, m.status, "fresh status survives a poll")

	m.statusAt = time.Now().Add(-2 * DefaultStatusTimeout)
	m = update(t, m, pollMsg{})
	assert.Empty(t, m.status)
}

func TestFooterShowsLatestWarningAfterStatusExpires(t *testing.T) {
	require.NoError(t, logging.Init(logging.Config{
		Level:    "info",
		Path:     filepath.Join(t.TempDir(), "drill.log"),
		Rotation: logging.DefaultRotationConfig(),
		TUIMode:  true,
	}))
	t.Cleanup(func() { _ = logging.Close() })

	eng := newFakeEngine()
	m := newTestModel(t, eng)

	m = update(t, m, keyPress("x"))
	logging.Get("coordinator").Warn("command rejected")
	assert.NotContains(t, m.renderFooter(), "command rejected")

	m.statusAt = time.Now().Add(-2 * DefaultStatusTimeout)
	m = update(t, m, pollMsg{})
	assert.Contains(t, m.renderFooter(), "command rejected")
}
