package tui

import (
	"testing"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/stretchr/testify/assert"
)

func TestListModelEmpty(t *testing.T) {
	m := NewListModel()
	assert.Nil(t, m.Selected())
	assert.True(t, m.HandleKey(keyPress("down")))
	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.View(80, "*"), "Nothing left to show")
}

func TestListModelCursorBounds(t *testing.T) {
	m := NewListModel()
	m.SetRoots(sampleRoots())

	m.HandleKey(keyPress("up"))
	assert.Equal(t, 0, m.Cursor())

	m.HandleKey(keyPress("G"))
	assert.Equal(t, 2, m.Cursor())
	m.HandleKey(keyPress("down"))
	assert.Equal(t, 2, m.Cursor())

	m.HandleKey(keyPress("g"))
	assert.Equal(t, 0, m.Cursor())

	assert.False(t, m.HandleKey(keyPress("z")))
}

func TestListModelCursorClampsWhenRootsShrink(t *testing.T) {
	m := NewListModel()
	m.SetRoots(sampleRoots())
	m.HandleKey(keyPress("G"))

	m.SetRoots(rootset.FromEntries([]entry.Entry{entry.NewFile("/only", 1)}))
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, "/only", m.Selected().Path())
}

func TestSplittable(t *testing.T) {
	assert.False(t, Splittable(entry.NewFile("/f", 1)))
	assert.False(t, Splittable(entry.NewDirectory("/d")))
	assert.False(t, Splittable(entry.NewDirectory("/d").WithChildren(nil)))
	assert.True(t, Splittable(entry.NewDirectory("/d").WithChildren([]entry.Entry{entry.NewFile("/d/f", 1)})))
	assert.False(t, Splittable(nil))
}
