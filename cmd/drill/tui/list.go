package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
	"github.com/jamesainslie/drill/pkg/drill/types"
)

// ListModel is the scrollable list of root set entries.
type ListModel struct {
	roots  rootset.RootSet
	cursor int
	offset int
	width  int
	height int
	keys   keyMap
}

// NewListModel creates an empty list.
func NewListModel() ListModel {
	return ListModel{
		width:  80,
		height: 24,
		keys:   defaultKeyMap(),
	}
}

// SetRoots replaces the displayed root set. The cursor stays on the same
// path when that path is still present, since sizes re-sort the list on
// every step.
func (m *ListModel) SetRoots(rs rootset.RootSet) {
	var current string
	if sel := m.Selected(); sel != nil {
		current = sel.Path()
	}

	m.roots = rs
	if current != "" {
		for i := 0; i < rs.Len(); i++ {
			if rs.At(i).Path() == current {
				m.cursor = i
				m.ensureVisible()
				return
			}
		}
	}
	m.clamp()
}

// HandleKey moves the cursor. It reports whether the key was consumed.
func (m *ListModel) HandleKey(msg tea.KeyMsg) bool {
	n := m.roots.Len()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = n - 1
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.visibleRows()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.visibleRows()
	default:
		return false
	}
	m.clamp()
	return true
}

func (m *ListModel) clamp() {
	n := m.roots.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// Selected returns the entry under the cursor, or nil for an empty list.
func (m ListModel) Selected() entry.Entry {
	if m.cursor < 0 || m.cursor >= m.roots.Len() {
		return nil
	}
	return m.roots.At(m.cursor)
}

// Cursor returns the current cursor position.
func (m ListModel) Cursor() int {
	return m.cursor
}

// Splittable reports whether e can be split: a directory that has been
// listed and has at least one child.
func Splittable(e entry.Entry) bool {
	d, ok := e.(*entry.Directory)
	return ok && d.NumChildren() > 0
}

// SetDimensions updates the width and height.
func (m *ListModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// visibleRows returns the number of rows available for entries.
func (m ListModel) visibleRows() int {
	// Header, stats, help, dividers, footer and border.
	return max(m.height-11, 3)
}

// ensureVisible adjusts offset to keep the cursor visible.
func (m *ListModel) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the visible rows. spin is drawn next to unfinished entries.
func (m ListModel) View(width int, spin string) string {
	if m.roots.Len() == 0 {
		return "\n" + center(mutedTextStyle.Render("Nothing left to show."), width) + "\n"
	}

	var b strings.Builder
	rows := m.visibleRows()
	pathWidth := max(width-26, 10)

	end := min(m.offset+rows, m.roots.Len())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.roots.At(i), i == m.cursor, pathWidth, spin))
		b.WriteString("\n")
	}
	for i := end - m.offset; i < rows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderRow renders one entry: size, state, child count and path.
func (m ListModel) renderRow(e entry.Entry, isCursor bool, pathWidth int, spin string) string {
	size := sizeStyle.Render(padLeft(types.FormatSize(e.Size()), 10))

	state := " "
	items := ""
	path := e.Path()
	if d, ok := e.(*entry.Directory); ok {
		path += "/"
		items = fmt.Sprintf("%d", d.NumChildren())
		if d.Done() {
			state = successTextStyle.Render("✓")
		} else {
			state = spin
		}
	}

	cursor := " "
	if isCursor {
		cursor = cursorStyle.Render(">")
	}

	line := fmt.Sprintf(" %s %s %s %s  %s",
		cursor, size, state, mutedTextStyle.Render(padLeft(items, 6)), truncatePath(path, pathWidth))

	if isCursor {
		return selectedItemStyle.Width(pathWidth + 24).Render(line)
	}
	return normalItemStyle.Render(line)
}
