package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/drill/pkg/drill/coordinator"
	"github.com/jamesainslie/drill/pkg/drill/logging"
	"github.com/jamesainslie/drill/pkg/drill/publisher"
)

// Engine is the part of the coordinator the TUI talks to.
type Engine interface {
	Submit(ctx context.Context, cmd coordinator.Command) error
	Subscribe() *publisher.Subscription[coordinator.Snapshot]
	Unsubscribe(id string)
}

// Options configures the TUI application.
type Options struct {
	// Refresh is how often published snapshots are picked up.
	Refresh time.Duration

	// Listed reports the number of directories listed so far.
	Listed func() int64

	// StatusTimeout is how long an action message stays in the footer
	// before it gives way to the newest logged warning.
	StatusTimeout time.Duration
}

// DefaultStatusTimeout is used when Options.StatusTimeout is unset.
const DefaultStatusTimeout = 3 * time.Second

// Model is the main Bubble Tea model for the drill TUI.
type Model struct {
	ctx     context.Context
	engine  Engine
	sub     *publisher.Subscription[coordinator.Snapshot]
	options Options
	keys    keyMap

	list     ListModel
	spinner  spinner.Model
	snapshot coordinator.Snapshot

	startTime time.Time
	elapsed   time.Duration
	status    string
	statusAt  time.Time
	stopped   bool

	width  int
	height int
}

// NewModel creates a TUI model subscribed to engine.
func NewModel(ctx context.Context, engine Engine, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = 100 * time.Millisecond
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = DefaultStatusTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		ctx:       ctx,
		engine:    engine,
		sub:       engine.Subscribe(),
		options:   opts,
		keys:      defaultKeyMap(),
		list:      NewListModel(),
		spinner:   s,
		startTime: time.Now(),
		width:     80,
		height:    24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

// pollMsg asks the model to pick up the latest snapshot.
type pollMsg struct{}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.options.Refresh, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m Model) poll() tea.Cmd {
	return func() tea.Msg { return pollMsg{} }
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollMsg:
		m.expireStatus(time.Now())
		if m.drain() {
			return m, tea.Quit
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// drain applies the pending snapshot, if any. It reports whether the
// engine has stopped publishing.
func (m *Model) drain() bool {
	if m.sub == nil {
		m.stopped = true
		return true
	}

	select {
	case snap, ok := <-m.sub.Values:
		if !ok {
			m.stopped = true
			return true
		}
		m.apply(snap)
	default:
	}
	return false
}

func (m *Model) apply(snap coordinator.Snapshot) {
	m.snapshot = snap
	m.list.SetRoots(snap.Roots)
	if snap.Complete && m.elapsed == 0 {
		m.elapsed = time.Since(m.startTime)
	}
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.sub != nil {
			m.engine.Unsubscribe(m.sub.ID)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Split):
		sel := m.list.Selected()
		if sel == nil {
			return m, nil
		}
		if !Splittable(sel) {
			m.setStatus("Nothing to split in " + sel.Path())
			return m, nil
		}
		m.submit(coordinator.Split{Path: sel.Path()})

	case key.Matches(msg, m.keys.Ignore):
		sel := m.list.Selected()
		if sel == nil {
			return m, nil
		}
		m.submit(coordinator.Ignore{Entry: sel})

	default:
		m.list.HandleKey(msg)
	}

	return m, nil
}

// submit hands cmd to the engine on the UI goroutine so that commands keep
// the order in which keys were pressed.
func (m *Model) submit(cmd coordinator.Command) {
	if err := m.engine.Submit(m.ctx, cmd); err != nil {
		m.setStatus(fmt.Sprintf("Could not %s: %v", cmd, err))
		return
	}
	m.setStatus(strings.ToUpper(cmd.String()[:1]) + cmd.String()[1:])
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusAt = time.Now()
}

// expireStatus clears an action message older than the status timeout.
func (m *Model) expireStatus(now time.Time) {
	if m.status != "" && now.Sub(m.statusAt) >= m.options.StatusTimeout {
		m.status = ""
	}
}

// View renders the current state.
func (m Model) View() string {
	contentWidth := max(m.width-4, 60)

	var b strings.Builder
	b.WriteString(renderAppHeader(m.snapshot, m.spinner.View()))
	b.WriteString("\n")
	b.WriteString(renderScanMetrics(m.listed(), m.snapshot.Stats, m.elapsedTime()))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.list.View(contentWidth, m.spinner.View()))
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return outerBoxStyle.Width(max(m.width-2, 0)).Render(b.String())
}

func (m Model) listed() int64 {
	if m.options.Listed == nil {
		return 0
	}
	return m.options.Listed()
}

func (m Model) elapsedTime() time.Duration {
	if m.elapsed > 0 {
		return m.elapsed
	}
	return time.Since(m.startTime)
}

// renderFooter shows the last action, or else the newest logged warning.
func (m Model) renderFooter() string {
	if m.status != "" {
		return "  " + m.status
	}
	if recent := logging.RecentRecords(); recent != nil {
		if last := recent.Last(1); len(last) == 1 {
			return errorTextStyle.Render(fmt.Sprintf("  %s: %s", last[0].Component, last[0].Message))
		}
	}
	return ""
}

// renderHelpBar renders the help bar with key hints.
func (m Model) renderHelpBar() string {
	var parts []string
	for _, h := range m.keys.hints() {
		help := h.Help()
		parts = append(parts, keyStyle.Render("["+help.Key+"]")+" "+keyDescStyle.Render(help.Desc))
	}
	return "  " + strings.Join(parts, "  ")
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, engine Engine, opts Options) error {
	model := NewModel(ctx, engine, opts)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
