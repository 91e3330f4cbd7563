// Package tui provides the Bubble Tea status display shown while a
// session is being recorded.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/savantlab/padlab/internal/dispatch"
	"github.com/savantlab/padlab/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	recordingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// EventMsg delivers one captured event to the model.
type EventMsg session.EventRecord

// StreamClosedMsg signals that the event source ended on its own.
type StreamClosedMsg struct{ Err error }

// Model is the root Bubble Tea model for a live recording.
type Model struct {
	disp   *dispatch.Dispatcher
	events <-chan session.EventRecord
	sw     stopwatch.Model

	width    int
	counts   map[session.Kind]int
	done     bool
	discard  bool
	finished bool
	err      error
}

// New creates a recording model. Events arriving on events are handed to
// the dispatcher; the channel closing ends the stream but not the session.
func New(disp *dispatch.Dispatcher, events <-chan session.EventRecord) Model {
	return Model{
		disp:   disp,
		events: events,
		sw:     stopwatch.NewWithInterval(100 * time.Millisecond),
		counts: make(map[session.Kind]int),
	}
}

// Discarded reports whether the user chose to discard the session.
func (m Model) Discarded() bool { return m.discard }

// Err returns the first error the recording hit, if any.
func (m Model) Err() error { return m.err }

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return StreamClosedMsg{}
		}
		return EventMsg(e)
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sw.Init(), m.sw.Start(), m.waitForEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			if m.disp.Recorder().State() == session.StateOpen {
				m.disp.Recorder().Pause()
				return m, m.sw.Stop()
			}
		case "r":
			if m.disp.Recorder().State() == session.StatePaused {
				m.disp.Recorder().Resume()
				return m, m.sw.Start()
			}
		case "s", "q", "ctrl+c":
			return m.finish(false)
		case "d":
			return m.finish(true)
		}
		return m, nil

	case EventMsg:
		if !m.finished {
			if err := m.disp.Handle(session.EventRecord(msg)); err != nil && m.err == nil {
				m.err = err
			}
			m.counts[msg.Kind]++
			return m, m.waitForEvent()
		}
		return m, nil

	case StreamClosedMsg:
		if msg.Err != nil && m.err == nil {
			m.err = msg.Err
		}
		m.done = true
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.sw, cmd = m.sw.Update(msg)
	return m, cmd
}

// finish finalizes the session once and quits.
func (m Model) finish(discard bool) (tea.Model, tea.Cmd) {
	if !m.finished {
		m.finished = true
		m.discard = discard
		m.disp.Finish()
		if err := m.disp.Recorder().Finalize(discard, m.disp.SnapshotTo); err != nil && m.err == nil {
			m.err = err
		}
	}
	return m, tea.Quit
}

func (m Model) View() string {
	width := m.width
	if width < 40 {
		width = 60
	}

	title := titleStyle.Width(width).Render("  padlab  " + m.disp.Recorder().ID())

	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s", label)) + "  " + value + "\n")
	}

	sb.WriteString("\n")
	row("State", m.stateView())
	row("Elapsed", m.sw.View())
	row("Events", fmt.Sprintf("%d", m.disp.Recorder().EventCount()))
	if len(m.counts) > 0 {
		row("By kind", m.countsView())
	}
	if dropped := m.disp.Recorder().DroppedCount(); dropped > 0 {
		row("Dropped", warnStyle.Render(fmt.Sprintf("%d", dropped)))
	}
	row("Strokes", fmt.Sprintf("%d", m.disp.Canvas().StrokeCount()))
	if last := m.disp.Recorder().LastEvent(); last != "" {
		row("Last", dimStyle.Render(last))
	}
	if m.done {
		sb.WriteString("\n" + dimStyle.Render("  event stream ended") + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + warnStyle.Render("  "+m.err.Error()) + "\n")
	}
	sb.WriteString("\n")

	hint := "  p pause  r resume  s save & quit  d discard"
	statusBar := statusBarStyle.Width(width).Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, title, sb.String(), statusBar)
}

// Run starts the TUI for a live recording and reports whether the user
// discarded the session.
func Run(disp *dispatch.Dispatcher, events <-chan session.EventRecord) (discarded bool, err error) {
	p := tea.NewProgram(New(disp, events))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m := final.(Model)
	if m.Err() != nil {
		return m.Discarded(), m.Err()
	}
	return m.Discarded(), nil
}

// countsView renders the per-kind tallies on one line, sorted by name.
func (m Model) countsView() string {
	kinds := make([]string, 0, len(m.counts))
	for k := range m.counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", k, m.counts[session.Kind(k)]))
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

func (m Model) stateView() string {
	switch m.disp.Recorder().State() {
	case session.StateOpen:
		return recordingStyle.Render("● recording")
	case session.StatePaused:
		return pausedStyle.Render("‖ paused")
	case session.StateClosed:
		return doneStyle.Render("✓ saved")
	}
	return dimStyle.Render("not started")
}
