// Package tui provides the Bubble Tea terminal UI for linksweep, displaying
// live validation progress and a styled summary of the issues found.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/linksweep/checker"
	"github.com/lukemcguire/linksweep/result"
)

// RunFunc performs the run whose progress the model displays.
type RunFunc func(ctx context.Context) (*result.Report, error)

// Model is the Bubble Tea model for the validation TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	run        RunFunc
	spinner    spinner.Model
	bar        progress.Model
	progressCh <-chan checker.Event

	checked  int
	total    int
	notOK    int
	current  string
	quitting bool
	done     bool
	report   *result.Report
	err      error
}

// NewModel creates a TUI model that executes run and listens on progressCh.
func NewModel(ctx context.Context, cancel context.CancelFunc, run RunFunc, progressCh <-chan checker.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		run:        run,
		spinner:    spin,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		progressCh: progressCh,
	}
}

// Init starts the spinner, the run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.progressCh))
}

func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.run(m.ctx)
		return DoneMsg{Report: rep, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), 60)

	case ProgressMsg:
		m.checked = msg.Event.Checked
		m.total = msg.Event.Total
		m.notOK = msg.Event.NotOK
		m.current = msg.Event.URL
		return m, waitForProgress(m.progressCh)

	case progressClosedMsg:
		return m, nil

	case DoneMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.done {
		return RenderSummary(m.report)
	}
	if m.quitting {
		return dimStyle.Render("Cancelling...") + "\n"
	}
	if m.total == 0 {
		return fmt.Sprintf("%s Discovering URLs...\n", m.spinner.View())
	}
	return fmt.Sprintf("%s Validating... checked %d/%d, %d not OK\n%s\n%s\n",
		m.spinner.View(), m.checked, m.total, m.notOK,
		m.bar.ViewAs(m.fraction()),
		dimStyle.Render("  "+m.current))
}

func (m Model) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.checked) / float64(m.total)
}

// Report returns the finished report, or nil while running or after an error.
func (m Model) Report() *result.Report {
	return m.report
}

// Err returns the error the run finished with.
func (m Model) Err() error {
	return m.err
}

// Interrupted reports whether the user quit before the run completed.
func (m Model) Interrupted() bool {
	return m.quitting && !m.done
}
