package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/linksweep/checker"
	"github.com/lukemcguire/linksweep/result"
)

// ProgressMsg carries one checker event into the model.
type ProgressMsg struct {
	Event checker.Event
}

// DoneMsg signals the run has completed.
type DoneMsg struct {
	Report *result.Report
	Err    error
}

// progressClosedMsg is delivered once the progress channel is closed.
type progressClosedMsg struct{}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. The final report arrives separately through DoneMsg.
func waitForProgress(ch <-chan checker.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return ProgressMsg{Event: evt}
	}
}
