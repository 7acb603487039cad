package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"docdash/internal/dashboard"
	"docdash/internal/model"
)

// StateMsg carries a controller snapshot into the program.
type StateMsg struct {
	State dashboard.State
}

// DownloadResolved is sent when a download link was resolved.
type DownloadResolved struct {
	Link *model.DownloadLink
	Err  error
}

// RefreshDone is sent when a manual refresh finished.
type RefreshDone struct {
	Err error
}

// Updates bridges Controller.OnChange to the program. Only the latest snapshot is kept,
// so Push never blocks the controller.
type Updates struct {
	ch chan dashboard.State
}

// NewUpdates creates an empty Updates.
func NewUpdates() *Updates {
	return &Updates{ch: make(chan dashboard.State, 1)}
}

// Push replaces any pending snapshot with s. Use it as Options.OnChange.
func (u *Updates) Push(s dashboard.State) {
	for {
		select {
		case u.ch <- s:
			return
		default:
		}
		select {
		case <-u.ch:
		default:
		}
	}
}

// Wait returns a command that delivers the next snapshot as a StateMsg.
func (u *Updates) Wait() tea.Cmd {
	return func() tea.Msg {
		return StateMsg{State: <-u.ch}
	}
}
