// Package tui is the terminal dashboard. It renders controller snapshots and turns
// key presses into controller intents; it never talks to a store directly.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docdash/internal/dashboard"
	"docdash/internal/model"
)

// Controller is the subset of dashboard.Controller the UI drives.
type Controller interface {
	State() dashboard.State
	Refresh(ctx context.Context) error
	SetSearch(term string)
	ToggleType(t string)
	SortBy(field model.SortField)
	ClearFilters()
	ApplySuggestion(now time.Time) model.Suggestion
	DismissNotification()
	ViewDocument(id string) error
	ClosePreview()
	Download(ctx context.Context, id string) (*model.DownloadLink, error)
}

var _ Controller = (*dashboard.Controller)(nil)

type focus int

const (
	focusTable focus = iota
	focusSearch
)

var sortKeys = map[string]model.SortField{
	"1": model.SortName,
	"2": model.SortType,
	"3": model.SortUploadedDate,
	"4": model.SortLastViewed,
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl    Controller
	updates *Updates
	clock   func() time.Time
	loc     *time.Location

	state      dashboard.State
	search     textinput.Model
	focus      focus
	cursor     int
	typeCursor int
	status     string
	err        error
	width      int
	height     int
}

// New creates the model. clock provides "now" for the suggestion and relative dates.
func New(ctrl Controller, updates *Updates, clock func() time.Time, loc *time.Location) Model {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	ti := textinput.New()
	ti.Placeholder = "Search name or summary..."
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	ti.CharLimit = 64
	ti.Width = 40

	return Model{
		ctrl:    ctrl,
		updates: updates,
		clock:   clock,
		loc:     loc,
		state:   ctrl.State(),
		search:  ti,
	}
}

// Init starts the initial load and listens for controller updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.wait())
}

func (m Model) wait() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return m.updates.Wait()
}

func (m Model) refresh() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return RefreshDone{Err: ctrl.Refresh(context.Background())}
	}
}

func (m Model) download(id string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		link, err := ctrl.Download(context.Background(), id)
		return DownloadResolved{Link: link, Err: err}
	}
}

// Update handles messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateMsg:
		m.state = msg.State
		m.clampCursor()
		return m, m.wait()

	case RefreshDone:
		m.err = msg.Err
		return m, nil

	case DownloadResolved:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = "Download " + msg.Link.Filename + ": " + msg.Link.URL
		return m, nil

	case tea.KeyMsg:
		if m.focus == focusSearch {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter", "tab":
		m.focus = focusTable
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.ctrl.SetSearch(v)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	key := msg.String()

	if field, ok := sortKeys[key]; ok {
		m.ctrl.SortBy(field)
		m.syncState()
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.focus = focusSearch
		cmd := m.search.Focus()
		return m, cmd

	case "j", "down":
		if m.cursor < len(m.state.Documents)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "left", "h":
		if m.typeCursor > 0 {
			m.typeCursor--
		}
	case "right", "l":
		if m.typeCursor < len(m.state.Types)-1 {
			m.typeCursor++
		}
	case " ":
		if m.typeCursor < len(m.state.Types) {
			m.ctrl.ToggleType(m.state.Types[m.typeCursor])
			m.syncState()
		}

	case "enter":
		if doc, ok := m.current(); ok {
			if err := m.ctrl.ViewDocument(doc.ID); err != nil {
				m.err = err
			}
			m.syncState()
		}
	case "esc":
		if m.state.PreviewOpen {
			m.ctrl.ClosePreview()
			m.syncState()
		}

	case "d":
		if doc, ok := m.current(); ok {
			return m, m.download(doc.ID)
		}

	case "s":
		m.ctrl.ApplySuggestion(m.clock())
		m.syncState()
		m.search.SetValue(m.state.Filter.Search)
	case "c":
		m.ctrl.ClearFilters()
		m.syncState()
		m.search.SetValue("")
	case "x":
		m.ctrl.DismissNotification()
		m.syncState()

	case "r":
		m.status = ""
		return m, m.refresh()
	}
	return m, nil
}

// syncState pulls the snapshot right after a synchronous intent so the next frame reflects it.
func (m *Model) syncState() {
	m.state = m.ctrl.State()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Documents) {
		m.cursor = max(len(m.state.Documents)-1, 0)
	}
	if m.typeCursor >= len(m.state.Types) {
		m.typeCursor = max(len(m.state.Types)-1, 0)
	}
}

func (m Model) current() (model.Document, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Documents) {
		return model.Document{}, false
	}
	return m.state.Documents[m.cursor], true
}

// Cursor returns the table cursor position.
func (m Model) Cursor() int { return m.cursor }

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool { return m.focus == focusSearch }
