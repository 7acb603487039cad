package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdash/internal/dashboard"
	"docdash/internal/model"
)

var refNow = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

// fakeController records intents and serves a fixed state.
type fakeController struct {
	state   dashboard.State
	calls   []string
	search  []string
	toggled []string
	sorted  []model.SortField
	viewed  []string
}

func (f *fakeController) State() dashboard.State { return f.state }
func (f *fakeController) SetSearch(term string) { f.search = append(f.search, term) }
func (f *fakeController) ToggleType(t string) { f.toggled = append(f.toggled, t) }
func (f *fakeController) SortBy(field model.SortField) { f.sorted = append(f.sorted, field) }
func (f *fakeController) ClearFilters() { f.calls = append(f.calls, "clear") }
func (f *fakeController) DismissNotification() { f.calls = append(f.calls, "dismiss") }
func (f *fakeController) ClosePreview() { f.calls = append(f.calls, "close") }

func (f *fakeController) Refresh(context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}

func (f *fakeController) ViewDocument(id string) error {
	f.viewed = append(f.viewed, id)
	return nil
}

func (f *fakeController) ApplySuggestion(now time.Time) model.Suggestion {
	f.calls = append(f.calls, "suggest")
	f.state.Filter = model.Filter{Search: "tax", Types: []string{"Tax Documents"}}
	return model.Suggestion{SearchTerm: "tax"}
}

func (f *fakeController) Download(_ context.Context, id string) (*model.DownloadLink, error) {
	return &model.DownloadLink{DocumentID: id, URL: "/documents/" + id + ".pdf", Filename: id + ".pdf"}, nil
}

func sampleState() dashboard.State {
	viewed := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	return dashboard.State{
		Documents: []model.Document{
			{ID: "1", Name: "Sample Bank Statement.pdf", Type: "Bank statements", UploadedDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
			{ID: "8", Name: "Investment Portfolio Q1 2024.pdf", Type: "Investment Documents", UploadedDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), LastViewed: &viewed},
		},
		KPIs:  model.KPISnapshot{TotalDocuments: 8, RecentlyViewed: 5, RecentlyUploaded: 3},
		Types: []string{"Bank statements", "Investment Documents"},
		Status: dashboard.Statuses{
			Documents: dashboard.StatusIdle, KPIs: dashboard.StatusIdle, Types: dashboard.StatusIdle,
			RecentlyViewed: dashboard.StatusIdle, RecentlyUploaded: dashboard.StatusIdle,
		},
		Suggestion: model.Suggestion{Title: "Tax Filing Season", SearchTerm: "tax", TypeFilters: []string{"Tax Documents"}, Category: "Seasonal"},
	}
}

func newTestModel(f *fakeController) Model {
	return New(f, nil, func() time.Time { return refNow }, time.UTC)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Navigation(t *testing.T) {
	f := &fakeController{state: sampleState()}
	m := newTestModel(f)

	m = press(t, m, runes("j"))
	assert.Equal(t, 1, m.Cursor())

	m = press(t, m, runes("j"))
	assert.Equal(t, 1, m.Cursor(), "cursor stops at the last row")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())
}

func TestModel_ViewAndSort(t *testing.T) {
	f := &fakeController{state: sampleState()}
	m := newTestModel(f)

	m = press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter}, runes("1"), runes("3"))

	assert.Equal(t, []string{"8"}, f.viewed)
	assert.Equal(t, []model.SortField{model.SortName, model.SortUploadedDate}, f.sorted)
}

func TestModel_SearchForwardsEachChange(t *testing.T) {
	f := &fakeController{state: sampleState()}
	m := newTestModel(f)

	m = press(t, m, runes("/"))
	require.True(t, m.Searching())

	m = press(t, m, runes("t"), runes("a"), runes("x"))
	assert.Equal(t, []string{"t", "ta", "tax"}, f.search)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Searching())
}

func TestModel_TypeChips(t *testing.T) {
	f := &fakeController{state: sampleState()}
	m := newTestModel(f)

	press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeySpace})

	assert.Equal(t, []string{"Investment Documents"}, f.toggled)
}

func TestModel_SuggestionAndClear(t *testing.T) {
	f := &fakeController{state: sampleState()}
	m := newTestModel(f)

	m = press(t, m, runes("s"))
	assert.Contains(t, f.calls, "suggest")
	assert.Contains(t, m.search.Value(), "tax")

	m = press(t, m, runes("c"))
	assert.Contains(t, f.calls, "clear")
	assert.Empty(t, m.search.Value())
}

func TestModel_StateMsgAndDownload(t *testing.T) {
	f := &fakeController{state: dashboard.State{}}
	m := newTestModel(f)

	next, _ := m.Update(StateMsg{State: sampleState()})
	m = next.(Model)
	next, _ = m.Update(DownloadResolved{Link: &model.DownloadLink{Filename: "a.pdf", URL: "/documents/a.pdf"}})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "Investment Portfolio Q1 2024.pdf")
	assert.Contains(t, out, "Download a.pdf: /documents/a.pdf")
}

func TestModel_View(t *testing.T) {
	st := sampleState()
	st.Sort = model.SortSpec{Field: model.SortName, Direction: model.Descending}
	st.Selected = &st.Documents[1]
	st.PreviewOpen = true
	st.Notification = `AI search applied: "tax" with 1 type filter`
	m := newTestModel(&fakeController{state: st})

	out := m.View()

	for _, want := range []string{
		"Total documents",
		"Tax Filing Season",
		"1 Name ↓",
		"Sample Bank Statement.pdf",
		"4 days ago",
		"Mar 15, 2024",
		"Never",
		`AI search applied: "tax" with 1 type filter`,
	} {
		assert.True(t, strings.Contains(out, want), "view should contain %q", want)
	}
}

func TestUpdates_KeepsLatest(t *testing.T) {
	u := NewUpdates()

	u.Push(dashboard.State{Notification: "first"})
	u.Push(dashboard.State{Notification: "second"})

	msg := u.Wait()()
	assert.Equal(t, "second", msg.(StateMsg).State.Notification)
}
