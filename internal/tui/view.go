package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docdash/internal/dashboard"
	"docdash/internal/datefmt"
	"docdash/internal/model"
)

var sortLabels = []struct {
	key   string
	field model.SortField
	title string
	width int
}{
	{"1", model.SortName, "Name", 36},
	{"2", model.SortType, "Type", 22},
	{"3", model.SortUploadedDate, "Uploaded", 14},
	{"4", model.SortLastViewed, "Last viewed", 14},
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Document Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.renderKPIs())
	b.WriteString("\n")
	b.WriteString(m.renderSuggestion())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderChips())
	b.WriteString("\n")
	b.WriteString(m.renderTable())

	if m.state.PreviewOpen && m.state.Selected != nil {
		b.WriteString("\n")
		b.WriteString(m.renderPreview(*m.state.Selected))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderRecent("Recently viewed", m.state.RecentlyViewed, m.state.Status.RecentlyViewed, true),
		"   ",
		m.renderRecent("Recently uploaded", m.state.RecentlyUploaded, m.state.Status.RecentlyUploaded, false),
	))
	b.WriteString("\n")

	if m.state.Notification != "" {
		b.WriteString(NotificationStyle.Render(m.state.Notification))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(MutedText.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderKPIs() string {
	k := m.state.KPIs
	loading := m.state.Status.KPIs == dashboard.StatusLoading
	card := func(label string, v int) string {
		value := strconv.Itoa(v)
		if loading {
			value = "…"
		}
		return KPICard.Render(KPIValue.Render(value) + "\n" + KPILabel.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total documents", k.TotalDocuments),
		card("Recently viewed", k.RecentlyViewed),
		card("Recently uploaded", k.RecentlyUploaded),
	)
}

func (m Model) renderSuggestion() string {
	s := m.state.Suggestion
	if s.Title == "" {
		return ""
	}
	body := fmt.Sprintf("%s  [%s]\n%s\n%s",
		KPIValue.Render(s.Title), s.Category, s.Description,
		MutedText.Render(fmt.Sprintf("press s to search %q in %s", s.SearchTerm, strings.Join(s.TypeFilters, ", "))))
	return SuggestionCard.Render(body)
}

func (m Model) renderChips() string {
	if len(m.state.Types) == 0 {
		return MutedText.Render(statusText(m.state.Status.Types, "no types"))
	}
	chips := make([]string, 0, len(m.state.Types))
	for i, t := range m.state.Types {
		style := Chip
		if m.state.HasType(t) {
			style = ActiveChip
		}
		if i == m.typeCursor && m.focus == focusTable {
			style = style.Underline(true)
		}
		chips = append(chips, style.Render(t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderTable() string {
	var b strings.Builder
	b.WriteString(SectionHeader.Render(fmt.Sprintf("Documents (%d)", len(m.state.Documents))))
	b.WriteString("\n")

	header := make([]string, 0, len(sortLabels))
	for _, l := range sortLabels {
		title := l.key + " " + l.title
		if m.state.Sort.Field == l.field {
			if m.state.Sort.Direction == model.Descending {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		header = append(header, pad(title, l.width))
	}
	b.WriteString(HeaderRow.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	switch {
	case m.state.Status.Documents == dashboard.StatusLoading && len(m.state.Documents) == 0:
		b.WriteString(MutedText.Render("Loading documents..."))
		return b.String()
	case m.state.Status.Documents == dashboard.StatusError && len(m.state.Documents) == 0:
		b.WriteString(ErrorStyle.Render("Could not load documents"))
		return b.String()
	case len(m.state.Documents) == 0:
		b.WriteString(MutedText.Render("No documents match the current filters"))
		return b.String()
	}

	now := m.clock()
	for i, d := range m.state.Documents {
		cols := []string{
			pad(d.Name, sortLabels[0].width),
			pad(d.Type, sortLabels[1].width),
			pad(datefmt.Relative(d.UploadedDate, now, m.loc), sortLabels[2].width),
			pad(m.lastViewed(d), sortLabels[3].width),
		}
		row := strings.Join(cols, " ")
		if i == m.cursor {
			b.WriteString(SelectedRow.Render(row))
		} else {
			b.WriteString(NormalRow.Render(row))
		}
		if i < len(m.state.Documents)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderPreview(d model.Document) string {
	lines := []string{
		KPIValue.Render(d.Name),
		"Type:      " + d.Type,
		"Uploaded:  " + datefmt.Long(d.UploadedDate, m.loc),
		"Viewed:    " + m.lastViewed(d),
		"File:      " + d.FileURL,
		"",
		d.Summary,
	}
	if m.state.MarkingViewed {
		lines = append(lines, MutedText.Render("marking as viewed..."))
	}
	lines = append(lines, MutedText.Render("esc close · d download"))
	return PreviewPane.Render(strings.Join(lines, "\n"))
}

func (m Model) renderRecent(title string, docs []model.Document, st dashboard.Status, viewed bool) string {
	var b strings.Builder
	b.WriteString(SectionHeader.Render(title))
	b.WriteString("\n")
	if len(docs) == 0 {
		b.WriteString(MutedText.Render(statusText(st, "nothing yet")))
		return b.String()
	}
	now := m.clock()
	for i, d := range docs {
		when := datefmt.Relative(d.UploadedDate, now, m.loc)
		if viewed && d.LastViewed != nil {
			when = datefmt.Long(*d.LastViewed, m.loc)
		}
		b.WriteString(fmt.Sprintf("%s %s", pad(d.Name, 34), MutedText.Render(when)))
		if i < len(docs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	keys := []string{
		StatusBarKey.Render("/") + " search",
		StatusBarKey.Render("←→ space") + " types",
		StatusBarKey.Render("1-4") + " sort",
		StatusBarKey.Render("enter") + " view",
		StatusBarKey.Render("s") + " suggest",
		StatusBarKey.Render("c") + " clear",
		StatusBarKey.Render("r") + " refresh",
		StatusBarKey.Render("q") + " quit",
	}
	text := strings.Join(keys, "  ")
	if m.state.Status.Loading() {
		text = "loading…  " + text
	}
	style := StatusBar
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(text)
}

func (m Model) lastViewed(d model.Document) string {
	if d.LastViewed == nil {
		return "Never"
	}
	return datefmt.Relative(*d.LastViewed, m.clock(), m.loc)
}

func statusText(st dashboard.Status, empty string) string {
	switch st {
	case dashboard.StatusLoading:
		return "loading..."
	case dashboard.StatusError:
		return "unavailable"
	}
	return empty
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
