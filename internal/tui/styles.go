package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("62")
	colorSecondary = lipgloss.Color("241")
	colorMuted     = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("212")
	colorSuccess   = lipgloss.Color("78")
	colorError     = lipgloss.Color("196")
)

var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// KPICard frames one KPI value.
var KPICard = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 2).
	MarginRight(1)

var KPIValue = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

var KPILabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// SuggestionCard frames the seasonal suggestion.
var SuggestionCard = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorHighlight).
	Padding(0, 1)

var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary).
	MarginTop(1)

var Chip = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

var ActiveChip = Chip.
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

var HeaderRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorSecondary)

// PreviewPane frames the selected document's metadata.
var PreviewPane = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorSuccess).
	Padding(0, 1)

var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

var NotificationStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true).
	Padding(0, 1)

var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

var MutedText = lipgloss.NewStyle().
	Foreground(colorMuted)
