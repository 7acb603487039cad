// Package suggestion picks a seasonal search preset from the calendar date.
package suggestion

import (
	"strconv"
	"time"

	"docdash/internal/model"
)

// For returns the suggestion for date's month and day. The ranges cover the whole year;
// the "recent activity" fallback is returned only for a zero date.
func For(date time.Time) model.Suggestion {
	if date.IsZero() {
		return recentActivity()
	}
	month, day := date.Month(), date.Day()

	switch {
	case month < time.April || (month == time.April && day <= 15):
		return model.Suggestion{
			Title:       "Tax Filing Season",
			Description: "Looking for tax documents?",
			SearchTerm:  "tax",
			TypeFilters: []string{"Tax Documents"},
			Category:    "Seasonal",
		}
	case month <= time.May:
		return model.Suggestion{
			Title:       "Q1 Financial Review",
			Description: "Need quarterly statements?",
			SearchTerm:  "Q1",
			TypeFilters: []string{"Bank statements", "Investment Documents"},
			Category:    "Quarterly",
		}
	case month <= time.August:
		return model.Suggestion{
			Title:       "Mid-Year Planning",
			Description: "Review investment portfolio?",
			SearchTerm:  "investment",
			TypeFilters: []string{"Investment Documents", "401k documents"},
			Category:    "Planning",
		}
	case month <= time.October:
		return model.Suggestion{
			Title:       "Q3 Financial Review",
			Description: "Check quarterly performance?",
			SearchTerm:  "Q3",
			TypeFilters: []string{"Investment Documents", "401k documents"},
			Category:    "Quarterly",
		}
	default:
		return model.Suggestion{
			Title:       "Year-End Planning",
			Description: "Prepare for tax season?",
			SearchTerm:  strconv.Itoa(date.Year()),
			TypeFilters: []string{"Tax Documents", "Investment Documents", "401k documents"},
			Category:    "Planning",
		}
	}
}

func recentActivity() model.Suggestion {
	return model.Suggestion{
		Title:       "Recent Activity",
		Description: "Find recent bank statements?",
		SearchTerm:  "bank statement",
		TypeFilters: []string{"Bank statements"},
		Category:    "Recent",
	}
}
