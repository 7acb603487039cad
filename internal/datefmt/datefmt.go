// Package datefmt renders document dates for display.
package datefmt

import (
	"fmt"
	"time"
)

// Long renders a date like "Jan 15, 2024" in loc. A zero time renders as "—".
func Long(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "—"
	}
	return t.In(location(loc)).Format("Jan 2, 2006")
}

// Relative buckets t against now by calendar day in loc: "Today", "Yesterday",
// "N days ago" within a week, "N weeks ago" within 30 days, then "Jan 2".
// Dates after now render as "Today".
func Relative(t, now time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "—"
	}
	loc = location(loc)
	days := CalendarDays(t, now, loc)

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := (days + 6) / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return t.In(loc).Format("Jan 2")
	}
}

// CalendarDays counts midnights between from and to in loc. Negative when to is earlier.
func CalendarDays(from, to time.Time, loc *time.Location) int {
	loc = location(loc)
	a := midnight(from.In(loc))
	b := midnight(to.In(loc))
	// Round so DST transitions (23h/25h days) still count as one day.
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
