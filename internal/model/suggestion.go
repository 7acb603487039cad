package model

import "fmt"

// Suggestion is a search/filter preset proposed by the seasonal rule.
type Suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SearchTerm  string   `json:"searchTerm"`
	TypeFilters []string `json:"typeFilters"`
	Category    string   `json:"category"`
}

// Filter converts the suggestion into filter criteria.
func (s Suggestion) Filter() Filter {
	return Filter{Search: s.SearchTerm, Types: append([]string(nil), s.TypeFilters...)}
}

// Notification is the transient message shown after the suggestion is applied.
func (s Suggestion) Notification() string {
	plural := ""
	if len(s.TypeFilters) > 1 {
		plural = "s"
	}
	return fmt.Sprintf("AI search applied: %q with %d type filter%s", s.SearchTerm, len(s.TypeFilters), plural)
}
