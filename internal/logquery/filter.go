package logquery

import (
	"strings"
	"time"

	"gamelog/internal/models"
)

// Filter is the predicate shared by retrieval and deletion. Zero-valued
// fields place no constraint. Start and End are inclusive, Before is
// exclusive.
type Filter struct {
	Player string
	Level  models.Level
	Source string
	Start  *time.Time
	End    *time.Time
	Before *time.Time
	// Search is a case-insensitive literal substring matched against
	// message, source and player.
	Search string
}

func (f Filter) IsEmpty() bool {
	return f.Player == "" &&
		f.Level == "" &&
		f.Source == "" &&
		f.Start == nil &&
		f.End == nil &&
		f.Before == nil &&
		f.Search == ""
}

// Match evaluates the filter in memory. Stores with a query language
// translate the same fields instead.
func (f Filter) Match(r *models.LogRecord) bool {
	if r == nil {
		return false
	}
	if f.Player != "" && r.Player != f.Player {
		return false
	}
	if f.Level != "" && r.Level != f.Level {
		return false
	}
	if f.Source != "" && r.Source != f.Source {
		return false
	}
	if f.Start != nil && r.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.Timestamp.After(*f.End) {
		return false
	}
	if f.Before != nil && !r.Timestamp.Before(*f.Before) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Message), term) &&
			!strings.Contains(strings.ToLower(r.Source), term) &&
			!strings.Contains(strings.ToLower(r.Player), term) {
			return false
		}
	}
	return true
}
