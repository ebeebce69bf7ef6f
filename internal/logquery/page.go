package logquery

import (
	"math"
	"strings"
)

// SortField names a sortable record attribute. Stores map it to their own
// column or field, so arbitrary client input never reaches a query.
type SortField string

const (
	SortTimestamp SortField = "timestamp"
	SortLevel     SortField = "level"
	SortPlayer    SortField = "player"
	SortSource    SortField = "source"
	SortMessage   SortField = "message"
	SortCreatedAt SortField = "createdAt"
	SortID        SortField = "id"
)

func ParseSortField(raw string) SortField {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "level":
		return SortLevel
	case "player":
		return SortPlayer
	case "source":
		return SortSource
	case "message":
		return SortMessage
	case "createdat", "created_at":
		return SortCreatedAt
	case "id":
		return SortID
	default:
		// "time" was the field name used by older dashboards.
		return SortTimestamp
	}
}

// Page selects one slice of a sorted result. Number is 1-based.
type Page struct {
	Number int
	Limit  int
	Sort   SortField
	Desc   bool
}

// Offset is (Number-1)*Limit, saturating at math.MaxInt so a huge page
// number selects past the end instead of wrapping around.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total/limit), and 0 when total is 0.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
