package repository

import (
	"sort"
	"strings"

	"gamelog/internal/logquery"
	"gamelog/internal/models"
)

// Helpers for drivers that evaluate filters in Go (badger, memory).

// SelectPage filters, sorts and slices records. It returns the page and the
// number of matches before slicing.
func SelectPage(records []models.LogRecord, filter logquery.Filter, page logquery.Page) ([]models.LogRecord, int64) {
	matched := FilterRecords(records, filter)
	total := int64(len(matched))
	SortRecords(matched, page.Sort, page.Desc)

	offset := page.Offset()
	if offset >= len(matched) {
		return []models.LogRecord{}, total
	}
	end := len(matched)
	if page.Limit > 0 && offset+page.Limit < end {
		end = offset + page.Limit
	}
	return matched[offset:end], total
}

func FilterRecords(records []models.LogRecord, filter logquery.Filter) []models.LogRecord {
	out := make([]models.LogRecord, 0, len(records))
	for i := range records {
		if filter.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// SortRecords orders by field, then by id in the same direction.
func SortRecords(records []models.LogRecord, field logquery.SortField, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		c := compareField(&records[i], &records[j], field)
		if c == 0 {
			c = strings.Compare(records[i].ID, records[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareField(a, b *models.LogRecord, field logquery.SortField) int {
	switch field {
	case logquery.SortLevel:
		return strings.Compare(string(a.Level), string(b.Level))
	case logquery.SortPlayer:
		return strings.Compare(a.Player, b.Player)
	case logquery.SortSource:
		return strings.Compare(a.Source, b.Source)
	case logquery.SortMessage:
		return strings.Compare(a.Message, b.Message)
	case logquery.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case logquery.SortID:
		return strings.Compare(a.ID, b.ID)
	default:
		return a.Timestamp.Compare(b.Timestamp)
	}
}

func DistinctPlayers(records []models.LogRecord) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for i := range records {
		p := records[i].Player
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// AggregatePlayers groups records by player, newest activity first. The
// preview is the record with the latest timestamp.
func AggregatePlayers(records []models.LogRecord) []models.PlayerStat {
	byPlayer := map[string]*models.PlayerStat{}
	order := make([]string, 0)
	for i := range records {
		r := records[i]
		st, ok := byPlayer[r.Player]
		if !ok {
			st = &models.PlayerStat{Player: r.Player}
			byPlayer[r.Player] = st
			order = append(order, r.Player)
		}
		st.LogCount++
		st.LogTypes.Add(r.Level)
		if st.PreviewLog == nil || r.Timestamp.After(st.LastActivity) ||
			(r.Timestamp.Equal(st.LastActivity) && r.ID > st.PreviewLog.ID) {
			st.LastActivity = r.Timestamp
			st.PreviewLog = &r
		}
	}
	out := make([]models.PlayerStat, 0, len(order))
	for _, p := range order {
		out = append(out, *byPlayer[p])
	}
	SortPlayerStats(out)
	return out
}

func SortPlayerStats(stats []models.PlayerStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		if !stats[i].LastActivity.Equal(stats[j].LastActivity) {
			return stats[i].LastActivity.After(stats[j].LastActivity)
		}
		return stats[i].Player < stats[j].Player
	})
}
