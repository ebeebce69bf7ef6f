package logquery

import (
	"strings"
	"time"
)

// Timeframe is a named range relative to the moment a query is evaluated.
type Timeframe string

const (
	TimeframeAll       Timeframe = "all"
	TimeframeToday     Timeframe = "today"
	TimeframeYesterday Timeframe = "yesterday"
	TimeframeWeek      Timeframe = "week"
	TimeframeMonth     Timeframe = "month"
)

// ParseTimeframe maps unknown or empty input to TimeframeAll.
func ParseTimeframe(raw string) Timeframe {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(raw))); tf {
	case TimeframeToday, TimeframeYesterday, TimeframeWeek, TimeframeMonth:
		return tf
	}
	return TimeframeAll
}

// Bounds resolves the timeframe against now, in now's location. ok is false
// for TimeframeAll.
func (tf Timeframe) Bounds(now time.Time) (start, end time.Time, ok bool) {
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch tf {
	case TimeframeToday:
		return startOfToday, now, true
	case TimeframeYesterday:
		return startOfToday.AddDate(0, 0, -1), startOfToday.Add(-time.Nanosecond), true
	case TimeframeWeek:
		return now.Add(-7 * 24 * time.Hour), now, true
	case TimeframeMonth:
		return now.Add(-30 * 24 * time.Hour), now, true
	}
	return time.Time{}, time.Time{}, false
}
