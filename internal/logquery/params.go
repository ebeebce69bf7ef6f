// Package logquery turns dashboard query parameters into a typed request and
// the Filter/Page pair that the stores execute.
package logquery

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamelog/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 500
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
	// Location is used for date-only values and for resolving timeframes.
	Location *time.Location
}

func DefaultOptions() Options {
	return Options{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit, Location: time.Local}
}

func (o Options) normalized() Options {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = MaxLimit
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Params is the validated form of a /logs request. Every field already holds
// its fallback when the raw value was absent or malformed.
type Params struct {
	Player    string
	Level     models.Level
	Source    string
	StartDate *time.Time
	EndDate   *time.Time
	Before    *time.Time
	Search    string
	Timeframe Timeframe

	Page  int
	Limit int
	Sort  SortField
	Desc  bool

	All bool

	loc *time.Location
}

func ParseParams(values url.Values, opts Options) Params {
	opts = opts.normalized()
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }

	p := Params{
		Source:    get("source"),
		Search:    get("search"),
		Timeframe: ParseTimeframe(get("timeframe")),
		Page:      positiveInt(get("page"), 1),
		Limit:     positiveInt(get("limit"), opts.DefaultLimit),
		Sort:      ParseSortField(get("sort")),
		Desc:      !strings.EqualFold(get("order"), "asc"),
		All:       truthy(get("all")),
		loc:       opts.Location,
	}
	if p.Limit > opts.MaxLimit {
		p.Limit = opts.MaxLimit
	}
	if v := get("player"); v != "" && !strings.EqualFold(v, "all") {
		p.Player = v
	}
	// Unknown levels are dropped rather than rejected.
	if lvl, ok := models.ParseLevel(get("level")); ok {
		p.Level = lvl
	}
	if t, ok := ParseInstant(get("startDate"), opts.Location, false); ok {
		p.StartDate = &t
	}
	if t, ok := ParseInstant(get("endDate"), opts.Location, true); ok {
		p.EndDate = &t
	}
	if t, ok := ParseInstant(get("before"), opts.Location, false); ok {
		p.Before = &t
	}
	return p
}

// Filter builds the predicate. Explicit startDate/endDate override the
// timeframe; the timeframe is resolved against now.
func (p Params) Filter(now time.Time) Filter {
	f := Filter{
		Player: p.Player,
		Level:  p.Level,
		Source: p.Source,
		Start:  p.StartDate,
		End:    p.EndDate,
		Before: p.Before,
		Search: p.Search,
	}
	if f.Start == nil && f.End == nil {
		if p.loc != nil {
			now = now.In(p.loc)
		}
		if start, end, ok := p.Timeframe.Bounds(now); ok {
			f.Start = &start
			f.End = &end
		}
	}
	return f
}

func (p Params) PageRequest() Page {
	return Page{Number: p.Page, Limit: p.Limit, Sort: p.Sort, Desc: p.Desc}
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// minEpochDigits keeps short numbers such as "2024" on the calendar path.
// Nine integer digits reach back to 1973 in seconds.
const minEpochDigits = 9

// ParseInstant accepts RFC 3339, local date-times, plain dates, year-months,
// bare years and Unix epochs (seconds, or milliseconds for 13+ digit
// values). A date, month or year becomes the start of that period, or its
// last nanosecond when endOfDay is set.
func ParseInstant(raw string, loc *time.Location, endOfDay bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if looksLikeEpoch(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return epochToTime(n), true
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), true
		}
	}
	for _, p := range periodLayouts {
		if t, err := time.ParseInLocation(p.layout, raw, loc); err == nil {
			if endOfDay {
				t = t.AddDate(p.years, p.months, p.days).Add(-time.Nanosecond)
			}
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

var periodLayouts = []struct {
	layout              string
	years, months, days int
}{
	{"2006-01-02", 0, 0, 1},
	{"2006-01", 0, 1, 0},
	{"2006", 1, 0, 0},
}

// looksLikeEpoch reports whether raw is a plain decimal number with at
// least minEpochDigits digits before any fraction.
func looksLikeEpoch(raw string) bool {
	digits := strings.TrimLeft(raw, "+-")
	if len(raw)-len(digits) > 1 {
		return false
	}
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		frac := digits[i+1:]
		digits = digits[:i]
		if strings.Trim(frac, "0123456789") != "" {
			return false
		}
	}
	if len(digits) < minEpochDigits {
		return false
	}
	return strings.Trim(digits, "0123456789") == ""
}

func epochToTime(n float64) time.Time {
	if math.Abs(n) >= 1e12 {
		ms := int64(n)
		return time.UnixMilli(ms).UTC()
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func positiveInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
