package repository

import (
	"testing"
	"time"

	"gamelog/internal/logquery"
	"gamelog/internal/models"
)

func sampleRecords() []models.LogRecord {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []models.LogRecord{
		{ID: NewID(base), Level: models.LevelInfo, Player: "P1", Source: "Client", Message: "joined", Timestamp: base},
		{ID: NewID(base), Level: models.LevelError, Player: "P2", Source: "Server", Message: "crash", Timestamp: base.Add(2 * time.Minute)},
		{ID: NewID(base), Level: models.LevelWarning, Player: "P1", Source: "Client", Message: "lag", Timestamp: base.Add(1 * time.Minute)},
		{ID: NewID(base), Level: models.LevelDebug, Player: "Server", Source: "Unknown", Message: "tick", Timestamp: base.Add(1 * time.Minute)},
	}
}

func TestSelectPageSortsAndSlices(t *testing.T) {
	records := sampleRecords()
	page := logquery.Page{Number: 1, Limit: 2, Sort: logquery.SortTimestamp, Desc: false}
	got, total := SelectPage(records, logquery.Filter{}, page)
	if total != 4 {
		t.Fatalf("total=%d want 4", total)
	}
	if len(got) != 2 || got[0].Message != "joined" || got[1].Message != "lag" {
		t.Fatalf("page1=%v", messages(got))
	}
	page.Number = 2
	got, _ = SelectPage(records, logquery.Filter{}, page)
	// "lag" and "tick" share a timestamp; id breaks the tie in insertion order.
	if len(got) != 2 || got[0].Message != "tick" || got[1].Message != "crash" {
		t.Fatalf("page2=%v", messages(got))
	}
	page.Number = 3
	got, total = SelectPage(records, logquery.Filter{}, page)
	if len(got) != 0 || total != 4 {
		t.Fatalf("page3 len=%d total=%d", len(got), total)
	}
}

func TestSelectPageDescTieBreak(t *testing.T) {
	records := sampleRecords()
	got, _ := SelectPage(records, logquery.Filter{}, logquery.Page{Number: 1, Limit: 10, Sort: logquery.SortTimestamp, Desc: true})
	want := []string{"crash", "tick", "lag", "joined"}
	for i := range want {
		if got[i].Message != want[i] {
			t.Fatalf("order=%v want %v", messages(got), want)
		}
	}
}

func TestSelectPageFiltered(t *testing.T) {
	got, total := SelectPage(sampleRecords(), logquery.Filter{Player: "P1"}, logquery.Page{Number: 1, Limit: 10})
	if total != 2 || len(got) != 2 {
		t.Fatalf("total=%d len=%d want 2", total, len(got))
	}
}

func TestDistinctPlayers(t *testing.T) {
	got := DistinctPlayers(sampleRecords())
	want := []string{"P1", "P2", "Server"}
	if len(got) != len(want) {
		t.Fatalf("players=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("players=%v want %v", got, want)
		}
	}
}

func TestAggregatePlayers(t *testing.T) {
	stats := AggregatePlayers(sampleRecords())
	if len(stats) != 3 {
		t.Fatalf("len=%d want 3", len(stats))
	}
	if stats[0].Player != "P2" {
		t.Fatalf("first=%s want P2 (latest activity)", stats[0].Player)
	}
	var p1 *models.PlayerStat
	for i := range stats {
		if stats[i].Player == "P1" {
			p1 = &stats[i]
		}
	}
	if p1 == nil {
		t.Fatalf("P1 missing")
	}
	if p1.LogCount != 2 || p1.LogTypes.Info != 1 || p1.LogTypes.Warning != 1 {
		t.Fatalf("p1=%+v", *p1)
	}
	if p1.PreviewLog == nil || p1.PreviewLog.Message != "lag" {
		t.Fatalf("preview=%+v want lag", p1.PreviewLog)
	}
}

func TestNewIDMonotonic(t *testing.T) {
	now := time.Now()
	prev := NewID(now)
	for i := 0; i < 100; i++ {
		next := NewID(now)
		if next <= prev {
			t.Fatalf("ids not increasing: %s <= %s", next, prev)
		}
		prev = next
	}
}

func messages(items []models.LogRecord) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Message)
	}
	return out
}
