package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"gamelog/internal/apperr"
	"gamelog/internal/cache"
	"gamelog/internal/logquery"
	"gamelog/internal/models"
	memoryrepository "gamelog/internal/repository/memory"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService() *LogService {
	return &LogService{
		Repo:        memoryrepository.New(),
		PlayerCache: cache.NewSlot(cache.NewMemoryStore(), PlayersCacheKey, time.Minute),
		Now:         func() time.Time { return t0 },
	}
}

func ingest(t *testing.T, s *LogService, in IngestInput) *models.LogRecord {
	t.Helper()
	r, err := s.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("ingest %+v: %v", in, err)
	}
	return r
}

func rawTime(t time.Time) json.RawMessage {
	b, _ := json.Marshal(t.Format(time.RFC3339))
	return b
}

func TestIngestDefaults(t *testing.T) {
	s := newService()
	r := ingest(t, s, IngestInput{Level: "ERROR", Message: "x"})
	if r.ID == "" {
		t.Fatalf("id not assigned")
	}
	if r.Source != models.DefaultSource || r.Player != models.DefaultPlayer {
		t.Fatalf("defaults not applied: source=%q player=%q", r.Source, r.Player)
	}
	if r.UserID != "" || r.Context == nil || len(r.Context) != 0 {
		t.Fatalf("userId=%q context=%v", r.UserID, r.Context)
	}
	if !r.Timestamp.Equal(t0) {
		t.Fatalf("timestamp=%v want %v", r.Timestamp, t0)
	}
}

func TestIngestValidation(t *testing.T) {
	s := newService()
	cases := []struct {
		name string
		in   IngestInput
	}{
		{name: "missing level", in: IngestInput{Message: "x"}},
		{name: "missing message", in: IngestInput{Level: "INFO"}},
		{name: "blank message", in: IngestInput{Level: "INFO", Message: "   "}},
		{name: "unknown level", in: IngestInput{Level: "TRACE", Message: "x"}},
		{name: "bad timestamp", in: IngestInput{Level: "INFO", Message: "x", Timestamp: json.RawMessage(`"yesterday-ish"`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Ingest(context.Background(), tc.in)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("err=%v want validation", err)
			}
			if apperr.Status(err) != 400 {
				t.Fatalf("status=%d want 400", apperr.Status(err))
			}
		})
	}
}

func TestIngestTimestampShapes(t *testing.T) {
	s := newService()
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "rfc3339", raw: `"2024-04-30T10:00:00Z"`, want: time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)},
		{name: "unix seconds", raw: `1714471200`, want: time.Unix(1714471200, 0).UTC()},
		{name: "unix millis", raw: `1714471200000`, want: time.Unix(1714471200, 0).UTC()},
		{name: "null", raw: `null`, want: t0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ingest(t, s, IngestInput{Level: "info", Message: "m", Timestamp: json.RawMessage(tc.raw)})
			if !r.Timestamp.Equal(tc.want) {
				t.Fatalf("timestamp=%v want %v", r.Timestamp, tc.want)
			}
			if r.Level != models.LevelInfo {
				t.Fatalf("level=%q want INFO", r.Level)
			}
		})
	}
}

// Two records, A (INFO, P1, t1) and B (ERROR, P2, t2 > t1).
func seedAB(t *testing.T, s *LogService) (a, b *models.LogRecord) {
	t.Helper()
	a = ingest(t, s, IngestInput{Level: "INFO", Message: "A", Player: "P1", Timestamp: rawTime(t0.Add(-2 * time.Hour))})
	b = ingest(t, s, IngestInput{Level: "ERROR", Message: "B", Player: "P2", Timestamp: rawTime(t0.Add(-1 * time.Hour))})
	return a, b
}

func TestQueryScenario(t *testing.T) {
	s := newService()
	ctx := context.Background()
	a, b := seedAB(t, s)

	res, err := s.Query(ctx, logquery.Filter{Level: models.LevelError}, logquery.Page{Number: 1, Limit: 20, Desc: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || len(res.Records) != 1 || res.Records[0].ID != b.ID {
		t.Fatalf("level=ERROR got total=%d records=%v", res.Total, res.Records)
	}
	if len(res.Players) != 2 || res.Players[0] != "P1" || res.Players[1] != "P2" {
		t.Fatalf("players=%v want all players regardless of filter", res.Players)
	}

	asc := logquery.Page{Number: 1, Limit: 1, Sort: logquery.SortTimestamp}
	res, _ = s.Query(ctx, logquery.Filter{}, asc)
	if len(res.Records) != 1 || res.Records[0].ID != a.ID {
		t.Fatalf("page 1 = %v want [A]", res.Records)
	}
	if res.Total != 2 || res.TotalPages != 2 {
		t.Fatalf("total=%d pages=%d want 2/2", res.Total, res.TotalPages)
	}
	asc.Number = 2
	res, _ = s.Query(ctx, logquery.Filter{}, asc)
	if len(res.Records) != 1 || res.Records[0].ID != b.ID {
		t.Fatalf("page 2 = %v want [B]", res.Records)
	}
}

func TestQueryEmptyStore(t *testing.T) {
	s := newService()
	res, err := s.Query(context.Background(), logquery.Filter{}, logquery.Page{Number: 1, Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 || res.TotalPages != 0 || res.Records == nil || len(res.Records) != 0 {
		t.Fatalf("empty result=%+v", res)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := newService()
	ingest(t, s, IngestInput{Level: "INFO", Message: "Hello World"})
	ingest(t, s, IngestInput{Level: "INFO", Message: "goodbye"})
	res, _ := s.Query(context.Background(), logquery.Filter{Search: "hello"}, logquery.Page{Number: 1, Limit: 20})
	if res.Total != 1 || res.Records[0].Message != "Hello World" {
		t.Fatalf("search result=%+v", res.Records)
	}
}

func TestDeleteScenario(t *testing.T) {
	s := newService()
	ctx := context.Background()
	_, b := seedAB(t, s)

	n, err := s.Delete(ctx, logquery.Filter{}, false)
	if err != nil || n != 0 {
		t.Fatalf("empty filter without all deleted %d (err=%v), want 0", n, err)
	}

	n, err = s.Delete(ctx, logquery.Filter{Player: "P1"}, false)
	if err != nil || n != 1 {
		t.Fatalf("deleted=%d err=%v want 1", n, err)
	}
	res, _ := s.Query(ctx, logquery.Filter{}, logquery.Page{Number: 1, Limit: 20})
	if res.Total != 1 || res.Records[0].ID != b.ID {
		t.Fatalf("after delete total=%d records=%v", res.Total, res.Records)
	}
	if len(res.Players) != 1 || res.Players[0] != "P2" {
		t.Fatalf("players cache not invalidated: %v", res.Players)
	}
}

func TestDeleteAllIgnoresFilter(t *testing.T) {
	s := newService()
	ctx := context.Background()
	seedAB(t, s)
	n, err := s.Delete(ctx, logquery.Filter{Player: "nobody"}, true)
	if err != nil || n != 2 {
		t.Fatalf("deleted=%d err=%v want 2", n, err)
	}
	res, _ := s.Query(ctx, logquery.Filter{}, logquery.Page{Number: 1, Limit: 20})
	if res.Total != 0 {
		t.Fatalf("total=%d want 0", res.Total)
	}
}

func TestGetAndDeleteByID(t *testing.T) {
	s := newService()
	ctx := context.Background()
	a, _ := seedAB(t, s)

	got, err := s.Get(ctx, a.ID)
	if err != nil || got.Message != "A" {
		t.Fatalf("get=%+v err=%v", got, err)
	}
	if _, err := s.Get(ctx, "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing get err=%v want not found", err)
	}
	if err := s.DeleteByID(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteByID(ctx, a.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("second delete err=%v want not found", err)
	}
}

func TestPlayerStats(t *testing.T) {
	s := newService()
	seedAB(t, s)
	ingest(t, s, IngestInput{Level: "WARNING", Message: "C", Player: "P1", Timestamp: rawTime(t0.Add(-30 * time.Minute))})

	stats, err := s.PlayerStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 || stats[0].Player != "P1" {
		t.Fatalf("stats=%+v want P1 first", stats)
	}
	if stats[0].LogCount != 2 || stats[0].LogTypes.Warning != 1 || stats[0].PreviewLog.Message != "C" {
		t.Fatalf("P1 stats=%+v", stats[0])
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}
func (failingCache) Delete(context.Context, string) error { return errors.New("redis down") }

func TestPlayersSurvivesCacheFailure(t *testing.T) {
	s := newService()
	s.PlayerCache = cache.NewSlot(failingCache{}, PlayersCacheKey, time.Minute)
	seedAB(t, s)
	players, err := s.Players(context.Background())
	if err != nil || len(players) != 2 {
		t.Fatalf("players=%v err=%v", players, err)
	}
}

func TestNilRepoIsConfigError(t *testing.T) {
	s := &LogService{}
	_, err := s.Query(context.Background(), logquery.Filter{}, logquery.Page{})
	if apperr.KindOf(err) != apperr.KindConfig {
		t.Fatalf("err=%v want config", err)
	}
}

func TestQueryHugePageIsEmpty(t *testing.T) {
	s := newService()
	seedAB(t, s)
	for _, limit := range []string{"3", "4"} {
		params := logquery.ParseParams(url.Values{"page": {"4611686018427387905"}, "limit": {limit}}, logquery.DefaultOptions())
		res, err := s.Query(context.Background(), params.Filter(t0), params.PageRequest())
		if err != nil {
			t.Fatalf("limit=%s: %v", limit, err)
		}
		if len(res.Records) != 0 || res.Total != 2 {
			t.Fatalf("limit=%s records=%v total=%d want empty page of 2", limit, res.Records, res.Total)
		}
	}
}

// stallingRepo holds the first DistinctPlayers call after it has read the
// store, so a write can land before the result is returned.
type stallingRepo struct {
	*memoryrepository.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *stallingRepo) DistinctPlayers(ctx context.Context) ([]string, error) {
	players, err := r.Store.DistinctPlayers(ctx)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return players, err
}

func TestPlayersCacheNotFilledAcrossWrite(t *testing.T) {
	repo := &stallingRepo{
		Store:   memoryrepository.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newService()
	s.Repo = repo
	ingest(t, s, IngestInput{Level: "INFO", Message: "a", Player: "P1"})

	done := make(chan error, 1)
	go func() {
		_, err := s.Query(context.Background(), logquery.Filter{}, logquery.Page{Number: 1, Limit: 10})
		done <- err
	}()
	<-repo.entered
	ingest(t, s, IngestInput{Level: "INFO", Message: "b", Player: "P3"})
	close(repo.release)
	if err := <-done; err != nil {
		t.Fatalf("query: %v", err)
	}

	res, err := s.Query(context.Background(), logquery.Filter{}, logquery.Page{Number: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Players) != 2 || res.Players[0] != "P1" || res.Players[1] != "P3" {
		t.Fatalf("players=%v want [P1 P3]", res.Players)
	}
}
