package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"gamelog/internal/apperr"
	"gamelog/internal/cache"
	"gamelog/internal/logquery"
	"gamelog/internal/models"
	"gamelog/internal/repository"
)

// PlayersCacheKey is appended to the configured cache key prefix.
const PlayersCacheKey = "players"

type LogService struct {
	Repo   repository.LogRepository
	Logger *zap.Logger

	// PlayerCache holds the distinct player list. Writes through this
	// service invalidate it; nil disables caching.
	PlayerCache *cache.Slot
	Now         func() time.Time
}

// IngestInput is the body accepted by POST /logs. Timestamp may be an RFC
// 3339 string or a Unix epoch number.
type IngestInput struct {
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Player    string          `json:"player"`
	UserID    string          `json:"userId"`
	Source    string          `json:"source"`
	Timestamp json.RawMessage `json:"timestamp" swaggertype:"string"`
	Context   map[string]any  `json:"context"`
}

type QueryResult struct {
	Records    []models.LogRecord
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
	Players    []string
}

func (s *LogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *LogService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *LogService) Ingest(ctx context.Context, in IngestInput) (*models.LogRecord, error) {
	if s == nil || s.Repo == nil {
		return nil, apperr.Config("log store not configured")
	}
	message := strings.TrimSpace(in.Message)
	if strings.TrimSpace(in.Level) == "" || message == "" {
		return nil, apperr.Validation("level and message are required")
	}
	level, ok := models.ParseLevel(in.Level)
	if !ok {
		return nil, apperr.Validation("invalid level %q: expected INFO, WARNING, ERROR or DEBUG", in.Level)
	}
	ts, err := parseTimestamp(in.Timestamp)
	if err != nil {
		return nil, err
	}
	if ts.IsZero() {
		ts = s.now()
	}

	record := &models.LogRecord{
		Level:     level,
		Message:   in.Message,
		Player:    defaultString(in.Player, models.DefaultPlayer),
		UserID:    strings.TrimSpace(in.UserID),
		Source:    defaultString(in.Source, models.DefaultSource),
		Timestamp: ts.UTC(),
		Context:   in.Context,
	}
	if record.Context == nil {
		record.Context = map[string]any{}
	}
	if err := s.Repo.InsertLog(ctx, record); err != nil {
		return nil, apperr.Store("insert log", err)
	}
	s.invalidatePlayers(ctx)
	return record, nil
}

// Query counts matches, collects the player list across all records and
// fetches one page.
func (s *LogService) Query(ctx context.Context, filter logquery.Filter, page logquery.Page) (QueryResult, error) {
	if s == nil || s.Repo == nil {
		return QueryResult{}, apperr.Config("log store not configured")
	}
	total, err := s.Repo.CountLogs(ctx, filter)
	if err != nil {
		return QueryResult{}, apperr.Store("count logs", err)
	}
	players, err := s.Players(ctx)
	if err != nil {
		return QueryResult{}, err
	}
	records, err := s.Repo.ListLogs(ctx, filter, page)
	if err != nil {
		return QueryResult{}, apperr.Store("list logs", err)
	}
	if records == nil {
		records = []models.LogRecord{}
	}
	return QueryResult{
		Records:    records,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: logquery.TotalPages(total, page.Limit),
		Players:    players,
	}, nil
}

// Delete removes matching records. Without all, an empty filter deletes
// nothing; with all, the filter is ignored and every record goes.
func (s *LogService) Delete(ctx context.Context, filter logquery.Filter, all bool) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, apperr.Config("log store not configured")
	}
	if all {
		filter = logquery.Filter{}
	} else if filter.IsEmpty() {
		return 0, nil
	}
	n, err := s.Repo.DeleteLogs(ctx, filter)
	if n > 0 {
		s.invalidatePlayers(ctx)
	}
	if err != nil {
		return n, apperr.Store("delete logs", err)
	}
	s.logger().Info("logs deleted", zap.Int64("count", n), zap.Bool("all", all))
	return n, nil
}

func (s *LogService) Get(ctx context.Context, id string) (*models.LogRecord, error) {
	if s == nil || s.Repo == nil {
		return nil, apperr.Config("log store not configured")
	}
	record, err := s.Repo.GetLog(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.Store("get log", err)
	}
	if record == nil {
		return nil, apperr.NotFound("log not found")
	}
	return record, nil
}

func (s *LogService) DeleteByID(ctx context.Context, id string) error {
	if s == nil || s.Repo == nil {
		return apperr.Config("log store not configured")
	}
	ok, err := s.Repo.DeleteLog(ctx, strings.TrimSpace(id))
	if err != nil {
		return apperr.Store("delete log", err)
	}
	if !ok {
		return apperr.NotFound("log not found")
	}
	s.invalidatePlayers(ctx)
	return nil
}

func (s *LogService) PlayerStats(ctx context.Context) ([]models.PlayerStat, error) {
	if s == nil || s.Repo == nil {
		return nil, apperr.Config("log store not configured")
	}
	stats, err := s.Repo.PlayerStats(ctx)
	if err != nil {
		return nil, apperr.Store("player stats", err)
	}
	if stats == nil {
		stats = []models.PlayerStat{}
	}
	return stats, nil
}

// Players returns the sorted distinct player names, served from cache when
// possible. Cache failures fall back to the store.
func (s *LogService) Players(ctx context.Context) ([]string, error) {
	gen := s.PlayerCache.Begin()
	raw, found, err := s.PlayerCache.Get(ctx)
	if err != nil {
		s.logger().Warn("players cache get failed", zap.Error(err))
	} else if found {
		var players []string
		if err := json.Unmarshal(raw, &players); err == nil {
			return players, nil
		}
	}

	players, err := s.Repo.DistinctPlayers(ctx)
	if err != nil {
		return nil, apperr.Store("distinct players", err)
	}
	if players == nil {
		players = []string{}
	}
	if raw, err := json.Marshal(players); err == nil {
		if _, err := s.PlayerCache.Fill(ctx, gen, raw); err != nil {
			s.logger().Warn("players cache set failed", zap.Error(err))
		}
	}
	return players, nil
}

func (s *LogService) invalidatePlayers(ctx context.Context) {
	if err := s.PlayerCache.Invalidate(ctx); err != nil {
		s.logger().Warn("players cache invalidate failed", zap.Error(err))
	}
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return time.Time{}, nil
	}
	if strings.HasPrefix(text, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return time.Time{}, apperr.Validation("invalid timestamp")
		}
		text = strings.TrimSpace(str)
		if text == "" {
			return time.Time{}, nil
		}
	}
	t, ok := logquery.ParseInstant(text, time.UTC, false)
	if !ok {
		return time.Time{}, apperr.Validation("invalid timestamp %q", text)
	}
	return t, nil
}

func defaultString(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
