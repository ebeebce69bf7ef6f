package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gamelog/internal/logquery"
	"gamelog/internal/models"
	"gamelog/internal/repository"
)

// Provider hands out a ready *gorm.DB. db.Lazy implements it so the
// connection is opened on first use.
type Provider interface {
	Gorm(ctx context.Context) (*gorm.DB, error)
}

type staticProvider struct{ db *gorm.DB }

func (p staticProvider) Gorm(context.Context) (*gorm.DB, error) {
	if p.db == nil {
		return nil, errors.New("db not initialized")
	}
	return p.db, nil
}

type Store struct {
	provider Provider
	now      func() time.Time
}

var _ repository.LogRepository = (*Store)(nil)

func New(provider Provider) *Store {
	return &Store{provider: provider, now: time.Now}
}

func NewWithDB(db *gorm.DB) *Store {
	return New(staticProvider{db: db})
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.provider == nil {
		return nil, errors.New("store not initialized")
	}
	gdb, err := s.provider.Gorm(ctx)
	if err != nil {
		return nil, err
	}
	return gdb.WithContext(ctx), nil
}

func (s *Store) InsertLog(ctx context.Context, item *models.LogRecord) error {
	if item == nil {
		return nil
	}
	gdb, err := s.conn(ctx)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if item.ID == "" {
		item.ID = repository.NewID(now)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	return gdb.Create(item).Error
}

func (s *Store) GetLog(ctx context.Context, id string) (*models.LogRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	gdb, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var item models.LogRecord
	err = gdb.Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListLogs(ctx context.Context, filter logquery.Filter, page logquery.Page) ([]models.LogRecord, error) {
	gdb, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var items []models.LogRecord
	if err := listQuery(gdb, filter, page).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountLogs(ctx context.Context, filter logquery.Filter) (int64, error) {
	gdb, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := filtered(gdb, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DistinctPlayers(ctx context.Context) ([]string, error) {
	gdb, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	players := make([]string, 0)
	if err := distinctPlayers(gdb, &players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

type playerRow struct {
	Player       string
	LogCount     int64
	LastActivity time.Time
	InfoCount    int64
	WarningCount int64
	ErrorCount   int64
	DebugCount   int64
}

func (s *Store) PlayerStats(ctx context.Context) ([]models.PlayerStat, error) {
	gdb, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []playerRow
	if err := playerCounts(gdb, &rows).Error; err != nil {
		return nil, err
	}
	var previews []models.LogRecord
	if err := latestPerPlayer(gdb, &previews).Error; err != nil {
		return nil, err
	}
	byPlayer := make(map[string]*models.LogRecord, len(previews))
	for i := range previews {
		byPlayer[previews[i].Player] = &previews[i]
	}

	out := make([]models.PlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.PlayerStat{
			Player:       row.Player,
			LogCount:     row.LogCount,
			LastActivity: row.LastActivity.UTC(),
			LogTypes: models.LevelCounts{
				Info:    row.InfoCount,
				Warning: row.WarningCount,
				Error:   row.ErrorCount,
				Debug:   row.DebugCount,
			},
			PreviewLog: byPlayer[row.Player],
		})
	}
	repository.SortPlayerStats(out)
	return out, nil
}

func (s *Store) DeleteLogs(ctx context.Context, filter logquery.Filter) (int64, error) {
	gdb, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	res := deleteMatching(gdb, filter)
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteLog(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	gdb, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	res := gdb.Where("id = ?", id).Delete(&models.LogRecord{})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) Ping(ctx context.Context) error {
	gdb, err := s.conn(ctx)
	if err != nil {
		return err
	}
	sqldb, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqldb.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.provider == nil {
		return nil
	}
	if c, ok := s.provider.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// The builders below take a connection and return the statement so the
// generated SQL can be checked without a server.

func filtered(tx *gorm.DB, f logquery.Filter) *gorm.DB {
	return applyFilter(tx.Model(&models.LogRecord{}), f)
}

func listQuery(tx *gorm.DB, f logquery.Filter, page logquery.Page) *gorm.DB {
	query := applyOrder(filtered(tx, f), page.Sort, page.Desc)
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if off := page.Offset(); off > 0 {
		query = query.Offset(off)
	}
	return query
}

func distinctPlayers(tx *gorm.DB, dest *[]string) *gorm.DB {
	return tx.Model(&models.LogRecord{}).Distinct().Order("player ASC").Pluck("player", dest)
}

func playerCounts(tx *gorm.DB, dest *[]playerRow) *gorm.DB {
	return tx.Model(&models.LogRecord{}).
		Select(`player,
			COUNT(*) AS log_count,
			MAX(timestamp) AS last_activity,
			SUM(CASE WHEN level = ? THEN 1 ELSE 0 END) AS info_count,
			SUM(CASE WHEN level = ? THEN 1 ELSE 0 END) AS warning_count,
			SUM(CASE WHEN level = ? THEN 1 ELSE 0 END) AS error_count,
			SUM(CASE WHEN level = ? THEN 1 ELSE 0 END) AS debug_count`,
			models.LevelInfo, models.LevelWarning, models.LevelError, models.LevelDebug).
		Group("player").
		Scan(dest)
}

func latestPerPlayer(tx *gorm.DB, dest *[]models.LogRecord) *gorm.DB {
	return tx.Raw(`SELECT DISTINCT ON (player) * FROM logs ORDER BY player, timestamp DESC, id DESC`).Scan(dest)
}

// deleteMatching removes every row when f is empty; callers decide whether
// that is allowed.
func deleteMatching(tx *gorm.DB, f logquery.Filter) *gorm.DB {
	if f.IsEmpty() {
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.LogRecord{})
	}
	return applyFilter(tx, f).Delete(&models.LogRecord{})
}

func applyFilter(query *gorm.DB, f logquery.Filter) *gorm.DB {
	if f.Player != "" {
		query = query.Where("player = ?", f.Player)
	}
	if f.Level != "" {
		query = query.Where("level = ?", string(f.Level))
	}
	if f.Source != "" {
		query = query.Where("source = ?", f.Source)
	}
	if f.Start != nil {
		query = query.Where("timestamp >= ?", *f.Start)
	}
	if f.End != nil {
		query = query.Where("timestamp <= ?", *f.End)
	}
	if f.Before != nil {
		query = query.Where("timestamp < ?", *f.Before)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		query = query.Where("(message ILIKE ? OR source ILIKE ? OR player ILIKE ?)", pattern, pattern, pattern)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally under LIKE's default escape.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var sortColumns = map[logquery.SortField]string{
	logquery.SortTimestamp: "timestamp",
	logquery.SortLevel:     "level",
	logquery.SortPlayer:    "player",
	logquery.SortSource:    "source",
	logquery.SortMessage:   "message",
	logquery.SortCreatedAt: "created_at",
	logquery.SortID:        "id",
}

func sortColumn(field logquery.SortField) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return "timestamp"
}

func applyOrder(query *gorm.DB, field logquery.SortField, desc bool) *gorm.DB {
	col := sortColumn(field)
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
	if col != "id" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	return query
}
