package repository

import (
	"context"

	"gamelog/internal/logquery"
	"gamelog/internal/models"
)

// LogRepository is implemented by every storage driver. Filters and pages
// arrive already normalized by logquery.
type LogRepository interface {
	InsertLog(ctx context.Context, item *models.LogRecord) error
	GetLog(ctx context.Context, id string) (*models.LogRecord, error)
	ListLogs(ctx context.Context, filter logquery.Filter, page logquery.Page) ([]models.LogRecord, error)
	CountLogs(ctx context.Context, filter logquery.Filter) (int64, error)
	DistinctPlayers(ctx context.Context) ([]string, error)
	PlayerStats(ctx context.Context) ([]models.PlayerStat, error)

	// DeleteLogs removes records matching filter. An empty filter matches
	// everything, so callers gate full deletes themselves.
	DeleteLogs(ctx context.Context, filter logquery.Filter) (int64, error)
	DeleteLog(ctx context.Context, id string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}
