package gormrepository

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gamelog/internal/logquery"
	"gamelog/internal/models"
)

// offlineDB renders statements with the postgres dialect without connecting.
func offlineDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=gamelog dbname=gamelog sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return gdb
}

func assertSQL(t *testing.T, sql string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(sql, w) {
			t.Fatalf("sql %q\nmissing %q", sql, w)
		}
	}
}

func TestListQuerySQL(t *testing.T) {
	gdb := offlineDB(t)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	filter := logquery.Filter{Player: "P1", Level: models.LevelError, Start: &start, Search: "100%"}
	page := logquery.Page{Number: 2, Limit: 20, Sort: logquery.SortTimestamp, Desc: true}

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []models.LogRecord
		return listQuery(tx, filter, page).Find(&items)
	})
	assertSQL(t, sql,
		`FROM "logs"`,
		`player = 'P1'`,
		`level = 'ERROR'`,
		`timestamp >= '2024-05-01 00:00:00`,
		`message ILIKE '%100\%%'`,
		`ORDER BY "timestamp" DESC,"id" DESC`,
		`LIMIT 20`,
		`OFFSET 20`,
	)
}

func TestListQueryOrderWhitelist(t *testing.T) {
	gdb := offlineDB(t)
	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []models.LogRecord
		return listQuery(tx, logquery.Filter{}, logquery.Page{Number: 1, Limit: 5, Sort: "player; DROP TABLE logs"}).Find(&items)
	})
	assertSQL(t, sql, `ORDER BY "timestamp","id"`)
	if strings.Contains(sql, "DROP") || strings.Contains(sql, "OFFSET") {
		t.Fatalf("unexpected sql %q", sql)
	}

	sql = gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []models.LogRecord
		return listQuery(tx, logquery.Filter{}, logquery.Page{Number: 1, Limit: 5, Sort: logquery.SortID, Desc: true}).Find(&items)
	})
	assertSQL(t, sql, `ORDER BY "id" DESC LIMIT 5`)
}

func TestDeleteMatchingSQL(t *testing.T) {
	gdb := offlineDB(t)

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return deleteMatching(tx, logquery.Filter{Player: "P1"})
	})
	assertSQL(t, sql, `DELETE FROM "logs" WHERE player = 'P1'`)

	sql = gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return deleteMatching(tx, logquery.Filter{})
	})
	assertSQL(t, sql, `DELETE FROM "logs"`)
	if strings.Contains(sql, "WHERE") {
		t.Fatalf("delete all should have no WHERE, got %q", sql)
	}
}

func TestPlayerQueriesSQL(t *testing.T) {
	gdb := offlineDB(t)

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var players []string
		return distinctPlayers(tx, &players)
	})
	assertSQL(t, sql, `SELECT DISTINCT "player" FROM "logs"`, `ORDER BY player ASC`)

	sql = gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []playerRow
		return playerCounts(tx, &rows)
	})
	assertSQL(t, sql,
		`COUNT(*) AS log_count`,
		`SUM(CASE WHEN level = 'WARNING' THEN 1 ELSE 0 END) AS warning_count`,
		`FROM "logs"`,
		`GROUP BY "player"`,
	)

	sql = gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var previews []models.LogRecord
		return latestPerPlayer(tx, &previews)
	})
	assertSQL(t, sql, `DISTINCT ON (player)`, `ORDER BY player, timestamp DESC, id DESC`)
}

func TestCountQuerySQL(t *testing.T) {
	gdb := offlineDB(t)
	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var n int64
		return filtered(tx, logquery.Filter{Source: "Client"}).Count(&n)
	})
	assertSQL(t, sql, `SELECT count(*) FROM "logs" WHERE source = 'Client'`)
}
