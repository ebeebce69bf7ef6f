package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gamelog/internal/config"
)

var ErrNoDSN = errors.New("db dsn is empty")

type DB struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

func Open(cfg config.DBConfig) (*DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN), gcfg)
	if err != nil {
		return nil, err
	}

	sqldb, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &DB{Gorm: gdb, SQL: sqldb}, nil
}

func Close(db *DB) error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.Close()
}

func Ping(ctx context.Context, db *DB) error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.PingContext(ctx)
}

// SetTimezone only affects the session it runs on; put TimeZone in the DSN
// when every pooled connection must agree.
func SetTimezone(ctx context.Context, db *DB, tz string) error {
	if db == nil || db.SQL == nil || tz == "" {
		return nil
	}
	_, err := db.SQL.ExecContext(ctx, "SELECT set_config('TimeZone', $1, false)", tz)
	return err
}

// Opener connects and prepares a database. Lazy calls it on first use.
type Opener func(ctx context.Context) (*DB, error)

// PostgresOpener opens the pool, migrates the schema and checks the
// connection before handing it out.
func PostgresOpener(cfg config.DBConfig, log *zap.Logger) Opener {
	return func(ctx context.Context) (*DB, error) {
		start := time.Now()
		conn, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		if err := Ping(ctx, conn); err != nil {
			_ = Close(conn)
			return nil, err
		}
		if err := SetTimezone(ctx, conn, cfg.Timezone); err != nil {
			_ = Close(conn)
			return nil, err
		}
		if err := AutoMigrate(conn); err != nil {
			_ = Close(conn)
			return nil, err
		}
		if log != nil {
			log.Info("database connected", zap.Duration("took", time.Since(start)))
		}
		return conn, nil
	}
}

// Lazy defers opening the database until a request needs it. Concurrent
// first callers share one attempt; a failed attempt is retried by the next
// caller.
type Lazy struct {
	open  Opener
	group singleflight.Group

	mu sync.RWMutex
	db *DB
}

func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

func (l *Lazy) Get(ctx context.Context) (*DB, error) {
	if conn := l.current(); conn != nil {
		return conn, nil
	}
	v, err, _ := l.group.Do("open", func() (any, error) {
		if conn := l.current(); conn != nil {
			return conn, nil
		}
		// The attempt is shared, so one caller's cancellation must not
		// fail the others.
		conn, err := l.open(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.db = conn
		l.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DB), nil
}

func (l *Lazy) Gorm(ctx context.Context) (*gorm.DB, error) {
	conn, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	if conn.Gorm == nil {
		return nil, errors.New("db not initialized")
	}
	return conn.Gorm, nil
}

func (l *Lazy) Opened() bool {
	return l.current() != nil
}

func (l *Lazy) Close() error {
	l.mu.Lock()
	conn := l.db
	l.db = nil
	l.mu.Unlock()
	return Close(conn)
}

func (l *Lazy) current() *DB {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db
}
