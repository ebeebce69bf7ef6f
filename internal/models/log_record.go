package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
	LevelDebug   Level = "DEBUG"
)

var Levels = []Level{LevelInfo, LevelWarning, LevelError, LevelDebug}

// ParseLevel upper-cases raw and reports whether it names a known level.
func ParseLevel(raw string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(raw)))
	switch l {
	case LevelInfo, LevelWarning, LevelError, LevelDebug:
		return l, true
	}
	return "", false
}

const (
	DefaultPlayer = "Server"
	DefaultSource = "Unknown"
)

// LogRecord is one console log line shipped by a game client or server.
// Records are never updated after insert. Free-form strings are unbounded
// text so no accepted record can be rejected by the database.
type LogRecord struct {
	ID        string            `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Level     Level             `gorm:"type:varchar(10);not null;index" json:"level"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Player    string            `gorm:"type:text;not null;index" json:"player"`
	UserID    string            `gorm:"column:user_id;type:text" json:"userId"`
	Source    string            `gorm:"type:text;not null;index" json:"source"`
	Timestamp time.Time         `gorm:"type:timestamptz;not null;index" json:"timestamp"`
	Context   datatypes.JSONMap `gorm:"type:jsonb" json:"context"`
	CreatedAt time.Time         `gorm:"type:timestamptz;not null" json:"createdAt"`
}

func (LogRecord) TableName() string {
	return "logs"
}

type LevelCounts struct {
	Info    int64 `json:"info"`
	Warning int64 `json:"warning"`
	Error   int64 `json:"error"`
	Debug   int64 `json:"debug"`
}

func (c *LevelCounts) Add(l Level) {
	switch l {
	case LevelInfo:
		c.Info++
	case LevelWarning:
		c.Warning++
	case LevelError:
		c.Error++
	case LevelDebug:
		c.Debug++
	}
}

// PlayerStat summarizes the records of one player for the dashboard sidebar.
type PlayerStat struct {
	Player       string      `json:"player"`
	LogCount     int64       `json:"logCount"`
	LastActivity time.Time   `json:"lastActivity"`
	LogTypes     LevelCounts `json:"logTypes"`
	PreviewLog   *LogRecord  `json:"previewLog"`
}
