package db

import (
	"gamelog/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}
	if err := db.Gorm.AutoMigrate(&models.LogRecord{}); err != nil {
		return err
	}
	// Composite index for the player dashboard's "latest per player" lookup.
	return db.Gorm.Exec(`CREATE INDEX IF NOT EXISTS idx_logs_player_timestamp ON logs (player, timestamp DESC)`).Error
}
