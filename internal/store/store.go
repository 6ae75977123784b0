// Package store manages the komaribot database layer.
// It initializes GORM with SQLite and provides one-shot point
// queries/writes on the monitor table; no long-lived transactions.
package store

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"komaribot/internal/models"
)

var DB *gorm.DB

// ErrAlreadyConnected is returned when a user tries to connect a second
// Komari instance. The UNIQUE constraint on telegram_id makes the insert
// atomic, so two racing /connect attempts cannot both succeed.
var ErrAlreadyConnected = errors.New("a Telegram user may only connect one Komari instance")

// ErrNotFound is returned when a user has no stored profile.
var ErrNotFound = gorm.ErrRecordNotFound

// Init opens the database and runs AutoMigrate.
func Init(path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&models.Monitor{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	DB = db
	log.Printf("[db] opened sqlite/%s", path)
	return nil
}

// GetMonitor returns the profile for a Telegram user, or ErrNotFound.
func GetMonitor(telegramID int64) (*models.Monitor, error) {
	var m models.Monitor
	if err := DB.Where("telegram_id = ?", telegramID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMonitor inserts a new profile. A duplicate telegram_id maps to
// ErrAlreadyConnected.
func CreateMonitor(m *models.Monitor) error {
	if err := DB.Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyConnected
		}
		return err
	}
	return nil
}

// DeleteMonitor removes a user's profile. Deleting a non-existent
// profile is not an error.
func DeleteMonitor(telegramID int64) error {
	return DB.Unscoped().Where("telegram_id = ?", telegramID).Delete(&models.Monitor{}).Error
}

// UpdateSummary refreshes the cached instance fields. The notification
// token is cleared alongside: a refreshed connection always starts
// without an active token.
func UpdateSummary(telegramID int64, s models.MonitorSummary) error {
	res := DB.Model(&models.Monitor{}).Where("telegram_id = ?", telegramID).Updates(map[string]any{
		"total_server_count": s.TotalServerCount,
		"site_name":          s.SiteName,
		"site_description":   s.SiteDescription,
		"komari_version":     s.KomariVersion,
		"notification_token": nil,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateNotificationToken overwrites the stored token. The previous
// token is invalidated immediately; there is no grace period.
func UpdateNotificationToken(telegramID int64, token string) error {
	res := DB.Model(&models.Monitor{}).Where("telegram_id = ?", telegramID).
		Update("notification_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation detects a UNIQUE constraint failure from the sqlite
// driver. gorm.ErrDuplicatedKey is only populated with the translator
// enabled, so fall back to matching the driver error text.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
