// Package models defines GORM data models for komaribot.
package models

import "gorm.io/gorm"

// Monitor is a user's stored connection to a Komari instance.
// One row per Telegram user; the UNIQUE index on TelegramID is what
// enforces the one-profile-per-user rule.
//
// TotalServerCount, SiteName, SiteDescription and KomariVersion are
// cached from the instance on /connect and /update. They are advisory
// display data and go stale between refreshes.
type Monitor struct {
	gorm.Model

	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	HTTPURL    string `gorm:"not null" json:"http_url"`
	WSURL      string `gorm:"not null" json:"ws_url"`

	TotalServerCount int    `json:"total_server_count"`
	SiteName         string `json:"site_name"`
	SiteDescription  string `json:"site_description"`
	KomariVersion    string `json:"komari_version"`

	// NotificationToken authenticates inbound webhook notifications.
	// nil until the user runs /generate_notification_token; replaced
	// wholesale on every regeneration.
	NotificationToken *string `json:"-"`
}

// MonitorSummary carries the cached fields refreshed from the instance.
type MonitorSummary struct {
	TotalServerCount int
	SiteName         string
	SiteDescription  string
	KomariVersion    string
}
