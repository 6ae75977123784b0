// Package config provides runtime configuration for komaribot.
// It uses Viper to load settings from a config file and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for komaribot.
type Config struct {
	// DBPath is the SQLite file storing per-user monitor profiles.
	DBPath string `mapstructure:"db_path"`

	// ── Telegram ─────────────────────────────────────────────────────────────
	// TelegramToken: bot credential issued by @BotFather.
	TelegramToken string `mapstructure:"telegram_token"`
	// BotName: the bot's @username, needed to strip "/cmd@botname" suffixes
	// and to build the t.me link shown on pagination keyboards.
	BotName string `mapstructure:"bot_name"`

	// ── Webhook relay ─────────────────────────────────────────────────────────
	// WebhookPort: listen port for the inbound notification relay.
	WebhookPort int `mapstructure:"webhook_port"`
	// WebhookBaseURL: public base URL advertised to users when they generate
	// a notification token, e.g. "https://bot.example.com".
	WebhookBaseURL string `mapstructure:"webhook_base_url"`

	Debug bool `mapstructure:"debug"`
}

// Load reads config from file (./config.yaml or ~/.komaribot/config.yaml)
// and falls back to defaults. Environment variables with prefix KOMARIBOT_
// override file values.
func Load() (*Config, error) {
	v := viper.New()

	// --- Defaults ---
	v.SetDefault("db_path", "komaribot.db")
	v.SetDefault("telegram_token", "")
	v.SetDefault("bot_name", "")
	v.SetDefault("webhook_port", 8190)
	v.SetDefault("webhook_base_url", "http://127.0.0.1:8190")
	v.SetDefault("debug", false)

	// --- Config file ---
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.komaribot")
	if err := v.ReadInConfig(); err != nil {
		// config file is optional; ignore "not found" errors
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// --- Environment variables ---
	v.SetEnvPrefix("KOMARIBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("telegram_token is required (set KOMARIBOT_TELEGRAM_TOKEN or config.yaml)")
	}
	return &cfg, nil
}
