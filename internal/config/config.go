// Package config loads settings from .env, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/vocabsrs/internal/database"
	srs "github.com/example/vocabsrs/internal/spaced_repetition"
)

// Defaults for the notification window
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Config holds the complete application configuration
type Config struct {
	TelegramToken         string `mapstructure:"telegram_bot_token"`
	DBType                string `mapstructure:"db_type"`
	DatabaseURL           string `mapstructure:"database_url"`
	NotificationStartHour int    `mapstructure:"notification_start_hour"`
	NotificationEndHour   int    `mapstructure:"notification_end_hour"`
	LogLevel              string `mapstructure:"log_level"`
	LogPretty             bool   `mapstructure:"log_pretty"`
	BatchSize             int    `mapstructure:"batch_size"`
	RealtimeDecay         bool   `mapstructure:"realtime_decay"`
	MetricsAddr           string `mapstructure:"metrics_addr"` // empty disables the /metrics listener
}

// env names per key; the first four are shared with earlier deployments
var envNames = map[string]string{
	"telegram_bot_token":      "TELEGRAM_BOT_TOKEN",
	"db_type":                 "DB_TYPE",
	"database_url":            "DATABASE_URL",
	"notification_start_hour": "NOTIFICATION_START_HOUR",
	"notification_end_hour":   "NOTIFICATION_END_HOUR",
	"log_level":               "SRS_LOG_LEVEL",
	"log_pretty":              "SRS_LOG_PRETTY",
	"batch_size":              "SRS_BATCH_SIZE",
	"realtime_decay":          "SRS_REALTIME_DECAY",
	"metrics_addr":            "SRS_METRICS_ADDR",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("db_type", database.TypeSQLite)
	v.SetDefault("database_url", database.DefaultSQLiteDB)
	v.SetDefault("notification_start_hour", DefaultNotificationStartHour)
	v.SetDefault("notification_end_hour", DefaultNotificationEndHour)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("batch_size", srs.DefaultBatchSize)
	v.SetDefault("realtime_decay", true)
	v.SetDefault("metrics_addr", "")
}

// Load reads .env (if present), then configPath or ./srs.yaml (if present), then the environment.
// Later sources win.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("srs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var problems []string
	if _, err := database.DriverName(c.DBType); err != nil {
		problems = append(problems, err.Error())
	}
	for name, h := range map[string]int{
		"notification_start_hour": c.NotificationStartHour,
		"notification_end_hour":   c.NotificationEndHour,
	} {
		if h < 0 || h > 23 {
			problems = append(problems, fmt.Sprintf("%s %d outside 0-23", name, h))
		}
	}
	if c.NotificationStartHour > c.NotificationEndHour {
		problems = append(problems, fmt.Sprintf("notification window %d-%d is empty", c.NotificationStartHour, c.NotificationEndHour))
	}
	if c.BatchSize < 0 {
		problems = append(problems, fmt.Sprintf("batch_size %d is negative", c.BatchSize))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Database returns the connection settings
func (c *Config) Database() database.Config {
	return database.Config{Type: c.DBType, URL: c.DatabaseURL}
}
