// Package config loads settings from defaults, an optional .env file, an
// optional TOML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL                = "http://localhost:8000/api"
	DefaultServerAddr            = ":8000"
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 21
	DefaultImportBatchSize       = 50
	DefaultStatsLogLimit         = 1000
)

// Config holds every setting of the client, the backend and the bot.
type Config struct {
	APIURL             string `toml:"api_url"`
	SessionDB          string `toml:"session_db"`
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds"`
	LogLevel           string `toml:"log_level"`
	ImportBatchSize    int    `toml:"import_batch_size"`
	StatsLogLimit      int    `toml:"stats_log_limit"`

	Server ServerConfig `toml:"server"`
	Bot    BotConfig    `toml:"bot"`
}

// ServerConfig configures the backend.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	DBDriver    string `toml:"db_driver"`
	DatabaseURL string `toml:"database_url"`
}

// BotConfig configures the Telegram front end and its reminders.
type BotConfig struct {
	Token                 string `toml:"token"`
	NotificationStartHour int    `toml:"notification_start_hour"`
	NotificationEndHour   int    `toml:"notification_end_hour"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:             DefaultAPIURL,
		SessionDB:          DefaultSessionPath(),
		HTTPTimeoutSeconds: 10,
		LogLevel:           "info",
		ImportBatchSize:    DefaultImportBatchSize,
		StatsLogLimit:      DefaultStatsLogLimit,
		Server: ServerConfig{
			Addr:     DefaultServerAddr,
			DBDriver: "sqlite3",
		},
		Bot: BotConfig{
			NotificationStartHour: DefaultNotificationStartHour,
			NotificationEndHour:   DefaultNotificationEndHour,
		},
	}
}

// HTTPTimeout returns the client request timeout.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Load builds the configuration. An empty path means DefaultConfigPath;
// a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = DefaultConfigPath()
	}
	if err := decodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.APIURL, "WORDBOOK_API_URL")
	setString(&cfg.SessionDB, "WORDBOOK_SESSION_DB")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Server.DBDriver, "DB_DRIVER")
	setString(&cfg.Server.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Bot.Token, "TELEGRAM_BOT_TOKEN")

	ints := []struct {
		key string
		dst *int
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeoutSeconds},
		{"IMPORT_BATCH_SIZE", &cfg.ImportBatchSize},
		{"STATS_LOG_LIMIT", &cfg.StatsLogLimit},
		{"NOTIFICATION_START_HOUR", &cfg.Bot.NotificationStartHour},
		{"NOTIFICATION_END_HOUR", &cfg.Bot.NotificationEndHour},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", v.key, raw, err)
		}
		*v.dst = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks ranges that would otherwise fail later and obscurely.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is empty")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("http timeout must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	if c.ImportBatchSize <= 0 {
		return fmt.Errorf("import batch size must be positive, got %d", c.ImportBatchSize)
	}
	if c.StatsLogLimit <= 0 {
		return fmt.Errorf("stats log limit must be positive, got %d", c.StatsLogLimit)
	}
	for _, h := range []int{c.Bot.NotificationStartHour, c.Bot.NotificationEndHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("notification hour %d out of range 0-23", h)
		}
	}
	switch c.Server.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", c.Server.DBDriver)
	}
	return nil
}
