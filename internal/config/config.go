// Package config loads meetbook settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is every setting meetbook reads from the environment.
type Config struct {
	LedgerFile      string        `env:"LEDGER_FILE" envDefault:"ledger.json"`
	StateFile       string        `env:"SYNC_STATE_FILE" envDefault:"sync-state.json"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	TimeZone        string        `env:"PRIMARY_TIMEZONE" envDefault:"UTC"`
	MeetingDuration time.Duration `env:"MEETING_DURATION" envDefault:"1h"`

	CalDAV CalDAV `envPrefix:"CALDAV_"`
	Google Google `envPrefix:"GOOGLE_"`
}

// CalDAV is the calendar meetings are published to.
type CalDAV struct {
	Endpoint     string `env:"ENDPOINT" envDefault:"https://caldav.icloud.com/"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	CalendarName string `env:"CALENDAR_NAME"`
}

// Google is the Google Calendar account events are imported from.
type Google struct {
	ClientID      string   `env:"CLIENT_ID"`
	ClientSecret  string   `env:"CLIENT_SECRET"`
	CalendarIDs   []string `env:"CALENDAR_IDS" envSeparator:"," envDefault:"primary"`
	TokenDir      string   `env:"TOKEN_DIR" envDefault:"."`
	LookaheadDays int      `env:"LOOKAHEAD_DAYS" envDefault:"7"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.TimeZone, err)
	}
	return loc, nil
}

// Logger builds the text logger for LogLevel.
func (c *Config) Logger() *slog.Logger {
	return NewLogger(c.LogLevel)
}

// NewLogger returns a text logger on stderr at the named level; unknown
// levels mean info.
func NewLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
