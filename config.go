package gorelay

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the relay's runtime settings, read from RELAY_* environment
// variables.
type Config struct {
	Addr         string        `default:":8080"`
	StaticDir    string        `split_words:"true" default:"./static"`
	DefaultRoom  string        `split_words:"true" default:"general"`
	LogLevel     string        `split_words:"true" default:"info"`
	PingInterval time.Duration `split_words:"true" default:"10s"`
	SendBuffer   int           `split_words:"true" default:"255"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("relay", &cfg)
	return cfg, err
}

// SlogLevel maps the configured level name onto a slog.Level, defaulting to
// Info for anything unrecognized.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
