// Package config reads the server settings from flags, falling back to
// CHESS_* environment variables and then to development defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr         string
	AllowOrigins string
	DataDir      string
	LogLevel     string
}

func Load(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", envOr("CHESS_ADDR", ":3000"), "HTTP listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", envOr("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data", envOr("CHESS_DATA_DIR", ""), "game archive directory; empty keeps games in memory")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level maps LogLevel onto fiber's logger levels.
func (c Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
