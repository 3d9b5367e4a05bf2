package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kulutus/internal/core"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// CORS
	CORSAllowedOrigins []string

	// How negative consumption deltas are treated: allow, flag or clamp.
	NegativeDeltaPolicy core.DeltaPolicy

	// Logging
	LogLevel slog.Level
}

func Load() *Config {
	cfg := &Config{
		Port:                getEnv("PORT", "2992"),
		SQLiteDBPath:        getEnv("SQLITE_DB_PATH", "./data/kulutus.db"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		NegativeDeltaPolicy: core.DeltaPolicy(getEnv("NEGATIVE_DELTA_POLICY", string(core.DeltaAllow))),
		LogLevel:            parseLevel(getEnv("LOG_LEVEL", "info")),
	}
	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if !c.NegativeDeltaPolicy.IsValid() {
		errs = append(errs, fmt.Sprintf("invalid negative delta policy '%s': must be one of allow, flag, clamp", c.NegativeDeltaPolicy))
	}

	if len(c.CORSAllowedOrigins) == 0 {
		errs = append(errs, "CORS allowed origins cannot be empty (use '*' to allow any)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(v) {
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
