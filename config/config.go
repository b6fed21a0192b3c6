// Package config loads server settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DBPath      string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// Load reads .env (if present), then DAWAM_* variables, then args.
func Load(args []string) (*Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	port, err := strconv.Atoi(getEnv("DAWAM_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid DAWAM_PORT: %w", err)
	}

	cfg := &Config{
		Port:        port,
		DBPath:      getEnv("DAWAM_DB", "dawam.db"),
		Env:         getEnv("DAWAM_ENV", "development"),
		LogLevel:    getEnv("DAWAM_LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("DAWAM_CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"),
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, `SQLite database path (":memory:" for in-memory)`)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DAWAM_DB is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
