package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/joshuapare/hivequery/internal/logging"
)

// Environment variables consulted for flag defaults.
const (
	envLogLevel    = "HIVEQUERY_LOG_LEVEL"
	envConcurrency = "HIVEQUERY_CONCURRENCY"
	envJSON        = "HIVEQUERY_JSON"
)

// envFile is loaded when present; variables already set in the
// environment take precedence.
var envFile = ".env"

type config struct {
	LogLevel    slog.Level
	LogLevelSet bool
	Concurrency int
	JSON        bool
}

func loadConfig() (config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	var cfg config
	if v, ok := os.LookupEnv(envLogLevel); ok {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		cfg.LogLevel, cfg.LogLevelSet = level, true
	}
	if v := os.Getenv(envConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return config{}, fmt.Errorf("%s: invalid value %q", envConcurrency, v)
		}
		cfg.Concurrency = n
	}
	if v := os.Getenv(envJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("%s: invalid value %q", envJSON, v)
		}
		cfg.JSON = b
	}
	return cfg, nil
}
