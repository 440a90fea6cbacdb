package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil, "")
}

// loadFromEnvWithSources loads environment variables and updates source tracking.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	loadFromEnvHelper(cfg, sources, SourceEnv)
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	setEnv := func(field, value string) {
		if sources != nil {
			sources[field] = source
		}
	}
	setEnvInt := func(field string, value int) {
		if sources != nil {
			sources[field] = source
		}
	}
	setEnvBool := func(field string, value bool) {
		if sources != nil {
			sources[field] = source
		}
	}

	if v := os.Getenv("TASKPAD_BASE_URL"); v != "" {
		cfg.BaseURL = v
		setEnv("base_url", v)
	}
	if v := os.Getenv("TASKPAD_FETCH_LIMIT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.FetchLimit = i
			setEnvInt("fetch_limit", i)
		}
	}
	if v := os.Getenv("TASKPAD_TIMEOUT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.TimeoutSeconds = i
			setEnvInt("timeout_seconds", i)
		}
	}
	if v := os.Getenv("TASKPAD_STRICT_STATUS"); v != "" {
		cfg.StrictStatus = boolFromString(v)
		setEnvBool("strict_status", cfg.StrictStatus)
	}
	if v := os.Getenv("TASKPAD_FILTER"); v != "" {
		cfg.DefaultFilter = v
		setEnv("default_filter", v)
	}
	if v := os.Getenv("TASKPAD_TOAST_SECONDS"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.ToastSeconds = i
			setEnvInt("toast_seconds", i)
		}
	}
	if v := os.Getenv("TASKPAD_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir", v)
	}
	if v := os.Getenv("TASKPAD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level", v)
	}
	if v := os.Getenv("TASKPAD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format", v)
	}
}

// boolFromString parses common boolean representations.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
