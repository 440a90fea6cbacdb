package config

import (
	"flag"
)

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil, "")
}

// parseFlagsWithSources parses CLI flags and updates source tracking.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	return parseFlagsHelper(cfg, fs, args, sources, SourceFlag)
}

// parseFlagsHelper is the shared implementation for flag parsing.
// If sources is non-nil, it tracks the source of each value.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskpad", flag.ContinueOnError)
	}

	// Track which flags are explicitly set (only used when sources != nil)
	flagSet := make(map[string]bool)

	// Remote store
	var baseURL string
	var fetchLimit, timeoutSeconds int
	var strictStatus bool
	if sources == nil {
		fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the task store")
		fs.IntVar(&cfg.FetchLimit, "limit", cfg.FetchLimit, "Maximum tasks fetched on load (0 = no limit)")
		fs.IntVar(&cfg.TimeoutSeconds, "timeout", cfg.TimeoutSeconds, "Request timeout in seconds (0 = no timeout)")
		fs.BoolVar(&cfg.StrictStatus, "strict", cfg.StrictStatus, "Treat non-2xx responses as failures")
	} else {
		fs.StringVar(&baseURL, "url", cfg.BaseURL, "")
		fs.IntVar(&fetchLimit, "limit", cfg.FetchLimit, "")
		fs.IntVar(&timeoutSeconds, "timeout", cfg.TimeoutSeconds, "")
		fs.BoolVar(&strictStatus, "strict", cfg.StrictStatus, "")
	}

	// Presentation
	var defaultFilter string
	var toastSeconds int
	if sources == nil {
		fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter (all, completed, uncompleted)")
		fs.IntVar(&cfg.ToastSeconds, "toast", cfg.ToastSeconds, "Seconds a toast stays visible")
	} else {
		fs.StringVar(&defaultFilter, "filter", cfg.DefaultFilter, "")
		fs.IntVar(&toastSeconds, "toast", cfg.ToastSeconds, "")
	}

	// Logging
	var logDir, logLevel, logFormat string
	if sources == nil {
		fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
		fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
		fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")
	} else {
		fs.StringVar(&logDir, "log-dir", cfg.LogDir, "")
		fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "")
		fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"url":        "base_url",
		"limit":      "fetch_limit",
		"timeout":    "timeout_seconds",
		"strict":     "strict_status",
		"filter":     "default_filter",
		"toast":      "toast_seconds",
		"log-dir":    "log_dir",
		"log-level":  "log_level",
		"log-format": "log_format",
	}

	// Track which flags were set and apply to config
	fs.Visit(func(f *flag.Flag) {
		flagSet[f.Name] = true
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = source
		}
	})

	// Apply flag values to config
	if sources != nil {
		// Direct binding already applied in the sources == nil case
		if flagSet["url"] {
			cfg.BaseURL = baseURL
		}
		if flagSet["limit"] {
			cfg.FetchLimit = fetchLimit
		}
		if flagSet["timeout"] {
			cfg.TimeoutSeconds = timeoutSeconds
		}
		if flagSet["strict"] {
			cfg.StrictStatus = strictStatus
		}
		if flagSet["filter"] {
			cfg.DefaultFilter = defaultFilter
		}
		if flagSet["toast"] {
			cfg.ToastSeconds = toastSeconds
		}
		if flagSet["log-dir"] {
			cfg.LogDir = logDir
		}
		if flagSet["log-level"] {
			cfg.LogLevel = logLevel
		}
		if flagSet["log-format"] {
			cfg.LogFormat = logFormat
		}
	}

	return nil
}
