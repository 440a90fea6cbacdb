package config

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskpad/taskpad.toml or OS-specific config dir)
// 3. Project config file (taskpad.toml or .taskpad.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values and validate
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnvWithSources(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlagsWithSources(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values and validate
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"base_url",
		"fetch_limit",
		"timeout_seconds",
		"strict_status",
		"default_filter",
		"toast_seconds",
		"log_dir",
		"log_level",
		"log_format",
	}
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadConfigFileWithSources loads TOML config and updates source tracking.
// Only keys present in the file move their field's source.
func loadConfigFileWithSources(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	tempCfg := &Config{}
	meta, err := toml.DecodeFile(path, tempCfg)
	if err != nil {
		return err
	}

	for _, key := range meta.Keys() {
		switch key.String() {
		case "base_url":
			setSource(&cfg.BaseURL, tempCfg.BaseURL, sources, "base_url", source)
		case "fetch_limit":
			setSource(&cfg.FetchLimit, tempCfg.FetchLimit, sources, "fetch_limit", source)
		case "timeout_seconds":
			setSource(&cfg.TimeoutSeconds, tempCfg.TimeoutSeconds, sources, "timeout_seconds", source)
		case "strict_status":
			setSource(&cfg.StrictStatus, tempCfg.StrictStatus, sources, "strict_status", source)
		case "default_filter":
			setSource(&cfg.DefaultFilter, tempCfg.DefaultFilter, sources, "default_filter", source)
		case "toast_seconds":
			setSource(&cfg.ToastSeconds, tempCfg.ToastSeconds, sources, "toast_seconds", source)
		case "log_dir":
			setSource(&cfg.LogDir, tempCfg.LogDir, sources, "log_dir", source)
		case "log_level":
			setSource(&cfg.LogLevel, tempCfg.LogLevel, sources, "log_level", source)
		case "log_format":
			setSource(&cfg.LogFormat, tempCfg.LogFormat, sources, "log_format", source)
		}
	}

	return nil
}

func setSource[T any](field *T, value T, sources map[string]ConfigSource, name string, source ConfigSource) {
	*field = value
	sources[name] = source
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.LogDir = expandPath(cfg.LogDir)

	// Default log dir lives under the user config directory
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir()
	}

	if cfg.FetchLimit < 0 {
		return fmt.Errorf("fetch_limit must not be negative, got %d", cfg.FetchLimit)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", cfg.TimeoutSeconds)
	}
	if cfg.ToastSeconds < 1 {
		return fmt.Errorf("toast_seconds must be at least 1, got %d", cfg.ToastSeconds)
	}
	if _, err := cfg.Filter(); err != nil {
		return err
	}

	return nil
}
