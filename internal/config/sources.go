package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	// Check for taskpad.toml in current directory
	names := []string{"taskpad.toml", ".taskpad.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.taskpad/taskpad.toml first, then falls back to OS-specific
// config directories if ~/.taskpad doesn't exist.
func findUserConfigFile() string {
	// First try ~/.taskpad/taskpad.toml
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".taskpad", "taskpad.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	// If ~/.taskpad doesn't exist, try OS-specific config directories
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "taskpad", "taskpad.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		// On Windows, use %APPDATA%\taskpad
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		// On macOS, use ~/Library/Application Support
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		// On Linux/BSD, respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// defaultLogDir returns the per-user log directory for session logs.
func defaultLogDir() string {
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		return filepath.Join(cfgDir, "taskpad", "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(home, ".taskpad", "logs")
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.FetchLimit = DefaultFetchLimit
	cfg.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.StrictStatus = false
	cfg.DefaultFilter = DefaultFilter
	cfg.ToastSeconds = DefaultToastSeconds

	// Logging defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

// GetConfigFile returns the active config file path (project or user).
func (cws *ConfigWithSources) GetConfigFile() string {
	for _, source := range cws.Sources {
		if source == SourceProjFile {
			projectConfigFile := findProjectConfigFile()
			if projectConfigFile != "" {
				return projectConfigFile
			}
		}
	}
	for _, source := range cws.Sources {
		if source == SourceUserFile {
			userConfigFile := findUserConfigFile()
			if userConfigFile != "" {
				return userConfigFile
			}
		}
	}
	return ""
}
