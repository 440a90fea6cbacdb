package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultBaseURL        = "https://jsonplaceholder.typicode.com"
	DefaultFetchLimit     = 10
	DefaultTimeoutSeconds = 0 // no client timeout
	DefaultFilter         = "all"
	DefaultToastSeconds   = 4
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

// Config holds the full configuration for taskpad.
type Config struct {
	// Remote store
	BaseURL        string `toml:"base_url"`
	FetchLimit     int    `toml:"fetch_limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"` // 0 disables the client timeout
	StrictStatus   bool   `toml:"strict_status"`   // reject non-2xx responses when true

	// UI
	DefaultFilter string `toml:"default_filter"`
	ToastSeconds  int    `toml:"toast_seconds"`

	// Logging
	LogDir    string `toml:"log_dir"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}
