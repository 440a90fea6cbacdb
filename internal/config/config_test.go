// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nibzard/taskpad/internal/task"
)

// clearTaskpadEnv blanks every TASKPAD_* variable so ambient shell
// configuration cannot leak into a test.
func clearTaskpadEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TASKPAD_BASE_URL",
		"TASKPAD_FETCH_LIMIT",
		"TASKPAD_TIMEOUT",
		"TASKPAD_STRICT_STATUS",
		"TASKPAD_FILTER",
		"TASKPAD_TOAST_SECONDS",
		"TASKPAD_LOG_DIR",
		"TASKPAD_LOG_LEVEL",
		"TASKPAD_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

// isolateConfigFiles points HOME and XDG_CONFIG_HOME at empty temp
// directories so user-level config files on the host are not picked up.
func isolateConfigFiles(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.FetchLimit != DefaultFetchLimit {
		t.Errorf("FetchLimit: got %d, want %d", cfg.FetchLimit, DefaultFetchLimit)
	}
	if cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds: got %d, want %d", cfg.TimeoutSeconds, DefaultTimeoutSeconds)
	}
	if cfg.StrictStatus != false {
		t.Errorf("StrictStatus: got %v, want false", cfg.StrictStatus)
	}
	if cfg.DefaultFilter != DefaultFilter {
		t.Errorf("DefaultFilter: got %q, want %q", cfg.DefaultFilter, DefaultFilter)
	}
	if cfg.ToastSeconds != DefaultToastSeconds {
		t.Errorf("ToastSeconds: got %d, want %d", cfg.ToastSeconds, DefaultToastSeconds)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
}

// TestExampleConfigMatchesDefaults pins the init template to the real
// defaults so the two cannot drift apart.
func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg := &Config{}
	if _, err := toml.Decode(ExampleConfig(), cfg); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}

	want := &Config{}
	setDefaults(want)
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("example config: got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearTaskpadEnv(t)
	t.Setenv("TASKPAD_BASE_URL", "http://localhost:3000")
	t.Setenv("TASKPAD_FETCH_LIMIT", "25")
	t.Setenv("TASKPAD_STRICT_STATUS", "yes")
	t.Setenv("TASKPAD_FILTER", "completed")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL: got %q, want http://localhost:3000", cfg.BaseURL)
	}
	if cfg.FetchLimit != 25 {
		t.Errorf("FetchLimit: got %d, want 25", cfg.FetchLimit)
	}
	if !cfg.StrictStatus {
		t.Error("StrictStatus: got false, want true")
	}
	if cfg.DefaultFilter != "completed" {
		t.Errorf("DefaultFilter: got %q, want completed", cfg.DefaultFilter)
	}
	// Untouched fields keep their defaults
	if cfg.ToastSeconds != DefaultToastSeconds {
		t.Errorf("ToastSeconds: got %d, want %d", cfg.ToastSeconds, DefaultToastSeconds)
	}
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	clearTaskpadEnv(t)
	t.Setenv("TASKPAD_FETCH_LIMIT", "not-a-number")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.FetchLimit != DefaultFetchLimit {
		t.Errorf("FetchLimit: got %d, want default %d", cfg.FetchLimit, DefaultFetchLimit)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "taskpad.toml")

	content := []byte(`base_url = "http://localhost:8080"
fetch_limit = 5
default_filter = "uncompleted"
strict_status = true
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL: got %q, want http://localhost:8080", cfg.BaseURL)
	}
	if cfg.FetchLimit != 5 {
		t.Errorf("FetchLimit: got %d, want 5", cfg.FetchLimit)
	}
	if cfg.DefaultFilter != "uncompleted" {
		t.Errorf("DefaultFilter: got %q, want uncompleted", cfg.DefaultFilter)
	}
	if !cfg.StrictStatus {
		t.Error("StrictStatus: got false, want true")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: `~\test`,
			want:  `~\test`,
		})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--url", "http://localhost:9999",
		"--limit", "3",
		"--filter", "completed",
		"--strict",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL: got %q, want http://localhost:9999", cfg.BaseURL)
	}
	if cfg.FetchLimit != 3 {
		t.Errorf("FetchLimit: got %d, want 3", cfg.FetchLimit)
	}
	if cfg.DefaultFilter != "completed" {
		t.Errorf("DefaultFilter: got %q, want completed", cfg.DefaultFilter)
	}
	if !cfg.StrictStatus {
		t.Error("StrictStatus: got false, want true")
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadLayering checks that flags beat env vars and env vars beat the
// project config file.
func TestLoadLayering(t *testing.T) {
	clearTaskpadEnv(t)
	isolateConfigFiles(t)

	projDir := t.TempDir()
	content := []byte(`base_url = "http://from-file"
fetch_limit = 7
toast_seconds = 2
`)
	if err := os.WriteFile(filepath.Join(projDir, "taskpad.toml"), content, 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(projDir)

	t.Setenv("TASKPAD_BASE_URL", "http://from-env")
	t.Setenv("TASKPAD_FETCH_LIMIT", "8")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"--url", "http://from-flag"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "http://from-flag" {
		t.Errorf("BaseURL: got %q, want flag value", cfg.BaseURL)
	}
	if cfg.FetchLimit != 8 {
		t.Errorf("FetchLimit: got %d, want env value 8", cfg.FetchLimit)
	}
	if cfg.ToastSeconds != 2 {
		t.Errorf("ToastSeconds: got %d, want file value 2", cfg.ToastSeconds)
	}
	if cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds: got %d, want default %d", cfg.TimeoutSeconds, DefaultTimeoutSeconds)
	}
}

func TestLoadWithSources(t *testing.T) {
	clearTaskpadEnv(t)
	isolateConfigFiles(t)

	projDir := t.TempDir()
	content := []byte(`toast_seconds = 2
`)
	if err := os.WriteFile(filepath.Join(projDir, "taskpad.toml"), content, 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(projDir)

	t.Setenv("TASKPAD_FETCH_LIMIT", "8")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--url", "http://from-flag"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}

	tests := []struct {
		field string
		want  ConfigSource
	}{
		{"base_url", SourceFlag},
		{"fetch_limit", SourceEnv},
		{"toast_seconds", SourceProjFile},
		{"timeout_seconds", SourceDefault},
		{"log_level", SourceDefault},
	}
	for _, tt := range tests {
		if got := cws.Sources[tt.field]; got != tt.want {
			t.Errorf("Sources[%q]: got %q, want %q", tt.field, got, tt.want)
		}
	}

	if cws.Config.BaseURL != "http://from-flag" {
		t.Errorf("BaseURL: got %q, want flag value", cws.Config.BaseURL)
	}
	if cws.Config.ToastSeconds != 2 {
		t.Errorf("ToastSeconds: got %d, want 2", cws.Config.ToastSeconds)
	}
}

func TestFinalizeConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative fetch limit",
			mutate:  func(c *Config) { c.FetchLimit = -1 },
			wantErr: "fetch_limit",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.TimeoutSeconds = -5 },
			wantErr: "timeout_seconds",
		},
		{
			name:    "zero toast",
			mutate:  func(c *Config) { c.ToastSeconds = 0 },
			wantErr: "toast_seconds",
		},
		{
			name:    "bad filter",
			mutate:  func(c *Config) { c.DefaultFilter = "finished" },
			wantErr: "invalid filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)
			err := finalizeConfig(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFinalizeConfigFillsLogDir(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.LogDir = ""

	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig: %v", err)
	}
	if cfg.LogDir == "" {
		t.Error("LogDir should be filled with the default log directory")
	}
}

func TestFilterGetter(t *testing.T) {
	cfg := &Config{DefaultFilter: "done"}
	f, err := cfg.Filter()
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if f != task.FilterCompleted {
		t.Errorf("Filter: got %q, want %q", f, task.FilterCompleted)
	}

	cfg.DefaultFilter = "bogus"
	if _, err := cfg.Filter(); err == nil {
		t.Error("Filter: expected error for bogus value")
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 30}
	if got := cfg.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout: got %v, want 30s", got)
	}

	cfg.TimeoutSeconds = 0
	if got := cfg.Timeout(); got != 0 {
		t.Errorf("Timeout: got %v, want 0", got)
	}
}
