package config

import (
	"fmt"
	"time"

	"github.com/nibzard/taskpad/internal/task"
)

// Filter returns the configured default filter as a task.Filter.
// It validates the raw value so a typo in the config file surfaces at load time.
func (c *Config) Filter() (task.Filter, error) {
	f, err := task.ParseFilter(c.DefaultFilter)
	if err != nil {
		return task.FilterAll, fmt.Errorf("default_filter: %w", err)
	}
	return f, nil
}

// Timeout returns the request timeout as a duration. Zero means no timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ToastDuration returns how long a toast stays visible.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}
