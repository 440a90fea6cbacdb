package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Taskpad configuration file
# Every value can be overridden by TASKPAD_* environment variables or CLI flags

# Base URL of the remote task store
base_url = "https://jsonplaceholder.typicode.com"

# Maximum tasks fetched on load (0 = no limit)
fetch_limit = 10

# Request timeout in seconds (0 = no timeout)
timeout_seconds = 0

# Treat non-2xx responses as failures
# The default mirrors the upstream store, which answers writes with a parseable
# echo even on error statuses
strict_status = false

# Initial filter: all, completed, or uncompleted
default_filter = "all"

# Seconds a toast notification stays visible
toast_seconds = 4

# Log directory (supports ~ expansion and %VAR% on Windows)
# log_dir = "~/.taskpad/logs"

# Log level (debug, info, warn, error)
log_level = "info"

# Log format (json, console)
log_format = "json"
`
}
