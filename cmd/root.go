// Package cmd implements the CLI command structure for taskpad.
package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/nibzard/taskpad/internal/config"
	"github.com/nibzard/taskpad/internal/logging"
	"github.com/nibzard/taskpad/internal/notify"
	"github.com/nibzard/taskpad/internal/store"
	"github.com/nibzard/taskpad/internal/task"
	"github.com/nibzard/taskpad/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// The reference service answers every create with this id and persists
// nothing. Doctor uses it to warn about the quirk.
const referenceCreateID = 201

// Run executes the taskpad CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, launch the TUI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		// Check if it looks like a subcommand (doesn't start with -)
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	// Execute the subcommand
	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs)
	case "tail":
		return tailCommand(cfg, remainingArgs)
	case "init":
		return initCommand(remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newStoreClient builds the store client from configuration.
func newStoreClient(cfg *config.Config) *store.Client {
	opts := []store.Option{store.WithTimeout(cfg.Timeout())}
	if cfg.StrictStatus {
		opts = append(opts, store.WithStrictStatus())
	}
	return store.NewClient(cfg.BaseURL, opts...)
}

// tuiCommand launches the interactive todo list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := logging.Open(logging.Config{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer session.Close()

	return ui.Run(ctx, cfg, newStoreClient(cfg), session.Logger)
}

// lsCommand fetches tasks and prints them with checkbox glyphs.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	// Parse ls-specific flags
	fs := flag.NewFlagSet("taskpad ls", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show task ids and raw completed flags")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}
	if len(remaining) == 1 {
		filter, err = task.ParseFilter(remaining[0])
		if err != nil {
			return err
		}
	}

	tasks, err := newStoreClient(cfg).List(ctx, cfg.FetchLimit)
	if err != nil {
		return fmt.Errorf("fetching tasks: %w", err)
	}

	printTaskList(os.Stdout, task.NewList(tasks...), filter, *verbose)
	return nil
}

// addCommand creates a task on the remote store.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	// Parse add-specific flags
	fs := flag.NewFlagSet("taskpad add", flag.ContinueOnError)
	done := fs.Bool("done", false, "Create the task already completed")

	if err := fs.Parse(args); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("add needs a title")
	}

	sink := &notify.ConsoleSink{Out: os.Stdout}
	created, err := newStoreClient(cfg).Create(ctx, title, *done)
	if err != nil {
		sink.Notify(notify.Failure("Failed to add task: %v", err))
		return fmt.Errorf("add failed")
	}
	sink.Notify(notify.Success("Task added: #%d %s", created.ID, created.Title))
	return nil
}

// doctorCommand checks config, log directory, and the remote store.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	// Parse doctor-specific flags
	fs := flag.NewFlagSet("taskpad doctor", flag.ContinueOnError)
	probe := fs.Bool("probe", false, "Issue a create probe against the store")
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := cws.Config

	fmt.Println("Taskpad Doctor")
	fmt.Println("==============")
	fmt.Println()

	allOK := true

	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("Config file: %s\n", file)
	} else {
		fmt.Println("Config file: none (defaults, environment, and flags only)")
	}
	fmt.Println()

	if !checkConfig(cws) {
		allOK = false
	}
	fmt.Println()

	if !checkLogDir(cfg.LogDir) {
		allOK = false
	}
	fmt.Println()

	st := newStoreClient(cfg)
	if !checkRemote(ctx, st, cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	if *probe {
		if !checkProbe(ctx, st) {
			allOK = false
		}
		fmt.Println()
	}

	// Overall status
	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Taskpad may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkConfig prints each config value with its source and validity.
func checkConfig(cws *config.ConfigWithSources) bool {
	cfg := cws.Config
	ok := true

	fmt.Println("Config:")

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		fmt.Printf("  ❌ base_url: %s (expected an http or https URL)\n", cfg.BaseURL)
		ok = false
	} else {
		printConfigValue(cws, "base_url", cfg.BaseURL)
	}

	if cfg.FetchLimit < 0 {
		fmt.Printf("  ❌ fetch_limit: %d (expected 0 or more)\n", cfg.FetchLimit)
		ok = false
	} else {
		printConfigValue(cws, "fetch_limit", cfg.FetchLimit)
	}

	if cfg.TimeoutSeconds < 0 {
		fmt.Printf("  ❌ timeout_seconds: %d (expected 0 or more)\n", cfg.TimeoutSeconds)
		ok = false
	} else {
		printConfigValue(cws, "timeout_seconds", cfg.TimeoutSeconds)
	}

	printConfigValue(cws, "strict_status", cfg.StrictStatus)

	if _, err := task.ParseFilter(cfg.DefaultFilter); err != nil {
		fmt.Printf("  ❌ default_filter: %s (expected all|completed|uncompleted)\n", cfg.DefaultFilter)
		ok = false
	} else {
		printConfigValue(cws, "default_filter", cfg.DefaultFilter)
	}

	if cfg.ToastSeconds < 1 {
		fmt.Printf("  ❌ toast_seconds: %d (expected 1 or more)\n", cfg.ToastSeconds)
		ok = false
	} else {
		printConfigValue(cws, "toast_seconds", cfg.ToastSeconds)
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		fmt.Printf("  ❌ log_level: %s (expected debug|info|warn|error)\n", cfg.LogLevel)
		ok = false
	} else {
		printConfigValue(cws, "log_level", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		fmt.Printf("  ❌ log_format: %s (expected json|console)\n", cfg.LogFormat)
		ok = false
	} else {
		printConfigValue(cws, "log_format", cfg.LogFormat)
	}

	return ok
}

func printConfigValue(cws *config.ConfigWithSources, key string, value any) {
	fmt.Printf("  ✅ %s: %v (%s)\n", key, value, cws.Sources[key])
}

// checkLogDir verifies the log directory exists and is writable.
func checkLogDir(dir string) bool {
	fmt.Printf("Log directory: %s\n", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("  ❌ Cannot create: %v\n", err)
		return false
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		fmt.Printf("  ❌ Not writable: %v\n", err)
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	fmt.Println("  ✅ Writable")
	return true
}

// checkRemote fetches one task and validates the raw payload against the
// task contract.
func checkRemote(ctx context.Context, st *store.Client, cfg *config.Config, verbose bool) bool {
	fmt.Printf("Remote store: %s\n", cfg.BaseURL)

	status, body, err := st.ListRaw(ctx, 1)
	if err != nil {
		fmt.Printf("  ❌ Unreachable: %v\n", err)
		return false
	}
	fmt.Printf("  ✅ Reachable (HTTP %d)\n", status)

	result := task.ValidateListPayload(body)
	if !result.Valid {
		fmt.Println("  ❌ Contract violations:")
		for _, e := range result.Errors {
			fmt.Printf("     - %v\n", e)
		}
		return false
	}
	fmt.Println("  ✅ Payload matches the task contract")

	if verbose {
		var tasks []task.Task
		if err := json.Unmarshal(body, &tasks); err == nil {
			for _, t := range tasks {
				box := "[ ]"
				if t.Completed {
					box = "[x]"
				}
				fmt.Printf("  %s #%d %s\n", box, t.ID, t.Title)
			}
		}
	}
	return true
}

// checkProbe issues a create against the store and reports the assigned id.
func checkProbe(ctx context.Context, st *store.Client) bool {
	fmt.Println("Create probe:")
	created, err := st.Create(ctx, "taskpad doctor probe", false)
	if err != nil {
		fmt.Printf("  ❌ Create failed: %v\n", err)
		return false
	}
	fmt.Printf("  ✅ Created with id %d\n", created.ID)
	if created.IsZero() {
		fmt.Println("  ⚠️  The store echoed an empty record for the created task")
	}
	if created.ID == referenceCreateID {
		fmt.Println("  ⚠️  The store hands every create this same id and persists nothing")
	}
	return true
}

// tailCommand tails the latest session log file.
func tailCommand(cfg *config.Config, args []string) error {
	// Parse tail-specific flags
	fs := flag.NewFlagSet("taskpad tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Find the latest session file
	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}

	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(os.Stdout, logPath, *n, *follow)
}

// initCommand writes a starter config file into the working directory.
// An existing file is left alone unless -force is given.
func initCommand(args []string) error {
	// Parse init-specific flags
	fs := flag.NewFlagSet("taskpad init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing taskpad.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	const path = "taskpad.toml"
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Printf("%s already exists, leaving it alone (use -force to overwrite)\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskpad version %s\n", Version)
	return nil
}

// printTaskList writes the filtered tasks plus the counters line. Counters
// always come from the full collection, not the filtered view.
func printTaskList(w io.Writer, list *task.List, filter task.Filter, verbose bool) {
	visible := list.Visible(filter)
	if len(visible) == 0 {
		fmt.Fprintln(w, "No tasks.")
	}
	for _, t := range visible {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		if verbose {
			fmt.Fprintf(w, "%s #%d %s (completed=%t)\n", box, t.ID, t.Title, t.Completed)
		} else {
			fmt.Fprintf(w, "%s %s\n", box, t.Title)
		}
	}

	total, completed := list.Counts()
	fmt.Fprintf(w, "\n%d/%d done", completed, total)
	if filter != task.FilterAll {
		fmt.Fprintf(w, " · filter: %s", filter)
	}
	fmt.Fprintln(w)
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskpad - a terminal todo list backed by a REST store")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskpad [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Launch the interactive todo list (default command)")
	fmt.Fprintln(w, "  ls [filter]   Fetch and print tasks (all|completed|uncompleted)")
	fmt.Fprintln(w, "  add <title>   Create a task on the remote store")
	fmt.Fprintln(w, "  doctor        Check config, log directory, and the remote store")
	fmt.Fprintln(w, "  tail          Tail the latest session log")
	fmt.Fprintln(w, "  init          Write a starter taskpad.toml to the working directory")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -v    Show task ids and raw completed flags")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add' command):")
	fmt.Fprintln(w, "  -done")
	fmt.Fprintln(w, "        Create the task already completed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -probe")
	fmt.Fprintln(w, "        Issue a create probe against the store")
	fmt.Fprintln(w, "  -v    Show the fetched tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init Options (use with 'init' command):")
	fmt.Fprintln(w, "  -force")
	fmt.Fprintln(w, "        Overwrite an existing taskpad.toml")
}
