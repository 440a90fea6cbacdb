// Package logging builds the per-session diagnostic logger and tail output.
//
// The TUI owns the terminal, so diagnostics go to a session file under the
// configured log directory, one file per process. The tail subcommand reads
// those files back.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the session logger.
type Config struct {
	Dir    string // session files land here; created if missing
	Level  string // debug|info|warn|error
	Format string // json|console
}

// Session is an open session log. Close before exit so buffered entries are
// flushed.
type Session struct {
	Logger *zap.SugaredLogger
	Path   string
	file   *os.File
}

// Open creates the session log file and its logger.
func Open(cfg Config) (*Session, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("log dir is empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	ext := ".jsonl"
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
		ext = ".log"
	default:
		return nil, fmt.Errorf("invalid log format %q, must be json or console", cfg.Format)
	}

	path := filepath.Join(cfg.Dir, fmt.Sprintf("taskpad-%s%s", sessionID(), ext))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(file), level)
	logger := zap.New(core)

	return &Session{
		Logger: logger.Sugar(),
		Path:   path,
		file:   file,
	}, nil
}

// Close flushes and closes the session log.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	_ = s.Logger.Sync()
	return s.file.Close()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// ParseLevel maps a config level string to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", s)
	}
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindLatestLog finds the most recently modified session log in a directory.
// Returns an empty path when the directory holds none.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".jsonl") && !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(logDir, name)
		}
	}

	return latest, nil
}

// TailLog tails a log file to a writer, optionally following.
func TailLog(w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	// If n > 0, seek to show only last n lines
	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if follow {
		return tailFollow(w, file)
	}

	// Just dump the rest of the file
	_, err = io.Copy(w, file)
	return err
}

// tailSeek seeks to a position that shows approximately the last n lines.
func tailSeek(file *os.File, n int) error {
	const avgLineLength = 150

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	size := stat.Size()
	if size < avgLineLength*int64(n) {
		// File is small enough, just read from start
		_, err = file.Seek(0, io.SeekStart)
		return err
	}

	// Seek back from end
	offset := size - int64(n*avgLineLength)
	if offset < 0 {
		offset = 0
	}
	_, err = file.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}

	// Discard partial first line
	buf := make([]byte, 1)
	_, err = file.Read(buf)
	if err != nil {
		return err
	}
	for {
		if buf[0] == '\n' {
			break
		}
		_, err := file.Read(buf)
		if err != nil {
			break
		}
	}

	return nil
}

// tailFollow follows a file like tail -f.
func tailFollow(w io.Writer, file *os.File) error {
	// First, copy existing content
	if _, err := io.Copy(w, file); err != nil {
		return err
	}

	// Then follow for new content
	for {
		_, err := io.Copy(w, file)
		if err != nil {
			return err
		}

		// Wait briefly before checking for more data
		time.Sleep(100 * time.Millisecond)

		// Check if more data is available
		var buf [1]byte
		_, err = file.Read(buf[:])
		if err != nil {
			if err == io.EOF {
				continue
			}
			return err
		}
		// We read a byte, write it and continue copying
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
}
