// Package diag provides the leveled diagnostic run log written under
// .weft/logs/. It is separate from the user-facing task output.
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger writes timestamped, leveled lines stamped with a short run ID so
// interleaved runs against the same directory stay distinguishable.
type Logger struct {
	runID  string
	level  Level
	logger *log.Logger
	closer io.Closer
}

// Open creates a Logger appending to <dir>/.weft/logs/run.log. Failure to
// open the log file is not fatal for a run: the returned Logger discards
// output and Open reports the error for the caller to mention once.
func Open(dir string, level Level) (*Logger, error) {
	logPath := filepath.Join(dir, ".weft", "logs", "run.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return discard(level), fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return discard(level), fmt.Errorf("open run log: %w", err)
	}
	return New(f, f, level), nil
}

// New creates a Logger over an arbitrary writer; closer may be nil.
func New(w io.Writer, closer io.Closer, level Level) *Logger {
	return &Logger{
		runID:  uuid.NewString()[:8],
		level:  level,
		logger: log.New(w, "", 0),
		closer: closer,
	}
}

func discard(level Level) *Logger {
	return New(io.Discard, nil, level)
}

// RunID returns the short identifier stamped on every line of this run.
func (l *Logger) RunID() string { return l.runID }

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("%s [%s] run=%s %s", ts, level, l.runID, fmt.Sprintf(format, args...))
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
