// Package logger renders per-task output lines with stable colored prefixes.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette cycles over registered tasks in registration order, so colors are
// stable for a given manifest selection.
var palette = []lipgloss.Color{
	lipgloss.Color("6"),  // cyan
	lipgloss.Color("3"),  // yellow
	lipgloss.Color("5"),  // magenta
	lipgloss.Color("4"),  // blue
	lipgloss.Color("2"),  // green
	lipgloss.Color("1"),  // red
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Options configures prefixing and verbosity.
type Options struct {
	// Quiet suppresses Log/Info/Success; Error and Warn always pass.
	Quiet bool
	// NoPrefix disables task-name prefixing entirely.
	NoPrefix bool
	// Prefix, when non-empty, replaces per-task names with a fixed string.
	Prefix string
	// NoColor renders prefixes unstyled.
	NoColor bool
}

// Logger is safe for concurrent use; every line is written atomically.
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	err  io.Writer
	opts Options

	styles map[string]lipgloss.Style
	names  []string
	width  int
}

// New creates a Logger writing task output to out and error lines to err.
func New(out, err io.Writer, opts Options) *Logger {
	return &Logger{
		out:    out,
		err:    err,
		opts:   opts,
		styles: make(map[string]lipgloss.Style),
	}
}

// RegisterTask assigns the next palette color to name and widens prefix
// alignment. Registering the same name twice keeps the first color.
func (l *Logger) RegisterTask(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.styles[name]; ok {
		return
	}
	color := palette[len(l.names)%len(palette)]
	l.styles[name] = lipgloss.NewStyle().Foreground(color)
	l.names = append(l.names, name)
	if len(name) > l.width {
		l.width = len(name)
	}
}

// Log writes one stdout line for a task.
func (l *Logger) Log(name, line string) {
	if l.opts.Quiet {
		return
	}
	l.write(l.out, name, line)
}

// Error writes one stderr line for a task. Never suppressed.
func (l *Logger) Error(name, line string) {
	l.write(l.err, name, line)
}

// Info writes an unprefixed informational line.
func (l *Logger) Info(line string) {
	if l.opts.Quiet {
		return
	}
	l.writeRaw(l.out, line)
}

// Success writes a styled completion line.
func (l *Logger) Success(line string) {
	if l.opts.Quiet {
		return
	}
	l.writeRaw(l.out, l.style(successStyle, line))
}

// Warn writes a styled warning line. Never suppressed.
func (l *Logger) Warn(line string) {
	l.writeRaw(l.err, l.style(warnStyle, line))
}

// Failure writes a styled fatal error line. Never suppressed.
func (l *Logger) Failure(line string) {
	l.writeRaw(l.err, l.style(errorStyle, line))
}

func (l *Logger) write(w io.Writer, name, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, "%s%s\n", l.prefixFor(name), line)
}

func (l *Logger) writeRaw(w io.Writer, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, line)
}

func (l *Logger) style(s lipgloss.Style, line string) string {
	if l.opts.NoColor {
		return line
	}
	return s.Render(line)
}

// prefixFor renders the aligned, colored "name | " prefix. Callers hold the
// mutex.
func (l *Logger) prefixFor(name string) string {
	if l.opts.NoPrefix {
		return ""
	}
	label := name
	if l.opts.Prefix != "" {
		label = l.opts.Prefix
	}
	padded := label + strings.Repeat(" ", max(0, l.width-len(label)))
	if !l.opts.NoColor {
		if st, ok := l.styles[name]; ok {
			padded = st.Render(padded)
		}
	}
	return padded + " | "
}
