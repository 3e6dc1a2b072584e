package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func plainLogger(opts Options) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	opts.NoColor = true
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return New(out, errOut, opts), out, errOut
}

func TestLog_PrefixAlignment(t *testing.T) {
	l, out, _ := plainLogger(Options{})
	l.RegisterTask("a")
	l.RegisterTask("longer")

	l.Log("a", "hello")
	l.Log("longer", "world")

	assert.Equal(t, "a      | hello\nlonger | world\n", out.String())
}

func TestLog_QuietSuppressesLogButNotError(t *testing.T) {
	l, out, errOut := plainLogger(Options{Quiet: true})
	l.RegisterTask("t")

	l.Log("t", "hidden")
	l.Info("hidden too")
	l.Success("also hidden")
	l.Error("t", "kept")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "kept")
}

func TestLog_NoPrefix(t *testing.T) {
	l, out, _ := plainLogger(Options{NoPrefix: true})
	l.RegisterTask("t")

	l.Log("t", "bare")
	assert.Equal(t, "bare\n", out.String())
}

func TestLog_CustomPrefix(t *testing.T) {
	l, out, _ := plainLogger(Options{Prefix: "run"})
	l.RegisterTask("task")

	l.Log("task", "line")
	assert.Equal(t, "run  | line\n", out.String())
}

func TestWarn_NotSuppressedByQuiet(t *testing.T) {
	l, _, errOut := plainLogger(Options{Quiet: true})
	l.Warn("heads up")
	assert.Contains(t, errOut.String(), "heads up")
}

func TestRegisterTask_Idempotent(t *testing.T) {
	l, _, _ := plainLogger(Options{})
	l.RegisterTask("t")
	style := l.styles["t"]
	l.RegisterTask("t")
	assert.Equal(t, style, l.styles["t"])
	assert.Len(t, l.names, 1)
}
