package model

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// DefaultGracePeriod is how long the engine waits after a graceful
// termination signal before escalating to a forced kill.
const DefaultGracePeriod = time.Second

// RunConfig is the full configuration surface for one run. It is assembled
// from CLI flags overlaid on environment overrides and never mutated after
// the run starts.
type RunConfig struct {
	// Quiet suppresses log/info/success output; error output always passes.
	Quiet bool

	// ContinueOnError absorbs task failures instead of aborting the run.
	ContinueOnError bool

	// NoPrefix disables task-name prefixing entirely.
	NoPrefix bool

	// Prefix, when non-empty, replaces the per-task name prefix with a
	// fixed string.
	Prefix string

	// Cwd is the working directory for every spawned task. Empty means the
	// current process working directory.
	Cwd string

	// Env is overlaid on the ambient environment for every task.
	Env map[string]string

	// NoColor disables prefix coloring.
	NoColor bool

	// GracePeriod bounds graceful shutdown before SIGKILL escalation.
	GracePeriod time.Duration

	// LogLevel controls the diagnostic run log (debug/info/warn/error).
	LogLevel string

	// ManifestPath overrides the default weft.yaml lookup.
	ManifestPath string
}

// envOverrides is the environment-variable half of the configuration.
type envOverrides struct {
	Quiet           bool   `env:"WEFT_QUIET"`
	ContinueOnError bool   `env:"WEFT_CONTINUE_ON_ERROR"`
	NoColor         bool   `env:"NO_COLOR"`
	GraceMs         int    `env:"WEFT_GRACE_MS" envDefault:"1000"`
	LogLevel        string `env:"WEFT_LOG_LEVEL" envDefault:"info"`
}

// ConfigFromEnv returns a RunConfig seeded from environment overrides.
// CLI flags are applied on top by the caller.
func ConfigFromEnv() (RunConfig, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return RunConfig{}, fmt.Errorf("parse environment overrides: %w", err)
	}

	grace := time.Duration(o.GraceMs) * time.Millisecond
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	return RunConfig{
		Quiet:           o.Quiet,
		ContinueOnError: o.ContinueOnError,
		NoColor:         o.NoColor,
		GracePeriod:     grace,
		LogLevel:        o.LogLevel,
	}, nil
}
