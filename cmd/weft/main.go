package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/weftlabs/weft/internal/cli"
	"github.com/weftlabs/weft/internal/diag"
	"github.com/weftlabs/weft/internal/engine"
	"github.com/weftlabs/weft/internal/graph"
	"github.com/weftlabs/weft/internal/logger"
	"github.com/weftlabs/weft/internal/manifest"
	"github.com/weftlabs/weft/internal/model"
	"github.com/weftlabs/weft/internal/pattern"
	"github.com/weftlabs/weft/templates"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	inv, err := cli.Parse(os.Args[1:])
	if err != nil {
		fatal(err)
	}

	switch inv.Subcommand {
	case "init":
		runInit()
	case "list":
		runList(inv)
	case "version":
		fmt.Printf("weft %s\n", version)
	case "help":
		printUsage()
	default:
		run(inv)
	}
}

func run(inv *cli.Invocation) {
	cfg, err := model.ConfigFromEnv()
	if err != nil {
		fatal(err)
	}
	applyFlags(&cfg, inv)

	out := logger.New(os.Stdout, os.Stderr, logger.Options{
		Quiet:    cfg.Quiet,
		NoPrefix: cfg.NoPrefix,
		Prefix:   cfg.Prefix,
		NoColor:  cfg.NoColor,
	})

	dlog, err := diag.Open(workDir(cfg), diag.ParseLevel(cfg.LogLevel))
	if err != nil {
		out.Warn(fmt.Sprintf("run log unavailable: %v", err))
	}
	defer dlog.Close()

	m, err := manifest.Load(cfg.Cwd, cfg.ManifestPath)
	if err != nil {
		// A run that is only a trailing command needs no manifest.
		if len(inv.Patterns) > 0 || inv.Trailing == "" {
			fatalStyled(out, err)
		}
		m = &model.Manifest{Entries: map[string]string{}}
	}

	// Task environment: manifest env first, CLI --env on top.
	cfg.Env = mergeEnv(m.Env, inv.Env)

	resolver := pattern.New(m, dlog.Warnf)
	targets, err := resolver.Resolve(inv.Patterns, true)
	if err != nil {
		fatalStyled(out, err)
	}

	builder := graph.NewBuilder(m, resolver, dlog)
	nodes, err := builder.Build(targets, inv.Trailing)
	if err != nil {
		fatalStyled(out, err)
	}
	dlog.Infof("graph built: %d nodes from %d patterns", len(nodes), len(inv.Patterns))

	eng := engine.New(cfg, out, dlog)
	if err := eng.Execute(nodes); err != nil {
		fatalStyled(out, err)
	}
	dlog.Infof("run completed")
}

func applyFlags(cfg *model.RunConfig, inv *cli.Invocation) {
	if inv.Quiet {
		cfg.Quiet = true
	}
	if inv.ContinueOnError {
		cfg.ContinueOnError = true
	}
	if inv.NoPrefix {
		cfg.NoPrefix = true
	}
	if inv.Prefix != "" {
		cfg.Prefix = inv.Prefix
	}
	if inv.Cwd != "" {
		cfg.Cwd = inv.Cwd
	}
	if inv.ManifestPath != "" {
		cfg.ManifestPath = inv.ManifestPath
	}
}

func mergeEnv(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func workDir(cfg model.RunConfig) string {
	if cfg.Cwd != "" {
		return cfg.Cwd
	}
	return "."
}

func runInit() {
	path := manifest.DefaultFileName
	if _, err := os.Stat(path); err == nil {
		fatal(fmt.Errorf("%s already exists", path))
	}

	content, err := templates.FS.ReadFile("weft.yaml")
	if err != nil {
		fatal(fmt.Errorf("read embedded template: %w", err))
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		fatal(fmt.Errorf("write %s: %w", path, err))
	}

	abs, _ := filepath.Abs(path)
	fmt.Printf("Initialized %s\n", abs)
}

func runList(inv *cli.Invocation) {
	m, err := manifest.Load("", inv.ManifestPath)
	if err != nil {
		fatal(err)
	}

	names := make([]string, 0, len(m.Entries))
	width := 0
	for name := range m.Entries {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-*s  %s\n", width, name, m.Entries[name])
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func fatalStyled(out *logger.Logger, err error) {
	out.Failure(fmt.Sprintf("Error: %v", err))
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `weft %s - manifest task orchestrator

Usage: weft [flags] [patterns...] [-- command ...]
       weft <subcommand>

Patterns select manifest tasks: bare names, globs (build:*), exclusions
(!build:slow), and sequential chains ([lint,test]->[build]). Independent
tasks run in parallel; chain positions run in order. Everything after "--"
runs once the selected tasks complete.

Flags:
  -q, --quiet              Suppress task output (errors still shown)
  -c, --continue-on-error  Keep running independent tasks after a failure
      --no-prefix          Disable task-name prefixes
      --prefix <str>       Use a fixed prefix instead of task names
      --cwd <dir>          Working directory for tasks
      --env KEY=VAL        Extra environment for tasks (repeatable)
      --manifest <path>    Manifest file (default weft.yaml)

Subcommands:
  init      Write a starter weft.yaml
  list      Print manifest tasks
  version   Show version
  help      Show this help

`, version)
}
