package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/weftlabs/weft/internal/model"
)

// trackedProc is one live subprocess in the engine's process table. The
// table is keyed by pid; only the engine mutates it.
type trackedProc struct {
	pid    int
	name   string
	direct bool
	cmd    *exec.Cmd
}

// runTask spawns the task's command through the platform shell, streams its
// output line by line into the logger, and reports non-zero exit as a
// TaskExecutionError. An empty command (pure aggregation task) completes
// immediately.
func (e *Engine) runTask(t model.Task) error {
	if strings.TrimSpace(t.Command) == "" {
		return nil
	}

	cmd := shellCommand(t.Command)
	cmd.Dir = e.cfg.Cwd
	cmd.Env = e.environ()

	var streams errgroup.Group
	if t.Direct {
		// The synthetic trailing-command task bypasses prefixing entirely.
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return &TaskExecutionError{Task: t.Name, Err: fmt.Errorf("stdout pipe: %w", err)}
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return &TaskExecutionError{Task: t.Name, Err: fmt.Errorf("stderr pipe: %w", err)}
		}
		streams.Go(func() error {
			scanLines(stdout, func(line string) { e.out.Log(t.Name, line) })
			return nil
		})
		streams.Go(func() error {
			scanLines(stderr, func(line string) { e.out.Error(t.Name, line) })
			return nil
		})
	}

	if err := cmd.Start(); err != nil {
		return &TaskExecutionError{Task: t.Name, Err: fmt.Errorf("spawn: %w", err)}
	}

	pid := cmd.Process.Pid
	e.track(&trackedProc{pid: pid, name: t.Name, direct: t.Direct, cmd: cmd})
	e.log.Debugf("task %q started pid=%d", t.Name, pid)

	_ = streams.Wait()
	err := cmd.Wait()
	e.untrack(pid)

	if err != nil {
		return &TaskExecutionError{Task: t.Name, Err: err}
	}
	return nil
}

func (e *Engine) track(p *trackedProc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.procs[p.pid] = p
}

func (e *Engine) untrack(pid int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.procs, pid)
}

// liveProcs snapshots the process table for the shutdown path.
func (e *Engine) liveProcs() []*trackedProc {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*trackedProc, 0, len(e.procs))
	for _, p := range e.procs {
		out = append(out, p)
	}
	return out
}

// shellCommand wraps a raw command string in the platform shell.
func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/c", command)
	}
	return exec.Command("/bin/sh", "-c", command)
}

// environ overlays the configured env on the ambient environment and
// prepends the local executable directory to PATH so manifest commands find
// project-installed binaries first.
func (e *Engine) environ() []string {
	merged := make(map[string]string)
	order := make([]string, 0, len(os.Environ())+len(e.cfg.Env))

	add := func(key, val string) {
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = val
	}

	for _, kv := range os.Environ() {
		if i := strings.Index(kv, "="); i >= 0 {
			add(kv[:i], kv[i+1:])
		}
	}
	for key, val := range e.cfg.Env {
		add(key, val)
	}

	cwd := e.cfg.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	localBin := filepath.Join(cwd, "node_modules", ".bin")
	if path, ok := merged["PATH"]; ok {
		merged["PATH"] = localBin + string(os.PathListSeparator) + path
	} else {
		add("PATH", localBin)
	}

	out := make([]string, 0, len(order))
	for _, key := range order {
		out = append(out, key+"="+merged[key])
	}
	return out
}

// scanLines forwards non-blank lines one at a time.
func scanLines(r io.Reader, emit func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		emit(line)
	}
}
