package engine

import (
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"
)

// watchSignals registers the per-run shutdown handler and returns a stop
// function that unregisters it, so runs in the same process (tests) do not
// leak handlers.
func (e *Engine) watchSignals() func() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-sigCh:
				// First request aborts; any further signal is a no-op while
				// the grace period runs.
				if !e.aborted.CompareAndSwap(false, true) {
					e.log.Debugf("ignoring repeated signal %s during shutdown", sig)
					continue
				}
				e.log.Infof("received signal=%s, stopping tasks", sig)
				go e.shutdown()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// shutdown terminates every tracked subprocess: SIGTERM first, then SIGKILL
// for survivors after the grace period, then the whole process exits with a
// success status.
func (e *Engine) shutdown() {
	procs := e.liveProcs()

	var stopped []string
	for _, p := range procs {
		if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			e.log.Debugf("signal pid=%d: %v", p.pid, err)
		}
		if !p.direct {
			stopped = append(stopped, p.name)
		}
	}
	if len(stopped) > 0 {
		sort.Strings(stopped)
		e.out.Warn("stopped: " + strings.Join(stopped, ", "))
	}

	grace := e.cfg.GracePeriod
	if grace <= 0 {
		grace = time.Second
	}
	time.Sleep(grace)

	for _, p := range e.liveProcs() {
		e.log.Warnf("task %q (pid=%d) did not stop, killing", p.name, p.pid)
		_ = p.cmd.Process.Kill()
	}

	// os.Exit never returns; the close only runs under a test exit hook
	// and releases Execute from awaitShutdown.
	e.exit(0)
	close(e.shutdownDone)
}
