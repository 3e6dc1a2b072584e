// Package engine schedules execution nodes and supervises their
// subprocesses.
//
// A single coordinating goroutine drives the loop: compute the runnable
// batch (all dependencies completed), launch it concurrently, await joint
// completion, repeat. Task work happens in OS subprocesses; the engine only
// supervises them.
package engine

import (
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/weftlabs/weft/internal/diag"
	"github.com/weftlabs/weft/internal/logger"
	"github.com/weftlabs/weft/internal/model"
)

// Engine runs one set of execution nodes to completion. It is single-use:
// create a fresh Engine per run so signal handlers and the process table
// never leak across runs.
type Engine struct {
	cfg model.RunConfig
	out *logger.Logger
	log *diag.Logger

	mu     sync.Mutex
	procs  map[int]*trackedProc
	status map[int]model.NodeStatus
	failed []string

	aborted atomic.Bool

	// shutdownDone closes once the signal teardown has finished stopping
	// subprocesses, just before exit is called.
	shutdownDone chan struct{}

	// exit is swapped out in tests; the shutdown path terminates the whole
	// process once live subprocesses are torn down.
	exit func(code int)
}

// New creates an Engine for one run.
func New(cfg model.RunConfig, out *logger.Logger, log *diag.Logger) *Engine {
	return &Engine{
		cfg:          cfg,
		out:          out,
		log:          log,
		procs:        make(map[int]*trackedProc),
		status:       make(map[int]model.NodeStatus),
		shutdownDone: make(chan struct{}),
		exit:         os.Exit,
	}
}

// Execute runs the nodes honoring dependency order and the configured
// failure policy. Executing zero nodes is a no-op success.
func (e *Engine) Execute(nodes []*model.ExecutionNode) error {
	if len(nodes) == 0 {
		return nil
	}

	for _, n := range nodes {
		e.status[n.ID] = model.NodeStatusPending
		for _, t := range n.Tasks {
			if !t.Direct {
				e.out.RegisterTask(t.Name)
			}
		}
	}

	stop := e.watchSignals()
	defer stop()

	for {
		if e.aborted.Load() {
			e.log.Infof("run aborted before next batch")
			e.awaitShutdown()
			return nil
		}

		batch := e.runnable(nodes)
		if len(batch) == 0 {
			if e.terminalCount() == len(nodes) {
				break
			}
			return e.stuckError(nodes)
		}

		var g errgroup.Group
		for _, n := range batch {
			n := n
			e.setStatus(n.ID, model.NodeStatusRunning)
			e.log.Debugf("node %d runnable, launching tasks %v", n.ID, n.Names())
			g.Go(func() error { return e.runNode(n) })
		}
		// Joint completion: every node in the batch finishes before the
		// next batch is computed, regardless of individual failures.
		if err := g.Wait(); err != nil {
			// Tasks torn down by the signal handler are not run failures;
			// the teardown owns the process exit status.
			if e.aborted.Load() {
				e.awaitShutdown()
				return nil
			}
			if !e.cfg.ContinueOnError {
				return err
			}
		}
	}

	if len(e.failed) > 0 {
		sort.Strings(e.failed)
		e.out.Warn("completed with failed tasks: " + strings.Join(e.failed, ", "))
	}
	return nil
}

// awaitShutdown blocks until the signal teardown finishes. In the real
// binary the teardown exits the process with status 0 before this ever
// unblocks; tests swap the exit hook and observe Execute return nil.
func (e *Engine) awaitShutdown() {
	<-e.shutdownDone
}

// NodeStatus reports a node's current state.
func (e *Engine) NodeStatus(id int) model.NodeStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status[id]
}

// runnable returns every node that is pending with all dependencies
// completed. A dependency that failed never lands in completed, so its
// dependents stay pending forever.
func (e *Engine) runnable(nodes []*model.ExecutionNode) []*model.ExecutionNode {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*model.ExecutionNode
	for _, n := range nodes {
		if e.status[n.ID] != model.NodeStatusPending {
			continue
		}
		ready := true
		for _, dep := range n.Dependencies {
			if e.status[dep] != model.NodeStatusCompleted {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, n)
		}
	}
	return out
}

// runNode executes one node's tasks sequentially or concurrently and records
// the terminal status.
func (e *Engine) runNode(n *model.ExecutionNode) error {
	var nodeErr error

	if n.Sequential {
		for _, t := range n.Tasks {
			// Abort stops launching new sequential steps; in-flight work is
			// handled by the signal teardown.
			if e.aborted.Load() {
				break
			}
			if err := e.runTask(t); err != nil {
				e.recordFailure(t.Name)
				if nodeErr == nil {
					nodeErr = err
				}
				if !e.cfg.ContinueOnError {
					break
				}
			}
		}
	} else {
		var g errgroup.Group
		for _, t := range n.Tasks {
			t := t
			g.Go(func() error {
				if err := e.runTask(t); err != nil {
					e.recordFailure(t.Name)
					return err
				}
				return nil
			})
		}
		// Wait returns after every task finished, carrying the first error.
		nodeErr = g.Wait()
	}

	if nodeErr != nil {
		e.setStatus(n.ID, model.NodeStatusFailed)
		e.log.Warnf("node %d failed: %v", n.ID, nodeErr)
		return nodeErr
	}
	e.setStatus(n.ID, model.NodeStatusCompleted)
	e.log.Debugf("node %d completed", n.ID)
	return nil
}

func (e *Engine) setStatus(id int, s model.NodeStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status[id] = s
}

func (e *Engine) recordFailure(task string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = append(e.failed, task)
}

func (e *Engine) terminalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, s := range e.status {
		if model.IsTerminalNodeStatus(s) {
			count++
		}
	}
	return count
}

func (e *Engine) stuckError(nodes []*model.ExecutionNode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	stuck := &StuckRunError{}
	for _, n := range nodes {
		if e.status[n.ID] == model.NodeStatusPending {
			stuck.NodeIDs = append(stuck.NodeIDs, n.ID)
			stuck.Names = append(stuck.Names, n.Names()...)
		}
	}
	sort.Ints(stuck.NodeIDs)
	return stuck
}
