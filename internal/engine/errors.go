package engine

import (
	"fmt"
	"strings"
)

// StuckRunError reports a scheduling loop that can no longer make progress:
// no node is runnable, none is running, yet uncompleted nodes remain. This
// surfaces even under continue-on-error, since the run cannot converge.
type StuckRunError struct {
	NodeIDs []int
	Names   []string
}

func (e *StuckRunError) Error() string {
	ids := make([]string, 0, len(e.NodeIDs))
	for _, id := range e.NodeIDs {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	msg := fmt.Sprintf("run is stuck: nodes [%s] can never become runnable", strings.Join(ids, ", "))
	if len(e.Names) > 0 {
		msg += fmt.Sprintf(" (tasks: %s)", strings.Join(e.Names, ", "))
	}
	return msg
}

// TaskExecutionError reports a subprocess that exited non-zero or failed to
// spawn.
type TaskExecutionError struct {
	Task string
	Err  error
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

func (e *TaskExecutionError) Unwrap() error { return e.Err }
