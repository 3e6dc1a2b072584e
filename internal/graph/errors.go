package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Path holds the offending names in
// forward order, first name repeated at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// UnsupportedNestingError reports a manifest command that invokes the
// orchestrator on an already-orchestrated command chain. Rejected by design,
// never flattened.
type UnsupportedNestingError struct {
	Task    string
	Command string
}

func (e *UnsupportedNestingError) Error() string {
	return fmt.Sprintf("task %q nests an orchestration invocation inside another (%q); chained orchestration is not supported", e.Task, e.Command)
}
