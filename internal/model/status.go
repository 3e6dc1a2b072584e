package model

import "fmt"

// NodeStatus is the lifecycle state of an ExecutionNode during a run.
type NodeStatus string

const (
	NodeStatusPending   NodeStatus = "pending"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusFailed    NodeStatus = "failed"
)

var terminalNodeStatuses = map[NodeStatus]bool{
	NodeStatusCompleted: true,
	NodeStatusFailed:    true,
}

// Node lifecycle: pending → running → {completed | failed}.
// failed is terminal; dependents of a failed node stay pending forever
// unless the run aborts or is declared stuck.
var validNodeTransitions = map[NodeStatus]map[NodeStatus]bool{
	NodeStatusPending: {
		NodeStatusRunning: true,
	},
	NodeStatusRunning: {
		NodeStatusCompleted: true,
		NodeStatusFailed:    true,
	},
}

// IsTerminalNodeStatus reports whether a node cannot leave the given status.
func IsTerminalNodeStatus(s NodeStatus) bool {
	return terminalNodeStatuses[s]
}

// ValidateNodeTransition checks a node status transition.
func ValidateNodeTransition(from, to NodeStatus) error {
	if allowed, ok := validNodeTransitions[from]; ok && allowed[to] {
		return nil
	}
	return fmt.Errorf("invalid node transition: %s -> %s", from, to)
}
