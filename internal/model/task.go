// Package model defines the data structures shared by weft's manifest,
// graph builder, and execution engine.
package model

// Manifest is the loaded task manifest: a flat mapping of task name to raw
// shell command string, plus manifest-level environment overrides applied to
// every task. Immutable after load.
type Manifest struct {
	Entries map[string]string
	Env     map[string]string
}

// Lookup returns the raw command for a task name.
func (m *Manifest) Lookup(name string) (string, bool) {
	cmd, ok := m.Entries[name]
	return cmd, ok
}

// Task is one named, runnable shell command resolved from the manifest.
// Command is the final string to execute, after any nested orchestration
// invocation has been unwrapped. An empty Command means the task has nothing
// left to run itself (pure aggregation) and completes immediately.
type Task struct {
	Name    string
	Command string

	// Dependencies is kept for interface symmetry with the graph builder's
	// edge bookkeeping; the engine resolves ordering through node edges only.
	Dependencies []string

	// Direct marks the synthetic trailing-command task: its output bypasses
	// prefixing and is written straight to the process streams.
	Direct bool
}

// ExecutionNode is one scheduling unit: one or more tasks, the ids of the
// nodes it depends on, and a sequential/parallel flag for its own tasks.
// Nodes are created by the graph builder and never mutated afterwards; the
// engine owns them exclusively during a run.
type ExecutionNode struct {
	ID           int
	Tasks        []Task
	Dependencies []int
	Sequential   bool
}

// Names returns the task names of the node, for diagnostics.
func (n *ExecutionNode) Names() []string {
	out := make([]string, 0, len(n.Tasks))
	for _, t := range n.Tasks {
		out = append(out, t.Name)
	}
	return out
}
