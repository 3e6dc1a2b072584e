// Package graph builds the validated, topologically ordered execution graph
// from resolved target names and the task manifest.
//
// Discovery is recursive: a manifest command that is itself an orchestration
// invocation contributes its bracketed patterns as dependencies, which are
// resolved and descended into in turn. One node exists per unique task name
// no matter how many paths reach it.
package graph

import (
	"sort"

	"github.com/weftlabs/weft/internal/diag"
	"github.com/weftlabs/weft/internal/model"
	"github.com/weftlabs/weft/internal/pattern"
)

// DirectTaskName names the synthetic node created for a trailing command.
// Its output bypasses prefixing.
const DirectTaskName = "command"

// Builder performs dependency discovery and node assembly for one run.
type Builder struct {
	manifest *model.Manifest
	resolver *pattern.Resolver
	log      *diag.Logger

	tasks     map[string]*model.Task
	kinds     map[string]classified
	dependsOn map[string][]string
	order     []string
}

// NewBuilder creates a Builder over a loaded manifest.
func NewBuilder(m *model.Manifest, r *pattern.Resolver, log *diag.Logger) *Builder {
	return &Builder{
		manifest:  m,
		resolver:  r,
		log:       log,
		tasks:     make(map[string]*model.Task),
		kinds:     make(map[string]classified),
		dependsOn: make(map[string][]string),
	}
}

// Build discovers the dependency closure of the targets, validates
// acyclicity, and returns execution nodes in dependency-first order.
// trailing, when non-empty, becomes one extra node depending on every
// top-level target.
func (b *Builder) Build(targets []pattern.Target, trailing string) ([]*model.ExecutionNode, error) {
	if trailing != "" && IsOrchestration(trailing) {
		return nil, &UnsupportedNestingError{Task: DirectTaskName, Command: trailing}
	}

	for _, t := range targets {
		if err := b.discover(t.Name, map[string]bool{}); err != nil {
			return nil, err
		}
	}
	b.addChainEdges(targets)

	sorted, err := topoSort(b.order, b.dependsOn)
	if err != nil {
		return nil, err
	}

	nodes := make([]*model.ExecutionNode, 0, len(sorted)+1)
	idByName := make(map[string]int, len(sorted))
	nextID := 1

	for _, name := range sorted {
		task := b.tasks[name]
		node := &model.ExecutionNode{
			ID:    nextID,
			Tasks: []model.Task{*task},
		}
		for _, dep := range b.dependsOn[name] {
			// Missing nested dependencies were logged and skipped during
			// discovery; only materialized names carry edges.
			if id, ok := idByName[dep]; ok {
				node.Dependencies = append(node.Dependencies, id)
			}
		}
		sort.Ints(node.Dependencies)
		idByName[name] = nextID
		nextID++
		nodes = append(nodes, node)
	}

	if trailing != "" {
		direct := &model.ExecutionNode{
			ID: nextID,
			Tasks: []model.Task{{
				Name:    DirectTaskName,
				Command: trailing,
				Direct:  true,
			}},
		}
		// The trailing command runs after the entire selected subgraph: it
		// depends on every top-level target, not just the leaves.
		seen := make(map[int]bool)
		for _, t := range targets {
			if id, ok := idByName[t.Name]; ok && !seen[id] {
				seen[id] = true
				direct.Dependencies = append(direct.Dependencies, id)
			}
		}
		sort.Ints(direct.Dependencies)
		nodes = append(nodes, direct)
	}

	return nodes, nil
}

// discover walks one target name depth-first. path is the per-branch visited
// set guarding against runaway recursion on one traversal path; the tasks
// map is the global dedup that guarantees one Task per name.
func (b *Builder) discover(name string, path map[string]bool) error {
	if path[name] {
		return nil
	}
	if _, done := b.tasks[name]; done {
		return nil
	}

	raw, ok := b.manifest.Lookup(name)
	if !ok {
		// Tolerated for nested names; explicit top-level targets were
		// already strict-resolved against the manifest.
		b.log.Warnf("task %q not in manifest, omitting", name)
		return nil
	}

	c, err := b.classify(name, raw)
	if err != nil {
		return err
	}

	b.tasks[name] = &model.Task{Name: name, Command: c.command}
	b.order = append(b.order, name)

	if c.leaf {
		return nil
	}

	deps, err := b.resolver.Resolve(c.patterns, false)
	if err != nil {
		return err
	}

	path[name] = true
	defer delete(path, name)

	for _, d := range deps {
		b.addEdge(name, d.Name)
		if err := b.discover(d.Name, path); err != nil {
			return err
		}
	}
	b.addChainEdges(deps)
	return nil
}

// classify memoizes command classification per task name so repeated
// discovery paths do not re-parse.
func (b *Builder) classify(name, raw string) (classified, error) {
	if c, ok := b.kinds[name]; ok {
		return c, nil
	}
	c, err := classifyCommand(name, raw)
	if err != nil {
		return classified{}, err
	}
	b.kinds[name] = c
	return c, nil
}

func (b *Builder) addEdge(from, to string) {
	for _, existing := range b.dependsOn[from] {
		if existing == to {
			return
		}
	}
	b.dependsOn[from] = append(b.dependsOn[from], to)
}

// addChainEdges adds the sequential-group constraints from "->" chains:
// every member of group N+1 depends on every member of group N. Additive to
// whatever edges discovery created.
func (b *Builder) addChainEdges(targets []pattern.Target) {
	groups := make(map[int]map[int][]string)
	for _, t := range targets {
		if t.Chain < 0 {
			continue
		}
		if groups[t.Chain] == nil {
			groups[t.Chain] = make(map[int][]string)
		}
		groups[t.Chain][t.Group] = append(groups[t.Chain][t.Group], t.Name)
	}

	for _, byGroup := range groups {
		indices := make([]int, 0, len(byGroup))
		for g := range byGroup {
			indices = append(indices, g)
		}
		sort.Ints(indices)
		for i := 1; i < len(indices); i++ {
			for _, later := range byGroup[indices[i]] {
				for _, earlier := range byGroup[indices[i-1]] {
					b.addEdge(later, earlier)
				}
			}
		}
	}
}
