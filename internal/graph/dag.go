package graph

// topoSort orders names dependency-first using Kahn's algorithm over the
// dependsOn map (name -> names it depends on). Names missing from the node
// set are skipped; missing nested dependencies are tolerated upstream.
//
// On cycle detection a DFS reconstructs one offending path for the
// CycleError.
func topoSort(names []string, dependsOn map[string][]string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	nodeSet := make(map[string]bool, len(names))
	for _, n := range names {
		nodeSet[n] = true
	}

	inDegree := make(map[string]int, len(names))
	dependents := make(map[string][]string)
	for _, n := range names {
		inDegree[n] = 0
	}
	for node, deps := range dependsOn {
		if !nodeSet[node] {
			continue
		}
		for _, dep := range deps {
			if !nodeSet[dep] {
				continue
			}
			inDegree[node]++
			dependents[dep] = append(dependents[dep], node)
		}
	}

	var queue []string
	for _, n := range names {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	sorted := make([]string, 0, len(names))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) == len(names) {
		return sorted, nil
	}
	return nil, &CycleError{Path: findCyclePath(names, dependsOn, inDegree)}
}

// findCyclePath walks the residual nodes (non-zero in-degree after Kahn's
// pass) with three-color DFS and reconstructs one cycle in forward order.
func findCyclePath(names []string, dependsOn map[string][]string, inDegree map[string]int) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // on current path
		black = 2 // finished
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var cyclePath []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray
		for _, dep := range dependsOn[node] {
			if color[dep] == gray {
				cyclePath = []string{dep}
				for current := node; current != dep; current = parent[current] {
					cyclePath = append(cyclePath, current)
				}
				cyclePath = append(cyclePath, dep)
				for i, j := 0, len(cyclePath)-1; i < j; i, j = i+1, j-1 {
					cyclePath[i], cyclePath[j] = cyclePath[j], cyclePath[i]
				}
				return true
			}
			if color[dep] == white {
				parent[dep] = node
				if dfs(dep) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for _, n := range names {
		if inDegree[n] > 0 && color[n] == white {
			if dfs(n) {
				return cyclePath
			}
		}
	}
	return []string{"(cycle detected)"}
}
