package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/strata/internal/ir"
)

// CycleWarning represents a cycle among declaration names.
//
// Cycles through names are legal: they are closed by nominal references and
// never expanded by value. They are still worth reporting because a
// downstream generator must break them with indirection.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["User", "Team", "User"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeCycles performs static cycle analysis on a graph.
//
// The algorithm:
//  1. Build name → referenced names, over every revision of every node
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops as a cycle warning
//
// Nodes are visited in graph order, so the output is deterministic.
// An acyclic graph returns an empty warning list.
func AnalyzeCycles(g *ir.Graph) []CycleWarning {
	graph, order := buildDependencyGraph(g)

	sccs := tarjanSCC(graph, order)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	return warnings
}

// dependencyGraph maps a declaration name to the names it references.
type dependencyGraph map[string][]string

func buildDependencyGraph(g *ir.Graph) (dependencyGraph, []string) {
	graph := make(dependencyGraph, len(g.Nodes))
	order := make([]string, 0, len(g.Nodes))

	for _, n := range g.Nodes {
		from := string(n.Name)
		order = append(order, from)
		seen := make(map[string]bool)
		graph[from] = []string{}
		for _, entry := range n.Timeline.Entries() {
			for _, ref := range ir.References(entry.Value) {
				to := string(ref)
				if seen[to] {
					continue
				}
				seen[to] = true
				graph[from] = append(graph[from], to)
			}
		}
	}
	return graph, order
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Returns a list of SCCs, each listed from the root of the component.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph dependencyGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// Root of a component: pop it
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			// Popped innermost first; put the root in front
			for i, j := 0, len(scc)-1; i < j; i, j = i+1, j-1 {
				scc[i], scc[j] = scc[j], scc[i]
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
func cycleSCCToWarning(scc []string, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		name := scc[0]
		return CycleWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Self-referencing declaration: %s → %s", name, name),
			Level:   "info",
		}
	}

	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Reference cycle: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: Start at first node in SCC, follow edges to other SCC members,
// continue until we return to start node.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		// Prefer an unvisited member, fall back to closing the loop
		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && !visited[neighbor] {
				next = neighbor
				break
			}
		}
		if next == "" && hasEdge(graph, current, start) {
			next = start
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}

func hasEdge(graph dependencyGraph, from, to string) bool {
	for _, n := range graph[from] {
		if n == to {
			return true
		}
	}
	return false
}
