package manifest

import (
	"fmt"
	"strings"
)

// CycleError represents a load cycle between modules.
type CycleError struct {
	Cycle []string // Module names forming the cycle
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("module cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// DetectCycles checks for cycles in the module graph.
// Returns nil if no cycles are found, or a CycleError describing the first cycle found.
func (g *Graph) DetectCycles() error {
	// 0 = unvisited, 1 = in progress, 2 = done
	state := make(map[string]int)
	path := make([]string, 0)

	var visit func(node *Node) error
	visit = func(node *Node) error {
		if state[node.Module] == 2 {
			return nil
		}
		if state[node.Module] == 1 {
			cycleStart := -1
			for i, p := range path {
				if p == node.Module {
					cycleStart = i
					break
				}
			}
			if cycleStart >= 0 {
				cycle := append(append([]string{}, path[cycleStart:]...), node.Module)
				return &CycleError{Cycle: cycle}
			}
			return &CycleError{Cycle: []string{node.Module}}
		}

		state[node.Module] = 1
		path = append(path, node.Module)

		for _, child := range sortedChildren(node) {
			if err := visit(child); err != nil {
				return err
			}
		}

		state[node.Module] = 2
		path = path[:len(path)-1]
		return nil
	}

	// A manifest has no single root, so every node starts a traversal.
	for _, node := range g.sortedNodes() {
		if err := visit(node); err != nil {
			return err
		}
	}
	return nil
}

// FindAllCycles finds all cycles in the graph.
// This is more expensive than DetectCycles but provides complete information.
func (g *Graph) FindAllCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make([]string, 0)

	var dfs func(node *Node)
	dfs = func(node *Node) {
		visited[node.Module] = true
		recStack[node.Module] = true
		path = append(path, node.Module)

		for _, child := range sortedChildren(node) {
			if !visited[child.Module] {
				dfs(child)
			} else if recStack[child.Module] {
				cycleStart := -1
				for i, p := range path {
					if p == child.Module {
						cycleStart = i
						break
					}
				}
				if cycleStart >= 0 {
					cycle := make([]string, len(path)-cycleStart+1)
					copy(cycle, path[cycleStart:])
					cycle[len(cycle)-1] = child.Module
					cycles = append(cycles, cycle)
				}
			}
		}

		path = path[:len(path)-1]
		recStack[node.Module] = false
	}

	for _, node := range g.sortedNodes() {
		if !visited[node.Module] {
			dfs(node)
		}
	}
	return cycles
}

// TopologicalSort returns nodes in load order (dependencies before dependents).
// Returns an error if a cycle is detected.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	var result []*Node
	visited := make(map[string]bool)

	var visit func(node *Node)
	visit = func(node *Node) {
		if visited[node.Module] {
			return
		}
		visited[node.Module] = true
		for _, child := range sortedChildren(node) {
			visit(child)
		}
		result = append(result, node)
	}

	for _, node := range g.sortedNodes() {
		visit(node)
	}
	return result, nil
}
