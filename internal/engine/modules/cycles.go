// # internal/engine/modules/cycles.go
package modules

import (
	"sort"

	"fence/internal/core/config"
)

// findCycle returns one cycle in the declared dependency graph, or nil.
// Utility modules and dependencies on undeclared paths do not participate.
// Traversal order is sorted so the reported cycle is deterministic.
func findCycle(mods []config.ModuleConfig) []string {
	utility := make(map[string]bool, len(mods))
	for _, m := range mods {
		utility[m.Path] = m.Utility
	}

	adjacency := make(map[string][]string, len(mods))
	var order []string
	for _, m := range mods {
		if m.Utility {
			continue
		}
		order = append(order, m.Path)
		for _, dep := range m.DependsOn {
			isUtility, declared := utility[dep.Path]
			if !declared || isUtility {
				continue
			}
			adjacency[m.Path] = append(adjacency[m.Path], dep.Path)
		}
		sort.Strings(adjacency[m.Path])
	}
	sort.Strings(order)

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	for _, path := range order {
		if !visited[path] {
			if cycle := walkCycles(path, adjacency, visited, onStack, nil); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func walkCycles(curr string, adjacency map[string][]string, visited, onStack map[string]bool, path []string) []string {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range adjacency[curr] {
		if onStack[next] {
			cycleStart := -1
			for i, mod := range path {
				if mod == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]string, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				return cycle
			}
		} else if !visited[next] {
			if cycle := walkCycles(next, adjacency, visited, onStack, path); cycle != nil {
				return cycle
			}
		}
	}

	onStack[curr] = false
	return nil
}
