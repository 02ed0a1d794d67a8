package derive

import "github.com/goliatone/go-formkit/pkg/model"

// DetectCycles walks the derivation graph depth first in schema order and
// returns the loops it closes, each as the field ids along the loop with the
// first id repeated at the end (a self reference reads [id id]). Only derived
// fields contribute edges. An empty result means the graph is acyclic.
func DetectCycles(schema model.FormSchema) [][]string {
	parents := make(map[string][]string, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.IsDerived {
			parents[field.ID] = field.ParentIDs
		}
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(parents))
	var (
		stack  []string
		cycles [][]string
	)

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		stack = append(stack, id)
		for _, parent := range parents[id] {
			switch state[parent] {
			case unvisited:
				if _, derived := parents[parent]; derived {
					visit(parent)
				}
			case active:
				cycles = append(cycles, loopFrom(stack, parent))
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, field := range schema.Fields {
		if _, derived := parents[field.ID]; derived && state[field.ID] == unvisited {
			visit(field.ID)
		}
	}
	return cycles
}

func loopFrom(stack []string, start string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			loop := append([]string(nil), stack[i:]...)
			return append(loop, start)
		}
	}
	return []string{start, start}
}
