package graph

// Component is a connected component of the undirected projection.
type Component struct {
	ID            int
	Members       []int32
	InternalEdges int
	ExternalEdges int
	Density       float64
	Conductance   float64
}

// Components discovers connected components by iterative DFS and keeps
// those with at least minSize members. IDs increase in discovery order,
// which follows node insertion order and is therefore deterministic.
func (g *Graph) Components(minSize int) []Component {
	visited := make([]bool, g.N())
	var comps []Component
	nextID := 1

	for start := int32(0); int(start) < g.N(); start++ {
		if visited[start] {
			continue
		}
		var members []int32
		stack := []int32{start}
		visited[start] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, v)
			for _, w := range g.adj[v] {
				if !visited[w] {
					visited[w] = true
					stack = append(stack, w)
				}
			}
		}
		if len(members) < minSize {
			continue
		}
		comps = append(comps, g.measure(nextID, members))
		nextID++
	}
	return comps
}

// measure computes edge counts over the simple undirected projection: each
// neighboring pair contributes once regardless of multi-edge multiplicity.
func (g *Graph) measure(id int, members []int32) Component {
	inSet := make(map[int32]struct{}, len(members))
	for _, m := range members {
		inSet[m] = struct{}{}
	}
	internal2, external := 0, 0
	for _, m := range members {
		for _, w := range g.adj[m] {
			if _, ok := inSet[w]; ok {
				internal2++
			} else {
				external++
			}
		}
	}
	internal := internal2 / 2

	n := len(members)
	density := 0.0
	if pairs := n * (n - 1) / 2; pairs > 0 {
		density = float64(internal) / float64(pairs)
	}
	conductance := 0.0
	if internal+external > 0 {
		conductance = float64(external) / float64(internal+external)
	}
	return Component{
		ID:            id,
		Members:       members,
		InternalEdges: internal,
		ExternalEdges: external,
		Density:       density,
		Conductance:   conductance,
	}
}
