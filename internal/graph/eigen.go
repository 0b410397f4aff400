package graph

import "math"

// Eigenvector runs power iteration over the undirected projection: v <- A·v
// followed by L2 normalization, starting from all-ones.
func (g *Graph) Eigenvector(iterations int) []float64 {
	n := g.N()
	if n == 0 {
		return nil
	}
	vec := make([]float64, n)
	next := make([]float64, n)
	for i := range vec {
		vec[i] = 1
	}

	for iter := 0; iter < iterations; iter++ {
		for i := range next {
			next[i] = 0
		}
		for v := 0; v < n; v++ {
			for _, w := range g.adj[v] {
				next[v] += vec[w]
			}
		}
		norm := 0.0
		for _, x := range next {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			// isolated graph, keep zeros
			copy(vec, next)
			break
		}
		for i := range next {
			next[i] /= norm
		}
		vec, next = next, vec
	}
	return vec
}
