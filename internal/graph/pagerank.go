package graph

// PageRank runs the classic power iteration over the directed positive
// multigraph: uniform teleport (1-d)/N and dangling mass redistributed
// uniformly each round.
func (g *Graph) PageRank(iterations int, damping float64) []float64 {
	n := g.N()
	if n == 0 {
		return nil
	}
	rank := make([]float64, n)
	next := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}
	teleport := (1 - damping) / float64(n)

	for iter := 0; iter < iterations; iter++ {
		for i := range next {
			next[i] = teleport
		}
		dangling := 0.0
		for v := 0; v < n; v++ {
			if len(g.out[v]) == 0 {
				dangling += rank[v]
				continue
			}
			share := damping * rank[v] / float64(len(g.out[v]))
			for _, t := range g.out[v] {
				next[t] += share
			}
		}
		spread := damping * dangling / float64(n)
		for i := range next {
			next[i] += spread
		}
		rank, next = next, rank
	}
	return rank
}
