package graph

import "sort"

// fnv1a32 is the 32-bit FNV-1a hash used for deterministic source
// sampling. Fixed constants keep the sample stable across runs.
func fnv1a32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// Betweenness computes Brandes betweenness over the undirected projection
// from a deterministic sample of up to maxSources source nodes (chosen by
// FNV-1a hash of the identifier), scales by 1/|sample| and max-normalizes
// into [0,1]. Callers wanting exact values must replace this with a full
// Brandes pass.
func (g *Graph) Betweenness(maxSources int) []float64 {
	n := g.N()
	score := make([]float64, n)
	if n == 0 || maxSources <= 0 {
		return score
	}

	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		hi, hj := fnv1a32(g.names[order[i]]), fnv1a32(g.names[order[j]])
		if hi != hj {
			return hi < hj
		}
		return g.names[order[i]] < g.names[order[j]]
	})
	if len(order) > maxSources {
		order = order[:maxSources]
	}

	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int32, n)
	stack := make([]int32, 0, n)
	queue := make([]int32, 0, n)

	for _, s := range order {
		for i := 0; i < n; i++ {
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
			preds[i] = preds[i][:0]
		}
		stack = stack[:0]
		queue = queue[:0]

		sigma[s] = 1
		dist[s] = 0
		queue = append(queue, s)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range g.adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				score[w] += delta[w]
			}
		}
	}

	scale := 1.0 / float64(len(order))
	maxVal := 0.0
	for i := range score {
		score[i] *= scale
		if score[i] > maxVal {
			maxVal = score[i]
		}
	}
	if maxVal > 0 {
		for i := range score {
			score[i] /= maxVal
		}
	}
	return score
}
