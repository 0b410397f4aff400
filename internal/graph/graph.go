package graph

import (
	"github.com/ringwatch/ringwatch/internal/model"
)

// ---------------------------------------------------------------------------
// Interaction Graph — interned positive-action graph plus its undirected
// projection for the structural algorithms.
// ---------------------------------------------------------------------------

// Graph holds identifiers only; adjacency is stored as int32 indexes via an
// interning table, so no ownership cycles arise and memory stays ~O(|E|).
type Graph struct {
	index map[string]int32
	names []string

	// out is the directed positive-action multigraph: one entry per edge.
	out [][]int32
	// outSet is the simple (deduplicated) positive out-neighbor set,
	// insertion-ordered.
	outSet []map[int32]struct{}
	// adj is the simple undirected projection, insertion-ordered.
	adj     [][]int32
	adjSeen []map[int32]struct{}

	edgeCount int
}

// Build traverses the log once, interning every endpoint on first sighting
// (node order is therefore deterministic given input order) and
// materializing one directed edge per positive action.
func Build(logs []model.Event, positive map[string]bool) (*Graph, model.Elements) {
	g := &Graph{index: make(map[string]int32)}
	var edges []model.Edge

	for i := range logs {
		ev := &logs[i]
		var a, t int32 = -1, -1
		if ev.Actor != "" {
			a = g.intern(ev.Actor)
		}
		if ev.Target != "" {
			t = g.intern(ev.Target)
		}
		if a < 0 || t < 0 || !positive[ev.Action] {
			continue
		}
		g.out[a] = append(g.out[a], t)
		g.edgeCount++
		if _, ok := g.outSet[a][t]; !ok {
			g.outSet[a][t] = struct{}{}
		}
		g.addUndirected(a, t)
		g.addUndirected(t, a)
		edges = append(edges, model.Edge{Source: ev.Actor, Target: ev.Target, Action: ev.Action})
	}

	nodes := make([]model.Node, len(g.names))
	for i, name := range g.names {
		nodes[i] = model.Node{ID: name, Label: name}
	}
	return g, model.Elements{Nodes: nodes, Edges: edges}
}

func (g *Graph) intern(name string) int32 {
	if id, ok := g.index[name]; ok {
		return id
	}
	id := int32(len(g.names))
	g.index[name] = id
	g.names = append(g.names, name)
	g.out = append(g.out, nil)
	g.outSet = append(g.outSet, make(map[int32]struct{}))
	g.adj = append(g.adj, nil)
	g.adjSeen = append(g.adjSeen, make(map[int32]struct{}))
	return id
}

func (g *Graph) addUndirected(a, b int32) {
	if a == b {
		return
	}
	if _, ok := g.adjSeen[a][b]; ok {
		return
	}
	g.adjSeen[a][b] = struct{}{}
	g.adj[a] = append(g.adj[a], b)
}

// N returns the node count.
func (g *Graph) N() int { return len(g.names) }

// EdgeCount returns the directed multigraph edge count.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Name returns the identifier for a node index.
func (g *Graph) Name(i int32) string { return g.names[i] }

// Index resolves an identifier to its node index.
func (g *Graph) Index(name string) (int32, bool) {
	id, ok := g.index[name]
	return id, ok
}

// Degree is the simple undirected degree of a node.
func (g *Graph) Degree(i int32) int { return len(g.adj[i]) }

// PositiveOutDegree is the number of distinct positive-action targets.
func (g *Graph) PositiveOutDegree(i int32) int { return len(g.outSet[i]) }

// Mutual counts positive out-neighbors that also point back: the
// reciprocated subset of the actor's positive edges.
func (g *Graph) Mutual(i int32) int {
	n := 0
	for t := range g.outSet[i] {
		if _, back := g.outSet[t][i]; back {
			n++
		}
	}
	return n
}
