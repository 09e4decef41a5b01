package algorithms

import (
	"math"

	"github.com/graphomics/uniprot-kg/pkg/graph"
)

// PageRank defaults. The damping factor and convergence tolerance match
// the values commonly used for citation-style graphs.
const (
	DefaultDamping   = 0.85
	DefaultTolerance = 1e-6
	DefaultMaxIter   = 100
)

// PageRank computes a weighted PageRank score for every node of g and
// returns the scores keyed by node id. Edge weights default to 1 when
// unset; the mass of dangling nodes is redistributed uniformly. The
// returned scores sum to 1 for any non-empty graph.
func PageRank(g *graph.Graph, damping, tol float64, maxIter int) map[int]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	ranks := make(map[int]float64, n)
	if n == 0 {
		return ranks
	}

	// Total outgoing weight per node, for normalizing contributions.
	outWeight := make(map[int]float64, n)
	for _, e := range g.Edges() {
		outWeight[e.Source] += edgeWeight(e)
	}

	for _, node := range nodes {
		ranks[node.ID] = 1.0 / float64(n)
	}

	base := (1.0 - damping) / float64(n)
	for iter := 0; iter < maxIter; iter++ {
		next := make(map[int]float64, n)

		// Rank of nodes with no outgoing edges is spread evenly.
		var dangling float64
		for _, node := range nodes {
			if outWeight[node.ID] == 0 {
				dangling += ranks[node.ID]
			}
			next[node.ID] = base
		}
		share := damping * dangling / float64(n)
		for _, node := range nodes {
			next[node.ID] += share
		}

		for _, e := range g.Edges() {
			contribution := ranks[e.Source] * edgeWeight(e) / outWeight[e.Source]
			next[e.Target] += damping * contribution
		}

		var delta float64
		for id, r := range next {
			delta += math.Abs(r - ranks[id])
		}
		ranks = next
		if delta < tol {
			break
		}
	}

	return ranks
}

func edgeWeight(e *graph.Edge) float64 {
	if e.Weight > 0 {
		return e.Weight
	}
	return 1.0
}
