package algorithms

import (
	"github.com/pkg/errors"

	"github.com/graphomics/uniprot-kg/pkg/graph"
)

type TraversalType string

const (
	BFS TraversalType = "BFS"
	DFS TraversalType = "DFS"
)

// Traverse walks the graph along outgoing edges from startID up to
// maxDepth levels and returns the visited nodes in traversal order.
func Traverse(g *graph.Graph, startID int, maxDepth int, traversalType TraversalType) ([]*graph.Node, error) {
	if g.Node(startID) == nil {
		return nil, errors.Errorf("traverse: start node %d does not exist", startID)
	}
	visited := make(map[int]bool)

	switch traversalType {
	case BFS:
		return bfs(g, startID, maxDepth, visited), nil
	case DFS:
		result := make([]*graph.Node, 0)
		dfs(g, startID, maxDepth, visited, &result)
		return result, nil
	default:
		return nil, errors.Errorf("traverse: unsupported traversal type %q", traversalType)
	}
}

// Subtree returns every node reachable from rootID along outgoing edges,
// the root included. For an extracted protein entry this is the entry's
// whole subtree.
func Subtree(g *graph.Graph, rootID int) ([]*graph.Node, error) {
	return Traverse(g, rootID, g.NodeCount(), BFS)
}

func bfs(g *graph.Graph, startID, maxDepth int, visited map[int]bool) []*graph.Node {
	queue := []int{startID}
	result := make([]*graph.Node, 0)
	depth := 0

	for len(queue) > 0 && depth <= maxDepth {
		levelSize := len(queue)
		for i := 0; i < levelSize; i++ {
			current := queue[0]
			queue = queue[1:]

			if visited[current] {
				continue
			}
			visited[current] = true
			result = append(result, g.Node(current))

			for _, e := range g.OutEdges(current) {
				if !visited[e.Target] {
					queue = append(queue, e.Target)
				}
			}
		}
		depth++
	}

	return result
}

func dfs(g *graph.Graph, currentID, maxDepth int, visited map[int]bool, result *[]*graph.Node) {
	if maxDepth < 0 || visited[currentID] {
		return
	}
	visited[currentID] = true
	*result = append(*result, g.Node(currentID))

	for _, e := range g.OutEdges(currentID) {
		if !visited[e.Target] {
			dfs(g, e.Target, maxDepth-1, visited, result)
		}
	}
}
