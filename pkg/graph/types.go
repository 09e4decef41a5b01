package graph

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind labels a node with the UniProt structure it was extracted from.
type Kind string

const (
	KindProtein   Kind = "Protein"
	KindFullName  Kind = "FullName"
	KindGene      Kind = "Gene"
	KindOrganism  Kind = "Organism"
	KindReference Kind = "Reference"
	KindAuthor    Kind = "Author"
	KindFeature   Kind = "Feature"
)

// Relation labels used on edges.
const (
	RelHasFullName  = "HAS_FULL_NAME"
	RelFromGene     = "FROM_GENE"
	RelInOrganism   = "IN_ORGANISM"
	RelHasReference = "HAS_REFERENCE"
	RelHasAuthor    = "HAS_AUTHOR"
	RelHasFeature   = "HAS_FEATURE"
)

// Property is a single key/value attribute line. Properties are kept in
// declaration order so that derived attribute strings are stable.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node is a vertex of the extracted graph. IDs are synthetic integers
// allocated by the owning Graph, unique across the whole parse run.
type Node struct {
	ID       int        `json:"id"`
	Kind     Kind       `json:"kind"`
	Props    []Property `json:"props,omitempty"`
	PageRank float64    `json:"pagerank,omitempty"`
}

// Attr renders the node's properties as newline-joined "key: value" lines.
func (n *Node) Attr() string {
	return joinProps(n.Props)
}

// Edge is a directed edge from a structural owner node to a detail node.
// Rel carries the relation label; Props carries optional extra lines
// (e.g. status: primary on gene edges).
type Edge struct {
	Source int        `json:"source"`
	Target int        `json:"target"`
	Rel    string     `json:"rel"`
	Props  []Property `json:"props,omitempty"`
	Weight float64    `json:"weight,omitempty"`
}

// Attr renders the edge label: the relation followed by any property lines.
func (e *Edge) Attr() string {
	if len(e.Props) == 0 {
		return e.Rel
	}
	return e.Rel + "\n" + joinProps(e.Props)
}

func joinProps(props []Property) string {
	lines := make([]string, 0, len(props))
	for _, p := range props {
		lines = append(lines, p.Key+": "+p.Value)
	}
	return strings.Join(lines, "\n")
}

// Graph is an in-memory directed attributed graph. It owns the node id
// counter, so independent parses never share state. A Graph has a single
// writer for its lifetime; it is not safe for concurrent mutation.
type Graph struct {
	nodes  []*Node
	edges  []*Edge
	byID   map[int]*Node
	out    map[int][]*Edge
	in     map[int][]*Edge
	nextID int
}

// NewGraph returns an empty graph with its id counter at zero.
func NewGraph() *Graph {
	return &Graph{
		byID: make(map[int]*Node),
		out:  make(map[int][]*Edge),
		in:   make(map[int][]*Edge),
	}
}

// NewNode allocates the next node id and adds a node of the given kind.
func (g *Graph) NewNode(kind Kind, props ...Property) *Node {
	n := &Node{ID: g.nextID, Kind: kind, Props: props}
	g.nextID++
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	return n
}

// AddNodeWithID inserts a node carrying an externally assigned id. Used when
// rebuilding a graph from an interchange file; the counter is advanced past
// the id so later NewNode calls stay unique.
func (g *Graph) AddNodeWithID(n *Node) error {
	if _, ok := g.byID[n.ID]; ok {
		return errors.Errorf("graph: duplicate node id %d", n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	if n.ID >= g.nextID {
		g.nextID = n.ID + 1
	}
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(source, target int, rel string, props ...Property) (*Edge, error) {
	if _, ok := g.byID[source]; !ok {
		return nil, errors.Errorf("graph: edge source %d does not exist", source)
	}
	if _, ok := g.byID[target]; !ok {
		return nil, errors.Errorf("graph: edge target %d does not exist", target)
	}
	e := &Edge{Source: source, Target: target, Rel: rel, Props: props}
	g.edges = append(g.edges, e)
	g.out[source] = append(g.out[source], e)
	g.in[target] = append(g.in[target], e)
	return e, nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int) *Node {
	return g.byID[id]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.edges }

// OutEdges returns the edges leaving the given node.
func (g *Graph) OutEdges(id int) []*Edge { return g.out[id] }

// InEdges returns the edges entering the given node.
func (g *Graph) InEdges(id int) []*Edge { return g.in[id] }

// OutDegree returns the number of edges leaving the given node.
func (g *Graph) OutDegree(id int) int { return len(g.out[id]) }

// InDegree returns the number of edges entering the given node.
func (g *Graph) InDegree(id int) int { return len(g.in[id]) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodesByKind returns all nodes of the given kind in insertion order.
func (g *Graph) NodesByKind(kind Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
