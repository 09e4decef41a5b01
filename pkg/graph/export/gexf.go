// Package export serializes extracted graphs to GEXF, the interchange
// format read by common graph visualization tools, annotating every node
// with a PageRank score first.
package export

import (
	"context"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/graphomics/uniprot-kg/pkg/graph"
	"github.com/graphomics/uniprot-kg/pkg/graph/algorithms"
)

const gexfNamespace = "http://www.gexf.net/1.2draft"

// GEXF writes a graph to a GEXF 1.2 document. Path is the output file;
// the PageRank parameters default to the algorithm package defaults.
type GEXF struct {
	Path      string
	Damping   float64
	Tolerance float64
	MaxIter   int

	logger *logrus.Logger
}

// NewGEXF creates an exporter writing to path.
func NewGEXF(path string, logger *logrus.Logger) *GEXF {
	if logger == nil {
		logger = logrus.New()
	}
	return &GEXF{
		Path:      path,
		Damping:   algorithms.DefaultDamping,
		Tolerance: algorithms.DefaultTolerance,
		MaxIter:   algorithms.DefaultMaxIter,
		logger:    logger,
	}
}

// Name implements graph.Stage.
func (x *GEXF) Name() string { return "gexf-export" }

// Run implements graph.Stage.
func (x *GEXF) Run(_ context.Context, g *graph.Graph) error {
	return x.Export(g)
}

// Export computes PageRank, stores it on every node, and writes the
// graph to x.Path. Edge structure is never mutated.
func (x *GEXF) Export(g *graph.Graph) error {
	f, err := os.Create(x.Path)
	if err != nil {
		return errors.Wrapf(err, "export: creating %s", x.Path)
	}
	defer f.Close()
	return x.Write(g, f)
}

// Write serializes g to w, annotating nodes with PageRank first.
func (x *GEXF) Write(g *graph.Graph, w io.Writer) error {
	ranks := algorithms.PageRank(g, x.Damping, x.Tolerance, x.MaxIter)
	for _, n := range g.Nodes() {
		n.PageRank = ranks[n.ID]
	}

	kinds := mapset.NewSet[string]()
	relations := mapset.NewSet[string]()

	doc := gexfDoc{
		XMLNS:   gexfNamespace,
		Version: "1.2",
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			AttrDecls: []gexfAttrDecls{
				{Class: "node", Attrs: []gexfAttrDecl{
					{ID: "kind", Title: "kind", Type: "string"},
					{ID: "attr", Title: "attr", Type: "string"},
					{ID: "pagerank", Title: "pagerank", Type: "double"},
				}},
				{Class: "edge", Attrs: []gexfAttrDecl{
					{ID: "attr", Title: "attr", Type: "string"},
				}},
			},
		},
	}

	for _, n := range g.Nodes() {
		kinds.Add(string(n.Kind))
		doc.Graph.Nodes.Nodes = append(doc.Graph.Nodes.Nodes, gexfNode{
			ID:    strconv.Itoa(n.ID),
			Label: string(n.Kind),
			AttValues: gexfAttValues{Values: []gexfAttValue{
				{For: "kind", Value: string(n.Kind)},
				{For: "attr", Value: n.Attr()},
				{For: "pagerank", Value: strconv.FormatFloat(n.PageRank, 'g', -1, 64)},
			}},
		})
	}

	for i, e := range g.Edges() {
		relations.Add(e.Rel)
		ge := gexfEdge{
			ID:     strconv.Itoa(i),
			Source: strconv.Itoa(e.Source),
			Target: strconv.Itoa(e.Target),
			AttValues: gexfAttValues{Values: []gexfAttValue{
				{For: "attr", Value: e.Attr()},
			}},
		}
		if e.Weight > 0 {
			ge.Weight = strconv.FormatFloat(e.Weight, 'g', -1, 64)
		}
		doc.Graph.Edges.Edges = append(doc.Graph.Edges.Edges, ge)
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "export: encoding gexf")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "export: writing gexf")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "export: writing gexf")
	}

	x.logger.WithFields(logrus.Fields{
		"nodes":     g.NodeCount(),
		"edges":     g.EdgeCount(),
		"kinds":     kinds.ToSlice(),
		"relations": relations.ToSlice(),
	}).Info("Exported graph to GEXF")
	return nil
}

// ReadFile reads a GEXF document previously written by Export back into
// a graph, preserving ids, kinds, attribute strings and PageRank scores.
func ReadFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "export: opening %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a GEXF document from r.
func Read(r io.Reader) (*graph.Graph, error) {
	var doc gexfDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "export: decoding gexf")
	}

	g := graph.NewGraph()
	for _, gn := range doc.Graph.Nodes.Nodes {
		id, err := strconv.Atoi(gn.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "export: node id %q", gn.ID)
		}
		n := &graph.Node{ID: id}
		for _, av := range gn.AttValues.Values {
			switch av.For {
			case "kind":
				n.Kind = graph.Kind(av.Value)
			case "attr":
				n.Props = parseProps(av.Value)
			case "pagerank":
				rank, err := strconv.ParseFloat(av.Value, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "export: node %d pagerank", id)
				}
				n.PageRank = rank
			}
		}
		if err := g.AddNodeWithID(n); err != nil {
			return nil, errors.Wrap(err, "export: rebuilding nodes")
		}
	}

	for _, ge := range doc.Graph.Edges.Edges {
		source, err := strconv.Atoi(ge.Source)
		if err != nil {
			return nil, errors.Wrapf(err, "export: edge source %q", ge.Source)
		}
		target, err := strconv.Atoi(ge.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "export: edge target %q", ge.Target)
		}
		rel, props := splitEdgeAttr(attrValue(ge.AttValues, "attr"))
		e, err := g.AddEdge(source, target, rel, props...)
		if err != nil {
			return nil, errors.Wrap(err, "export: rebuilding edges")
		}
		if ge.Weight != "" {
			weight, err := strconv.ParseFloat(ge.Weight, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "export: edge weight %q", ge.Weight)
			}
			e.Weight = weight
		}
	}

	return g, nil
}

func attrValue(values gexfAttValues, key string) string {
	for _, av := range values.Values {
		if av.For == key {
			return av.Value
		}
	}
	return ""
}

// parseProps splits a newline-joined "key: value" blob back into
// properties. An empty blob means no properties.
func parseProps(attr string) []graph.Property {
	if attr == "" {
		return nil
	}
	lines := strings.Split(attr, "\n")
	props := make([]graph.Property, 0, len(lines))
	for _, line := range lines {
		key, value, _ := strings.Cut(line, ": ")
		props = append(props, graph.Property{Key: key, Value: value})
	}
	return props
}

// splitEdgeAttr separates an edge attribute blob into the relation label
// (first line) and any trailing property lines.
func splitEdgeAttr(attr string) (string, []graph.Property) {
	rel, rest, found := strings.Cut(attr, "\n")
	if !found {
		return attr, nil
	}
	return rel, parseProps(rest)
}

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	DefaultEdgeType string          `xml:"defaultedgetype,attr"`
	AttrDecls       []gexfAttrDecls `xml:"attributes"`
	Nodes           gexfNodes       `xml:"nodes"`
	Edges           gexfEdges       `xml:"edges"`
}

type gexfAttrDecls struct {
	Class string         `xml:"class,attr"`
	Attrs []gexfAttrDecl `xml:"attribute"`
}

type gexfAttrDecl struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNodes struct {
	Nodes []gexfNode `xml:"node"`
}

type gexfNode struct {
	ID        string        `xml:"id,attr"`
	Label     string        `xml:"label,attr"`
	AttValues gexfAttValues `xml:"attvalues"`
}

type gexfAttValues struct {
	Values []gexfAttValue `xml:"attvalue"`
}

type gexfAttValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfEdges struct {
	Edges []gexfEdge `xml:"edge"`
}

type gexfEdge struct {
	ID        string        `xml:"id,attr"`
	Source    string        `xml:"source,attr"`
	Target    string        `xml:"target,attr"`
	Weight    string        `xml:"weight,attr,omitempty"`
	AttValues gexfAttValues `xml:"attvalues"`
}
