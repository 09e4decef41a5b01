package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/graphomics/uniprot-kg/pkg/graph"
)

// snapshot is the on-disk shape of a graph snapshot.
type snapshot struct {
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
}

// JSONStore persists a graph snapshot as indented JSON. It is a
// secondary interchange output alongside the GEXF export.
type JSONStore struct {
	filePath string
}

// NewJSONStore creates a store writing to filePath.
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{filePath: filePath}
}

// Store writes the graph snapshot, creating parent directories as needed.
func (s *JSONStore) Store(g *graph.Graph) error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "storage: creating %s", dir)
	}

	data, err := json.MarshalIndent(snapshot{Nodes: g.Nodes(), Edges: g.Edges()}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "storage: encoding snapshot")
	}
	return errors.Wrapf(os.WriteFile(s.filePath, data, 0644), "storage: writing %s", s.filePath)
}

// Load reads a snapshot back into a graph.
func (s *JSONStore) Load() (*graph.Graph, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "storage: reading %s", s.filePath)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "storage: decoding snapshot")
	}

	g := graph.NewGraph()
	for _, n := range snap.Nodes {
		if err := g.AddNodeWithID(n); err != nil {
			return nil, errors.Wrap(err, "storage: rebuilding nodes")
		}
	}
	for _, e := range snap.Edges {
		edge, err := g.AddEdge(e.Source, e.Target, e.Rel, e.Props...)
		if err != nil {
			return nil, errors.Wrap(err, "storage: rebuilding edges")
		}
		edge.Weight = e.Weight
	}
	return g, nil
}
