package storage

import (
	"context"
	"os"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/graphomics/uniprot-kg/pkg/graph"
	"github.com/graphomics/uniprot-kg/pkg/graph/metrics"
)

// Environment variables read by NewNeo4jLoaderFromEnv.
const (
	EnvNeo4jURL      = "NEO4J_URL"
	EnvNeo4jUser     = "NEO4J_USER"
	EnvNeo4jPassword = "NEO4J_PASSWORD"
)

// Every loaded node carries the same label and every relationship the
// same type; the graph-level kind and relation labels travel as
// properties instead.
const (
	nodeLabel        = "Node"
	relationshipType = "CONNECTED_TO"
)

// Neo4jLoader writes an extracted graph into a Neo4j database.
type Neo4jLoader struct {
	driver neo4j.Driver
	uri    string
	logger *logrus.Logger
}

// NewNeo4jLoader creates a loader for the given connection parameters.
func NewNeo4jLoader(uri, username, password string, logger *logrus.Logger) (*Neo4jLoader, error) {
	if logger == nil {
		logger = logrus.New()
	}
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "storage: creating Neo4j driver")
	}
	return &Neo4jLoader{driver: driver, uri: uri, logger: logger}, nil
}

// NewNeo4jLoaderFromEnv builds a loader from NEO4J_URL, NEO4J_USER and
// NEO4J_PASSWORD. Any missing variable is an error.
func NewNeo4jLoaderFromEnv(logger *logrus.Logger) (*Neo4jLoader, error) {
	uri := os.Getenv(EnvNeo4jURL)
	user := os.Getenv(EnvNeo4jUser)
	password := os.Getenv(EnvNeo4jPassword)
	for name, value := range map[string]string{
		EnvNeo4jURL:      uri,
		EnvNeo4jUser:     user,
		EnvNeo4jPassword: password,
	} {
		if value == "" {
			return nil, errors.Errorf("storage: %s environment variable is not set", name)
		}
	}
	return NewNeo4jLoader(uri, user, password, logger)
}

// Close releases the underlying driver.
func (l *Neo4jLoader) Close() error {
	if l.driver != nil {
		return l.driver.Close()
	}
	return nil
}

// Name implements graph.Stage.
func (l *Neo4jLoader) Name() string { return "neo4j-load" }

// Run implements graph.Stage.
func (l *Neo4jLoader) Run(ctx context.Context, g *graph.Graph) error {
	return l.Load(ctx, g)
}

// Load writes the graph in two passes inside one write transaction:
// first one database node per graph node, then one relationship per
// edge. The synthetic graph id of each created node is mapped to its
// database id so relationships land on the right endpoints.
func (l *Neo4jLoader) Load(ctx context.Context, g *graph.Graph) error {
	session := l.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		dbIDs := make(map[int]int64, g.NodeCount())

		for _, n := range g.Nodes() {
			result, err := tx.Run(
				"CREATE (n:"+nodeLabel+" $props) RETURN id(n)",
				map[string]interface{}{"props": nodeProperties(n)},
			)
			if err != nil {
				return nil, errors.Wrapf(err, "creating node %d", n.ID)
			}
			record, err := result.Single()
			if err != nil {
				return nil, errors.Wrapf(err, "creating node %d", n.ID)
			}
			dbIDs[n.ID] = record.Values[0].(int64)
			metrics.Neo4jNodesCreated.Inc()
		}

		for _, e := range g.Edges() {
			_, err := tx.Run(
				"MATCH (a:"+nodeLabel+"), (b:"+nodeLabel+") "+
					"WHERE id(a) = $source AND id(b) = $target "+
					"CREATE (a)-[r:"+relationshipType+" $props]->(b)",
				map[string]interface{}{
					"source": dbIDs[e.Source],
					"target": dbIDs[e.Target],
					"props":  edgeProperties(e),
				},
			)
			if err != nil {
				return nil, errors.Wrapf(err, "creating relationship %d->%d", e.Source, e.Target)
			}
			metrics.Neo4jRelationshipsCreated.Inc()
		}

		return nil, nil
	})
	if err != nil {
		return errors.Wrap(err, "storage: loading graph into Neo4j")
	}

	l.logger.WithFields(logrus.Fields{
		"uri":   l.uri,
		"nodes": g.NodeCount(),
		"edges": g.EdgeCount(),
	}).Info("Loaded graph into Neo4j")
	return nil
}

// nodeProperties keeps kind and the original graph id alongside the
// attribute blob, so loaded nodes stay distinguishable under the single
// fixed label.
func nodeProperties(n *graph.Node) map[string]interface{} {
	props := map[string]interface{}{
		"gid":  n.ID,
		"kind": string(n.Kind),
		"attr": n.Attr(),
	}
	if n.PageRank > 0 {
		props["pagerank"] = n.PageRank
	}
	return props
}

func edgeProperties(e *graph.Edge) map[string]interface{} {
	props := map[string]interface{}{
		"attr": e.Attr(),
	}
	if e.Weight > 0 {
		props["weight"] = e.Weight
	}
	return props
}
