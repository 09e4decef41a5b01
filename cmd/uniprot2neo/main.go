package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/graphomics/uniprot-kg/pkg/graph"
	"github.com/graphomics/uniprot-kg/pkg/graph/algorithms"
	"github.com/graphomics/uniprot-kg/pkg/graph/export"
	"github.com/graphomics/uniprot-kg/pkg/graph/metrics"
	"github.com/graphomics/uniprot-kg/pkg/graph/storage"
	"github.com/graphomics/uniprot-kg/pkg/graph/uniprot"
)

var (
	inputFile    = flag.String("input", "", "Path to the UniProt XML document to parse")
	outputFile   = flag.String("output", "graph.gexf", "Output file path for the GEXF export")
	snapshotFile = flag.String("snapshot", "", "Optional output path for a JSON snapshot of the graph")
	envFile      = flag.String("env", ".env", "Path to environment file")
	skipNeo4j    = flag.Bool("skip-neo4j", false, "Skip loading the graph into Neo4j")
	logLevel     = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Warnf("Error loading env file %s: %v", *envFile, err)
	}

	if *inputFile == "" {
		logger.Fatal("Input XML file must be specified")
	}

	extractor := uniprot.NewExtractor(logger)
	g, err := extractor.ParseFile(*inputFile)
	if err != nil {
		logger.Fatalf("Failed to extract graph from %s: %v", *inputFile, err)
	}

	for _, protein := range g.NodesByKind(graph.KindProtein) {
		subtree, err := algorithms.Subtree(g, protein.ID)
		if err != nil {
			logger.Fatalf("Failed to traverse entry subtree: %v", err)
		}
		logger.WithFields(logrus.Fields{
			"protein": protein.Attr(),
			"nodes":   len(subtree),
		}).Debug("Extracted entry subtree")
	}

	pipeline := graph.NewPipeline(logger)
	pipeline.AddStage(export.NewGEXF(*outputFile, logger))
	if *snapshotFile != "" {
		pipeline.AddStage(&snapshotStage{store: storage.NewJSONStore(*snapshotFile)})
	}
	if !*skipNeo4j {
		loader, err := storage.NewNeo4jLoaderFromEnv(logger)
		if err != nil {
			logger.Fatalf("Failed to configure Neo4j loader: %v", err)
		}
		defer loader.Close()
		pipeline.AddStage(loader)
	}

	if err := pipeline.Run(context.Background(), g); err != nil {
		logger.Fatalf("Pipeline failed: %v", err)
	}

	metrics.UpdateSystemMetrics()
	logger.Infof("Graph with %d nodes and %d edges written to %s",
		g.NodeCount(), g.EdgeCount(), *outputFile)
}

// snapshotStage adapts the JSON store to the pipeline.
type snapshotStage struct {
	store *storage.JSONStore
}

func (s *snapshotStage) Name() string { return "json-snapshot" }

func (s *snapshotStage) Run(_ context.Context, g *graph.Graph) error {
	return s.store.Store(g)
}
