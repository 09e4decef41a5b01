package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})

	// Extraction metrics
	EntriesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_entries_parsed_total",
		Help: "Total number of UniProt entry elements parsed",
	})

	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "uniprot_parse_duration_seconds",
		Help: "Time spent parsing a UniProt document into a graph",
	})

	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniprot_parse_errors_total",
			Help: "Total number of fatal parse errors",
		},
		[]string{"error_type"},
	)

	// Graph metrics
	GraphNodeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_nodes_total",
			Help: "Total number of nodes added to extracted graphs",
		},
		[]string{"kind"},
	)

	GraphEdgeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_edges_total",
			Help: "Total number of edges added to extracted graphs",
		},
		[]string{"relation"},
	)

	// Load metrics
	Neo4jNodesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neo4j_nodes_created_total",
		Help: "Number of database nodes created by the loader",
	})

	Neo4jRelationshipsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neo4j_relationships_created_total",
		Help: "Number of database relationships created by the loader",
	})
)

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
