// Package metrics registers the process-wide Prometheus collectors. All
// counters degrade to no-ops when never scraped, so library code records
// them unconditionally.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassifyCacheHits counts classification requests served from the cache.
	ClassifyCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorgraph_classify_cache_hits_total",
		Help: "Classification requests served from the in-memory cache.",
	})

	// ClassifyReferenceHits counts classifications resolved by the
	// reference index before any external lookup.
	ClassifyReferenceHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorgraph_classify_reference_hits_total",
		Help: "Classification requests resolved by the reference index.",
	})

	// ClassifyLookups counts external classification queries dispatched.
	ClassifyLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorgraph_classify_lookups_total",
		Help: "External classification lookups dispatched.",
	})

	// ClassifyLookupFailures counts external lookups that failed and were
	// downgraded to an unknown classification.
	ClassifyLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorgraph_classify_lookup_failures_total",
		Help: "External classification lookups that failed.",
	})

	// MergeDroppedEdges counts edges discarded by the merge sweep because
	// an endpoint was missing from the unified node table.
	MergeDroppedEdges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorgraph_merge_dropped_edges_total",
		Help: "Edges dropped during merge due to a missing endpoint.",
	})

	// GraphNodes reports the node count of the most recent unified graph.
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "actorgraph_graph_nodes",
		Help: "Node count of the most recently built unified graph.",
	})

	// GraphEdges reports the edge count of the most recent unified graph.
	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "actorgraph_graph_edges",
		Help: "Edge count of the most recently built unified graph.",
	})

	// IngestedRecords counts event records accepted across all ingests.
	IngestedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorgraph_ingested_records_total",
		Help: "Event records accepted by the graph builder.",
	})
)
