package graph

import (
	"github.com/actorgraph/actorgraph/internal/metrics"
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/logger"

	mapset "github.com/deckarep/golang-set/v2"
)

// Merge combines the reference graph with a derived graph into the unified
// graph. Reference nodes and edges are deep-copied first so repeated
// merges never mutate the static reference graph. Derived nodes and edges
// that share an identity with a reference counterpart are folded in: counts
// sum, action sets union, record lists append, and the node role upgrades
// to both. The final sweep drops any edge whose endpoint is missing from
// the unified node table, which guards against reference relationships
// whose target alias never resolved.
//
// Merge itself does not deduplicate repeated invocations; callers go
// through Client.Ingest, whose fingerprint guard prevents merging the same
// derived batch twice.
func (c *Client) Merge(reference, derived *common.Graph) *common.Graph {
	unified := common.NewGraph()

	if reference != nil {
		for _, node := range reference.Nodes {
			unified.AddNode(cloneNode(node))
		}
		for _, edge := range reference.Edges {
			unified.AddEdge(cloneEdge(edge))
		}
	}

	if derived != nil {
		for _, node := range derived.Nodes {
			existing, ok := unified.Node(node.ID)
			if !ok {
				unified.AddNode(cloneNode(node))
				continue
			}
			existing.Count += node.Count
			existing.Actions = existing.Actions.Union(node.Actions)
			existing.Records = append(existing.Records, node.Records...)
			existing.Role = common.RoleBoth
			if existing.Weight < node.Weight {
				existing.Weight = node.Weight
			}
		}

		for _, edge := range derived.Edges {
			existing, ok := unified.Edge(edge.Source, edge.Target)
			if !ok {
				unified.AddEdge(cloneEdge(edge))
				continue
			}
			existing.Count += edge.Count
			existing.Actions = existing.Actions.Union(edge.Actions)
			existing.Records = append(existing.Records, edge.Records...)
		}
	}

	c.sweepDanglingEdges(unified)

	metrics.GraphNodes.Set(float64(unified.NodeCount()))
	metrics.GraphEdges.Set(float64(unified.EdgeCount()))

	return unified
}

// sweepDanglingEdges enforces the referential integrity invariant: an edge
// may exist only if both endpoints exist as nodes in the same snapshot.
func (c *Client) sweepDanglingEdges(g *common.Graph) {
	var dropped []string
	for _, edge := range g.Edges {
		_, hasSource := g.Node(edge.Source)
		_, hasTarget := g.Node(edge.Target)
		if hasSource && hasTarget {
			continue
		}
		dropped = append(dropped, edge.Key())
		logger.Warn("[Merge] Dropping edge with missing endpoint",
			"source", edge.Source,
			"target", edge.Target,
		)
	}
	for _, key := range dropped {
		g.RemoveEdge(key)
		metrics.MergeDroppedEdges.Inc()
	}
}

func cloneNode(n *common.Node) *common.Node {
	clone := &common.Node{
		ID:          n.ID,
		DisplayName: n.DisplayName,
		Role:        n.Role,
		Category:    n.Category,
		Count:       n.Count,
		Actions:     mapset.NewSet[string](),
		Weight:      n.Weight,
	}
	if n.Actions != nil {
		clone.Actions = n.Actions.Clone()
	}
	clone.Records = append(clone.Records, n.Records...)
	return clone
}

func cloneEdge(e *common.Edge) *common.Edge {
	clone := &common.Edge{
		Source:  e.Source,
		Target:  e.Target,
		Count:   e.Count,
		Actions: mapset.NewSet[string](),
		Label:   e.Label,
	}
	if e.Actions != nil {
		clone.Actions = e.Actions.Clone()
	}
	clone.Records = append(clone.Records, e.Records...)
	return clone
}
