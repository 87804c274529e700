package graph

import (
	"strings"

	"github.com/actorgraph/actorgraph/internal/metrics"
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/logger"
	"github.com/actorgraph/actorgraph/pkg/names"

	mapset "github.com/deckarep/golang-set/v2"
)

// Build accumulates event records into a derived graph. Records missing an
// actor or target field are skipped entirely. Multi-valued fields expand
// into the full actor×target Cartesian product; each pair upserts one edge
// keyed by the ordered canonical name pair. Node and edge iteration order
// is first-seen order, so the result is deterministic for a fixed input
// sequence.
func (c *Client) Build(records []*common.EventRecord) *common.Graph {
	g := common.NewGraph()

	accepted := 0
	for _, rec := range records {
		actors := splitNames(rec.Actor)
		targets := splitNames(rec.Target)
		if len(actors) == 0 || len(targets) == 0 {
			logger.Debug("[Graph] Skipping record without actor or target", "record", rec.ID)
			continue
		}
		accepted++

		for _, actor := range actors {
			upsertNode(g, actor, common.RoleActor, rec)
		}
		for _, target := range targets {
			upsertNode(g, target, common.RoleTarget, rec)
		}

		for _, actor := range actors {
			for _, target := range targets {
				upsertEdge(g, actor, target, rec)
			}
		}
	}

	c.computeWeights(g)
	metrics.IngestedRecords.Add(float64(accepted))

	logger.Debug("[Graph] Built derived graph",
		"records", accepted,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
	)

	return g
}

// splitNames expands a comma-separated name field into canonical names.
// Tokens are trimmed and normalized; empty tokens are dropped.
func splitNames(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		name := names.Normalize(strings.TrimSpace(part))
		if strings.TrimSpace(name) == "" {
			continue
		}
		result = append(result, name)
	}
	return result
}

func upsertNode(g *common.Graph, name string, role common.Role, rec *common.EventRecord) {
	node, ok := g.Node(name)
	if !ok {
		node = &common.Node{
			ID:          name,
			DisplayName: name,
			Role:        role,
			Actions:     mapset.NewSet[string](),
		}
		g.AddNode(node)
	} else if node.Role != role {
		node.Role = common.RoleBoth
	}

	node.Count++
	if rec.Action != "" {
		node.Actions.Add(rec.Action)
	}
	node.Records = append(node.Records, rec)
}

func upsertEdge(g *common.Graph, source, target string, rec *common.EventRecord) {
	edge, ok := g.Edge(source, target)
	if !ok {
		edge = &common.Edge{
			Source:  source,
			Target:  target,
			Actions: mapset.NewSet[string](),
		}
		g.AddEdge(edge)
	}

	edge.Count++
	if rec.Action != "" {
		edge.Actions.Add(rec.Action)
	}
	edge.Records = append(edge.Records, rec)
}

// computeWeights assigns every node a visual weight scaled by its share of
// the build's maximum occurrence count, clamped to the configured bounds.
// Weight is monotonic in the occurrence count.
func (c *Client) computeWeights(g *common.Graph) {
	maxCount := 0
	for _, node := range g.Nodes {
		if node.Count > maxCount {
			maxCount = node.Count
		}
	}
	if maxCount == 0 {
		return
	}

	span := c.maxNodeWeight - c.minNodeWeight
	for _, node := range g.Nodes {
		weight := c.minNodeWeight + span*float64(node.Count)/float64(maxCount)
		if weight < c.minNodeWeight {
			weight = c.minNodeWeight
		}
		if weight > c.maxNodeWeight {
			weight = c.maxNodeWeight
		}
		node.Weight = weight
	}
}
