package catalog

import (
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/names"

	mapset "github.com/deckarep/golang-set/v2"
)

// Graph converts the catalog's own declared relationships into a reference
// graph. Every entry becomes a reference node labelled with its curated
// category; every connection becomes an edge carrying the relationship
// label. Connection targets are resolved through the index so aliases land
// on their primary entry; targets that do not resolve keep their normalized
// name and produce a dangling edge that the merge sweep later drops.
func (idx *Index) Graph() *common.Graph {
	g := common.NewGraph()

	for _, rec := range idx.records {
		node := &common.Node{
			ID:          names.Normalize(rec.ID),
			DisplayName: rec.ID,
			Role:        common.RoleReference,
			Count:       1,
			Actions:     mapset.NewSet[string](),
		}
		// Entries without role text stay unlabelled here so the
		// classification pass picks them up.
		if cat := Category(rec); cat != common.CategoryUnknown {
			node.Category = cat
		}
		g.AddNode(node)
	}

	for _, rec := range idx.records {
		sourceID := names.Normalize(rec.ID)
		for _, conn := range rec.Connections {
			targetID := names.Normalize(conn.Target)
			if target, ok := idx.Find(conn.Target); ok {
				targetID = names.Normalize(target.ID)
			}

			if edge, ok := g.Edge(sourceID, targetID); ok {
				edge.Count++
				if conn.Relationship != "" {
					edge.Actions.Add(conn.Relationship)
				}
				continue
			}

			actions := mapset.NewSet[string]()
			if conn.Relationship != "" {
				actions.Add(conn.Relationship)
			}
			g.AddEdge(&common.Edge{
				Source:  sourceID,
				Target:  targetID,
				Count:   1,
				Actions: actions,
				Label:   conn.Relationship,
			})
		}
	}

	return g
}
