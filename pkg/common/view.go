package common

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// NodeView is the wire shape of a node in the produced graph interface.
// Action labels are sorted so the output is stable for a fixed graph.
type NodeView struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Role        Role     `json:"role"`
	Category    Category `json:"category,omitempty"`
	Count       int      `json:"count"`
	Actions     []string `json:"actions"`
	Weight      float64  `json:"weight"`
}

// EdgeView is the wire shape of an edge in the produced graph interface.
type EdgeView struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Count   int      `json:"count"`
	Actions []string `json:"actions"`
	Label   string   `json:"label,omitempty"`
}

// GraphView is the read-only artifact handed to presentation consumers.
type GraphView struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// View renders the graph into its wire shape. The result shares nothing
// mutable with the graph, so consumers can hold it across rebuilds.
func (g *Graph) View() GraphView {
	view := GraphView{
		Nodes: make([]NodeView, 0, len(g.Nodes)),
		Edges: make([]EdgeView, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		view.Nodes = append(view.Nodes, NodeView{
			ID:          n.ID,
			DisplayName: n.DisplayName,
			Role:        n.Role,
			Category:    n.Category,
			Count:       n.Count,
			Actions:     sortedActions(n.Actions),
			Weight:      n.Weight,
		})
	}
	for _, e := range g.Edges {
		view.Edges = append(view.Edges, EdgeView{
			Source:  e.Source,
			Target:  e.Target,
			Count:   e.Count,
			Actions: sortedActions(e.Actions),
			Label:   e.Label,
		})
	}
	return view
}

func sortedActions(s mapset.Set[string]) []string {
	if s == nil {
		return []string{}
	}
	actions := s.ToSlice()
	sort.Strings(actions)
	return actions
}
