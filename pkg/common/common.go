package common

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Category is the closed set of classification labels an entity can carry.
// Exactly one category is attached per canonical name.
type Category string

const (
	CategoryCountry               Category = "country"
	CategoryRegion                Category = "region"
	CategoryPerson                Category = "person"
	CategoryPublicOffice          Category = "public_office"
	CategoryLegislativeBranch     Category = "legislative_branch"
	CategoryPoliticalOrganization Category = "political_organization"
	CategoryOrganization          Category = "organization"
	CategoryUnknown               Category = "unknown"
)

// Categories lists every known category in priority order, highest first.
// The order breaks ties when an external lookup maps a name to several
// categories with equal frequency.
var Categories = []Category{
	CategoryCountry,
	CategoryRegion,
	CategoryLegislativeBranch,
	CategoryPoliticalOrganization,
	CategoryPublicOffice,
	CategoryOrganization,
	CategoryPerson,
}

// Priority returns the tie-break rank of c; lower wins. Unknown and
// unlisted categories sort last.
func (c Category) Priority() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// Label returns a human-readable label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryCountry:
		return "Country"
	case CategoryRegion:
		return "Region"
	case CategoryPerson:
		return "Person"
	case CategoryPublicOffice:
		return "Office Holder"
	case CategoryLegislativeBranch:
		return "Legislative Branch"
	case CategoryPoliticalOrganization:
		return "Political Organization"
	case CategoryOrganization:
		return "Organization"
	case CategoryUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// Role marks how a node entered the graph.
type Role string

const (
	// RoleActor marks a node only seen on the actor side of event records.
	RoleActor Role = "actor"
	// RoleTarget marks a node only seen on the target side of event records.
	RoleTarget Role = "target"
	// RoleBoth marks a node seen on both sides, or present in both the
	// reference graph and the derived graph.
	RoleBoth Role = "both"
	// RoleReference marks a node seeded from the reference catalog.
	RoleReference Role = "reference"
)

// EventRecord is a single parsed relationship statement. Actor and Target
// may hold several comma-separated names. Fields carries every other column
// of the source row through unchanged for downstream consumers.
type EventRecord struct {
	ID     string            `json:"id"`
	Actor  string            `json:"actor"`
	Target string            `json:"target"`
	Action string            `json:"action"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Node is a graph node keyed by canonical name. Count, Actions and Records
// accumulate in place as further occurrences of the same entity are folded in.
type Node struct {
	ID          string             `json:"id"`
	DisplayName string             `json:"display_name"`
	Role        Role               `json:"role"`
	Category    Category           `json:"category,omitempty"`
	Count       int                `json:"count"`
	Actions     mapset.Set[string] `json:"-"`
	Records     []*EventRecord     `json:"-"`
	Weight      float64            `json:"weight"`
}

// Edge is a directed graph edge keyed by the ordered (Source, Target) pair.
// Label is set when the edge derives from a reference catalog relationship.
type Edge struct {
	Source  string             `json:"source"`
	Target  string             `json:"target"`
	Count   int                `json:"count"`
	Actions mapset.Set[string] `json:"-"`
	Records []*EventRecord     `json:"-"`
	Label   string             `json:"label,omitempty"`
}

// Key returns the ordered-pair identity of the edge.
func (e *Edge) Key() string {
	return e.Source + "\x00" + e.Target
}

// Graph is an insertion-ordered collection of nodes and edges. Iteration
// order is the order entities were first seen, which keeps builds
// deterministic for a fixed input sequence.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	nodeIndex map[string]*Node
	edgeIndex map[string]*Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[string]*Node),
		edgeIndex: make(map[string]*Edge),
	}
}

// Node returns the node with the given canonical id, if present.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

// Edge returns the edge with the given ordered endpoint pair, if present.
func (g *Graph) Edge(source, target string) (*Edge, bool) {
	e, ok := g.edgeIndex[source+"\x00"+target]
	return e, ok
}

// AddNode inserts n. Existing nodes with the same id are left untouched;
// callers fold duplicates themselves before inserting.
func (g *Graph) AddNode(n *Node) {
	if _, ok := g.nodeIndex[n.ID]; ok {
		return
	}
	g.Nodes = append(g.Nodes, n)
	g.nodeIndex[n.ID] = n
}

// AddEdge inserts e, keyed by its ordered endpoint pair.
func (g *Graph) AddEdge(e *Edge) {
	if _, ok := g.edgeIndex[e.Key()]; ok {
		return
	}
	g.Edges = append(g.Edges, e)
	g.edgeIndex[e.Key()] = e
}

// RemoveEdge drops the edge with the given key, preserving the order of the
// remaining edges.
func (g *Graph) RemoveEdge(key string) {
	if _, ok := g.edgeIndex[key]; !ok {
		return
	}
	delete(g.edgeIndex, key)
	for i, e := range g.Edges {
		if e.Key() == key {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return
		}
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.Edges) }
