package domain

import (
	"encoding/json"
	"sort"
)

// Adjacency maps a node to the set of its neighbors
type Adjacency map[string]map[string]struct{}

// BuildNeighborMap indexes connections by endpoint. A bidirectional
// connection adds both directions; a unidirectional one adds only
// To -> From, so a node sees the nodes it depends on.
func BuildNeighborMap(conns []Connection) Adjacency {
	adj := make(Adjacency)
	add := func(from, to string) {
		set, ok := adj[from]
		if !ok {
			set = make(map[string]struct{})
			adj[from] = set
		}
		set[to] = struct{}{}
	}

	for _, c := range conns {
		add(c.To, c.From)
		if c.Bidirectional {
			add(c.From, c.To)
		}
	}
	return adj
}

// Contains reports whether b is a neighbor of a
func (adj Adjacency) Contains(a, b string) bool {
	_, ok := adj[a][b]
	return ok
}

// Neighbors returns the sorted neighbors of id
func (adj Adjacency) Neighbors(id string) []string {
	set := adj[id]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Graph is the merged, read-only result of all sources. It is never edited
// in place; a reload builds a new Graph and swaps it in.
type Graph struct {
	nodes       []Node
	index       map[string]int
	definitions map[string]*Definition

	connections map[ConnectionCategory][]Connection
	adjacency   map[ConnectionCategory]Adjacency
	exclusiveOf map[string][]Connection

	paths       map[string][]Path
	pathSources []string

	bounds Bounds
}

// NewGraph indexes already validated data. Node order is kept as given and
// is the iteration order for hit-testing and rendering.
func NewGraph(nodes []Node, definitions map[string]*Definition, conns []Connection, paths []Path) *Graph {
	g := &Graph{
		nodes:       nodes,
		index:       make(map[string]int, len(nodes)),
		definitions: definitions,
		connections: make(map[ConnectionCategory][]Connection),
		adjacency:   make(map[ConnectionCategory]Adjacency),
		exclusiveOf: make(map[string][]Connection),
		paths:       make(map[string][]Path),
		bounds:      EmptyBounds(),
	}
	if g.definitions == nil {
		g.definitions = make(map[string]*Definition)
	}

	for i, n := range nodes {
		g.index[n.ID] = i
		if !n.IsHidden {
			g.bounds = g.bounds.Extend(n.Position)
		}
	}

	for _, c := range conns {
		cat := c.Category
		if cat == "" {
			cat = ConnectionNormal
		}
		g.connections[cat] = append(g.connections[cat], c)
		if cat == ConnectionExclusive {
			g.exclusiveOf[c.From] = append(g.exclusiveOf[c.From], c)
			if c.To != c.From {
				g.exclusiveOf[c.To] = append(g.exclusiveOf[c.To], c)
			}
		}
	}
	g.adjacency[ConnectionNormal] = BuildNeighborMap(g.connections[ConnectionNormal])
	g.adjacency[ConnectionExclusive] = BuildNeighborMap(g.connections[ConnectionExclusive])

	for _, p := range paths {
		if _, ok := g.paths[p.Source]; !ok {
			g.pathSources = append(g.pathSources, p.Source)
		}
		g.paths[p.Source] = append(g.paths[p.Source], p)
	}

	return g
}

// EmptyGraph returns a graph with nothing in it
func EmptyGraph() *Graph {
	return NewGraph(nil, nil, nil, nil)
}

// Nodes returns all nodes in declaration order. The slice must not be modified.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Len returns the number of nodes, hidden ones included
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node looks up a node by ID
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Definition looks up a definition by ID
func (g *Graph) Definition(id string) (*Definition, bool) {
	def, ok := g.definitions[id]
	return def, ok
}

// DefinitionOf returns the definition a node points to
func (g *Graph) DefinitionOf(nodeID string) (*Definition, bool) {
	node, ok := g.Node(nodeID)
	if !ok {
		return nil, false
	}
	return g.Definition(node.DefinitionID)
}

// Connections returns the connections of one category in declaration order
func (g *Graph) Connections(cat ConnectionCategory) []Connection {
	return g.connections[cat]
}

// Adjacency returns the neighbor map of one category
func (g *Graph) Adjacency(cat ConnectionCategory) Adjacency {
	return g.adjacency[cat]
}

// Neighbors returns the sorted neighbors of a node in one category
func (g *Graph) Neighbors(cat ConnectionCategory, id string) []string {
	return g.adjacency[cat].Neighbors(id)
}

// ExclusiveConnectionsOf returns the exclusive connections touching a node
func (g *Graph) ExclusiveConnectionsOf(id string) []Connection {
	return g.exclusiveOf[id]
}

// PathSources returns the keys of sources that contributed paths, in order
func (g *Graph) PathSources() []string {
	return g.pathSources
}

// Paths returns the paths of one source
func (g *Graph) Paths(source string) []Path {
	return g.paths[source]
}

// AllPaths returns every path, grouped by source in source order
func (g *Graph) AllPaths() []Path {
	var out []Path
	for _, src := range g.pathSources {
		out = append(out, g.paths[src]...)
	}
	return out
}

// Bounds returns the bounding box of visible node positions
func (g *Graph) Bounds() Bounds {
	return g.bounds
}

type graphJSON struct {
	Nodes       []Node                 `json:"nodes"`
	Definitions map[string]*Definition `json:"definitions"`
	Connections []Connection           `json:"connections"`
	Paths       []Path                 `json:"paths"`
	Bounds      *Bounds                `json:"bounds,omitempty"`
}

// MarshalJSON encodes a snapshot of the graph
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Nodes:       g.nodes,
		Definitions: g.definitions,
		Paths:       g.AllPaths(),
	}
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Paths == nil {
		out.Paths = []Path{}
	}
	out.Connections = append(out.Connections, g.connections[ConnectionNormal]...)
	out.Connections = append(out.Connections, g.connections[ConnectionExclusive]...)
	if out.Connections == nil {
		out.Connections = []Connection{}
	}
	if !g.bounds.IsEmpty() {
		b := g.bounds
		out.Bounds = &b
	}
	return json.Marshal(out)
}
