package domain

// Path is one linear progression shown in the path view
type Path struct {
	Source  string   `json:"source"`
	Index   int      `json:"index"`
	NodeIDs []string `json:"node_ids"`
}

// Len returns the number of nodes on the path
func (p Path) Len() int {
	return len(p.NodeIDs)
}

// SourceBundle is everything one source contributes to a merge: a class tree,
// or the paths granted by one item. Only the primary bundle's nodes are
// visible in the tree view.
type SourceBundle struct {
	Key         string                 `json:"key"`
	Primary     bool                   `json:"primary"`
	Definitions map[string]*Definition `json:"definitions"`
	Nodes       []Node                 `json:"nodes"`
	Connections []Connection           `json:"connections"`
	Paths       []Path                 `json:"paths,omitempty"`
}

// NewSourceBundle creates an empty bundle
func NewSourceBundle(key string, primary bool) SourceBundle {
	return SourceBundle{
		Key:         key,
		Primary:     primary,
		Definitions: make(map[string]*Definition),
	}
}

// AddDefinition registers a definition under its ID
func (b *SourceBundle) AddDefinition(def *Definition) {
	if b.Definitions == nil {
		b.Definitions = make(map[string]*Definition)
	}
	b.Definitions[def.ID] = def
}

// AddNode appends a node, tagging it with the bundle key
func (b *SourceBundle) AddNode(node Node) {
	node.Source = b.Key
	b.Nodes = append(b.Nodes, node)
}

// AddConnection appends a connection
func (b *SourceBundle) AddConnection(conn Connection) {
	if conn.ID == "" {
		conn.ID = conn.GenerateID()
	}
	b.Connections = append(b.Connections, conn)
}
