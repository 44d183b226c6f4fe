package domain

// Node is one unlockable unit of the skill tree
type Node struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definition_id"`
	Position     Point  `json:"position"`
	IsRoot       bool   `json:"is_root"`

	// IsHidden nodes stay in the graph for the path view but are skipped by
	// hit-testing and by the tree renderer.
	IsHidden bool `json:"is_hidden"`

	// Source is the key of the bundle the node came from
	Source string `json:"source,omitempty"`
}

// NewNode creates a node whose id is derived from the definition identifier
func NewNode(definitionID string, x, y int, isRoot bool) Node {
	return Node{
		ID:           HashID(definitionID),
		DefinitionID: definitionID,
		Position:     Point{X: x, Y: y},
		IsRoot:       isRoot,
	}
}
