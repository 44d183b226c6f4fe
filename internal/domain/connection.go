package domain

import (
	"crypto/sha256"
	"fmt"
)

// ConnectionCategory tells when a connection is drawn
type ConnectionCategory string

const (
	// ConnectionNormal connections are always drawn
	ConnectionNormal ConnectionCategory = "normal"
	// ConnectionExclusive connections are drawn only while an endpoint is hovered
	ConnectionExclusive ConnectionCategory = "exclusive"
)

// Connection links two nodes. A unidirectional connection From -> To means
// To depends on From.
type Connection struct {
	ID            string             `json:"id"`
	From          string             `json:"from"`
	To            string             `json:"to"`
	Bidirectional bool               `json:"bidirectional"`
	Category      ConnectionCategory `json:"category"`
	StyleID       string             `json:"style_id,omitempty"`
}

// NewConnection creates a connection with a generated ID
func NewConnection(from, to string, bidirectional bool, category ConnectionCategory) Connection {
	conn := Connection{
		From:          from,
		To:            to,
		Bidirectional: bidirectional,
		Category:      category,
	}
	conn.ID = conn.GenerateID()
	return conn
}

// GenerateID creates a deterministic ID from the endpoints and category.
// Bidirectional connections get the same ID regardless of endpoint order.
func (c Connection) GenerateID() string {
	from, to := c.From, c.To
	arrow := "->"
	if c.Bidirectional {
		arrow = "<>"
		if from > to {
			from, to = to, from
		}
	}

	key := fmt.Sprintf("%s%s%s/%s", from, arrow, to, c.Category)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}

// Involves checks if this connection touches the given node
func (c Connection) Involves(nodeID string) bool {
	return c.From == nodeID || c.To == nodeID
}

// OtherEnd returns the node on the other end of this connection
func (c Connection) OtherEnd(nodeID string) string {
	if c.From == nodeID {
		return c.To
	}
	return c.From
}
