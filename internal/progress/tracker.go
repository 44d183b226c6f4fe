// Package progress tracks which nodes a player has unlocked and answers the
// per-frame state of every node from that.
package progress

import (
	"fmt"
	"sort"
	"sync"

	"skilltree/internal/domain"
)

// Tracker is a domain.StateEvaluator backed by a set of unlocked nodes and a
// point budget
type Tracker struct {
	mu       sync.RWMutex
	graph    *domain.Graph
	unlocked map[string]bool
	earned   int
}

// NewTracker creates a tracker for a graph with the given earned points
func NewTracker(g *domain.Graph, earned int) *Tracker {
	if g == nil {
		g = domain.EmptyGraph()
	}
	return &Tracker{
		graph:    g,
		unlocked: make(map[string]bool),
		earned:   earned,
	}
}

// SetGraph switches to a new graph. Unlocks of nodes that no longer exist are
// kept so they come back if the node returns.
func (t *Tracker) SetGraph(g *domain.Graph) {
	if g == nil {
		g = domain.EmptyGraph()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.graph = g
}

// Restore replaces the unlocked set
func (t *Tracker) Restore(nodeIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlocked = make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		t.unlocked[id] = true
	}
}

// SetEarned sets the number of points earned so far
func (t *Tracker) SetEarned(points int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.earned = points
}

// Points returns earned, spent and spendable points
func (t *Tracker) Points() (earned, spent, spendable int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	spent = t.spentLocked()
	return t.earned, spent, t.earned - spent
}

// Unlocked returns the sorted ids of unlocked nodes in the current graph
func (t *Tracker) Unlocked() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	for id := range t.unlocked {
		if _, ok := t.graph.Node(id); ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// State implements domain.StateEvaluator
func (t *Tracker) State(nodeID string) domain.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stateLocked(nodeID)
}

// Unlock marks a node unlocked. Only affordable nodes can be unlocked.
func (t *Tracker) Unlock(nodeID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.graph.Node(nodeID); !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	switch st := t.stateLocked(nodeID); st {
	case domain.StateAffordable:
		t.unlocked[nodeID] = true
		return nil
	case domain.StateUnlocked:
		return fmt.Errorf("node %s already unlocked", nodeID)
	default:
		return fmt.Errorf("node %s is %s, not affordable", nodeID, st)
	}
}

// Reset forgets every unlock
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlocked = make(map[string]bool)
}

func (t *Tracker) stateLocked(nodeID string) domain.State {
	if t.unlocked[nodeID] {
		return domain.StateUnlocked
	}
	node, ok := t.graph.Node(nodeID)
	if !ok {
		return domain.StateLocked
	}
	def, _ := t.graph.Definition(node.DefinitionID)

	required := 1
	if def != nil && def.RequiredExclusions > 1 {
		required = def.RequiredExclusions
	}
	exclusions := 0
	for n := range t.graph.Adjacency(domain.ConnectionExclusive)[nodeID] {
		if t.unlocked[n] {
			exclusions++
		}
	}
	if exclusions >= required {
		return domain.StateExcluded
	}

	available := node.IsRoot
	if !available {
		for n := range t.graph.Adjacency(domain.ConnectionNormal)[nodeID] {
			if t.unlocked[n] {
				available = true
				break
			}
		}
	}
	if !available {
		return domain.StateLocked
	}

	if t.affordableLocked(def) {
		return domain.StateAffordable
	}
	return domain.StateAvailable
}

func (t *Tracker) affordableLocked(def *domain.Definition) bool {
	if def == nil {
		return false
	}
	spent := t.spentLocked()
	if t.earned-spent < def.Cost {
		return false
	}
	if def.RequiredPoints > t.earned || def.RequiredSpentPoints > spent {
		return false
	}
	return def.RequiredSkills <= t.countLocked()
}

func (t *Tracker) spentLocked() int {
	spent := 0
	for id := range t.unlocked {
		if def, ok := t.graph.DefinitionOf(id); ok {
			spent += def.Cost
		}
	}
	return spent
}

func (t *Tracker) countLocked() int {
	n := 0
	for id := range t.unlocked {
		if _, ok := t.graph.Node(id); ok {
			n++
		}
	}
	return n
}
