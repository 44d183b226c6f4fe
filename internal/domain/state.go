package domain

import "fmt"

// State represents the unlock state of a node for the current frame
type State string

const (
	StateLocked     State = "locked"
	StateAvailable  State = "available"
	StateAffordable State = "affordable"
	StateUnlocked   State = "unlocked"
	StateExcluded   State = "excluded"
)

// ParseState converts a string into a State
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case StateLocked, StateAvailable, StateAffordable, StateUnlocked, StateExcluded:
		return st, nil
	}
	return "", fmt.Errorf("unknown state %q", s)
}

// IsBlocked reports whether the node can never be unlocked in its current context
func (s State) IsBlocked() bool {
	return s == StateLocked || s == StateExcluded
}

// IsReachable reports whether the node is the next step of a progression
func (s State) IsReachable() bool {
	return s == StateAvailable || s == StateAffordable
}

// StateEvaluator supplies node states. The viewer only reads from it.
type StateEvaluator interface {
	State(nodeID string) State
}

// StateFunc adapts a function to StateEvaluator
type StateFunc func(nodeID string) State

// State implements StateEvaluator
func (f StateFunc) State(nodeID string) State {
	return f(nodeID)
}

// StateMap is a fixed state table; missing nodes are locked
type StateMap map[string]State

// State implements StateEvaluator
func (m StateMap) State(nodeID string) State {
	if st, ok := m[nodeID]; ok {
		return st
	}
	return StateLocked
}
