// Package domain defines the core types of the skill tree viewer.
//
// This package contains the entities shared by every other package: nodes,
// definitions, connections, the merged graph and the per-frame unlock state
// supplied by the host.
//
// # Core Types
//
// Node is one unlockable unit at an authored world position. It points to a
// Definition, the shared visual and requirement template.
//
// Connection links two nodes and belongs to one of two categories: normal
// connections are always drawn, exclusive connections only while one of their
// endpoints is hovered.
//
// Graph is the immutable result of merging several SourceBundles. It owns the
// nodes in declaration order, the definitions, the connections and one
// adjacency index per connection category.
//
// # Identity
//
// HashID derives the short node id from a fully qualified identifier such as
// "onepiece:gomu_pistol". The same identifier always yields the same id, so ids
// written into data files stay valid across runs.
//
// # State
//
// State is never computed here. A StateEvaluator supplied by the host answers
// the state of a node for the current frame.
//
// # Design Principles
//
// - Graphs are built once and never edited in place
// - Structural issues are reported as Problems, not errors
// - No rendering, storage or transport dependencies
package domain
