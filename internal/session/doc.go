// Package session ties the tree view, the path view and the current graph
// together for one viewer.
//
// # Threading
//
// A Session has one owner thread, the frame loop, which calls Frame and the
// pointer entry points. Publish, Invalidate, Graph and Problems are safe from
// any goroutine: a reload swaps the graph pointer and raises dirty flags, and
// the next Frame consumes the flags exactly once before drawing.
//
// # Tabs
//
// The tree tab shows the pannable skill tree; the paths tab shows the linear
// paths. Input goes to the active tab only.
package session
