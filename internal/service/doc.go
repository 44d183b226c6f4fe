// Package service implements the business logic of the skilltree host.
//
// GraphService owns the session of the viewer. It reloads sources into a
// merged graph, keeps the progress tracker and the persisted unlocks in
// step, and serialises every call that touches the session through one frame
// lock, which plays the part of the single UI thread.
//
// # Event System
//
// Reloads, unlocks and view changes are published on an EventBus so the SSE
// hub can push them to connected clients.
package service
