// Package handler implements the HTTP API of the skilltree host.
//
// # Routes
//
//	GET  /api/graph               merged graph
//	GET  /api/problems            problems of the last reload
//	GET  /api/history             recent reload reports
//	GET  /api/nodes/{id}          node, definition and state
//	POST /api/nodes/{id}/unlock   unlock an affordable node
//	GET  /api/progress            point budget
//	POST /api/progress/reset      forget every unlock
//	GET  /api/view                camera of the session
//	POST /api/view/zoom           zoom the tree view around a point
//	POST /api/view/pan            pan the tree view
//	POST /api/view/scroll         scroll the path view
//	POST /api/view/tab            switch tab
//	POST /api/view/save           persist the camera
//	POST /api/input               replay a pointer event into the session
//	GET  /api/frame               draw calls of the active tab
//	GET  /api/export              merged graph as a source document
//	POST /api/reload              reload sources
//	GET  /events                  Server-Sent Events
//
// # Response Format
//
// Success responses return JSON data. Error responses return JSON with an
// {error, details} structure; errors whose message says "not found" map to
// 404.
package handler
