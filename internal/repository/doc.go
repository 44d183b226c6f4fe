// Package repository defines the data access interfaces for skilltree.
//
// Source documents are the truth for the graph itself and are never
// stored. The repository keeps what a session accumulates on top of them:
// the camera, the unlocked nodes and a history of reloads.
//
// # SQLite Implementation
//
// The sqlite subpackage implements Repository on modernc.org/sqlite with
// WAL mode. The schema is created on startup.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
