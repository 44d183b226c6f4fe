// Package merge combines source bundles into one domain.Graph.
//
// Bundles are applied in order. A node id declared by several bundles keeps
// the first declaration that is a root; otherwise the later declaration
// replaces the earlier one. Structural issues (dangling connections, missing
// definitions, unknown path entries) are returned as problems and the
// offending item is dropped.
package merge

import (
	"skilltree/internal/domain"
)

type slot struct {
	node    domain.Node
	visible bool
}

// Merge builds a graph from the given bundles
func Merge(sources []domain.SourceBundle) (*domain.Graph, []domain.Problem) {
	var problems []domain.Problem

	definitions := make(map[string]*domain.Definition)
	for _, src := range sources {
		for id, def := range src.Definitions {
			if def == nil {
				continue
			}
			if def.ID == "" {
				named := *def
				named.ID = id
				def = &named
			}
			definitions[id] = def
		}
	}

	var order []string
	slots := make(map[string]*slot)

	for _, src := range sources {
		for _, n := range src.Nodes {
			if n.ID == "" {
				n.ID = domain.HashID(n.DefinitionID)
			}
			n.Source = src.Key
			n.IsHidden = !src.Primary

			existing, ok := slots[n.ID]
			if !ok {
				order = append(order, n.ID)
				slots[n.ID] = &slot{node: n, visible: src.Primary}
				continue
			}

			if src.Primary {
				existing.visible = true
			}
			if existing.node.IsRoot {
				continue
			}
			if !n.IsRoot {
				problems = append(problems, domain.Warnf(src.Key, n.ID,
					"node replaces declaration from %q", existing.node.Source))
			}
			existing.node = n
		}
	}

	nodes := make([]domain.Node, 0, len(order))
	known := make(map[string]bool, len(order))
	for _, id := range order {
		s := slots[id]
		n := s.node
		n.IsHidden = !s.visible
		if _, ok := definitions[n.DefinitionID]; !ok {
			problems = append(problems, domain.Errorf(n.Source, n.ID,
				"missing definition %q", n.DefinitionID))
			continue
		}
		nodes = append(nodes, n)
		known[n.ID] = true
	}

	var conns []domain.Connection
	seen := make(map[string]bool)
	for _, src := range sources {
		for _, c := range src.Connections {
			if c.Category == "" {
				c.Category = domain.ConnectionNormal
			}
			if c.ID == "" {
				c.ID = c.GenerateID()
			}
			if !known[c.From] || !known[c.To] {
				problems = append(problems, domain.Errorf(src.Key, c.ID,
					"connection %s -> %s references unknown node %q", c.From, c.To, missingEnd(c, known)))
				continue
			}
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			conns = append(conns, c)
		}
	}

	var paths []domain.Path
	for _, src := range sources {
		for i, p := range src.Paths {
			kept := make([]string, 0, len(p.NodeIDs))
			for _, id := range p.NodeIDs {
				if !known[id] {
					problems = append(problems, domain.Errorf(src.Key, id,
						"path %d references unknown node", i))
					continue
				}
				kept = append(kept, id)
			}
			paths = append(paths, domain.Path{Source: src.Key, Index: i, NodeIDs: kept})
		}
	}

	return domain.NewGraph(nodes, definitions, conns, paths), problems
}

func missingEnd(c domain.Connection, known map[string]bool) string {
	if !known[c.From] {
		return c.From
	}
	return c.To
}

// PathSource turns lists of definition identifiers into a non-primary bundle.
// Every entry becomes a root node at the origin whose id is the hash of the
// identifier.
func PathSource(key string, paths [][]string) domain.SourceBundle {
	bundle := domain.NewSourceBundle(key, false)
	added := make(map[string]bool)

	for i, entries := range paths {
		path := domain.Path{Source: key, Index: i, NodeIDs: make([]string, 0, len(entries))}
		for _, ident := range entries {
			node := domain.NewNode(ident, 0, 0, true)
			if !added[node.ID] {
				added[node.ID] = true
				bundle.AddNode(node)
			}
			path.NodeIDs = append(path.NodeIDs, node.ID)
		}
		bundle.Paths = append(bundle.Paths, path)
	}
	return bundle
}
