// Package codec reads and writes skill tree source documents.
//
// A document describes one source: its definitions, the nodes placed in the
// tree, the connections between them, optional linear paths and named
// connection styles. Documents can be written in YAML, JSON or TOML; the
// format is picked from the file extension.
package codec

import (
	"sort"

	"skilltree/internal/domain"
)

// Document is the file representation of one source bundle
type Document struct {
	Key         string                   `yaml:"key" json:"key" toml:"key"`
	Primary     bool                     `yaml:"primary,omitempty" json:"primary,omitempty" toml:"primary,omitempty"`
	Definitions map[string]DefinitionDoc `yaml:"definitions,omitempty" json:"definitions,omitempty" toml:"definitions,omitempty"`
	Nodes       []NodeDoc                `yaml:"nodes,omitempty" json:"nodes,omitempty" toml:"nodes,omitempty"`
	Connections ConnectionsDoc           `yaml:"connections,omitempty" json:"connections,omitempty" toml:"connections,omitempty"`
	Paths       [][]string               `yaml:"paths,omitempty" json:"paths,omitempty" toml:"paths,omitempty"`
	Styles      map[string]string        `yaml:"styles,omitempty" json:"styles,omitempty" toml:"styles,omitempty"`
}

// DefinitionDoc is a definition entry
type DefinitionDoc struct {
	Title               string      `yaml:"title" json:"title" toml:"title"`
	Description         string      `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	ExtraDescription    string      `yaml:"extra_description,omitempty" json:"extra_description,omitempty" toml:"extra_description,omitempty"`
	Icon                IconDoc     `yaml:"icon,omitempty" json:"icon,omitempty" toml:"icon,omitempty"`
	Frame               FrameDoc    `yaml:"frame,omitempty" json:"frame,omitempty" toml:"frame,omitempty"`
	Size                float64     `yaml:"size,omitempty" json:"size,omitempty" toml:"size,omitempty"`
	Rewards             []RewardDoc `yaml:"rewards,omitempty" json:"rewards,omitempty" toml:"rewards,omitempty"`
	Cost                *int        `yaml:"cost,omitempty" json:"cost,omitempty" toml:"cost,omitempty"`
	RequiredSkills      int         `yaml:"required_skills,omitempty" json:"required_skills,omitempty" toml:"required_skills,omitempty"`
	RequiredPoints      int         `yaml:"required_points,omitempty" json:"required_points,omitempty" toml:"required_points,omitempty"`
	RequiredSpentPoints int         `yaml:"required_spent_points,omitempty" json:"required_spent_points,omitempty" toml:"required_spent_points,omitempty"`
	RequiredExclusions  int         `yaml:"required_exclusions,omitempty" json:"required_exclusions,omitempty" toml:"required_exclusions,omitempty"`
}

// IconDoc is an icon entry; Type is texture, item or effect
type IconDoc struct {
	Type string `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	ID   string `yaml:"id,omitempty" json:"id,omitempty" toml:"id,omitempty"`
}

// FrameDoc is a frame entry; Type is advancement or texture
type FrameDoc struct {
	Type       string `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	Frame      string `yaml:"frame,omitempty" json:"frame,omitempty" toml:"frame,omitempty"`
	Locked     string `yaml:"locked,omitempty" json:"locked,omitempty" toml:"locked,omitempty"`
	Available  string `yaml:"available,omitempty" json:"available,omitempty" toml:"available,omitempty"`
	Affordable string `yaml:"affordable,omitempty" json:"affordable,omitempty" toml:"affordable,omitempty"`
	Unlocked   string `yaml:"unlocked,omitempty" json:"unlocked,omitempty" toml:"unlocked,omitempty"`
	Excluded   string `yaml:"excluded,omitempty" json:"excluded,omitempty" toml:"excluded,omitempty"`
}

// RewardDoc is a reward entry
type RewardDoc struct {
	Type string         `yaml:"type" json:"type" toml:"type"`
	Data map[string]any `yaml:"data,omitempty" json:"data,omitempty" toml:"data,omitempty"`
}

// NodeDoc places a definition in the tree. ID defaults to the definition
// identifier; the node id is the hash of it.
type NodeDoc struct {
	ID         string `yaml:"id,omitempty" json:"id,omitempty" toml:"id,omitempty"`
	Definition string `yaml:"definition" json:"definition" toml:"definition"`
	X          int    `yaml:"x" json:"x" toml:"x"`
	Y          int    `yaml:"y" json:"y" toml:"y"`
	Root       bool   `yaml:"root,omitempty" json:"root,omitempty" toml:"root,omitempty"`
}

// ConnectionsDoc groups connections by category
type ConnectionsDoc struct {
	Normal    []ConnectionDoc `yaml:"normal,omitempty" json:"normal,omitempty" toml:"normal,omitempty"`
	Exclusive []ConnectionDoc `yaml:"exclusive,omitempty" json:"exclusive,omitempty" toml:"exclusive,omitempty"`
}

// ConnectionDoc is a connection entry. From and To name nodes by their
// document id.
type ConnectionDoc struct {
	From          string `yaml:"from" json:"from" toml:"from"`
	To            string `yaml:"to" json:"to" toml:"to"`
	Bidirectional bool   `yaml:"bidirectional,omitempty" json:"bidirectional,omitempty" toml:"bidirectional,omitempty"`
	Style         string `yaml:"style,omitempty" json:"style,omitempty" toml:"style,omitempty"`
}

// Bundle converts the document into a source bundle. Invalid entries are
// reported as problems and replaced by defaults or skipped.
func (d *Document) Bundle(fallbackKey string) (domain.SourceBundle, []domain.Problem) {
	key := d.Key
	if key == "" {
		key = fallbackKey
	}
	bundle := domain.NewSourceBundle(key, d.Primary)
	var problems []domain.Problem

	for _, id := range sortedKeys(d.Definitions) {
		def, defProblems := d.Definitions[id].definition(key, id)
		problems = append(problems, defProblems...)
		bundle.AddDefinition(def)
	}

	for _, n := range d.Nodes {
		if n.Definition == "" {
			problems = append(problems, domain.Errorf(key, n.ID, "node without definition"))
			continue
		}
		node := domain.NewNode(n.Definition, n.X, n.Y, n.Root)
		if n.ID != "" {
			node.ID = domain.HashID(n.ID)
		}
		bundle.AddNode(node)
	}

	add := func(entries []ConnectionDoc, cat domain.ConnectionCategory) {
		for _, c := range entries {
			if c.From == "" || c.To == "" {
				problems = append(problems, domain.Errorf(key, "", "%s connection with empty endpoint", cat))
				continue
			}
			conn := domain.NewConnection(domain.HashID(c.From), domain.HashID(c.To), c.Bidirectional, cat)
			conn.StyleID = c.Style
			bundle.AddConnection(conn)
		}
	}
	add(d.Connections.Normal, domain.ConnectionNormal)
	add(d.Connections.Exclusive, domain.ConnectionExclusive)

	if len(d.Paths) > 0 {
		seen := make(map[string]bool)
		for _, n := range bundle.Nodes {
			seen[n.ID] = true
		}
		for i, entries := range d.Paths {
			path := domain.Path{Source: key, Index: i}
			for _, ident := range entries {
				node := domain.NewNode(ident, 0, 0, true)
				if !seen[node.ID] {
					seen[node.ID] = true
					bundle.AddNode(node)
				}
				path.NodeIDs = append(path.NodeIDs, node.ID)
			}
			bundle.Paths = append(bundle.Paths, path)
		}
	}

	return bundle, problems
}

// StyleColors parses the named styles
func (d *Document) StyleColors(fallbackKey string) (map[string]domain.Color, []domain.Problem) {
	key := d.Key
	if key == "" {
		key = fallbackKey
	}
	out := make(map[string]domain.Color, len(d.Styles))
	var problems []domain.Problem
	for _, id := range sortedKeys(d.Styles) {
		c, err := domain.ParseColor(d.Styles[id])
		if err != nil {
			problems = append(problems, domain.Errorf(key, id, "style: %v", err))
			continue
		}
		out[id] = c
	}
	return out, problems
}

func (dd DefinitionDoc) definition(source, id string) (*domain.Definition, []domain.Problem) {
	var problems []domain.Problem
	def := domain.NewDefinition(id, dd.Title)
	def.Description = dd.Description
	def.ExtraDescription = dd.ExtraDescription
	def.RequiredSkills = dd.RequiredSkills
	def.RequiredPoints = dd.RequiredPoints
	def.RequiredSpentPoints = dd.RequiredSpentPoints
	def.RequiredExclusions = dd.RequiredExclusions
	if dd.Cost != nil {
		def.Cost = *dd.Cost
	}
	if dd.Size > 0 {
		def.Size = dd.Size
	} else if dd.Size < 0 {
		problems = append(problems, domain.Warnf(source, id, "negative size %v, using 1", dd.Size))
	}

	switch kind := domain.IconKind(dd.Icon.Type); kind {
	case "", domain.IconTexture:
		def.Icon = domain.Icon{Kind: domain.IconTexture, Ref: dd.Icon.ID}
	case domain.IconItem, domain.IconEffect:
		def.Icon = domain.Icon{Kind: kind, Ref: dd.Icon.ID}
	default:
		problems = append(problems, domain.Warnf(source, id, "unknown icon type %q", dd.Icon.Type))
	}

	switch kind := domain.FrameKind(dd.Frame.Type); kind {
	case "", domain.FrameAdvancement:
		frame := domain.AdvancementFrame(dd.Frame.Frame)
		switch frame {
		case "":
			frame = domain.AdvancementTask
		case domain.AdvancementTask, domain.AdvancementGoal, domain.AdvancementChallenge:
		default:
			problems = append(problems, domain.Warnf(source, id, "unknown advancement frame %q", dd.Frame.Frame))
			frame = domain.AdvancementTask
		}
		def.Frame = domain.Frame{Kind: domain.FrameAdvancement, Advancement: frame}
	case domain.FrameTexture:
		if dd.Frame.Available == "" || dd.Frame.Unlocked == "" {
			problems = append(problems, domain.Errorf(source, id, "texture frame needs available and unlocked textures"))
			break
		}
		def.Frame = domain.Frame{
			Kind:       domain.FrameTexture,
			Locked:     dd.Frame.Locked,
			Available:  dd.Frame.Available,
			Affordable: dd.Frame.Affordable,
			Unlocked:   dd.Frame.Unlocked,
			Excluded:   dd.Frame.Excluded,
		}
	default:
		problems = append(problems, domain.Warnf(source, id, "unknown frame type %q", dd.Frame.Type))
	}

	for _, r := range dd.Rewards {
		def.Rewards = append(def.Rewards, domain.Reward{Type: r.Type, Data: r.Data})
	}

	return def, problems
}

// FromGraph writes a merged graph back as a single primary document. Nodes
// and connections are referenced by definition identifier.
func FromGraph(key string, g *domain.Graph) *Document {
	doc := &Document{
		Key:         key,
		Primary:     true,
		Definitions: make(map[string]DefinitionDoc),
	}

	for _, n := range g.Nodes() {
		if def, ok := g.Definition(n.DefinitionID); ok {
			if _, done := doc.Definitions[def.ID]; !done {
				doc.Definitions[def.ID] = definitionDoc(def)
			}
		}
		if n.IsHidden {
			continue
		}
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:         n.DefinitionID,
			Definition: n.DefinitionID,
			X:          n.Position.X,
			Y:          n.Position.Y,
			Root:       n.IsRoot,
		})
	}

	defOf := func(id string) string {
		if n, ok := g.Node(id); ok {
			return n.DefinitionID
		}
		return id
	}
	conn := func(c domain.Connection) ConnectionDoc {
		return ConnectionDoc{From: defOf(c.From), To: defOf(c.To), Bidirectional: c.Bidirectional, Style: c.StyleID}
	}
	for _, c := range g.Connections(domain.ConnectionNormal) {
		doc.Connections.Normal = append(doc.Connections.Normal, conn(c))
	}
	for _, c := range g.Connections(domain.ConnectionExclusive) {
		doc.Connections.Exclusive = append(doc.Connections.Exclusive, conn(c))
	}

	for _, p := range g.AllPaths() {
		entries := make([]string, 0, p.Len())
		for _, id := range p.NodeIDs {
			entries = append(entries, defOf(id))
		}
		doc.Paths = append(doc.Paths, entries)
	}

	return doc
}

func definitionDoc(def *domain.Definition) DefinitionDoc {
	cost := def.Cost
	dd := DefinitionDoc{
		Title:               def.Title,
		Description:         def.Description,
		ExtraDescription:    def.ExtraDescription,
		Icon:                IconDoc{Type: string(def.Icon.Kind), ID: def.Icon.Ref},
		Size:                def.Size,
		Cost:                &cost,
		RequiredSkills:      def.RequiredSkills,
		RequiredPoints:      def.RequiredPoints,
		RequiredSpentPoints: def.RequiredSpentPoints,
		RequiredExclusions:  def.RequiredExclusions,
	}
	switch def.Frame.Kind {
	case domain.FrameTexture:
		dd.Frame = FrameDoc{
			Type:       string(domain.FrameTexture),
			Locked:     def.Frame.Locked,
			Available:  def.Frame.Available,
			Affordable: def.Frame.Affordable,
			Unlocked:   def.Frame.Unlocked,
			Excluded:   def.Frame.Excluded,
		}
	default:
		dd.Frame = FrameDoc{Type: string(domain.FrameAdvancement), Frame: string(def.Frame.Advancement)}
	}
	for _, r := range def.Rewards {
		dd.Rewards = append(dd.Rewards, RewardDoc{Type: r.Type, Data: r.Data})
	}
	return dd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
