package codec

import (
	"bytes"
	"strings"
	"testing"

	"skilltree/internal/domain"
	"skilltree/internal/merge"
)

const sampleYAML = `
key: class/swordsman
primary: true
definitions:
  slash:
    title: Slash
    description: A quick cut
    icon: {type: item, id: "minecraft:iron_sword"}
    frame: {type: advancement, frame: goal}
    size: 1.5
    cost: 2
    rewards:
      - type: attribute
        data: {attribute: attack_damage, value: 1}
  parry:
    title: Parry
    frame:
      type: texture
      available: frames/parry_available.png
      unlocked: frames/parry_unlocked.png
nodes:
  - definition: slash
    x: 0
    y: 0
    root: true
  - definition: parry
    x: 40
    y: 0
connections:
  normal:
    - from: slash
      to: parry
  exclusive:
    - from: parry
      to: slash
      bidirectional: true
      style: crimson
styles:
  crimson: "#FFDC143C"
`

const sampleJSON = `{
  "key": "class/swordsman",
  "primary": true,
  "definitions": {
    "slash": {"title": "Slash", "icon": {"type": "item", "id": "minecraft:iron_sword"}, "cost": 2}
  },
  "nodes": [{"definition": "slash", "x": 0, "y": 0, "root": true}]
}`

const sampleTOML = `
key = "fruit/gomu"
paths = [["gomu/pistol", "gomu/gatling"], ["gomu/balloon"]]

[definitions."gomu/pistol"]
title = "Pistol"

[definitions."gomu/gatling"]
title = "Gatling"

[definitions."gomu/balloon"]
title = "Balloon"
icon = { type = "effect", id = "minecraft:resistance" }
`

func TestYAMLCodec(t *testing.T) {
	doc, err := NewYAMLCodec().Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bundle, problems := doc.Bundle("fallback")
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
	if bundle.Key != "class/swordsman" || !bundle.Primary {
		t.Errorf("unexpected bundle header %s %v", bundle.Key, bundle.Primary)
	}

	slash := bundle.Definitions["slash"]
	if slash == nil {
		t.Fatal("expected slash definition")
	}
	if slash.Icon.Kind != domain.IconItem || slash.Icon.Ref != "minecraft:iron_sword" {
		t.Errorf("unexpected icon %+v", slash.Icon)
	}
	if slash.Frame.Advancement != domain.AdvancementGoal {
		t.Errorf("expected goal frame, got %s", slash.Frame.Advancement)
	}
	if slash.Size != 1.5 || slash.Cost != 2 {
		t.Errorf("expected size 1.5 cost 2, got %f %d", slash.Size, slash.Cost)
	}
	if len(slash.Rewards) != 1 || slash.Rewards[0].Data["attribute"] != "attack_damage" {
		t.Errorf("unexpected rewards %+v", slash.Rewards)
	}

	parry := bundle.Definitions["parry"]
	if parry.Frame.Kind != domain.FrameTexture || parry.Frame.Unlocked != "frames/parry_unlocked.png" {
		t.Errorf("unexpected parry frame %+v", parry.Frame)
	}
	if parry.Cost != 1 {
		t.Errorf("expected default cost 1, got %d", parry.Cost)
	}

	if len(bundle.Nodes) != 2 || bundle.Nodes[0].ID != domain.HashID("slash") {
		t.Fatalf("unexpected nodes %+v", bundle.Nodes)
	}
	if len(bundle.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(bundle.Connections))
	}
	excl := bundle.Connections[1]
	if excl.Category != domain.ConnectionExclusive || excl.StyleID != "crimson" || !excl.Bidirectional {
		t.Errorf("unexpected exclusive connection %+v", excl)
	}

	styles, problems := doc.StyleColors("fallback")
	if len(problems) != 0 || styles["crimson"] != 0xFFDC143C {
		t.Errorf("unexpected styles %v %v", styles, problems)
	}

	g, problems := merge.Merge([]domain.SourceBundle{bundle})
	if len(problems) != 0 || g.Len() != 2 {
		t.Errorf("expected clean merge of 2 nodes, got %d and %v", g.Len(), problems)
	}
}

func TestJSONCodec(t *testing.T) {
	doc, err := NewJSONCodec().Parse(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bundle, _ := doc.Bundle("fallback")
	if bundle.Definitions["slash"].Cost != 2 {
		t.Errorf("expected cost 2, got %d", bundle.Definitions["slash"].Cost)
	}

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := NewJSONCodec().Parse(strings.NewReader(`{"key": "x", "bogus": 1}`))
		if err == nil {
			t.Error("expected error for unknown field")
		}
	})
}

func TestTOMLCodec(t *testing.T) {
	doc, err := NewTOMLCodec().Parse(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bundle, problems := doc.Bundle("fallback")
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
	if bundle.Primary {
		t.Error("expected non-primary bundle")
	}
	if len(bundle.Paths) != 2 || bundle.Paths[0].Len() != 2 {
		t.Fatalf("unexpected paths %+v", bundle.Paths)
	}
	if len(bundle.Nodes) != 3 {
		t.Errorf("expected 3 path nodes, got %d", len(bundle.Nodes))
	}
	for _, n := range bundle.Nodes {
		if !n.IsRoot {
			t.Errorf("expected path node %s to be root", n.DefinitionID)
		}
	}
	if bundle.Definitions["gomu/balloon"].Icon.Kind != domain.IconEffect {
		t.Error("expected effect icon")
	}

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := NewTOMLCodec().Parse(strings.NewReader("key = \"x\"\nbogus = 1\n"))
		if err == nil || !strings.Contains(err.Error(), "bogus") {
			t.Errorf("expected unknown key error, got %v", err)
		}
	})
}

func TestBundleProblems(t *testing.T) {
	doc := &Document{
		Key: "broken",
		Definitions: map[string]DefinitionDoc{
			"a": {Title: "A", Icon: IconDoc{Type: "hologram"}},
			"b": {Title: "B", Frame: FrameDoc{Type: "texture", Available: "x.png"}},
			"c": {Title: "C", Frame: FrameDoc{Frame: "epic"}},
		},
		Nodes: []NodeDoc{{X: 1}},
		Connections: ConnectionsDoc{
			Normal: []ConnectionDoc{{From: "a"}},
		},
		Styles: map[string]string{"bad": "blue"},
	}

	_, problems := doc.Bundle("")
	if len(problems) != 5 {
		t.Errorf("expected 5 problems, got %d: %v", len(problems), problems)
	}
	_, problems = doc.StyleColors("")
	if len(problems) != 1 {
		t.Errorf("expected 1 style problem, got %v", problems)
	}
}

func TestExportRoundTrip(t *testing.T) {
	doc, err := NewYAMLCodec().Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bundle, _ := doc.Bundle("")
	g, _ := merge.Merge([]domain.SourceBundle{bundle})
	out := FromGraph("exported", g)

	for _, format := range []string{"yaml", "json", "toml"} {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var buf bytes.Buffer
			if err := c.Export(out, &buf); err != nil {
				t.Fatalf("unexpected export error: %v", err)
			}
			back, err := c.Parse(&buf)
			if err != nil {
				t.Fatalf("unexpected parse error: %v\n%s", err, buf.String())
			}
			b2, problems := back.Bundle("")
			if len(problems) != 0 {
				t.Errorf("unexpected problems %v", problems)
			}
			g2, problems := merge.Merge([]domain.SourceBundle{b2})
			if len(problems) != 0 {
				t.Errorf("unexpected merge problems %v", problems)
			}
			if g2.Len() != g.Len() {
				t.Errorf("expected %d nodes, got %d", g.Len(), g2.Len())
			}
			if len(g2.Connections(domain.ConnectionExclusive)) != 1 {
				t.Error("expected exclusive connection to survive")
			}
		})
	}
}

func TestForPath(t *testing.T) {
	tests := map[string]string{
		"tree.yaml": "yaml",
		"tree.yml":  "yaml",
		"tree.json": "json",
		"tree.TOML": "toml",
	}
	for path, want := range tests {
		c, err := ForPath(path)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", path, err)
			continue
		}
		if c.Format() != want {
			t.Errorf("%s: expected %s, got %s", path, want, c.Format())
		}
	}
	if _, err := ForPath("tree.xml"); err == nil {
		t.Error("expected error for xml")
	}
	if _, err := ForPath("tree"); err == nil {
		t.Error("expected error without extension")
	}
}
