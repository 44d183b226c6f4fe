package loader

import (
	"os"
	"path/filepath"
	"testing"

	"skilltree/internal/domain"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const classDoc = `
definitions:
  slash: {title: Slash}
  parry: {title: Parry}
nodes:
  - {definition: slash, x: 0, y: 0, root: true}
  - {definition: parry, x: 40, y: 0}
connections:
  normal:
    - {from: slash, to: parry}
styles:
  crimson: "#FFDC143C"
`

const fruitDoc = `{
  "definitions": {"gomu/pistol": {"title": "Pistol"}},
  "paths": [["gomu/pistol"]],
  "styles": {"crimson": "#FF000000"}
}`

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "fruits/gomu.json", fruitDoc)
	writeFile(t, root, "classes/swordsman.yaml", classDoc)
	writeFile(t, root, "classes/notes.txt", "ignored")

	l, err := New(root, []string{"**/*.yaml", "**/*.json"}, []string{"classes/**"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", result.Files)
	}
	if len(result.Bundles) != 2 {
		t.Fatalf("expected 2 bundles, got %d", len(result.Bundles))
	}

	t.Run("primary first", func(t *testing.T) {
		if result.Bundles[0].Key != "classes/swordsman" || !result.Bundles[0].Primary {
			t.Errorf("expected primary classes/swordsman first, got %s", result.Bundles[0].Key)
		}
		if result.Bundles[1].Key != "fruits/gomu" || result.Bundles[1].Primary {
			t.Errorf("expected secondary fruits/gomu, got %s", result.Bundles[1].Key)
		}
	})

	t.Run("style override warns", func(t *testing.T) {
		if result.Styles["crimson"] != 0xFF000000 {
			t.Errorf("expected later style to win, got %s", result.Styles["crimson"])
		}
		if len(result.Problems) != 1 || result.Problems[0].Severity != domain.SeverityWarning {
			t.Errorf("expected one warning, got %v", result.Problems)
		}
	})

	t.Run("merge", func(t *testing.T) {
		g, problems := result.Merge()
		if len(problems) != 1 {
			t.Errorf("expected only the style warning, got %v", problems)
		}
		if g.Len() != 3 {
			t.Errorf("expected 3 nodes, got %d", g.Len())
		}
		pistol, ok := g.Node(domain.HashID("gomu/pistol"))
		if !ok || !pistol.IsHidden {
			t.Error("expected hidden path node")
		}
		if len(g.Paths("fruits/gomu")) != 1 {
			t.Errorf("expected 1 path, got %d", len(g.Paths("fruits/gomu")))
		}
	})
}

func TestLoadParseError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.yaml", "definitions: [not, a, map]\n")
	writeFile(t, root, "unknown.yaml", "bogus: 1\n")

	l, err := New(root, []string{"*.yaml"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Bundles) != 0 {
		t.Errorf("expected no bundles, got %d", len(result.Bundles))
	}
	if len(result.Problems) != 2 || !domain.HasErrors(result.Problems) {
		t.Errorf("expected 2 error problems, got %v", result.Problems)
	}
	if result.Problems[0].Source != "broken" {
		t.Errorf("expected source broken, got %s", result.Problems[0].Source)
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	if _, err := New(".", []string{"trees/[*.yaml"}, nil); err == nil {
		t.Error("expected error for bad pattern")
	}
}

func TestLoadNoMatches(t *testing.T) {
	l, _ := New(t.TempDir(), []string{"**/*.yaml"}, nil)
	result, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Bundles) != 0 || len(result.Problems) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	g, _ := result.Merge()
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.Len())
	}
}

func TestSourceKey(t *testing.T) {
	tests := map[string]string{
		"classes/swordsman.yaml": "classes/swordsman",
		"root.json":              "root",
		"a.b/c.toml":             "a.b/c",
	}
	for in, want := range tests {
		if got := SourceKey(in); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}
