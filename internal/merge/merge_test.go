package merge

import (
	"testing"

	"skilltree/internal/domain"
)

func bundle(key string, primary bool, nodes ...domain.Node) domain.SourceBundle {
	b := domain.NewSourceBundle(key, primary)
	for _, n := range nodes {
		b.AddDefinition(domain.NewDefinition(n.DefinitionID, n.DefinitionID))
		b.AddNode(n)
	}
	return b
}

func TestMergeScenarioBaseAndFruit(t *testing.T) {
	base := bundle("class/warrior", true, domain.NewNode("root", 0, 0, true))
	fruit := bundle("fruit/gomu", false,
		domain.NewNode("gomu/1", 0, 40, false),
		domain.NewNode("gomu/2", 0, 80, false),
		domain.NewNode("gomu/3", 0, 120, false),
	)

	g, problems := Merge([]domain.SourceBundle{base, fruit})

	if len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
	if g.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.Len())
	}

	for _, n := range g.Nodes() {
		wantHidden := n.Source == "fruit/gomu"
		if n.IsHidden != wantHidden {
			t.Errorf("node %s: expected hidden=%v, got %v", n.DefinitionID, wantHidden, n.IsHidden)
		}
	}

	for _, cat := range []domain.ConnectionCategory{domain.ConnectionNormal, domain.ConnectionExclusive} {
		if adj := g.Adjacency(cat); len(adj) != 0 {
			t.Errorf("expected empty %s adjacency, got %v", cat, adj)
		}
	}

	if b := g.Bounds(); b.Min != (domain.Point{}) || b.Max != (domain.Point{}) {
		t.Errorf("expected bounds of the root only, got %+v", b)
	}
}

func TestMergeCollision(t *testing.T) {
	rootNode := domain.NewNode("shared", 10, 10, true)
	plainNode := domain.NewNode("shared", 99, 99, false)

	t.Run("root wins when first", func(t *testing.T) {
		g, _ := Merge([]domain.SourceBundle{
			bundle("a", true, rootNode),
			bundle("b", true, plainNode),
		})
		n, ok := g.Node(rootNode.ID)
		if !ok {
			t.Fatal("expected merged node")
		}
		if !n.IsRoot {
			t.Error("expected root node to win")
		}
		if n.Position != (domain.Point{X: 10, Y: 10}) {
			t.Errorf("expected root position, got %+v", n.Position)
		}
	})

	t.Run("root wins when last", func(t *testing.T) {
		g, _ := Merge([]domain.SourceBundle{
			bundle("b", true, plainNode),
			bundle("a", true, rootNode),
		})
		n, _ := g.Node(rootNode.ID)
		if !n.IsRoot {
			t.Error("expected root node to win")
		}
	})

	t.Run("later non-root overwrites with warning", func(t *testing.T) {
		first := domain.NewNode("dup", 1, 1, false)
		second := domain.NewNode("dup", 2, 2, false)
		g, problems := Merge([]domain.SourceBundle{
			bundle("a", true, first),
			bundle("b", true, second),
		})
		n, _ := g.Node(first.ID)
		if n.Position != (domain.Point{X: 2, Y: 2}) {
			t.Errorf("expected later node to win, got %+v", n.Position)
		}
		if n.Source != "b" {
			t.Errorf("expected source b, got %s", n.Source)
		}
		if len(problems) != 1 || problems[0].Severity != domain.SeverityWarning {
			t.Errorf("expected one warning, got %v", problems)
		}
	})

	t.Run("overwrite keeps the first slot", func(t *testing.T) {
		g, _ := Merge([]domain.SourceBundle{
			bundle("a", true, domain.NewNode("x", 0, 0, false), domain.NewNode("y", 0, 0, false)),
			bundle("b", true, domain.NewNode("x", 5, 5, false)),
		})
		nodes := g.Nodes()
		if nodes[0].DefinitionID != "x" || nodes[1].DefinitionID != "y" {
			t.Errorf("expected order x, y; got %s, %s", nodes[0].DefinitionID, nodes[1].DefinitionID)
		}
	})

	t.Run("node stays visible if a primary source declares it", func(t *testing.T) {
		g, _ := Merge([]domain.SourceBundle{
			bundle("tree", true, domain.NewNode("both", 0, 0, false)),
			bundle("path", false, domain.NewNode("both", 0, 0, true)),
		})
		n, _ := g.Node(domain.HashID("both"))
		if n.IsHidden {
			t.Error("expected node to stay visible")
		}
		if !n.IsRoot {
			t.Error("expected root declaration to win")
		}
	})
}

func TestMergeStructuralProblems(t *testing.T) {
	t.Run("drops dangling connections", func(t *testing.T) {
		a := domain.NewNode("a", 0, 0, true)
		b := domain.NewNode("b", 10, 0, false)
		src := bundle("tree", true, a, b)
		src.AddConnection(domain.NewConnection(a.ID, b.ID, false, domain.ConnectionNormal))
		src.AddConnection(domain.NewConnection(a.ID, "ghost", true, domain.ConnectionNormal))

		g, problems := Merge([]domain.SourceBundle{src})
		if len(g.Connections(domain.ConnectionNormal)) != 1 {
			t.Errorf("expected 1 connection, got %d", len(g.Connections(domain.ConnectionNormal)))
		}
		if len(problems) != 1 {
			t.Fatalf("expected 1 problem, got %v", problems)
		}
		if problems[0].Severity != domain.SeverityError || problems[0].Source != "tree" {
			t.Errorf("unexpected problem %v", problems[0])
		}
	})

	t.Run("drops nodes without definition", func(t *testing.T) {
		src := domain.NewSourceBundle("tree", true)
		src.AddNode(domain.NewNode("undefined", 0, 0, false))

		g, problems := Merge([]domain.SourceBundle{src})
		if g.Len() != 0 {
			t.Errorf("expected no nodes, got %d", g.Len())
		}
		if len(problems) != 1 {
			t.Errorf("expected 1 problem, got %v", problems)
		}
	})

	t.Run("definitions may come from another bundle", func(t *testing.T) {
		defs := domain.NewSourceBundle("definitions", false)
		defs.AddDefinition(domain.NewDefinition("shared", "Shared"))
		tree := domain.NewSourceBundle("tree", true)
		tree.AddNode(domain.NewNode("shared", 0, 0, true))

		g, problems := Merge([]domain.SourceBundle{tree, defs})
		if g.Len() != 1 || len(problems) != 0 {
			t.Errorf("expected 1 node and no problems, got %d and %v", g.Len(), problems)
		}
	})

	t.Run("connection to dropped node is dropped", func(t *testing.T) {
		src := bundle("tree", true, domain.NewNode("a", 0, 0, true))
		orphan := domain.NewNode("orphan", 0, 0, false)
		src.AddNode(orphan)
		src.AddConnection(domain.NewConnection(domain.HashID("a"), orphan.ID, true, domain.ConnectionExclusive))

		g, problems := Merge([]domain.SourceBundle{src})
		if len(g.Connections(domain.ConnectionExclusive)) != 0 {
			t.Error("expected connection to be dropped")
		}
		if len(problems) != 2 {
			t.Errorf("expected 2 problems, got %v", problems)
		}
	})
}

func TestMergeAdjacency(t *testing.T) {
	a := domain.NewNode("a", 0, 0, true)
	b := domain.NewNode("b", 10, 0, false)
	c := domain.NewNode("c", 20, 0, false)
	src := bundle("tree", true, a, b, c)
	src.AddConnection(domain.NewConnection(a.ID, b.ID, true, domain.ConnectionNormal))
	src.AddConnection(domain.NewConnection(b.ID, c.ID, false, domain.ConnectionNormal))
	src.AddConnection(domain.NewConnection(a.ID, c.ID, true, domain.ConnectionExclusive))

	g, _ := Merge([]domain.SourceBundle{src})
	normal := g.Adjacency(domain.ConnectionNormal)

	if !normal.Contains(a.ID, b.ID) || !normal.Contains(b.ID, a.ID) {
		t.Error("expected bidirectional a <-> b")
	}
	if !normal.Contains(c.ID, b.ID) {
		t.Error("expected c to see b")
	}
	if normal.Contains(b.ID, c.ID) {
		t.Error("expected b to not see c")
	}

	exclusive := g.Adjacency(domain.ConnectionExclusive)
	if !exclusive.Contains(a.ID, c.ID) || !exclusive.Contains(c.ID, a.ID) {
		t.Error("expected exclusive a <-> c")
	}
	if normal.Contains(a.ID, c.ID) {
		t.Error("expected categories to be separate")
	}
}

func TestPathSource(t *testing.T) {
	src := PathSource("fruit/gomu", [][]string{
		{"gomu/pistol", "gomu/gatling", "gomu/gear2"},
		{"gomu/balloon", "gomu/pistol"},
	})

	if src.Primary {
		t.Error("expected path source to not be primary")
	}
	if len(src.Nodes) != 4 {
		t.Errorf("expected 4 distinct nodes, got %d", len(src.Nodes))
	}
	for _, n := range src.Nodes {
		if !n.IsRoot {
			t.Errorf("expected %s to be root", n.DefinitionID)
		}
		if n.ID != domain.HashID(n.DefinitionID) {
			t.Errorf("expected hashed id for %s", n.DefinitionID)
		}
	}
	if len(src.Paths) != 2 || src.Paths[1].Len() != 2 {
		t.Fatalf("unexpected paths %v", src.Paths)
	}
	if src.Paths[1].NodeIDs[1] != domain.HashID("gomu/pistol") {
		t.Error("expected shared node id in second path")
	}

	t.Run("merged path nodes are hidden", func(t *testing.T) {
		defs := domain.NewSourceBundle("defs", false)
		for _, ident := range []string{"gomu/pistol", "gomu/gatling", "gomu/gear2", "gomu/balloon"} {
			defs.AddDefinition(domain.NewDefinition(ident, ident))
		}
		g, problems := Merge([]domain.SourceBundle{defs, src})
		if len(problems) != 0 {
			t.Errorf("expected no problems, got %v", problems)
		}
		for _, n := range g.Nodes() {
			if !n.IsHidden {
				t.Errorf("expected %s to be hidden", n.DefinitionID)
			}
		}
		if len(g.Paths("fruit/gomu")) != 2 {
			t.Errorf("expected 2 paths, got %d", len(g.Paths("fruit/gomu")))
		}
	})

	t.Run("unknown path entries are dropped", func(t *testing.T) {
		g, problems := Merge([]domain.SourceBundle{src})
		if len(problems) == 0 {
			t.Error("expected problems for missing definitions")
		}
		for _, p := range g.Paths("fruit/gomu") {
			if p.Len() != 0 {
				t.Errorf("expected empty path, got %v", p.NodeIDs)
			}
		}
	})
}
