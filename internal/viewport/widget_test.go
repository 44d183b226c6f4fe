package viewport

import (
	"testing"

	"skilltree/internal/domain"
	"skilltree/internal/input"
	"skilltree/internal/render"
	"skilltree/internal/style"
)

func newTestWidget(g *domain.Graph) *Widget {
	rect := input.Rect{X: 100, Y: 50, Width: 800, Height: 600}
	w := NewWidget(rect, NewRenderer(style.NewResolver(style.DefaultPalette(), nil)))
	w.Reset(g, rect)
	return w
}

func TestWidgetClick(t *testing.T) {
	node := domain.NewNode("root", 0, 0, true)
	g := graphOf([]domain.Node{node}, nil)

	t.Run("press and release on a node clicks it", func(t *testing.T) {
		w := newTestWidget(g)
		var clicked string
		w.OnNodeClick = func(id string) { clicked = id }

		sx, sy := w.Transform().WorldToScreen(0, 0)
		x, y := sx+100, sy+50
		if !w.OnPointerDown(g, x, y, input.ButtonLeft) {
			t.Fatal("expected press inside the widget to be handled")
		}
		w.OnPointerUp(g, x, y, input.ButtonLeft)

		if clicked != node.ID {
			t.Errorf("expected click on %s, got %q", node.ID, clicked)
		}
	})

	t.Run("right button does not click", func(t *testing.T) {
		w := newTestWidget(g)
		clicked := false
		w.OnNodeClick = func(string) { clicked = true }

		sx, sy := w.Transform().WorldToScreen(0, 0)
		w.OnPointerDown(g, sx+100, sy+50, input.ButtonRight)
		w.OnPointerUp(g, sx+100, sy+50, input.ButtonRight)
		if clicked {
			t.Error("expected no click")
		}
	})

	t.Run("press outside is ignored", func(t *testing.T) {
		w := newTestWidget(g)
		if w.OnPointerDown(g, 10, 10, input.ButtonLeft) {
			t.Error("expected press outside the widget to be ignored")
		}
	})
}

func TestWidgetDrag(t *testing.T) {
	g := graphOf([]domain.Node{
		domain.NewNode("a", -2000, -2000, true),
		domain.NewNode("b", 2000, 2000, false),
	}, nil)
	w := newTestWidget(g)
	w.Transform().SetView(0, 0, 1)
	clicked := false
	w.OnNodeClick = func(string) { clicked = true }

	w.OnPointerDown(g, 500, 350, input.ButtonLeft)
	w.OnPointerMove(g, 530, 340)
	w.OnPointerMove(g, 540, 330)
	w.OnPointerUp(g, 540, 330, input.ButtonLeft)

	x, y := w.Transform().Offset()
	if x != 40 || y != -20 {
		t.Errorf("expected offset (40,-20), got (%d,%d)", x, y)
	}
	if clicked {
		t.Error("expected drag to not click")
	}

	w.OnPointerMove(g, 600, 300)
	x2, y2 := w.Transform().Offset()
	if x2 != x || y2 != y {
		t.Error("expected move after release to not pan")
	}
}

func TestWidgetScrollAndHover(t *testing.T) {
	node := domain.NewNode("root", 0, 0, true)
	g := graphOf([]domain.Node{
		node,
		domain.NewNode("far", 3000, 3000, false),
	}, nil)

	w := newTestWidget(g)
	w.Transform().SetView(0, 0, 1)

	t.Run("scroll zooms", func(t *testing.T) {
		before := w.Transform().Scale()
		if !w.OnScroll(500, 350, 1) {
			t.Fatal("expected scroll to be handled")
		}
		if w.Transform().Scale() <= before {
			t.Errorf("expected zoom in, got %f -> %f", before, w.Transform().Scale())
		}
		if w.OnScroll(0, 0, 1) {
			t.Error("expected scroll outside to be ignored")
		}
	})

	t.Run("hover reports definition text", func(t *testing.T) {
		var infos []HoverInfo
		var oks []bool
		w.OnHover = func(info HoverInfo, ok bool) {
			infos = append(infos, info)
			oks = append(oks, ok)
		}

		sx, sy := w.Transform().WorldToScreen(0, 0)
		w.OnPointerMove(g, sx+100, sy+50)
		w.OnPointerMove(g, sx+101, sy+50)
		w.OnPointerMove(g, sx+100+200, sy+50+200)

		if len(infos) != 2 {
			t.Fatalf("expected 2 hover changes, got %d", len(infos))
		}
		if !oks[0] || infos[0].NodeID != node.ID || infos[0].Title != "root" {
			t.Errorf("unexpected hover %+v", infos[0])
		}
		if oks[1] {
			t.Error("expected hover to end")
		}
	})

	t.Run("render shows the hovered title", func(t *testing.T) {
		sx, sy := w.Transform().WorldToScreen(0, 0)
		w.OnPointerMove(g, sx+100, sy+50)

		rec := render.NewRecorder()
		w.Render(rec, g, domain.StateMap{})

		var texts int
		for _, op := range rec.Ops() {
			if op.Text != nil {
				texts++
				if op.Text.Value != "root" {
					t.Errorf("expected title root, got %s", op.Text.Value)
				}
			}
		}
		if texts != 1 {
			t.Errorf("expected 1 text, got %d", texts)
		}
	})
}
