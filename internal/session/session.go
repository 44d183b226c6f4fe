package session

import (
	"fmt"
	"sync/atomic"

	"skilltree/internal/domain"
	"skilltree/internal/input"
	"skilltree/internal/path"
	"skilltree/internal/render"
	"skilltree/internal/style"
	"skilltree/internal/viewport"

	"github.com/google/uuid"
)

// Tab selects the active view
type Tab string

const (
	TabTree  Tab = "tree"
	TabPaths Tab = "paths"
)

// ParseTab parses a tab name
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabTree, TabPaths:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// UpdateFlags marks which parts of the session must be rebuilt on the next
// frame
type UpdateFlags uint32

const (
	FlagGraph UpdateFlags = 1 << iota
	FlagViewport
	FlagPaths

	FlagAll = FlagGraph | FlagViewport | FlagPaths
)

// Has reports whether every bit of o is set
func (f UpdateFlags) Has(o UpdateFlags) bool {
	return f&o == o
}

// ViewState is the restorable camera of a session
type ViewState struct {
	Tree       viewport.State `json:"tree"`
	PathScroll int            `json:"path_scroll"`
	Tab        Tab            `json:"tab"`
}

// Options configures a session
type Options struct {
	TreeRect  input.Rect
	PathsRect input.Rect
	Resolver  *style.Resolver
	States    domain.StateEvaluator
	Clock     path.Clock
}

// Session is the explicit context of one viewer
type Session struct {
	ID uuid.UUID

	current atomic.Pointer[snapshot]
	flags   atomic.Uint32

	states    domain.StateEvaluator
	tab       Tab
	treeRect  input.Rect
	pathsRect input.Rect
	tree      *viewport.Widget
	paths     *path.View
	restore   *ViewState
}

// New creates a session showing an empty graph. A nil resolver uses the
// default palette; nil states report every node locked.
func New(opts Options) *Session {
	if opts.Resolver == nil {
		opts.Resolver = style.NewResolver(style.DefaultPalette(), nil)
	}
	if opts.States == nil {
		opts.States = domain.StateMap{}
	}

	s := &Session{
		ID:        uuid.New(),
		states:    opts.States,
		tab:       TabTree,
		treeRect:  opts.TreeRect,
		pathsRect: opts.PathsRect,
		tree:      viewport.NewWidget(opts.TreeRect, viewport.NewRenderer(opts.Resolver)),
		paths:     path.NewView(opts.PathsRect, opts.Resolver, opts.Clock),
	}
	s.Publish(domain.EmptyGraph(), nil)
	return s
}

// snapshot pairs a graph with the problems found while building it
type snapshot struct {
	graph    *domain.Graph
	problems []domain.Problem
}

// Graph returns the current graph; never nil
func (s *Session) Graph() *domain.Graph {
	return s.current.Load().graph
}

// Problems returns the problems reported with the current graph
func (s *Session) Problems() []domain.Problem {
	return s.current.Load().problems
}

// Snapshot returns the current graph together with its problems
func (s *Session) Snapshot() (*domain.Graph, []domain.Problem) {
	c := s.current.Load()
	return c.graph, c.problems
}

// Publish swaps in a new graph and marks everything dirty. The graph and
// its problems are replaced together.
func (s *Session) Publish(g *domain.Graph, problems []domain.Problem) {
	if g == nil {
		g = domain.EmptyGraph()
	}
	s.current.Store(&snapshot{graph: g, problems: problems})
	s.Invalidate(FlagAll)
}

// Invalidate raises dirty flags for the next frame
func (s *Session) Invalidate(f UpdateFlags) {
	s.flags.Or(uint32(f))
}

// Pending returns the flags the next frame will consume
func (s *Session) Pending() UpdateFlags {
	return UpdateFlags(s.flags.Load())
}

// States returns the state evaluator used for drawing and clicks
func (s *Session) States() domain.StateEvaluator {
	return s.states
}

// Tab returns the active tab
func (s *Session) Tab() Tab {
	return s.tab
}

// SetTab switches the active tab
func (s *Session) SetTab(t Tab) {
	s.tab = t
}

// Tree returns the tree view widget
func (s *Session) Tree() *viewport.Widget {
	return s.tree
}

// Paths returns the path view
func (s *Session) Paths() *path.View {
	return s.paths
}

// Resize changes the screen rectangles of both views
func (s *Session) Resize(tree, paths input.Rect) {
	if tree != s.treeRect {
		s.treeRect = tree
		s.Invalidate(FlagViewport)
	}
	if paths != s.pathsRect {
		s.pathsRect = paths
		s.Invalidate(FlagPaths)
	}
}

// ViewState captures the restorable camera
func (s *Session) ViewState() ViewState {
	s.Sync()
	return ViewState{
		Tree:       s.tree.Transform().State(),
		PathScroll: s.paths.Scroll().Offset(),
		Tab:        s.tab,
	}
}

// RestoreView applies a saved camera once the next frame has computed the
// limits it must be clamped to
func (s *Session) RestoreView(v ViewState) {
	s.restore = &v
	s.Invalidate(FlagViewport | FlagPaths)
}

// Sync consumes pending dirty flags without drawing
func (s *Session) Sync() UpdateFlags {
	f := UpdateFlags(s.flags.Swap(0))
	if f == 0 {
		return 0
	}
	g := s.Graph()

	if f&(FlagGraph|FlagViewport) != 0 {
		s.tree.Reset(g, s.treeRect)
	}
	if f&(FlagGraph|FlagPaths) != 0 {
		s.paths.Rebuild(g, s.pathsRect)
	}

	if r := s.restore; r != nil {
		s.restore = nil
		s.tree.Transform().SetView(r.Tree.X, r.Tree.Y, r.Tree.Scale)
		s.paths.Scroll().ScrollToOffset(r.PathScroll)
		if r.Tab != "" {
			s.tab = r.Tab
		}
	}
	return f
}

// Frame consumes dirty flags and draws the active tab
func (s *Session) Frame(surface render.Surface) {
	s.Sync()
	switch s.tab {
	case TabPaths:
		s.paths.Render(surface, s.states)
	default:
		s.tree.Render(surface, s.Graph(), s.states)
	}
}

// OnPointerDown routes a press to the active tab
func (s *Session) OnPointerDown(x, y float64, button input.Button) bool {
	s.Sync()
	if s.tab == TabPaths {
		return s.paths.OnPointerDown(x, y, button, s.states)
	}
	return s.tree.OnPointerDown(s.Graph(), x, y, button)
}

// OnPointerMove routes a move to the active tab
func (s *Session) OnPointerMove(x, y float64) {
	s.Sync()
	if s.tab == TabPaths {
		s.paths.OnPointerMove(x, y)
		return
	}
	s.tree.OnPointerMove(s.Graph(), x, y)
}

// OnPointerUp routes a release to the active tab
func (s *Session) OnPointerUp(x, y float64, button input.Button) {
	s.Sync()
	if s.tab == TabPaths {
		s.paths.OnPointerUp(x, y, button)
		return
	}
	s.tree.OnPointerUp(s.Graph(), x, y, button)
}

// OnScroll routes a wheel event to the active tab
func (s *Session) OnScroll(x, y, delta float64) bool {
	s.Sync()
	if s.tab == TabPaths {
		return s.paths.OnScroll(x, y, delta)
	}
	return s.tree.OnScroll(x, y, delta)
}
