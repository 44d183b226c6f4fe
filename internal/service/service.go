package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"skilltree/internal/domain"
	"skilltree/internal/loader"
	"skilltree/internal/progress"
	"skilltree/internal/render"
	"skilltree/internal/repository"
	"skilltree/internal/session"
	"skilltree/internal/style"
	"skilltree/internal/viewport"

	"github.com/google/uuid"
)

// Source produces the bundles of one reload
type Source interface {
	Load() (*loader.Result, error)
}

// NodeInfo is a node with its definition and current state
type NodeInfo struct {
	Node       domain.Node        `json:"node"`
	Definition *domain.Definition `json:"definition"`
	State      domain.State       `json:"state"`
}

// ReloadSummary describes the outcome of a reload
type ReloadSummary struct {
	ID       string           `json:"id"`
	Files    int              `json:"files"`
	Nodes    int              `json:"nodes"`
	Paths    int              `json:"paths"`
	Problems []domain.Problem `json:"problems,omitempty"`
}

// Progress is the point budget of the session
type Progress struct {
	Earned    int      `json:"earned"`
	Spent     int      `json:"spent"`
	Spendable int      `json:"spendable"`
	Unlocked  []string `json:"unlocked"`
}

// GraphService provides business logic for the viewer session
type GraphService struct {
	source     Source
	repo       repository.Repository
	eventBus   *EventBus
	session    *session.Session
	tracker    *progress.Tracker
	sessionKey string
	styles     *style.Overlay

	// frameMu serialises everything that touches the session
	frameMu  sync.Mutex
	reloadMu sync.Mutex
}

// NewGraphService creates a new graph service. The session's path view
// unlocks through the service.
func NewGraphService(source Source, repo repository.Repository, eventBus *EventBus, sess *session.Session, tracker *progress.Tracker, sessionKey string) *GraphService {
	s := &GraphService{
		source:     source,
		repo:       repo,
		eventBus:   eventBus,
		session:    sess,
		tracker:    tracker,
		sessionKey: sessionKey,
	}
	sess.Paths().OnUnlock = func(nodeID string) {
		if err := s.unlock(context.Background(), nodeID); err != nil {
			log.Printf("service: path unlock %s: %v", nodeID, err)
		}
	}
	sess.Tree().OnNodeClick = func(nodeID string) {
		if s.tracker.State(nodeID) != domain.StateAffordable {
			return
		}
		if err := s.unlock(context.Background(), nodeID); err != nil {
			log.Printf("service: tree unlock %s: %v", nodeID, err)
		}
	}
	sess.Tree().OnHover = func(info viewport.HoverInfo, ok bool) {
		var payload any
		if ok {
			payload = info
		}
		s.eventBus.Publish(Event{Type: EventNodeHovered, Payload: payload})
	}
	return s
}

// SetStyles makes every reload publish the loaded style colors into o
func (s *GraphService) SetStyles(o *style.Overlay) {
	s.styles = o
}

// Restore loads the persisted unlocks and camera of the session
func (s *GraphService) Restore(ctx context.Context) error {
	unlocks, err := s.repo.ListUnlocked(ctx, s.sessionKey)
	if err != nil {
		return fmt.Errorf("restore unlocks: %w", err)
	}
	ids := make([]string, len(unlocks))
	for i, u := range unlocks {
		ids[i] = u.NodeID
	}
	s.tracker.Restore(ids)

	state, err := s.repo.GetViewState(ctx, s.sessionKey)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil
		}
		return fmt.Errorf("restore view: %w", err)
	}
	tab, err := session.ParseTab(state.Tab)
	if err != nil {
		tab = session.TabTree
	}

	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.session.RestoreView(session.ViewState{
		Tree:       viewStateTree(state),
		PathScroll: state.PathScroll,
		Tab:        tab,
	})
	log.Printf("service: restored %d unlocks and view of session %s", len(ids), s.sessionKey)
	return nil
}

// Reload reads every source, merges them and publishes the new graph
func (s *GraphService) Reload(ctx context.Context) (*ReloadSummary, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	result, err := s.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	g, problems := result.Merge()

	if s.styles != nil {
		s.styles.SetLoaded(result.Styles)
	}
	s.tracker.SetGraph(g)
	s.session.Publish(g, problems)

	summary := &ReloadSummary{
		ID:       uuid.New().String(),
		Files:    len(result.Files),
		Nodes:    g.Len(),
		Paths:    len(g.AllPaths()),
		Problems: problems,
	}

	if err := s.repo.SaveLoadReport(ctx, &repository.LoadReport{
		ID:       summary.ID,
		LoadedAt: time.Now(),
		Files:    result.Files,
		Nodes:    summary.Nodes,
		Problems: problems,
	}); err != nil {
		log.Printf("service: failed to save load report: %v", err)
	}

	for _, p := range problems {
		log.Printf("service: %s", p)
	}
	log.Printf("service: reloaded %d nodes from %d files", summary.Nodes, summary.Files)

	s.eventBus.Publish(Event{
		Type: EventGraphReloaded,
		Payload: map[string]any{
			"id":       summary.ID,
			"nodes":    summary.Nodes,
			"problems": len(problems),
			"errors":   domain.HasErrors(problems),
		},
	})

	return summary, nil
}

// Graph returns the current merged graph
func (s *GraphService) Graph() *domain.Graph {
	return s.session.Graph()
}

// Problems returns the problems of the last reload
func (s *GraphService) Problems() []domain.Problem {
	return s.session.Problems()
}

// History returns recent reload reports
func (s *GraphService) History(ctx context.Context, limit int) ([]repository.LoadReport, error) {
	return s.repo.ListLoadReports(ctx, limit)
}

// GetNode retrieves a single node with its definition and state
func (s *GraphService) GetNode(id string) (*NodeInfo, error) {
	g := s.Graph()
	n, ok := g.Node(id)
	if !ok {
		return nil, fmt.Errorf("node %s not found", id)
	}
	def, _ := g.DefinitionOf(id)
	return &NodeInfo{Node: n, Definition: def, State: s.tracker.State(id)}, nil
}

// Progress returns the point budget and unlocked nodes
func (s *GraphService) Progress() Progress {
	earned, spent, spendable := s.tracker.Points()
	unlocked := s.tracker.Unlocked()
	if unlocked == nil {
		unlocked = []string{}
	}
	return Progress{Earned: earned, Spent: spent, Spendable: spendable, Unlocked: unlocked}
}

// Unlock unlocks an affordable node and persists it
func (s *GraphService) Unlock(ctx context.Context, id string) error {
	return s.unlock(ctx, id)
}

func (s *GraphService) unlock(ctx context.Context, id string) error {
	if err := s.tracker.Unlock(id); err != nil {
		return err
	}

	source := ""
	if n, ok := s.Graph().Node(id); ok {
		source = n.Source
	}
	if err := s.repo.Unlock(ctx, s.sessionKey, repository.Unlock{NodeID: id, Source: source}); err != nil {
		return fmt.Errorf("persist unlock: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeUnlocked,
		Payload: map[string]string{"node_id": id},
	})
	return nil
}

// ResetProgress forgets every unlock of the session
func (s *GraphService) ResetProgress(ctx context.Context) error {
	if err := s.repo.ResetUnlocks(ctx, s.sessionKey); err != nil {
		return err
	}
	s.tracker.Reset()
	s.WithSession(func(sess *session.Session) {
		sess.Invalidate(session.FlagPaths)
	})
	s.eventBus.Publish(Event{Type: EventProgressReset})
	return nil
}

// Frame renders the active tab into a fresh recorder
func (s *GraphService) Frame() *render.Recorder {
	rec := render.NewRecorder()
	s.WithSession(func(sess *session.Session) {
		sess.Frame(rec)
	})
	return rec
}

// WithSession runs fn while holding the frame lock
func (s *GraphService) WithSession(fn func(sess *session.Session)) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	fn(s.session)
}

// ViewState returns the current camera
func (s *GraphService) ViewState() session.ViewState {
	var v session.ViewState
	s.WithSession(func(sess *session.Session) {
		v = sess.ViewState()
	})
	return v
}

// Zoom zooms the tree view around a point local to the view
func (s *GraphService) Zoom(x, y, delta float64) session.ViewState {
	return s.changeView(func(sess *session.Session) {
		sess.Sync()
		sess.Tree().Transform().ApplyZoom(x, y, delta)
	})
}

// Pan moves the tree view
func (s *GraphService) Pan(dx, dy int) session.ViewState {
	return s.changeView(func(sess *session.Session) {
		sess.Sync()
		sess.Tree().Transform().ApplyPan(dx, dy)
	})
}

// ScrollPaths scrolls the path view by wheel notches
func (s *GraphService) ScrollPaths(delta float64) session.ViewState {
	return s.changeView(func(sess *session.Session) {
		sess.Sync()
		sess.Paths().Scroll().ScrollByWheel(delta)
	})
}

// SetTab switches the active tab
func (s *GraphService) SetTab(tab session.Tab) session.ViewState {
	return s.changeView(func(sess *session.Session) {
		sess.SetTab(tab)
	})
}

func (s *GraphService) changeView(fn func(sess *session.Session)) session.ViewState {
	var v session.ViewState
	s.WithSession(func(sess *session.Session) {
		fn(sess)
		v = sess.ViewState()
	})
	s.eventBus.Publish(Event{Type: EventViewChanged, Payload: v})
	return v
}

// SaveView persists the current camera
func (s *GraphService) SaveView(ctx context.Context) error {
	v := s.ViewState()
	err := s.repo.SaveViewState(ctx, &repository.ViewState{
		SessionKey: s.sessionKey,
		OffsetX:    float64(v.Tree.X),
		OffsetY:    float64(v.Tree.Y),
		Scale:      v.Tree.Scale,
		PathScroll: v.PathScroll,
		Tab:        string(v.Tab),
	})
	if err != nil {
		return err
	}
	s.eventBus.Publish(Event{Type: EventViewSaved, Payload: v})
	return nil
}

func viewStateTree(v *repository.ViewState) viewport.State {
	return viewport.State{
		X:     int(math.Round(v.OffsetX)),
		Y:     int(math.Round(v.OffsetY)),
		Scale: v.Scale,
	}
}
