package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"skilltree/internal/codec"
	"skilltree/internal/domain"
	"skilltree/internal/input"
	"skilltree/internal/service"
	"skilltree/internal/session"

	"github.com/go-chi/chi/v5"
)

// GraphHandler handles skill tree API requests
type GraphHandler struct {
	svc *service.GraphService
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// ErrorResponse is the body of every error
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetGraph returns the merged graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Graph(), http.StatusOK)
}

// GetProblems returns the problems of the last reload
func (h *GraphHandler) GetProblems(w http.ResponseWriter, r *http.Request) {
	problems := h.svc.Problems()
	if problems == nil {
		problems = []domain.Problem{}
	}
	h.writeJSON(w, problems, http.StatusOK)
}

// GetHistory returns recent reload reports
func (h *GraphHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.History(r.Context(), 20)
	if err != nil {
		log.Printf("handler: failed to list history: %v", err)
		h.writeError(w, "Failed to list history", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, reports, http.StatusOK)
}

// GetNode returns a single node
func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := h.svc.GetNode(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get node", err)
		return
	}
	h.writeJSON(w, node, http.StatusOK)
}

// UnlockNode unlocks an affordable node
func (h *GraphHandler) UnlockNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Unlock(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to unlock node", err)
		return
	}
	node, err := h.svc.GetNode(id)
	if err != nil {
		h.writeServiceError(w, "Failed to get node", err)
		return
	}
	h.writeJSON(w, node, http.StatusOK)
}

// GetProgress returns the point budget
func (h *GraphHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Progress(), http.StatusOK)
}

// ResetProgress forgets every unlock
func (h *GraphHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetProgress(r.Context()); err != nil {
		log.Printf("handler: failed to reset progress: %v", err)
		h.writeError(w, "Failed to reset progress", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, h.svc.Progress(), http.StatusOK)
}

// GetView returns the camera of the session
func (h *GraphHandler) GetView(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.ViewState(), http.StatusOK)
}

// ZoomRequest zooms around a point local to the tree view
type ZoomRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
}

// Zoom zooms the tree view
func (h *GraphHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, h.svc.Zoom(req.X, req.Y, req.Delta), http.StatusOK)
}

// PanRequest moves the tree view by a pixel delta
type PanRequest struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Pan pans the tree view
func (h *GraphHandler) Pan(w http.ResponseWriter, r *http.Request) {
	var req PanRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, h.svc.Pan(req.DX, req.DY), http.StatusOK)
}

// ScrollRequest scrolls the path view by wheel notches
type ScrollRequest struct {
	Delta float64 `json:"delta"`
}

// Scroll scrolls the path view
func (h *GraphHandler) Scroll(w http.ResponseWriter, r *http.Request) {
	var req ScrollRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, h.svc.ScrollPaths(req.Delta), http.StatusOK)
}

// TabRequest switches the active tab
type TabRequest struct {
	Tab string `json:"tab"`
}

// SetTab switches the active tab
func (h *GraphHandler) SetTab(w http.ResponseWriter, r *http.Request) {
	var req TabRequest
	if !h.decode(w, r, &req) {
		return
	}
	tab, err := session.ParseTab(req.Tab)
	if err != nil {
		h.writeError(w, "Invalid tab", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, h.svc.SetTab(tab), http.StatusOK)
}

// SaveView persists the camera
func (h *GraphHandler) SaveView(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SaveView(r.Context()); err != nil {
		log.Printf("handler: failed to save view: %v", err)
		h.writeError(w, "Failed to save view", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, h.svc.ViewState(), http.StatusOK)
}

// InputRequest is one pointer event in session screen coordinates
type InputRequest struct {
	Type   string  `json:"type"` // down, move, up or scroll
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
}

// InputResponse reports whether the event was consumed
type InputResponse struct {
	Handled bool              `json:"handled"`
	Hovered string            `json:"hovered,omitempty"`
	View    session.ViewState `json:"view"`
}

// Input replays a pointer event into the session
func (h *GraphHandler) Input(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if !h.decode(w, r, &req) {
		return
	}

	button := input.ButtonLeft
	if req.Button != "" {
		b, err := input.ParseButton(req.Button)
		if err != nil {
			h.writeError(w, "Invalid button", err.Error(), http.StatusBadRequest)
			return
		}
		button = b
	}

	var resp InputResponse
	valid := true
	h.svc.WithSession(func(sess *session.Session) {
		switch req.Type {
		case "down":
			resp.Handled = sess.OnPointerDown(req.X, req.Y, button)
		case "move":
			sess.OnPointerMove(req.X, req.Y)
			resp.Handled = true
		case "up":
			sess.OnPointerUp(req.X, req.Y, button)
			resp.Handled = true
		case "scroll":
			resp.Handled = sess.OnScroll(req.X, req.Y, req.Delta)
		default:
			valid = false
			return
		}
		resp.Hovered = sess.Tree().Hovered()
		resp.View = sess.ViewState()
	})
	if !valid {
		h.writeError(w, "Invalid event type", req.Type, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, resp, http.StatusOK)
}

// GetFrame returns the draw calls of the active tab
func (h *GraphHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Frame(), http.StatusOK)
}

// Export writes the merged graph as a source document
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "yaml"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	doc := codec.FromGraph("merged", h.svc.Graph())
	switch c.Format() {
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "toml":
		w.Header().Set("Content-Type", "application/toml")
	default:
		w.Header().Set("Content-Type", "application/yaml")
	}
	if err := c.Export(doc, w); err != nil {
		log.Printf("handler: failed to export %s: %v", format, err)
		// Can't write error response as we already started the body
		return
	}
}

// Reload reloads every source
func (h *GraphHandler) Reload(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Reload(r.Context())
	if err != nil {
		log.Printf("handler: failed to reload: %v", err)
		h.writeError(w, "Failed to reload", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, summary, http.StatusOK)
}

// Helper methods

func (h *GraphHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *GraphHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case strings.Contains(err.Error(), "not found"):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case strings.Contains(err.Error(), "not affordable"), strings.Contains(err.Error(), "already unlocked"):
		h.writeError(w, msg, err.Error(), http.StatusConflict)
	default:
		log.Printf("handler: %s: %v", strings.ToLower(msg), err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *GraphHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("handler: failed to encode JSON: %v", err)
	}
}

func (h *GraphHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("handler: failed to encode error response: %v", err)
	}
}
