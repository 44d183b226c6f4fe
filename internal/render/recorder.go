package render

import (
	"encoding/json"
	"sync"
)

// Op is one recorded primitive
type Op struct {
	Type string `json:"type"`
	View *View  `json:"view,omitempty"`
	Quad *Quad  `json:"quad,omitempty"`
	Line *Line  `json:"line,omitempty"`
	Text *Text  `json:"text,omitempty"`
}

// Recorder is a Surface that stores every primitive in order
type Recorder struct {
	mu  sync.Mutex
	ops []Op
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetView implements Surface
func (r *Recorder) SetView(v View) {
	r.append(Op{Type: "view", View: &v})
}

// DrawQuad implements Surface
func (r *Recorder) DrawQuad(q Quad) {
	r.append(Op{Type: "quad", Quad: &q})
}

// DrawLine implements Surface
func (r *Recorder) DrawLine(l Line) {
	r.append(Op{Type: "line", Line: &l})
}

// DrawText implements Surface
func (r *Recorder) DrawText(t Text) {
	r.append(Op{Type: "text", Text: &t})
}

func (r *Recorder) append(op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

// Ops returns a copy of the recorded primitives
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Quads returns the recorded quads
func (r *Recorder) Quads() []Quad {
	var out []Quad
	for _, op := range r.Ops() {
		if op.Quad != nil {
			out = append(out, *op.Quad)
		}
	}
	return out
}

// Lines returns the recorded lines
func (r *Recorder) Lines() []Line {
	var out []Line
	for _, op := range r.Ops() {
		if op.Line != nil {
			out = append(out, *op.Line)
		}
	}
	return out
}

// Reset drops everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}

// MarshalJSON encodes the recorded frame
func (r *Recorder) MarshalJSON() ([]byte, error) {
	ops := r.Ops()
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(struct {
		Ops []Op `json:"ops"`
	}{Ops: ops})
}
