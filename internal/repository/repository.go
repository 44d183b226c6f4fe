package repository

import (
	"context"
	"time"

	"skilltree/internal/domain"
)

// ViewState is the persisted camera of one session
type ViewState struct {
	SessionKey string    `json:"session_key"`
	OffsetX    float64   `json:"offset_x"`
	OffsetY    float64   `json:"offset_y"`
	Scale      float64   `json:"scale"`
	PathScroll int       `json:"path_scroll"`
	Tab        string    `json:"tab,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Unlock records one unlocked node of a session
type Unlock struct {
	NodeID     string    `json:"node_id"`
	Source     string    `json:"source,omitempty"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// LoadReport records the outcome of one source reload
type LoadReport struct {
	ID       string           `json:"id"`
	LoadedAt time.Time        `json:"loaded_at"`
	Files    []string         `json:"files"`
	Nodes    int              `json:"nodes"`
	Problems []domain.Problem `json:"problems,omitempty"`
}

// Repository defines the interface for skill tree session persistence
type Repository interface {
	// View state
	GetViewState(ctx context.Context, sessionKey string) (*ViewState, error)
	SaveViewState(ctx context.Context, state *ViewState) error

	// Progress
	Unlock(ctx context.Context, sessionKey string, u Unlock) error
	ListUnlocked(ctx context.Context, sessionKey string) ([]Unlock, error)
	ResetUnlocks(ctx context.Context, sessionKey string) error

	// Reload history
	SaveLoadReport(ctx context.Context, report *LoadReport) error
	ListLoadReports(ctx context.Context, limit int) ([]LoadReport, error)

	// Close releases resources
	Close() error
}
