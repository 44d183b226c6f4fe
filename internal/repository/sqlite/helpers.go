package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"skilltree/internal/repository"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a slice to nullable JSON string.
// Returns empty NullString for nil or empty slices.
func marshalToNull[T any](v []T) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// View State Row Scanner
// ============================================================================
//
// CRITICAL: Column order must match between viewStateColumns and scanArgs().

const viewStateColumns = `session_key, offset_x, offset_y, scale, path_scroll, tab, updated_at`

// viewStateRow holds all columns from a view_state query for scanning
type viewStateRow struct {
	SessionKey string
	OffsetX    float64
	OffsetY    float64
	Scale      float64
	PathScroll int
	Tab        sql.NullString
	UpdatedAt  time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *viewStateRow) scanArgs() []interface{} {
	return []interface{}{
		&r.SessionKey,
		&r.OffsetX,
		&r.OffsetY,
		&r.Scale,
		&r.PathScroll,
		&r.Tab,
		&r.UpdatedAt,
	}
}

// toRepository converts the scanned row
func (r *viewStateRow) toRepository() *repository.ViewState {
	return &repository.ViewState{
		SessionKey: r.SessionKey,
		OffsetX:    r.OffsetX,
		OffsetY:    r.OffsetY,
		Scale:      r.Scale,
		PathScroll: r.PathScroll,
		Tab:        nullToString(r.Tab),
		UpdatedAt:  r.UpdatedAt,
	}
}
