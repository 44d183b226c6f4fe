package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skilltree/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository. ":memory:" opens a private
// in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	if dbPath == ":memory:" {
		dsn = dbPath
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS view_state (
		session_key TEXT PRIMARY KEY,
		offset_x REAL NOT NULL DEFAULT 0,
		offset_y REAL NOT NULL DEFAULT 0,
		scale REAL NOT NULL DEFAULT 1,
		path_scroll INTEGER NOT NULL DEFAULT 0,
		tab TEXT,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS unlocks (
		session_key TEXT NOT NULL,
		node_id TEXT NOT NULL,
		source TEXT,
		unlocked_at DATETIME NOT NULL,
		PRIMARY KEY (session_key, node_id)
	);

	CREATE TABLE IF NOT EXISTS load_reports (
		id TEXT PRIMARY KEY,
		loaded_at DATETIME NOT NULL,
		files JSON,
		nodes INTEGER NOT NULL DEFAULT 0,
		problems JSON
	);

	CREATE INDEX IF NOT EXISTS idx_unlocks_session ON unlocks(session_key, unlocked_at);
	CREATE INDEX IF NOT EXISTS idx_load_reports_loaded ON load_reports(loaded_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// GetViewState loads the camera of a session
func (r *Repository) GetViewState(ctx context.Context, sessionKey string) (*repository.ViewState, error) {
	var row viewStateRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+viewStateColumns+`
		FROM view_state WHERE session_key = ?
	`, sessionKey).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("view state %s not found", sessionKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query view state: %w", err)
	}
	return row.toRepository(), nil
}

// SaveViewState upserts the camera of a session
func (r *Repository) SaveViewState(ctx context.Context, state *repository.ViewState) error {
	if state.SessionKey == "" {
		return fmt.Errorf("view state needs a session key")
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO view_state (session_key, offset_x, offset_y, scale, path_scroll, tab, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET
			offset_x = excluded.offset_x,
			offset_y = excluded.offset_y,
			scale = excluded.scale,
			path_scroll = excluded.path_scroll,
			tab = excluded.tab,
			updated_at = excluded.updated_at
	`, state.SessionKey, state.OffsetX, state.OffsetY, state.Scale, state.PathScroll,
		stringToNull(state.Tab), state.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save view state: %w", err)
	}
	return nil
}

// Unlock records an unlocked node. Unlocking twice keeps the first record.
func (r *Repository) Unlock(ctx context.Context, sessionKey string, u repository.Unlock) error {
	if u.NodeID == "" {
		return fmt.Errorf("unlock needs a node id")
	}
	if u.UnlockedAt.IsZero() {
		u.UnlockedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO unlocks (session_key, node_id, source, unlocked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_key, node_id) DO NOTHING
	`, sessionKey, u.NodeID, stringToNull(u.Source), u.UnlockedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record unlock: %w", err)
	}
	return nil
}

// ListUnlocked returns the unlocks of a session in unlock order
func (r *Repository) ListUnlocked(ctx context.Context, sessionKey string) ([]repository.Unlock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT node_id, source, unlocked_at
		FROM unlocks WHERE session_key = ?
		ORDER BY unlocked_at, node_id
	`, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []repository.Unlock
	for rows.Next() {
		var (
			u      repository.Unlock
			source sql.NullString
		)
		if err := rows.Scan(&u.NodeID, &source, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		u.Source = nullToString(source)
		unlocks = append(unlocks, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unlocks: %w", err)
	}
	return unlocks, nil
}

// ResetUnlocks forgets every unlock of a session
func (r *Repository) ResetUnlocks(ctx context.Context, sessionKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unlocks WHERE session_key = ?`, sessionKey); err != nil {
		return fmt.Errorf("failed to reset unlocks: %w", err)
	}
	return nil
}

// SaveLoadReport stores the outcome of a reload
func (r *Repository) SaveLoadReport(ctx context.Context, report *repository.LoadReport) error {
	files, err := marshalToNull(report.Files)
	if err != nil {
		return fmt.Errorf("failed to marshal files: %w", err)
	}
	problems, err := marshalToNull(report.Problems)
	if err != nil {
		return fmt.Errorf("failed to marshal problems: %w", err)
	}
	if report.LoadedAt.IsZero() {
		report.LoadedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO load_reports (id, loaded_at, files, nodes, problems)
		VALUES (?, ?, ?, ?, ?)
	`, report.ID, report.LoadedAt.UTC(), files, report.Nodes, problems)
	if err != nil {
		return fmt.Errorf("failed to save load report: %w", err)
	}
	return nil
}

// ListLoadReports returns the most recent reports first
func (r *Repository) ListLoadReports(ctx context.Context, limit int) ([]repository.LoadReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, loaded_at, files, nodes, problems
		FROM load_reports
		ORDER BY loaded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load reports: %w", err)
	}
	defer rows.Close()

	var reports []repository.LoadReport
	for rows.Next() {
		var (
			rep             repository.LoadReport
			files, problems sql.NullString
		)
		if err := rows.Scan(&rep.ID, &rep.LoadedAt, &files, &rep.Nodes, &problems); err != nil {
			return nil, fmt.Errorf("failed to scan load report: %w", err)
		}
		if err := unmarshalJSONField(files, &rep.Files); err != nil {
			return nil, fmt.Errorf("failed to unmarshal files: %w", err)
		}
		if err := unmarshalJSONField(problems, &rep.Problems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal problems: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load reports: %w", err)
	}
	return reports, nil
}
