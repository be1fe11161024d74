package datastore

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"webwatch/internal/common"
	"webwatch/internal/models"
)

// TargetStateStore persists per-target detection state in SQLite.
type TargetStateStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewTargetStateStore opens (or creates) the state database at the given
// path and ensures the schema exists.
func NewTargetStateStore(dataSourceName string, logger zerolog.Logger) (*TargetStateStore, error) {
	storeLogger := logger.With().Str("component", "TargetStateStore").Logger()
	storeLogger.Info().Str("db_path", dataSourceName).Msg("Initializing target state store")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, common.WrapError(err, "failed to create state database directory "+dbDir)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, common.WrapError(err, "sql.Open failed for "+dataSourceName)
	}

	store := &TargetStateStore{
		db:     dbInstance,
		logger: storeLogger,
	}

	if err := store.initSchema(); err != nil {
		store.Close()
		return nil, common.WrapError(err, "failed to initialize schema")
	}
	return store, nil
}

// Close closes the database connection.
func (s *TargetStateStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *TargetStateStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS target_state (
		url TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL DEFAULT '',
		normalized_text TEXT NOT NULL DEFAULT '',
		etag TEXT NOT NULL DEFAULT '',
		last_modified TEXT NOT NULL DEFAULT '',
		last_checked_at TEXT NOT NULL DEFAULT '',
		last_changed_at TEXT NOT NULL DEFAULT '',
		last_notified_at TEXT NOT NULL DEFAULT '',
		error_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return common.WrapError(err, "failed to create target_state table")
	}
	return nil
}

// Get returns the stored state for a URL, or nil when the target has never
// been seen.
func (s *TargetStateStore) Get(url string) (*models.TargetState, error) {
	query := `SELECT url, fingerprint, normalized_text, etag, last_modified,
		last_checked_at, last_changed_at, last_notified_at, error_count, last_error
		FROM target_state WHERE url = ?`

	state := &models.TargetState{}
	err := s.db.QueryRow(query, url).Scan(
		&state.URL,
		&state.Fingerprint,
		&state.NormalizedText,
		&state.ETag,
		&state.LastModified,
		&state.LastCheckedAt,
		&state.LastChangedAt,
		&state.LastNotifiedAt,
		&state.ErrorCount,
		&state.LastError,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapError(err, "failed to query target state for "+url)
	}
	return state, nil
}

// Apply performs a partial update of the target's row, creating the row
// first when the target is new. Nil update fields leave their columns
// untouched.
func (s *TargetStateStore) Apply(url string, update models.StateUpdate) error {
	columns, args := buildUpdateClause(update)
	if len(columns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return common.WrapError(err, "failed to begin state update for "+url)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO target_state (url) VALUES (?)`, url); err != nil {
		return common.WrapError(err, "failed to ensure target row for "+url)
	}

	query := "UPDATE target_state SET " + columns + " WHERE url = ?"
	args = append(args, url)
	if _, err := tx.Exec(query, args...); err != nil {
		return common.WrapError(err, "failed to update target state for "+url)
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "failed to commit state update for "+url)
	}

	s.logger.Debug().Str("url", url).Msg("Target state updated")
	return nil
}

// Touch updates only the last-checked timestamp for a URL.
func (s *TargetStateStore) Touch(url string, now time.Time) error {
	return s.Apply(url, models.StateUpdate{
		LastCheckedAt: models.String(now.UTC().Format(time.RFC3339)),
	})
}

// buildUpdateClause turns the non-nil fields of a StateUpdate into a SQL
// SET clause and its arguments, in a fixed column order.
func buildUpdateClause(update models.StateUpdate) (string, []interface{}) {
	type column struct {
		name  string
		value interface{}
		set   bool
	}
	columns := []column{
		{"fingerprint", deref(update.Fingerprint), update.Fingerprint != nil},
		{"normalized_text", deref(update.NormalizedText), update.NormalizedText != nil},
		{"etag", deref(update.ETag), update.ETag != nil},
		{"last_modified", deref(update.LastModified), update.LastModified != nil},
		{"last_checked_at", deref(update.LastCheckedAt), update.LastCheckedAt != nil},
		{"last_changed_at", deref(update.LastChangedAt), update.LastChangedAt != nil},
		{"last_notified_at", deref(update.LastNotifiedAt), update.LastNotifiedAt != nil},
	}

	var clause string
	var args []interface{}
	for _, col := range columns {
		if !col.set {
			continue
		}
		if clause != "" {
			clause += ", "
		}
		clause += col.name + " = ?"
		args = append(args, col.value)
	}
	if update.ErrorCount != nil {
		if clause != "" {
			clause += ", "
		}
		clause += "error_count = ?"
		args = append(args, *update.ErrorCount)
	}
	if update.LastError != nil {
		if clause != "" {
			clause += ", "
		}
		clause += "last_error = ?"
		args = append(args, *update.LastError)
	}
	return clause, args
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
