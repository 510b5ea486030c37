// Package recall indexes archived exploration sessions for cross-project
// search.
//
// It uses SQLite with FTS5 full-text search so past conversations stay
// queryable long after a project has left the exploration phase. The
// index is an optional subsystem: the markdown archive remains the
// record of truth, and Compass runs fine without it.
package recall

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Entry is one indexed conversation session.
type Entry struct {
	ID            int64  `json:"id"`
	Project       string `json:"project"`
	Slug          string `json:"slug"`
	SessionNumber int    `json:"session_number"`
	Summary       string `json:"summary,omitempty"`
	Content       string `json:"content"`
	IndexedAt     string `json:"indexed_at"`
}

// SearchResult embeds an Entry with its FTS5 rank score.
type SearchResult struct {
	Entry
	Rank float64 `json:"rank"`
}

// SearchOptions holds filters for FTS5 search queries.
type SearchOptions struct {
	Slug  string `json:"slug,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Stats holds aggregate index statistics.
type Stats struct {
	TotalSessions int      `json:"total_sessions"`
	Projects      []string `json:"projects"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds recall index configuration.
type Config struct {
	DataDir          string
	MaxSearchResults int
}

// DefaultConfig returns the default configuration for the recall index.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:          filepath.Join(home, ".compass"),
		MaxSearchResults: 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the session index backed by SQLite + FTS5.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("recall: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "recall.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("recall: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("recall: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("recall: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			project        TEXT    NOT NULL,
			slug           TEXT    NOT NULL,
			session_number INTEGER NOT NULL,
			summary        TEXT    NOT NULL DEFAULT '',
			content        TEXT    NOT NULL,
			indexed_at     TEXT    NOT NULL DEFAULT (datetime('now')),
			UNIQUE(slug, session_number)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_slug    ON sessions(slug, session_number);
		CREATE INDEX IF NOT EXISTS idx_sessions_indexed ON sessions(indexed_at DESC);

		CREATE VIRTUAL TABLE IF NOT EXISTS sessions_fts USING fts5(
			project,
			summary,
			content,
			content='sessions',
			content_rowid='id'
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Create FTS triggers (idempotent)
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='sessions_fts_insert'",
	).Scan(&name)

	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER sessions_fts_insert AFTER INSERT ON sessions BEGIN
				INSERT INTO sessions_fts(rowid, project, summary, content)
				VALUES (new.id, new.project, new.summary, new.content);
			END;

			CREATE TRIGGER sessions_fts_delete AFTER DELETE ON sessions BEGIN
				INSERT INTO sessions_fts(sessions_fts, rowid, project, summary, content)
				VALUES ('delete', old.id, old.project, old.summary, old.content);
			END;

			CREATE TRIGGER sessions_fts_update AFTER UPDATE ON sessions BEGIN
				INSERT INTO sessions_fts(sessions_fts, rowid, project, summary, content)
				VALUES ('delete', old.id, old.project, old.summary, old.content);
				INSERT INTO sessions_fts(rowid, project, summary, content)
				VALUES (new.id, new.project, new.summary, new.content);
			END;
		`
		if _, err := s.db.Exec(triggers); err != nil {
			return err
		}
	}

	return nil
}

// ─── Indexing ────────────────────────────────────────────────────────────────

// IndexSession adds one archived conversation to the index. Re-indexing
// a session number that already exists for the project replaces the
// stored copy, so an amended archive file can be indexed again safely.
func (s *Store) IndexSession(project, slug string, sessionNumber int, content, summary string) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (project, slug, session_number, summary, content)
		VALUES (?, ?, ?, ?, ?)
	`, project, slug, sessionNumber, summary, content)

	if isUniqueViolation(err) {
		_, err = s.db.Exec(`
			UPDATE sessions
			SET project = ?, summary = ?, content = ?, indexed_at = ?
			WHERE slug = ? AND session_number = ?
		`, project, summary, content, now(), slug, sessionNumber)
	}
	if err != nil {
		return fmt.Errorf("index session %d for %q: %w", sessionNumber, slug, err)
	}
	return nil
}

// ─── Search (FTS5) ───────────────────────────────────────────────────────────

// Search performs full-text search across indexed sessions. If the query
// is empty or whitespace-only, falls back to returning recent sessions.
func (s *Store) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > s.cfg.MaxSearchResults {
		limit = s.cfg.MaxSearchResults
	}

	ftsQuery := sanitizeFTS(query)

	// Empty or whitespace-only query: fall back to recent sessions (no FTS).
	if ftsQuery == "" {
		return s.searchRecent(opts, limit)
	}

	sqlStr := `
		SELECT s.id, s.project, s.slug, s.session_number, s.summary, s.content, s.indexed_at,
		       fts.rank
		FROM sessions_fts fts
		JOIN sessions s ON s.id = fts.rowid
		WHERE sessions_fts MATCH ?
	`
	args := []any{ftsQuery}

	if opts.Slug != "" {
		sqlStr += " AND s.slug = ?"
		args = append(args, opts.Slug)
	}

	sqlStr += " ORDER BY fts.rank LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(
			&sr.ID, &sr.Project, &sr.Slug, &sr.SessionNumber,
			&sr.Summary, &sr.Content, &sr.IndexedAt,
			&sr.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// searchRecent returns the most recently indexed sessions without FTS,
// used as fallback when the query is empty or whitespace-only.
func (s *Store) searchRecent(opts SearchOptions, limit int) ([]SearchResult, error) {
	sqlStr := `
		SELECT id, project, slug, session_number, summary, content, indexed_at,
		       0 AS rank
		FROM sessions
	`
	var args []any

	if opts.Slug != "" {
		sqlStr += " WHERE slug = ?"
		args = append(args, opts.Slug)
	}

	sqlStr += " ORDER BY indexed_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("search recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(
			&sr.ID, &sr.Project, &sr.Slug, &sr.SessionNumber,
			&sr.Summary, &sr.Content, &sr.IndexedAt,
			&sr.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// ─── Timeline / Stats ────────────────────────────────────────────────────────

// Timeline returns the indexed sessions of one project, newest first.
func (s *Store) Timeline(slug string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > s.cfg.MaxSearchResults {
		limit = s.cfg.MaxSearchResults
	}

	rows, err := s.db.Query(`
		SELECT id, project, slug, session_number, summary, content, indexed_at
		FROM sessions
		WHERE slug = ?
		ORDER BY session_number DESC
		LIMIT ?
	`, slug, limit)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Project, &e.Slug, &e.SessionNumber,
			&e.Summary, &e.Content, &e.IndexedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns aggregate index statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	_ = s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions)

	rows, err := s.db.Query("SELECT project FROM sessions GROUP BY project ORDER BY MAX(indexed_at) DESC, project")
	if err != nil {
		return stats, nil
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err == nil {
			stats.Projects = append(stats.Projects, p)
		}
	}

	return stats, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// "checkout funnel" → `"checkout" "funnel"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		w = strings.Trim(w, `"`)
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// now returns the current time formatted for SQLite.
func now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
