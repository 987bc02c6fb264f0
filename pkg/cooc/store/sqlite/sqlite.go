package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
	"github.com/cognicore/cooc/pkg/cooc/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	params TEXT NOT NULL,
	docs INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS words (
	run_id TEXT NOT NULL,
	token TEXT NOT NULL,
	idx INTEGER NOT NULL,
	count INTEGER NOT NULL,
	doc_count INTEGER NOT NULL,
	PRIMARY KEY(run_id, token),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS associates (
	run_id TEXT NOT NULL,
	a TEXT NOT NULL,
	b TEXT NOT NULL,
	score REAL NOT NULL,
	PRIMARY KEY(run_id, a, b),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS synonyms (
	run_id TEXT NOT NULL,
	a TEXT NOT NULL,
	b TEXT NOT NULL,
	overlap REAL NOT NULL,
	PRIMARY KEY(run_id, a, b),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun writes a run and all its relations in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	params, err := json.Marshal(r.Params)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, r.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("save run %s: already stored: %w", r.ID, internalerr.ErrInvalidInput)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, params, docs) VALUES (?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), string(params), r.Docs,
	)
	if err != nil {
		return err
	}

	if err := insertWords(ctx, tx, r.ID, r.Words); err != nil {
		return err
	}
	if err := insertPairs(ctx, tx, `INSERT INTO associates (run_id, a, b, score) VALUES (?, ?, ?, ?)`, r.ID, r.Associates); err != nil {
		return err
	}
	if err := insertPairs(ctx, tx, `INSERT INTO synonyms (run_id, a, b, overlap) VALUES (?, ?, ?, ?)`, r.ID, r.Synonyms); err != nil {
		return err
	}

	return tx.Commit()
}

func insertWords(ctx context.Context, tx *sql.Tx, runID string, words []store.Word) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (run_id, token, idx, count, doc_count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, w := range words {
		if _, err := stmt.ExecContext(ctx, runID, w.Token, w.Index, w.Count, w.DocCount); err != nil {
			return fmt.Errorf("insert word %q: %w", w.Token, err)
		}
	}
	return nil
}

func insertPairs(ctx context.Context, tx *sql.Tx, query, runID string, pairs []store.Pair) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, runID, p.A, p.B, p.Weight); err != nil {
			return fmt.Errorf("insert pair (%s, %s): %w", p.A, p.B, err)
		}
	}
	return nil
}

// GetRun loads a run with all its relations.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r         store.Run
		createdAt string
		params    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, params, docs FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &createdAt, &params, &r.Docs)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	return s.loadRun(ctx, r, createdAt, params)
}

// LatestRun returns the run with the greatest ID.
func (s *sqliteStore) LatestRun(ctx context.Context) (store.Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("latest run: %w", internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	return s.GetRun(ctx, id)
}

func (s *sqliteStore) loadRun(ctx context.Context, r store.Run, createdAt, params string) (store.Run, error) {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s: created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return store.Run{}, fmt.Errorf("run %s: params: %w", r.ID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT token, idx, count, doc_count FROM words WHERE run_id = ? ORDER BY idx`, r.ID)
	if err != nil {
		return store.Run{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var w store.Word
		if err := rows.Scan(&w.Token, &w.Index, &w.Count, &w.DocCount); err != nil {
			return store.Run{}, err
		}
		r.Words = append(r.Words, w)
	}
	if err := rows.Err(); err != nil {
		return store.Run{}, err
	}

	if r.Associates, err = s.loadPairs(ctx, `SELECT a, b, score FROM associates WHERE run_id = ? ORDER BY a, b`, r.ID); err != nil {
		return store.Run{}, err
	}
	if r.Synonyms, err = s.loadPairs(ctx, `SELECT a, b, overlap FROM synonyms WHERE run_id = ? ORDER BY a, b`, r.ID); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func (s *sqliteStore) loadPairs(ctx context.Context, query string, args ...any) ([]store.Pair, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Pair
	for rows.Next() {
		var p store.Pair
		if err := rows.Scan(&p.A, &p.B, &p.Weight); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Associates returns the stored associates of word, highest score first.
func (s *sqliteStore) Associates(ctx context.Context, runID, word string) ([]store.Neighbor, error) {
	if err := s.checkWord(ctx, runID, word); err != nil {
		return nil, err
	}
	return s.loadNeighbors(ctx,
		`SELECT b, score FROM associates WHERE run_id = ? AND a = ? ORDER BY score DESC, b`,
		runID, word)
}

// Synonyms returns words sharing more than minOverlap associates with word.
func (s *sqliteStore) Synonyms(ctx context.Context, runID, word string, minOverlap float64) ([]store.Neighbor, error) {
	if err := s.checkWord(ctx, runID, word); err != nil {
		return nil, err
	}
	return s.loadNeighbors(ctx,
		`SELECT b, overlap FROM synonyms WHERE run_id = ? AND a = ? AND overlap > ? ORDER BY overlap DESC, b`,
		runID, word, minOverlap)
}

func (s *sqliteStore) checkWord(ctx context.Context, runID, word string) error {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words WHERE run_id = ? AND token = ?`, runID, word).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: word %q: %w", runID, word, internalerr.ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) loadNeighbors(ctx context.Context, query string, args ...any) ([]store.Neighbor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Neighbor
	for rows.Next() {
		var n store.Neighbor
		if err := rows.Scan(&n.Token, &n.Weight); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortNeighbors(out)
	return out, nil
}
