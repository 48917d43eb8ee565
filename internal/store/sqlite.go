package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/opensubtitles/langcompat/internal/model"
)

// SchemaVersion is written into every snapshot's meta table.
const SchemaVersion = "1"

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS languages (
	pos  INTEGER PRIMARY KEY,
	code TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS scores (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	seq    INTEGER NOT NULL,
	score  INTEGER NOT NULL CHECK (score BETWEEN 0 AND 255),
	PRIMARY KEY (source, target)
);
CREATE INDEX IF NOT EXISTS idx_scores_seq ON scores(seq);
`

// SQLiteStore reads the matrix from a SQLite snapshot written by
// WriteSQLite. The database is opened query-only.
type SQLiteStore struct {
	path string
	snap snapshot
}

// NewSQLiteStore returns a store backed by the snapshot at dbPath. Nothing
// is opened until the first Load.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{path: dbPath}
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.Matrix, error) {
	return s.snap.get(ctx, s.path, func() (*model.Matrix, error) {
		return s.read(ctx)
	})
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error { return nil }

func (s *SQLiteStore) read(ctx context.Context) (*model.Matrix, error) {
	// sqlite would create a missing file; a snapshot must already exist.
	if _, err := os.Stat(s.path); err != nil {
		return nil, &DataError{Path: s.path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, &DataError{Path: s.path, Op: "open", Err: err}
	}
	defer db.Close()

	m, err := readMatrix(ctx, db)
	if err != nil {
		return nil, &DataError{Path: s.path, Op: "query", Err: err}
	}
	return m, nil
}

func readMatrix(ctx context.Context, db *sql.DB) (*model.Matrix, error) {
	b := model.NewBuilder()
	known := make(map[string]bool)

	rows, err := db.QueryContext(ctx, `SELECT code FROM languages ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return nil, err
		}
		b.AddSource(code)
		known[code] = true
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT source, target, score FROM scores ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var source, target string
		var score int
		if err := rows.Scan(&source, &target, &score); err != nil {
			return nil, err
		}
		if !known[source] {
			return nil, fmt.Errorf("score %s->%s: source not in languages", source, target)
		}
		if !model.ValidScore(score) {
			return nil, fmt.Errorf("score %s->%s: %d outside [%d, %d]", source, target, score, model.MinScore, model.MaxScore)
		}
		b.Set(source, target, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// WriteSQLite writes m as a snapshot at dbPath, replacing any existing file
// only once the new snapshot is complete. It returns the snapshot ID
// recorded in the meta table.
func WriteSQLite(ctx context.Context, dbPath string, m *model.Matrix) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", fmt.Errorf("create db dir: %w", err)
	}

	var id string
	err := replaceFile(dbPath, func(tmp string) error {
		var err error
		id, err = writeSnapshot(ctx, tmp, m)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func writeSnapshot(ctx context.Context, dbPath string, m *model.Matrix) (string, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), rand.New(rand.NewSource(now.UnixNano()))).String()
	meta := [][2]string{
		{"schema_version", SchemaVersion},
		{"snapshot_id", id},
		{"created_at", now.Format(time.RFC3339)},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return "", fmt.Errorf("insert meta: %w", err)
		}
	}

	for i, src := range m.Sources() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO languages (pos, code) VALUES (?, ?)`, i, src); err != nil {
			return "", fmt.Errorf("insert language: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (source, target, seq, score) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	seq := 0
	var insertErr error
	m.Each(func(source, target string, score int) {
		if insertErr != nil {
			return
		}
		if _, err := stmt.ExecContext(ctx, source, target, seq, score); err != nil {
			insertErr = fmt.Errorf("insert score %s->%s: %w", source, target, err)
		}
		seq++
	})
	if insertErr != nil {
		return "", insertErr
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	if err := db.Close(); err != nil {
		return "", fmt.Errorf("close db: %w", err)
	}
	return id, nil
}

// SnapshotInfo reads the meta table of a snapshot.
func SnapshotInfo(ctx context.Context, dbPath string) (map[string]string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=query_only(1)")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		info[k] = v
	}
	return info, rows.Err()
}
