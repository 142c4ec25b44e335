package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"kgview/internal/modules/graph/domain"
	apperrors "kgview/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const (
	sqliteScheme = "sqlite:"
	defaultTree  = "default"
)

// SQLiteTreeSource reads trees stored as adjacency rows. Source strings
// look like "sqlite:<db path>#<tree name>"; the name defaults to "default".
type SQLiteTreeSource struct {
	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewSQLiteTreeSource() *SQLiteTreeSource {
	return &SQLiteTreeSource{dbs: map[string]*sql.DB{}}
}

func (s *SQLiteTreeSource) Supports(source string) bool {
	return strings.HasPrefix(source, sqliteScheme)
}

func ParseSQLiteRef(source string) (dbPath, tree string, err error) {
	rest := strings.TrimPrefix(source, sqliteScheme)
	dbPath, tree, _ = strings.Cut(rest, "#")
	dbPath = strings.TrimSpace(dbPath)
	tree = strings.TrimSpace(tree)
	if dbPath == "" {
		return "", "", fmt.Errorf("%w: sqlite source %q has no database path", apperrors.ErrInvalidInput, source)
	}
	if tree == "" {
		tree = defaultTree
	}
	return dbPath, tree, nil
}

func (s *SQLiteTreeSource) open(ctx context.Context, dbPath string, create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if db, ok := s.dbs[dbPath]; ok {
		return db, nil
	}
	if !create {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: sqlite database %s", apperrors.ErrNotFound, dbPath)
		}
	} else if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s.dbs[dbPath] = db
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS trees (
  name TEXT PRIMARY KEY,
  kind TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS topics (
  tree TEXT NOT NULL,
  id INTEGER NOT NULL,
  parent_id INTEGER,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (tree, id)
);
CREATE INDEX IF NOT EXISTS idx_topics_parent ON topics(tree, parent_id, position);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create topics table: %w", err)
	}
	return nil
}

func (s *SQLiteTreeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for path, db := range s.dbs {
		errs = append(errs, db.Close())
		delete(s.dbs, path)
	}
	return errors.Join(errs...)
}

type topicRow struct {
	id          int64
	parentID    sql.NullInt64
	title       string
	description string
}

func (s *SQLiteTreeSource) Fetch(ctx context.Context, source string) (domain.RawTree, error) {
	dbPath, tree, err := ParseSQLiteRef(source)
	if err != nil {
		return domain.RawTree{}, err
	}
	db, err := s.open(ctx, dbPath, false)
	if err != nil {
		return domain.RawTree{}, err
	}

	var kind string
	err = db.QueryRowContext(ctx, `SELECT kind FROM trees WHERE name = ?`, tree).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RawTree{}, fmt.Errorf("%w: tree %q in %s", apperrors.ErrNotFound, tree, dbPath)
	}
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("load tree: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, parent_id, title, description
FROM topics
WHERE tree = ?
ORDER BY parent_id IS NOT NULL, parent_id, position, id;
`, tree)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()

	var root *topicRow
	children := map[int64][]topicRow{}
	for rows.Next() {
		var r topicRow
		if err := rows.Scan(&r.id, &r.parentID, &r.title, &r.description); err != nil {
			return domain.RawTree{}, fmt.Errorf("scan topic: %w", err)
		}
		if !r.parentID.Valid {
			if root == nil {
				root = &r
			}
			continue
		}
		children[r.parentID.Int64] = append(children[r.parentID.Int64], r)
	}
	if err := rows.Err(); err != nil {
		return domain.RawTree{}, fmt.Errorf("iterate topics: %w", err)
	}
	if root == nil {
		return domain.RawTree{}, fmt.Errorf("%w: tree %q has no root row", apperrors.ErrNotFound, tree)
	}

	var value map[string]any
	if domain.DocumentKind(kind) == domain.DocumentSubject {
		value = map[string]any{
			"subject": root.title,
			"topics":  rowsToTopics(root.id, children, 0),
		}
	} else {
		value = rowToTopic(*root, children, 0)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("digest tree: %w", err)
	}
	return domain.RawTree{
		Key:    sqliteScheme + dbPath + "#" + tree,
		Digest: domain.Digest(encoded),
		Value:  value,
	}, nil
}

// maxStoredDepth bounds reconstruction when rows form a cycle.
const maxStoredDepth = 256

func rowToTopic(r topicRow, children map[int64][]topicRow, depth int) map[string]any {
	t := map[string]any{"title": r.title}
	if r.description != "" {
		t["description"] = r.description
	}
	if kids := rowsToTopics(r.id, children, depth+1); len(kids) > 0 {
		t["topics"] = kids
	}
	return t
}

func rowsToTopics(parent int64, children map[int64][]topicRow, depth int) []any {
	if depth > maxStoredDepth {
		return nil
	}
	kids := children[parent]
	out := make([]any, 0, len(kids))
	for _, k := range kids {
		out = append(out, rowToTopic(k, children, depth))
	}
	return out
}

// Put replaces the named tree with the normalised form of value.
func (s *SQLiteTreeSource) Put(ctx context.Context, ref string, value any) error {
	dbPath, tree, err := ParseSQLiteRef(ref)
	if err != nil {
		return err
	}
	db, err := s.open(ctx, dbPath, true)
	if err != nil {
		return err
	}
	doc := domain.Normalize(value, "")

	txn, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tree import: %w", err)
	}
	defer txn.Rollback()

	if _, err := txn.ExecContext(ctx, `DELETE FROM topics WHERE tree = ?`, tree); err != nil {
		return fmt.Errorf("clear topics: %w", err)
	}
	if _, err := txn.ExecContext(ctx, `
INSERT INTO trees (name, kind) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET kind = excluded.kind;
`, tree, string(doc.Kind)); err != nil {
		return fmt.Errorf("upsert tree: %w", err)
	}

	stmt, err := txn.PrepareContext(ctx, `
INSERT INTO topics (tree, id, parent_id, position, title, description)
VALUES (?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return fmt.Errorf("prepare topic insert: %w", err)
	}
	defer stmt.Close()

	var next int64
	var insert func(t domain.Topic, parent sql.NullInt64, position int) error
	insert = func(t domain.Topic, parent sql.NullInt64, position int) error {
		next++
		id := next
		if _, err := stmt.ExecContext(ctx, tree, id, parent, position, t.Label, t.Description); err != nil {
			return fmt.Errorf("insert topic: %w", err)
		}
		for i, child := range t.Children {
			if err := insert(child, sql.NullInt64{Int64: id, Valid: true}, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(doc.Root, sql.NullInt64{}, 0); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit tree import: %w", err)
	}
	return nil
}
