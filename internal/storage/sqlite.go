package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kgraph/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			graph TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			type TEXT NOT NULL,
			content JSON NOT NULL,
			search INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (graph, id)
		);`,
		`CREATE TABLE IF NOT EXISTS links (
			graph TEXT NOT NULL,
			position INTEGER NOT NULL,
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL,
			name TEXT NOT NULL,
			oriented INTEGER NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (graph, position)
		);`,
		`CREATE TABLE IF NOT EXISTS graphs (
			name TEXT PRIMARY KEY
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_position ON nodes(graph, position);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the stored snapshot of the named graph in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, name string, doc *graph.Document) error {
	if err := validateName(name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM nodes WHERE graph = ?",
		"DELETE FROM links WHERE graph = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, name); err != nil {
			return fmt.Errorf("failed to clear graph %s: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO graphs (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
		return fmt.Errorf("failed to register graph %s: %w", name, err)
	}

	// 1. Save Nodes
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (graph, position, id, type, content, search)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, n := range doc.Nodes {
		content, err := json.Marshal(n.Content)
		if err != nil {
			return fmt.Errorf("failed to encode node %s: %w", n.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, name, i, n.ID, n.Type, content, n.Search); err != nil {
			return fmt.Errorf("failed to save node %s: %w", n.ID, err)
		}
	}

	// 2. Save Links
	linkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO links (graph, position, from_id, to_id, name, oriented, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for i, l := range doc.Links {
		if _, err := linkStmt.ExecContext(ctx, name, i, l.From, l.To, l.Name, l.Oriented, l.Type); err != nil {
			return fmt.Errorf("failed to save link %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (*graph.Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	doc := emptyDocument()

	// 1. Load Nodes
	rows, err := s.db.QueryContext(ctx, "SELECT id, type, content, search FROM nodes WHERE graph = ? ORDER BY position", name)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec graph.NodeRecord
		var content []byte
		if err := rows.Scan(&rec.ID, &rec.Type, &content, &rec.Search); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		rec.Content, err = graph.DecodeContent(content)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s content: %v", graph.ErrFormat, rec.ID, err)
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Load Links
	linkRows, err := s.db.QueryContext(ctx, "SELECT from_id, to_id, name, oriented, type FROM links WHERE graph = ? ORDER BY position", name)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var rec graph.LinkRecord
		if err := linkRows.Scan(&rec.From, &rec.To, &rec.Name, &rec.Oriented, &rec.Type); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		doc.Links = append(doc.Links, rec)
	}
	if err := linkRows.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Names lists the graphs saved in the database.
func (s *SQLiteStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM graphs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query graphs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
