package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kgraph/internal/graph"
)

// ErrInvalidName is returned for graph names that cannot be used as keys.
var ErrInvalidName = errors.New("invalid graph name")

// GraphStore persists graph documents under a name.
type GraphStore interface {
	// Load returns the named document. A graph that was never saved loads
	// as an empty document.
	Load(ctx context.Context, name string) (*graph.Document, error)

	// Save replaces the named document with doc.
	Save(ctx context.Context, name string, doc *graph.Document) error

	// Names lists the saved graphs in name order.
	Names(ctx context.Context) ([]string, error)

	Close() error
}

// Open selects a store by driver: "file" keeps one JSON document per graph in
// the directory path, "sqlite" keeps every graph in the database file path.
func Open(driver, path string) (GraphStore, error) {
	switch strings.ToLower(driver) {
	case "", "file", "json":
		return NewFileStore(path)
	case "sqlite", "sqlite3":
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func emptyDocument() *graph.Document {
	return &graph.Document{Nodes: []graph.NodeRecord{}, Links: []graph.LinkRecord{}}
}
