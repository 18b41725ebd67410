// Package store provides the persistence layer for gene metadata,
// abstracting over the SQLite and PostgreSQL core databases resolved
// through a registry.
package store

import (
	"github.com/nds/ensembl-genomio/internal/registry"
)

// Store is the root store that provides access to domain-specific stores.
type Store struct {
	conn *registry.Conn

	// source labels this database in errors and logs, e.g. "old" or "new"
	source string

	Genes *GeneStore
}

// New creates a new Store wrapping the given database connection.
func New(conn *registry.Conn, source string) *Store {
	s := &Store{conn: conn, source: source}
	s.Genes = &GeneStore{store: s}
	return s
}

// Conn returns the underlying database connection.
func (s *Store) Conn() *registry.Conn {
	return s.conn
}

// Source returns the label this store carries in errors and logs.
func (s *Store) Source() string {
	return s.source
}
