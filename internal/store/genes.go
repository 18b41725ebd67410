package store

import (
	"fmt"

	"github.com/nds/ensembl-genomio/internal/domain"
)

// GeneStore handles gene persistence operations.
type GeneStore struct {
	store *Store
}

// FetchByStableID returns the gene carrying the given stable ID.
// Exactly one row must match: an absent ID yields a
// *domain.GeneNotFoundError and a duplicated ID is an error, since
// stable IDs are unique within one core database.
func (gs *GeneStore) FetchByStableID(stableID string) (*domain.Gene, error) {
	conn := gs.store.conn
	query := conn.Rebind(`
		SELECT gene_id, stable_id, biotype, version, description
		FROM gene
		WHERE stable_id = ?
		LIMIT 2
	`)

	rows, err := conn.Query(query, stableID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gene %s: %w", stableID, err)
	}
	defer rows.Close()

	var genes []*domain.Gene
	for rows.Next() {
		var g domain.Gene
		if err := rows.Scan(&g.GeneID, &g.StableID, &g.Biotype, &g.Version, &g.Description); err != nil {
			return nil, fmt.Errorf("failed to scan gene %s: %w", stableID, err)
		}
		genes = append(genes, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gene %s: %w", stableID, err)
	}

	switch len(genes) {
	case 0:
		return nil, &domain.GeneNotFoundError{Source: gs.store.source, StableID: stableID}
	case 1:
		return genes[0], nil
	default:
		return nil, fmt.Errorf("stable ID %s matches more than one gene in %s database", stableID, gs.store.source)
	}
}

// Update persists the version and description of an already-fetched
// gene, keyed by its primary key. Exactly one row must be affected.
func (gs *GeneStore) Update(gene *domain.Gene) error {
	conn := gs.store.conn
	query := conn.Rebind("UPDATE gene SET version = ?, description = ? WHERE gene_id = ?")

	res, err := conn.Exec(query, gene.Version, gene.Description, gene.GeneID)
	if err != nil {
		return fmt.Errorf("failed to update gene %s: %w", gene.StableID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm update of gene %s: %w", gene.StableID, err)
	}
	if affected != 1 {
		return fmt.Errorf("update of gene %s affected %d rows, want 1", gene.StableID, affected)
	}
	return nil
}
