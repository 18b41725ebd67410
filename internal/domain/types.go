package domain

// Gene represents a gene row in an annotation database. Only the fields this
// tool reads or writes are modeled; the databases own the rest of the schema.
type Gene struct {
	GeneID      int64   `db:"gene_id"`
	StableID    string  `db:"stable_id"`
	Biotype     string  `db:"biotype"`
	Version     int     `db:"version"`
	Description *string `db:"description"` // nil when the column is NULL
}

// DescriptionText returns the description, or "" when absent.
func (g *Gene) DescriptionText() string {
	if g.Description == nil {
		return ""
	}
	return *g.Description
}

// SetDescription replaces the description with the given text.
func (g *Gene) SetDescription(text string) {
	g.Description = &text
}

// ChangeEvent is one line of a stable-id event history file: what happened to
// a gene identifier between the old and the new build.
type ChangeEvent struct {
	NewID string
	Event string
	OldID string
}

// Retained reports whether the gene kept its stable identifier across the
// build. This is the only predicate the transfer stages filter on.
func (e ChangeEvent) Retained() bool {
	return e.NewID == e.OldID
}

// RetainedGene is a retained ChangeEvent enriched with the authoritative
// metadata read from the old data source. Built per run, never persisted.
type RetainedGene struct {
	ChangeEvent
	Version     int
	Description *string
}

// DescriptionText returns the old source's description, or "" when absent.
func (r *RetainedGene) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}
