package domain

import (
	"fmt"
	"regexp"
)

// StableIDRegex matches the identifier shapes annotation pipelines emit:
// alphanumeric with embedded underscores, dots, or hyphens (e.g. ENSG00000139618,
// AGAP004707, TMU_012345.2).
var StableIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateStableID validates a gene stable identifier.
func ValidateStableID(id string) error {
	if id == "" {
		return fmt.Errorf("empty stable id")
	}
	if !StableIDRegex.MatchString(id) {
		return fmt.Errorf("invalid stable id %q: must be alphanumeric with optional '_', '.', or '-'", id)
	}
	return nil
}

// ValidateSpecies validates a production species name (lowercase binomial
// with underscores, e.g. anopheles_gambiae).
func ValidateSpecies(name string) error {
	if name == "" {
		return fmt.Errorf("empty species name")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("invalid species name %q: must be lowercase alphanumeric with underscores", name)
		}
	}
	return nil
}

// GeneNotFoundError is returned when a stable id has no gene row in a data
// source. It always aborts the run; a missing id means the history file and
// the databases disagree about the build.
type GeneNotFoundError struct {
	Source   string // which side of the transfer: "old" or "new"
	StableID string
}

func (e *GeneNotFoundError) Error() string {
	return fmt.Sprintf("gene %s not found in %s database", e.StableID, e.Source)
}
