// Package transfer carries gene metadata across a patch build. For
// every gene whose stable ID was retained, the version recorded in
// the old database is bumped by one and written to the new database,
// and the description is copied forward under a fixed overwrite
// policy.
package transfer

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"

	"github.com/nds/ensembl-genomio/internal/domain"
	"github.com/nds/ensembl-genomio/internal/store"
)

// FetchOldMetadata enriches retained change events with the version
// and description their genes carry in the old database. Loading
// leaves field contents unchecked, so stable IDs are shape-checked
// here; a malformed ID or one missing from the old database aborts
// the fetch. Reads only.
func FetchOldMetadata(old *store.Store, events []domain.ChangeEvent) ([]domain.RetainedGene, error) {
	var records []domain.RetainedGene
	for _, event := range events {
		if err := domain.ValidateStableID(event.OldID); err != nil {
			return nil, fmt.Errorf("event history: %w", err)
		}
		gene, err := old.Genes.FetchByStableID(event.OldID)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.RetainedGene{
			ChangeEvent: event,
			Version:     gene.Version,
			Description: gene.Description,
		})
	}
	return records, nil
}

// Options configure one transfer run against the new database.
type Options struct {
	Store   *store.Store
	Records []domain.RetainedGene
	Update  bool // persist changes; default is a dry run
	Logger  zerolog.Logger
}

// Result reports what a transfer run did.
type Result struct {
	Processed int
	Replaced  int
	Updated   int
	DryRun    bool
}

// Apply walks the retained gene records and mutates the matching
// genes in the new database. The new version is always the old
// database's version plus one, regardless of what the new database
// currently holds. Any lookup or write failure aborts the run.
func Apply(opts Options) (*Result, error) {
	result := &Result{DryRun: !opts.Update}

	for _, record := range opts.Records {
		gene, err := opts.Store.Genes.FetchByStableID(record.NewID)
		if err != nil {
			return nil, err
		}

		version := record.Version + 1
		if gene.Version >= version {
			// The bump is computed from the old database, so a repeat
			// run against an already-updated target will not advance
			// the version.
			opts.Logger.Warn().
				Str("stable_id", gene.StableID).
				Int("current_version", gene.Version).
				Int("target_version", version).
				Msg("computed version does not advance the gene")
		}

		oldDesc := record.DescriptionText()
		newDesc := gene.DescriptionText()
		replace := ShouldReplaceDescription(oldDesc, newDesc)

		if replace {
			logDescriptionDiff(opts.Logger, gene.StableID, newDesc, oldDesc)
			gene.SetDescription(oldDesc)
			result.Replaced++
		}
		gene.Version = version

		opts.Logger.Debug().
			Str("stable_id", gene.StableID).
			Int("version", version).
			Bool("replace_description", replace).
			Bool("update", opts.Update).
			Msg("gene prepared")

		if opts.Update {
			if err := opts.Store.Genes.Update(gene); err != nil {
				return nil, err
			}
			result.Updated++
		}
		result.Processed++
	}

	return result, nil
}

// logDescriptionDiff emits a unified diff of a description overwrite
// at debug level, so dry runs can show exactly what would change.
func logDescriptionDiff(logger zerolog.Logger, stableID, current, incoming string) {
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(incoming),
		FromFile: "current",
		ToFile:   "incoming",
		Context:  3,
	})
	if err != nil {
		return
	}
	logger.Debug().Str("stable_id", stableID).Msg("description diff:\n" + diff)
}
