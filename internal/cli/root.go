package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nds/ensembl-genomio/internal/config"
	"github.com/nds/ensembl-genomio/internal/domain"
	"github.com/nds/ensembl-genomio/internal/history"
	"github.com/nds/ensembl-genomio/internal/logging"
	"github.com/nds/ensembl-genomio/internal/registry"
	"github.com/nds/ensembl-genomio/internal/store"
	"github.com/nds/ensembl-genomio/internal/transfer"
)

var rootCmd = &cobra.Command{
	Use:   "genecarry",
	Short: "Carry gene versions and descriptions across a patch build",
	Long: `genecarry copies gene metadata between two annotation core databases
after a patch build. For every gene whose stable ID was retained, the
version recorded in the old database is bumped by one and written to
the new database, and the description is carried forward unless the
new database already holds a hand-curated one.

Databases are resolved through YAML registry files mapping species
names to SQLite or PostgreSQL data sources. By default nothing is
written; pass --update to persist the changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          noPositionalArgs,
	RunE:          runRoot,
}

var (
	rootOldRegistry string
	rootNewRegistry string
	rootSpecies     string
	rootEvents      string
	rootUpdate      bool
	rootVerbose     bool
	rootDebug       bool
)

// helpRequested records that the run only displayed help, so the
// process can exit with the usage status without printing an error.
var helpRequested bool

// errHelp signals that help was shown instead of a run.
var errHelp = errors.New("help requested")

// UsageError reports a command line mistake. It maps to exit status 2
// and is always accompanied by the usage text on stderr.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

func init() {
	rootCmd.Flags().StringVar(&rootOldRegistry, "old_registry", "", "Registry file for the old databases (required)")
	rootCmd.Flags().StringVar(&rootNewRegistry, "new_registry", "", "Registry file for the new databases (required)")
	rootCmd.Flags().StringVar(&rootSpecies, "species", "", "Production name of the species to process (required)")
	rootCmd.Flags().StringVar(&rootEvents, "events", "", "Stable ID event file from the patch build (required)")
	rootCmd.Flags().BoolVar(&rootUpdate, "update", false, "Write changes to the new database (default is a dry run)")
	rootCmd.Flags().BoolVar(&rootVerbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&rootDebug, "debug", false, "Enable trace logging")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpRequested = true
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.Long)
		fmt.Fprintln(cmd.ErrOrStderr())
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	})

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return &UsageError{msg: err.Error()}
	})
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	if helpRequested {
		return errHelp
	}
	return nil
}

// ExitCode maps an error returned by Execute to a process exit
// status: 0 on success, 2 for usage problems and help, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) || errors.Is(err, errHelp) {
		return 2
	}
	return 1
}

// IsHelp reports whether err only signals that help was shown.
func IsHelp(err error) bool {
	return errors.Is(err, errHelp)
}

func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return &UsageError{msg: fmt.Sprintf("unexpected argument %q", args[0])}
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if err := validateFlags(cmd); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logging.ResolveLevel(rootVerbose, rootDebug, cfg.LogLevel)
	logger := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	logger = logger.With().Str("run_id", uuid.NewString()).Logger()

	logger.Info().
		Str("species", rootSpecies).
		Str("events", rootEvents).
		Bool("update", rootUpdate).
		Msg("starting gene metadata transfer")

	// The registry decides which species exist; an odd-looking name is
	// worth a warning but never blocks the lookup.
	if err := domain.ValidateSpecies(rootSpecies); err != nil {
		logger.Warn().Err(err).Msg("species is not a canonical production name")
	}

	oldRegistry, err := registry.Load(rootOldRegistry)
	if err != nil {
		return err
	}
	newRegistry, err := registry.Load(rootNewRegistry)
	if err != nil {
		return err
	}

	// Stage 1: load the stable ID event history
	events, err := history.Load(rootEvents)
	if err != nil {
		return err
	}
	retained := history.Retained(events)
	logger.Info().
		Int("events", len(events)).
		Int("retained", len(retained)).
		Msg("event history loaded")

	// Stage 2: read authoritative metadata from the old database
	oldConn, err := oldRegistry.Open(rootSpecies, registry.ReadOnly)
	if err != nil {
		return err
	}
	defer oldConn.Close()

	records, err := transfer.FetchOldMetadata(store.New(oldConn, "old"), retained)
	if err != nil {
		return err
	}

	// Stage 3: carry the metadata onto the new database
	newConn, err := newRegistry.Open(rootSpecies, registry.ReadWrite)
	if err != nil {
		return err
	}
	defer newConn.Close()

	result, err := transfer.Apply(transfer.Options{
		Store:   store.New(newConn, "new"),
		Records: records,
		Update:  rootUpdate,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int("processed", result.Processed).
		Int("replaced", result.Replaced).
		Int("updated", result.Updated).
		Bool("dry_run", result.DryRun).
		Msg("transfer complete")

	if result.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(),
			"Dry run: processed %d retained genes, %d descriptions would be replaced (use --update to write changes)\n",
			result.Processed, result.Replaced)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(),
			"Processed %d retained genes, replaced %d descriptions, updated %d genes\n",
			result.Processed, result.Replaced, result.Updated)
	}
	return nil
}

// validateFlags enforces the required flags before any file or
// database is touched.
func validateFlags(cmd *cobra.Command) error {
	var missing []string
	if rootOldRegistry == "" {
		missing = append(missing, "--old_registry")
	}
	if rootNewRegistry == "" {
		missing = append(missing, "--new_registry")
	}
	if rootSpecies == "" {
		missing = append(missing, "--species")
	}
	if rootEvents == "" {
		missing = append(missing, "--events")
	}
	if len(missing) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return &UsageError{msg: fmt.Sprintf("required flag(s) %s not set", strings.Join(missing, ", "))}
	}
	return nil
}
