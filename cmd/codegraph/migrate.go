package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/codegraph/db"
	"github.com/oxhq/codegraph/migrate"
	"github.com/oxhq/codegraph/validate"
)

func newMigrateSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-schema",
		Short: "Create or update the graph store's schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			gdb, err := db.Connect(dsn, debug)
			if err != nil {
				return err
			}
			return db.Migrate(gdb)
		},
	}
}

// newMigrateCmd runs schema migration followed by the full source-code
// elimination pipeline in one step -- the convenience entrypoint for
// "get this store ready and migrate it" in a single command. For the
// elimination step alone, with the operator-facing --dry-run/--min-quality
// safety flags, use eliminate-source-code instead.
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema, then run the full source-code elimination pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := db.Connect(dsn, debug)
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate-schema step: %w", err)
			}

			d, err := connect()
			if err != nil {
				return err
			}
			return runElimination(cmd.Context(), d, false, 0)
		},
	}
}

func newEliminateSourceCodeCmd() *cobra.Command {
	var dryRun bool
	var minQuality float64

	cmd := &cobra.Command{
		Use:   "eliminate-source-code",
		Short: "Run the validation-gated source-code elimination pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := connect()
			if err != nil {
				return err
			}
			return runElimination(cmd.Context(), d, dryRun, minQuality)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check the validation gate and report without eliminating anything")
	cmd.Flags().Float64Var(&minQuality, "min-quality", 0, "abort if sampling accuracy falls below this fraction (0 disables the extra check)")
	return cmd
}

func runElimination(ctx context.Context, d *deps, dryRun bool, minQuality float64) error {
	report, err := d.validator.SampleAccuracy(ctx, validate.DefaultSampleSize)
	if err != nil {
		return err
	}
	fmt.Printf("validation gate: passed=%v score=%.4f samples=%d\n", report.Passed, report.Score, report.Samples)

	if minQuality > 0 && report.Score < minQuality {
		return fmt.Errorf("sampling accuracy %.4f below --min-quality %.4f", report.Score, minQuality)
	}

	if dryRun {
		if !report.Passed {
			return fmt.Errorf("dry run: validation gate failed: %s", report.Detail)
		}
		fmt.Println("dry run: validation gate passed, no changes made")
		return nil
	}

	result, err := d.manager().Execute(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("migration %s: outcome=%s eliminated=%d/%d\n",
		result.MigrationID, result.Outcome, result.ContainersEliminated, result.ContainersEnhanced)
	if result.Error != "" {
		fmt.Printf("  error: %s\n", result.Error)
	}

	if result.Outcome != migrate.OutcomeCompleted {
		return fmt.Errorf("migration finished with outcome %q", result.Outcome)
	}
	return nil
}
