// Command codegraph is the CLI surface spec.md §6 names: init, migrate,
// migrate-schema, eliminate-source-code, generate, round-trip, reset. Each
// subcommand is a thin wrapper that dials the store (db.Connect) and hands
// off to graph/generate/validate/migrate — no business logic lives here.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "codegraph",
		Short:         "Semantic round-trip code graph engine",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&dsn, "dsn", defaultDSN(), "database DSN (sqlite path, libsql:// URL, or postgres:// URL)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose SQL logging")

	root.AddCommand(
		newInitCmd(),
		newMigrateSchemaCmd(),
		newMigrateCmd(),
		newEliminateSourceCodeCmd(),
		newGenerateCmd(),
		newRoundTripCmd(),
		newResetCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "codegraph: %v\n", err)
		os.Exit(1)
	}
}

var (
	dsn   string
	debug bool
)

func defaultDSN() string {
	if v := os.Getenv("CODEGRAPH_DSN"); v != "" {
		return v
	}
	return "codegraph.db"
}
