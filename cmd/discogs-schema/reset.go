package main

import (
	"context"
	"fmt"
	"time"

	"github.com/polygonhell/discogs-load/internal/schema"
	"github.com/polygonhell/discogs-load/internal/store"
	"github.com/polygonhell/discogs-load/internal/util"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the schema tables",
	Long: `Produce a known-clean set of empty tables: drop every table of the
selected schema version (ignoring absence) and recreate it.

Drop and create run in one transaction, so a failed reset leaves the
previous state in place. Running reset repeatedly succeeds; any existing
data is lost on each run.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Bool("create-indexes", false, "also create the lookup indexes")
}

func runReset(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := context.Background()

	dialect, err := selectedDialect()
	if err != nil {
		return err
	}
	version, err := selectedVersion()
	if err != nil {
		return err
	}
	opts := renderOptions(dialect)
	createIndexes, _ := cmd.Flags().GetBool("create-indexes")

	db, err := store.Open(ctx, storeConfig(dialect))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	audit := openAudit()
	defer audit.Close()

	util.InfoLog("Resetting the schema (%s schema, %s)", version, dialect)

	stmts := schema.DropStatements(version, opts)
	stmts = append(stmts, schema.CreateStatements(version, opts)...)
	if createIndexes {
		stmts = append(stmts, schema.IndexStatements(version, opts)...)
	}

	start := time.Now()
	applyErr := db.Apply(ctx, stmts)
	audit.LogRun("reset", string(dialect), version.String(), len(stmts), time.Since(start), applyErr)
	if applyErr != nil {
		return applyErr
	}

	util.SuccessLog("Reset complete: %d empty tables", len(schema.Tables(version)))
	return nil
}
