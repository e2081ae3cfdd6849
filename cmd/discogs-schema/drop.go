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

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the schema tables",
	Long: `Drop every table of the selected schema version.

Drops use IF EXISTS so missing tables are ignored; the canonical version
drops with CASCADE on Postgres. This is destructive: all imported data in
these tables is lost.`,
	RunE: runDrop,
}

func init() {
	rootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, args []string) error {
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

	db, err := store.Open(ctx, storeConfig(dialect))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	audit := openAudit()
	defer audit.Close()

	util.InfoLog("Dropping the tables (%s schema, %s)", version, dialect)

	stmts := schema.DropStatements(version, renderOptions(dialect))
	start := time.Now()
	applyErr := db.Apply(ctx, stmts)
	audit.LogRun("drop", string(dialect), version.String(), len(stmts), time.Since(start), applyErr)
	if applyErr != nil {
		return applyErr
	}

	util.SuccessLog("Dropped %d tables", len(schema.Tables(version)))
	return nil
}
