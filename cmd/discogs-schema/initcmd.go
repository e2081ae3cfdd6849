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

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the schema tables",
	Long: `Create the tables of the selected schema version.

Creation is plain CREATE TABLE: if a table already exists the database
engine's error is reported unchanged. Use 'reset' for a run that succeeds
regardless of existing tables.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("create-indexes", false, "also create the lookup indexes")
}

func runInit(cmd *cobra.Command, args []string) error {
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

	util.InfoLog("Creating the tables (%s schema, %s)", version, dialect)

	stmts := schema.CreateStatements(version, opts)
	if createIndexes {
		stmts = append(stmts, schema.IndexStatements(version, opts)...)
	}

	start := time.Now()
	applyErr := db.Apply(ctx, stmts)
	audit.LogRun("init", string(dialect), version.String(), len(stmts), time.Since(start), applyErr)
	if applyErr != nil {
		return applyErr
	}

	util.SuccessLog("Created %d tables", len(schema.Tables(version)))
	if createIndexes {
		util.SuccessLog("Created lookup indexes")
	}
	return nil
}
