package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/polygonhell/discogs-load/internal/schema"
	"github.com/polygonhell/discogs-load/internal/store"
	"github.com/polygonhell/discogs-load/internal/util"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which schema tables exist and their row counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	util.InfoLog("=== Schema Status (%s schema, %s) ===", version, db.Dialect())

	missing := 0
	for _, name := range schema.TableNames(version) {
		exists, err := db.HasTable(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			util.WarnLog("  %-14s missing", name)
			missing++
			continue
		}

		count, err := db.RowCount(ctx, name)
		if err != nil {
			return err
		}
		util.InfoLog("  %-14s %s rows", name, humanize.Comma(count))
	}

	if missing > 0 {
		util.WarnLog("%d tables missing. Run 'discogs-schema reset' to create them.", missing)
	}
	return nil
}
