package main

import (
	"context"
	"fmt"
	"time"

	"github.com/polygonhell/discogs-load/internal/store"
	"github.com/polygonhell/discogs-load/internal/util"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the live schema against the declared tables",
	Long: `Check that every table of the selected schema version exists with
exactly the declared columns and types.

Reports a per-table diff (missing tables, missing or unexpected columns,
type and nullability mismatches) and exits non-zero on any divergence.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	start := time.Now()
	diffs, err := db.Verify(ctx, version)
	if err != nil {
		return fmt.Errorf("verification error: %w", err)
	}

	failed := 0
	for _, diff := range diffs {
		switch {
		case diff.Missing:
			util.ErrorLog("%s: table missing", diff.Table)
			failed++
		case len(diff.Problems) > 0:
			for _, p := range diff.Problems {
				util.ErrorLog("%s: %s", diff.Table, p)
			}
			failed++
		default:
			util.InfoLog("%s: ok", diff.Table)
		}
	}

	var verifyErr error
	if failed > 0 {
		verifyErr = fmt.Errorf("%w: %d of %d tables diverge", util.ErrVerifyFailed, failed, len(diffs))
	}
	audit.LogRun("verify", string(dialect), version.String(), 0, time.Since(start), verifyErr)
	if verifyErr != nil {
		return verifyErr
	}

	util.SuccessLog("Schema matches (%s, %d tables)", version, len(diffs))
	return nil
}
