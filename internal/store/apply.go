package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/polygonhell/discogs-load/internal/util"
	"github.com/schollz/progressbar/v3"
)

// Apply executes a list of DDL statements inside a single transaction.
// Both supported engines run DDL transactionally, so a failed statement
// rolls back the whole batch and the engine's error is surfaced with the
// statement that caused it. No local recovery is attempted.
func (s *Store) Apply(ctx context.Context, stmts []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bar := newStatementBar(len(stmts))

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if bar != nil {
				bar.Clear()
			}
			return fmt.Errorf("statement %q: %w", statementHead(stmt), err)
		}
		util.DebugLog("Executed: %s", statementHead(stmt))
		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// newStatementBar returns a progress bar for statement execution, or nil
// when stdout is not a terminal or quiet mode is active.
func newStatementBar(total int) *progressbar.ProgressBar {
	if !util.IsTerminal(os.Stdout.Fd()) || util.IsQuiet() {
		return nil
	}
	barWidth := 40
	if w := util.GetTerminalWidth(); w < 80 {
		barWidth = w / 2
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Executing"),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("stmts"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// statementHead trims a statement to its first line for error and debug
// output, so CREATE TABLE bodies don't flood the log.
func statementHead(stmt string) string {
	head, _, found := strings.Cut(strings.TrimSpace(stmt), "\n")
	if found {
		head += " ..."
	}
	return head
}
