package main

import (
	"fmt"

	"github.com/polygonhell/discogs-load/internal/schema"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the schema DDL without executing it",
	Long: `Print the DDL statements for the selected schema version and dialect,
exactly as init/drop/reset would execute them. No database connection is
made.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("drop", false, "print the teardown statements instead")
	showCmd.Flags().Bool("create-indexes", false, "include the lookup index statements")
}

func runShow(cmd *cobra.Command, args []string) error {
	setupLogging()

	dialect, err := selectedDialect()
	if err != nil {
		return err
	}
	version, err := selectedVersion()
	if err != nil {
		return err
	}
	opts := renderOptions(dialect)

	showDrop, _ := cmd.Flags().GetBool("drop")
	showIndexes, _ := cmd.Flags().GetBool("create-indexes")

	var stmts []string
	if showDrop {
		stmts = schema.DropStatements(version, opts)
	} else {
		stmts = schema.CreateStatements(version, opts)
		if showIndexes {
			stmts = append(stmts, schema.IndexStatements(version, opts)...)
		}
	}

	for _, stmt := range stmts {
		fmt.Printf("%s;\n\n", stmt)
	}
	return nil
}
