package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/polygonhell/discogs-load/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "discogs-schema",
		Short: "Manage the Discogs release import schema",
		Long: `discogs-schema defines, resets, verifies and inspects the relational
schema that holds music-release metadata imported from Discogs data dumps
(release, release_label, release_video, track, format).

The schema lifecycle is wholesale: reset drops every table and recreates it
empty. There is no row-level migration; any existing data is lost on reset.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/discogs.yaml)")
	rootCmd.PersistentFlags().String("dialect", "postgres", "database dialect (postgres or sqlite)")
	rootCmd.PersistentFlags().String("db-host", "localhost", "database host")
	rootCmd.PersistentFlags().Int("db-port", 5432, "database port")
	rootCmd.PersistentFlags().String("db-user", "dev", "database user")
	rootCmd.PersistentFlags().String("db-password", "dev_pass", "database password")
	rootCmd.PersistentFlags().String("db-name", "discogs", "database name")
	rootCmd.PersistentFlags().String("sqlite-path", "discogs.db", "sqlite database file (dialect=sqlite)")
	rootCmd.PersistentFlags().String("audit-dir", "artifacts", "audit log directory (empty disables auditing)")
	rootCmd.PersistentFlags().String("schema-version", "canonical", "schema version (canonical or legacy)")
	rootCmd.PersistentFlags().Bool("legacy", false, "shorthand for --schema-version legacy")
	rootCmd.PersistentFlags().Bool("enforce-keys", false, "declare primary and foreign keys (off in the import schema)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("dialect", rootCmd.PersistentFlags().Lookup("dialect"))
	viper.BindPFlag("db-host", rootCmd.PersistentFlags().Lookup("db-host"))
	viper.BindPFlag("db-port", rootCmd.PersistentFlags().Lookup("db-port"))
	viper.BindPFlag("db-user", rootCmd.PersistentFlags().Lookup("db-user"))
	viper.BindPFlag("db-password", rootCmd.PersistentFlags().Lookup("db-password"))
	viper.BindPFlag("db-name", rootCmd.PersistentFlags().Lookup("db-name"))
	viper.BindPFlag("sqlite-path", rootCmd.PersistentFlags().Lookup("sqlite-path"))
	viper.BindPFlag("audit-dir", rootCmd.PersistentFlags().Lookup("audit-dir"))
	viper.BindPFlag("schema-version", rootCmd.PersistentFlags().Lookup("schema-version"))
	viper.BindPFlag("legacy", rootCmd.PersistentFlags().Lookup("legacy"))
	viper.BindPFlag("enforce-keys", rootCmd.PersistentFlags().Lookup("enforce-keys"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("discogs")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match. The replacer maps dashed
	// flag keys to env form, e.g. db-host <- DISCOGS_DB_HOST.
	viper.SetEnvPrefix("DISCOGS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
