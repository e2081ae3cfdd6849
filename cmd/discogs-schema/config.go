package main

import (
	"github.com/polygonhell/discogs-load/internal/report"
	"github.com/polygonhell/discogs-load/internal/schema"
	"github.com/polygonhell/discogs-load/internal/store"
	"github.com/polygonhell/discogs-load/internal/util"
	"github.com/spf13/viper"
)

// setupLogging applies verbosity and color settings before a command runs.
func setupLogging() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
	util.SetColors(util.ColorsEnabled())
}

// selectedDialect parses the configured dialect.
func selectedDialect() (schema.Dialect, error) {
	return schema.ParseDialect(viper.GetString("dialect"))
}

// selectedVersion returns the schema version chosen by flags. The
// superseding 5-table version is the default; --legacy or
// --schema-version legacy selects the older 3-table form.
func selectedVersion() (schema.Version, error) {
	if viper.GetBool("legacy") {
		return schema.VersionLegacy, nil
	}
	name := viper.GetString("schema-version")
	if name == "" {
		return schema.VersionCanonical, nil
	}
	return schema.ParseVersion(name)
}

// renderOptions builds the DDL rendering options for a dialect.
func renderOptions(d schema.Dialect) schema.RenderOptions {
	return schema.RenderOptions{
		Dialect:     d,
		EnforceKeys: viper.GetBool("enforce-keys"),
	}
}

// openAudit opens the audit log for this run, falling back to a null
// logger when auditing is disabled or the directory cannot be created.
func openAudit() *report.AuditLogger {
	dir := viper.GetString("audit-dir")
	if dir == "" {
		return report.NullLogger()
	}
	logger, err := report.NewAuditLogger(dir)
	if err != nil {
		util.WarnLog("Failed to create audit log: %v", err)
		return report.NullLogger()
	}
	util.DebugLog("Audit log: %s", logger.Path())
	return logger
}

// storeConfig builds the connection config from flags, env and config file.
func storeConfig(d schema.Dialect) *store.Config {
	return &store.Config{
		Dialect:    d,
		Host:       viper.GetString("db-host"),
		Port:       viper.GetInt("db-port"),
		User:       viper.GetString("db-user"),
		Password:   viper.GetString("db-password"),
		DBName:     viper.GetString("db-name"),
		SQLitePath: viper.GetString("sqlite-path"),
	}
}
