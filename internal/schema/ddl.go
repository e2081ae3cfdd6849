package schema

import (
	"fmt"
	"strings"

	"github.com/polygonhell/discogs-load/internal/util"
)

// Dialect selects the SQL dialect to render DDL for.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect validates a dialect name from config or flags.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(name)) {
	case DialectPostgres:
		return DialectPostgres, nil
	case DialectSQLite:
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q (want postgres or sqlite)", util.ErrUnknownDialect, name)
	}
}

// RenderOptions controls DDL rendering.
type RenderOptions struct {
	Dialect Dialect
	// EnforceKeys adds PRIMARY KEY on release.id and FOREIGN KEY
	// constraints on each release_id column. The import schema does not
	// declare either; this is an explicit opt-in for deployments that
	// want enforced referential integrity.
	EnforceKeys bool
}

// columnDDL renders one column definition.
//
// Array columns render as native text[] on Postgres. SQLite has no array
// type, so they render as TEXT holding a JSON array; Postgres is the
// reference dialect for array fidelity.
func columnDDL(c Column, opts RenderOptions) string {
	var typ string
	switch c.Type {
	case TypeInteger:
		typ = "integer"
		if opts.Dialect == DialectSQLite {
			typ = "INTEGER"
		}
	case TypeTextArray:
		typ = "text[]"
		if opts.Dialect == DialectSQLite {
			typ = "TEXT"
		}
	default:
		typ = "text"
		if opts.Dialect == DialectSQLite {
			typ = "TEXT"
		}
	}

	ddl := fmt.Sprintf("    %s %s", c.Name, typ)
	if c.NotNull {
		ddl += " NOT NULL"
	}
	return ddl
}

// surrogateDDL renders the auto-incrementing id column.
//
// Postgres serial columns are not primary keys unless declared so; the id
// stays a bare serial to match the import schema. SQLite auto-increment
// requires INTEGER PRIMARY KEY, which is the one place the dialects cannot
// agree.
func surrogateDDL(d Dialect) string {
	if d == DialectSQLite {
		return "    id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "    id serial"
}

// CreateStatements renders CREATE TABLE statements for a schema version in
// creation order, one statement per table.
func CreateStatements(v Version, opts RenderOptions) []string {
	tables := Tables(v)
	stmts := make([]string, 0, len(tables))

	for _, t := range tables {
		var cols []string
		if t.SurrogateKey {
			cols = append(cols, surrogateDDL(opts.Dialect))
		}
		for _, c := range t.Columns {
			ddl := columnDDL(c, opts)
			if opts.EnforceKeys && t.Name == "release" && c.Name == "id" {
				ddl += " PRIMARY KEY"
			}
			cols = append(cols, ddl)
		}
		if opts.EnforceKeys && t.Name != "release" {
			cols = append(cols, "    FOREIGN KEY (release_id) REFERENCES release (id)")
		}

		stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (\n%s\n)", t.Name, strings.Join(cols, ",\n")))
	}

	return stmts
}

// DropStatements renders DROP TABLE IF EXISTS statements for a schema
// version. The canonical version drops with CASCADE on Postgres so that
// dependent objects never block a reset; SQLite has no CASCADE clause.
// Tables drop in reverse creation order so enforced-key deployments drop
// children before the release table.
func DropStatements(v Version, opts RenderOptions) []string {
	tables := Tables(v)
	stmts := make([]string, 0, len(tables))

	cascade := ""
	if v == VersionCanonical && opts.Dialect == DialectPostgres {
		cascade = " CASCADE"
	}

	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s%s", tables[i].Name, cascade))
	}

	return stmts
}

// IndexStatements renders the lookup indexes for a schema version: the
// external id and master_id on release, and release_id on every child
// table. Index creation is optional and separate from table creation, the
// bulk import is faster against bare tables.
func IndexStatements(v Version, opts RenderOptions) []string {
	var stmts []string

	stmts = append(stmts,
		"CREATE INDEX IF NOT EXISTS idx_release_id ON release (id)",
		"CREATE INDEX IF NOT EXISTS idx_release_master_id ON release (master_id)",
	)

	for _, t := range Tables(v) {
		if t.Name == "release" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_release_id ON %s (release_id)", t.Name, t.Name))
	}

	return stmts
}
