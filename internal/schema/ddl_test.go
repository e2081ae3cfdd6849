package schema

import (
	"strings"
	"testing"
)

func findStatement(t *testing.T, stmts []string, prefix string) string {
	t.Helper()
	for _, s := range stmts {
		if strings.HasPrefix(s, prefix) {
			return s
		}
	}
	t.Fatalf("no statement starting with %q", prefix)
	return ""
}

func TestCreateStatementsPostgres(t *testing.T) {
	stmts := CreateStatements(VersionCanonical, RenderOptions{Dialect: DialectPostgres})

	if len(stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(stmts))
	}

	release := findStatement(t, stmts, "CREATE TABLE release (")
	for _, want := range []string{
		"id integer",
		"genres text[]",
		"styles text[]",
		"master_id integer",
		"data_quality text",
	} {
		if !strings.Contains(release, want) {
			t.Errorf("release DDL missing %q:\n%s", want, release)
		}
	}
	if strings.Contains(release, "PRIMARY KEY") {
		t.Errorf("release.id must not be a primary key:\n%s", release)
	}

	track := findStatement(t, stmts, "CREATE TABLE track (")
	for _, want := range []string{
		"id serial",
		"release_id integer NOT NULL",
		"title text",
		"position text",
		"duration text",
	} {
		if !strings.Contains(track, want) {
			t.Errorf("track DDL missing %q:\n%s", want, track)
		}
	}

	format := findStatement(t, stmts, "CREATE TABLE format (")
	for _, want := range []string{"name text", "qty text", "text text"} {
		if !strings.Contains(format, want) {
			t.Errorf("format DDL missing %q:\n%s", want, format)
		}
	}
}

func TestCreateStatementsSQLite(t *testing.T) {
	stmts := CreateStatements(VersionCanonical, RenderOptions{Dialect: DialectSQLite})

	release := findStatement(t, stmts, "CREATE TABLE release (")
	// SQLite has no array type; genres/styles are stored as JSON text
	if strings.Contains(release, "text[]") {
		t.Errorf("sqlite DDL must not use text[]:\n%s", release)
	}
	if !strings.Contains(release, "genres TEXT") {
		t.Errorf("expected genres TEXT:\n%s", release)
	}

	track := findStatement(t, stmts, "CREATE TABLE track (")
	if !strings.Contains(track, "id INTEGER PRIMARY KEY AUTOINCREMENT") {
		t.Errorf("expected sqlite surrogate key:\n%s", track)
	}
}

func TestDropStatements(t *testing.T) {
	pg := DropStatements(VersionCanonical, RenderOptions{Dialect: DialectPostgres})
	if len(pg) != 5 {
		t.Fatalf("expected 5 drops, got %d", len(pg))
	}
	for _, stmt := range pg {
		if !strings.HasPrefix(stmt, "DROP TABLE IF EXISTS ") {
			t.Errorf("drop must use IF EXISTS: %s", stmt)
		}
		if !strings.HasSuffix(stmt, " CASCADE") {
			t.Errorf("canonical postgres drop must cascade: %s", stmt)
		}
	}

	// Children drop before release
	if pg[len(pg)-1] != "DROP TABLE IF EXISTS release CASCADE" {
		t.Errorf("release must drop last, got %s", pg[len(pg)-1])
	}

	// No CASCADE on sqlite or on the legacy version
	sqlite := DropStatements(VersionCanonical, RenderOptions{Dialect: DialectSQLite})
	for _, stmt := range sqlite {
		if strings.Contains(stmt, "CASCADE") {
			t.Errorf("sqlite drop must not cascade: %s", stmt)
		}
	}
	legacy := DropStatements(VersionLegacy, RenderOptions{Dialect: DialectPostgres})
	if len(legacy) != 3 {
		t.Fatalf("expected 3 legacy drops, got %d", len(legacy))
	}
	for _, stmt := range legacy {
		if strings.Contains(stmt, "CASCADE") {
			t.Errorf("legacy drop must not cascade: %s", stmt)
		}
	}
}

func TestEnforceKeys(t *testing.T) {
	opts := RenderOptions{Dialect: DialectPostgres, EnforceKeys: true}
	stmts := CreateStatements(VersionCanonical, opts)

	release := findStatement(t, stmts, "CREATE TABLE release (")
	if !strings.Contains(release, "id integer PRIMARY KEY") {
		t.Errorf("enforce-keys must declare release.id primary:\n%s", release)
	}

	track := findStatement(t, stmts, "CREATE TABLE track (")
	if !strings.Contains(track, "FOREIGN KEY (release_id) REFERENCES release (id)") {
		t.Errorf("enforce-keys must declare the foreign key:\n%s", track)
	}

	// Off by default: the import schema declares neither
	plain := CreateStatements(VersionCanonical, RenderOptions{Dialect: DialectPostgres})
	for _, stmt := range plain {
		if strings.Contains(stmt, "FOREIGN KEY") || strings.Contains(stmt, "PRIMARY KEY") {
			t.Errorf("default rendering must not declare keys:\n%s", stmt)
		}
	}
}

func TestIndexStatements(t *testing.T) {
	stmts := IndexStatements(VersionCanonical, RenderOptions{Dialect: DialectPostgres})

	// release id + master_id, plus release_id on each of the 4 children
	if len(stmts) != 6 {
		t.Fatalf("expected 6 index statements, got %d", len(stmts))
	}
	for _, stmt := range stmts {
		if !strings.HasPrefix(stmt, "CREATE INDEX IF NOT EXISTS idx_") {
			t.Errorf("unexpected index statement: %s", stmt)
		}
	}

	legacy := IndexStatements(VersionLegacy, RenderOptions{Dialect: DialectPostgres})
	if len(legacy) != 4 {
		t.Fatalf("expected 4 legacy index statements, got %d", len(legacy))
	}
}
