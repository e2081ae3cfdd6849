package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/polygonhell/discogs-load/internal/schema"
)

func openMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), &Config{
		Dialect:    schema.DialectSQLite,
		SQLitePath: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func resetStatements(v schema.Version, opts schema.RenderOptions) []string {
	stmts := schema.DropStatements(v, opts)
	return append(stmts, schema.CreateStatements(v, opts)...)
}

func TestApplyCreatesDeclaredTables(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	opts := schema.RenderOptions{Dialect: schema.DialectSQLite}

	if err := s.Apply(ctx, schema.CreateStatements(schema.VersionCanonical, opts)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	tables, err := s.Tables(ctx)
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}

	for _, want := range schema.TableNames(schema.VersionCanonical) {
		found := false
		for _, got := range tables {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected table %s to exist, have %v", want, tables)
		}
	}
}

func TestResetIsRepeatable(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	opts := schema.RenderOptions{Dialect: schema.DialectSQLite}

	// First reset runs against an empty database: drops must tolerate
	// absent tables. The second runs against existing tables.
	for i := 0; i < 2; i++ {
		if err := s.Apply(ctx, resetStatements(schema.VersionCanonical, opts)); err != nil {
			t.Fatalf("reset %d failed: %v", i+1, err)
		}
	}

	// Reset discards existing rows
	if _, err := s.DB().Exec(`INSERT INTO release (id, title) VALUES (1, 'Test')`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := s.Apply(ctx, resetStatements(schema.VersionCanonical, opts)); err != nil {
		t.Fatalf("third reset failed: %v", err)
	}
	count, err := s.RowCount(ctx, "release")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty release table after reset, got %d rows", count)
	}
}

func TestOrphanChildRowsAreAccepted(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	opts := schema.RenderOptions{Dialect: schema.DialectSQLite}

	if err := s.Apply(ctx, schema.CreateStatements(schema.VersionCanonical, opts)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// The import schema declares no foreign keys: a child row whose
	// release_id matches no release must insert successfully.
	inserts := []string{
		`INSERT INTO release_label (release_id, label, catno) VALUES (999, 'Nonexistent', 'CAT-1')`,
		`INSERT INTO release_video (release_id, duration, src) VALUES (999, 120, 'https://example.com/v')`,
		`INSERT INTO track (release_id, title, position, duration) VALUES (999, 'Orphan', 'A1', '3:45')`,
		`INSERT INTO format (release_id, name, qty, text) VALUES (999, 'Vinyl', '1', '12"')`,
	}
	for _, q := range inserts {
		if _, err := s.DB().Exec(q); err != nil {
			t.Errorf("orphan insert failed (should succeed without FK): %v", err)
		}
	}

	// release_id itself stays NOT NULL
	if _, err := s.DB().Exec(`INSERT INTO track (title) VALUES ('No release')`); err == nil {
		t.Error("expected NOT NULL violation for track without release_id")
	}
}

func TestInsertAndQueryScenario(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	opts := schema.RenderOptions{Dialect: schema.DialectSQLite}

	if err := s.Apply(ctx, resetStatements(schema.VersionCanonical, opts)); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := s.DB().Exec(`INSERT INTO release (id, title) VALUES (1, 'Test')`); err != nil {
		t.Fatalf("release insert failed: %v", err)
	}
	if _, err := s.DB().Exec(
		`INSERT INTO track (release_id, title, position, duration) VALUES (1, 'A', 'A1', '3:30')`); err != nil {
		t.Fatalf("track insert failed: %v", err)
	}

	rows, err := s.DB().Query(`SELECT title, position, duration FROM track WHERE release_id = 1`)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var title, position, duration string
		if err := rows.Scan(&title, &position, &duration); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		if title != "A" || position != "A1" || duration != "3:30" {
			t.Errorf("unexpected row: %s %s %s", title, position, duration)
		}
		n++
	}
	if n != 1 {
		t.Errorf("expected exactly one track row, got %d", n)
	}
}

func TestArrayColumnsPreserveOrderAndDuplicates(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	opts := schema.RenderOptions{Dialect: schema.DialectSQLite}

	if err := s.Apply(ctx, schema.CreateStatements(schema.VersionCanonical, opts)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	genres := []string{"Electronic", "Rock", "Electronic"}
	encoded, err := json.Marshal(genres)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if _, err := s.DB().Exec(`INSERT INTO release (id, genres) VALUES (1, ?)`, string(encoded)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var raw string
	if err := s.DB().QueryRow(`SELECT genres FROM release WHERE id = 1`).Scan(&raw); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	var got []string
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(got) != 3 || got[0] != "Electronic" || got[1] != "Rock" || got[2] != "Electronic" {
		t.Errorf("array order/duplicates not preserved: %v", got)
	}
}

func TestApplyRollsBackOnError(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()

	stmts := []string{
		"CREATE TABLE release (id INTEGER, title TEXT)",
		"CREATE BOGUS STATEMENT",
	}

	err := s.Apply(ctx, stmts)
	if err == nil {
		t.Fatal("expected apply to fail on the bogus statement")
	}
	if !strings.Contains(err.Error(), "CREATE BOGUS STATEMENT") {
		t.Errorf("error should identify the failing statement: %v", err)
	}

	// The whole batch must roll back
	exists, err := s.HasTable(ctx, "release")
	if err != nil {
		t.Fatalf("table check failed: %v", err)
	}
	if exists {
		t.Error("expected release not to exist after rollback")
	}
}

func TestPing(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Errorf("expected ping to succeed on an open store: %v", err)
	}
	if got := s.Dialect(); got != schema.DialectSQLite {
		t.Errorf("expected sqlite dialect, got %s", got)
	}

	s.Close()
	if err := s.Ping(ctx); err == nil {
		t.Error("expected ping to fail on a closed store")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing sqlite path", Config{Dialect: schema.DialectSQLite}},
		{"missing postgres host", Config{Dialect: schema.DialectPostgres, User: "dev", DBName: "discogs"}},
		{"unknown dialect", Config{Dialect: "oracle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.cfg.driverAndDSN(); err == nil {
				t.Error("expected config error")
			}
		})
	}
}

func TestStatementHead(t *testing.T) {
	if got := statementHead("DROP TABLE IF EXISTS release CASCADE"); got != "DROP TABLE IF EXISTS release CASCADE" {
		t.Errorf("single-line statement altered: %q", got)
	}
	got := statementHead("CREATE TABLE release (\n    id integer\n)")
	if got != "CREATE TABLE release ( ..." {
		t.Errorf("multi-line statement not trimmed: %q", got)
	}
}
