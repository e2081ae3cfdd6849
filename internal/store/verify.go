package store

import (
	"context"
	"fmt"

	"github.com/polygonhell/discogs-load/internal/schema"
)

// TableDiff reports how one table's live structure diverges from its
// declaration. An empty Problems list with Missing false means the table
// matches.
type TableDiff struct {
	Table    string
	Missing  bool
	Problems []string
}

// OK reports whether the table matched its declaration.
func (d TableDiff) OK() bool {
	return !d.Missing && len(d.Problems) == 0
}

// liveColumn is a column as reported by the engine's catalog.
type liveColumn struct {
	name    string
	typ     string
	notNull bool
}

// Verify checks that every table of the given schema version exists with
// exactly the declared columns and types. It returns one TableDiff per
// declared table, in creation order.
//
// Nullability is only checked where the declaration requires NOT NULL; a
// live column that is stricter than declared (e.g. after an enforced-keys
// init) is not a mismatch.
func (s *Store) Verify(ctx context.Context, v schema.Version) ([]TableDiff, error) {
	diffs := make([]TableDiff, 0, len(schema.Tables(v)))

	for _, table := range schema.Tables(v) {
		live, err := s.liveColumns(ctx, table.Name)
		if err != nil {
			return nil, err
		}

		diff := TableDiff{Table: table.Name}
		if live == nil {
			diff.Missing = true
			diffs = append(diffs, diff)
			continue
		}

		diff.Problems = compareColumns(table, live, s.dialect)
		diffs = append(diffs, diff)
	}

	return diffs, nil
}

// compareColumns diffs declared columns against the engine's catalog.
func compareColumns(table schema.Table, live []liveColumn, d schema.Dialect) []string {
	var problems []string

	byName := make(map[string]liveColumn, len(live))
	for _, c := range live {
		byName[c.name] = c
	}

	declared := table.AllColumns()
	for i, want := range declared {
		got, ok := byName[want.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing column %s", want.Name))
			continue
		}
		delete(byName, want.Name)

		if wantType := expectedType(want.Type, d); got.typ != wantType {
			problems = append(problems, fmt.Sprintf(
				"column %s: type %s, want %s (%s)", want.Name, got.typ, wantType, want.Type))
		}
		if want.NotNull && !got.notNull {
			problems = append(problems, fmt.Sprintf("column %s: nullable, want NOT NULL", want.Name))
		}
		// Only meaningful when no columns are missing or extra
		if len(live) == len(declared) && live[i].name != want.Name {
			problems = append(problems, fmt.Sprintf(
				"column %d: %s, want %s (declaration order)", i, live[i].name, want.Name))
		}
	}

	for name := range byName {
		problems = append(problems, fmt.Sprintf("unexpected column %s", name))
	}

	return problems
}

// expectedType maps a logical column type to the engine's catalog name.
func expectedType(t schema.ColumnType, d schema.Dialect) string {
	if d == schema.DialectPostgres {
		// information_schema.columns udt_name values
		switch t {
		case schema.TypeInteger:
			return "int4"
		case schema.TypeTextArray:
			return "_text"
		default:
			return "text"
		}
	}
	// PRAGMA table_info declared types; arrays are stored as JSON text
	if t == schema.TypeInteger {
		return "INTEGER"
	}
	return "TEXT"
}

// liveColumns reads a table's columns from the engine catalog in
// declaration order. Returns nil (no error) when the table does not exist.
func (s *Store) liveColumns(ctx context.Context, table string) ([]liveColumn, error) {
	if s.dialect == schema.DialectPostgres {
		return s.liveColumnsPostgres(ctx, table)
	}
	return s.liveColumnsSQLite(ctx, table)
}

func (s *Store) liveColumnsPostgres(ctx context.Context, table string) ([]liveColumn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, udt_name, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []liveColumn
	for rows.Next() {
		var c liveColumn
		var nullable string
		if err := rows.Scan(&c.name, &c.typ, &nullable); err != nil {
			return nil, err
		}
		c.notNull = nullable == "NO"
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *Store) liveColumnsSQLite(ctx context.Context, table string) ([]liveColumn, error) {
	// PRAGMA arguments cannot be bound; table names come from the schema
	// declarations, not user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []liveColumn
	for rows.Next() {
		var (
			cid     int
			c       liveColumn
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &c.name, &c.typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		// INTEGER PRIMARY KEY columns report notnull=0 but cannot hold NULL
		c.notNull = notNull == 1 || pk > 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
