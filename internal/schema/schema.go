// Package schema declares the Discogs release tables as data and renders
// them to dialect-specific DDL. The table definitions mirror the column
// lists of the import schema exactly; they are the source of truth for
// creation, teardown, and verification.
package schema

import (
	"fmt"
	"strings"

	"github.com/polygonhell/discogs-load/internal/util"
)

// ColumnType is the logical type of a column, independent of dialect.
type ColumnType int

const (
	TypeInteger ColumnType = iota
	TypeText
	TypeTextArray
)

// String returns the logical type name (used in verify diagnostics).
func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeText:
		return "text"
	case TypeTextArray:
		return "text[]"
	default:
		return "unknown"
	}
}

// Column describes a single table column.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// Table describes a table: its name, whether it carries an auto-incrementing
// surrogate id column, and the remaining columns in declaration order.
type Table struct {
	Name string
	// SurrogateKey prepends an auto-incrementing "id" column. Only the
	// child tables of the superseding schema version carry one.
	SurrogateKey bool
	Columns      []Column
}

// AllColumns returns the full declared column list, including the surrogate
// id column when present.
func (t Table) AllColumns() []Column {
	if !t.SurrogateKey {
		return t.Columns
	}
	cols := make([]Column, 0, len(t.Columns)+1)
	cols = append(cols, Column{Name: "id", Type: TypeInteger, NotNull: true})
	return append(cols, t.Columns...)
}

// Version selects one of the two schema generations that the import
// pipeline has used over time.
type Version int

const (
	// VersionLegacy is the older 3-table form: no surrogate keys, plain
	// drops. Kept for migration-compatibility discussions only.
	VersionLegacy Version = iota
	// VersionCanonical is the superseding 5-table form with surrogate
	// keys on child tables and cascading drops.
	VersionCanonical
)

func (v Version) String() string {
	if v == VersionLegacy {
		return "legacy"
	}
	return "canonical"
}

// ParseVersion validates a schema version name from config or flags.
func ParseVersion(name string) (Version, error) {
	switch strings.ToLower(name) {
	case "canonical":
		return VersionCanonical, nil
	case "legacy":
		return VersionLegacy, nil
	default:
		return VersionCanonical, fmt.Errorf("%w: %q (want canonical or legacy)", util.ErrUnknownVersion, name)
	}
}

// releaseTable is shared by both versions.
//
// Note: "id" is the external Discogs identifier and is deliberately NOT
// declared PRIMARY KEY, matching the import schema. Child tables reference
// it through release_id with a NOT NULL constraint only; referential
// integrity is not enforced unless key enforcement is requested at render
// time.
func releaseTable() Table {
	return Table{
		Name: "release",
		Columns: []Column{
			{Name: "id", Type: TypeInteger},
			{Name: "status", Type: TypeText},
			{Name: "title", Type: TypeText},
			{Name: "country", Type: TypeText},
			{Name: "released", Type: TypeText},
			{Name: "notes", Type: TypeText},
			{Name: "genres", Type: TypeTextArray},
			{Name: "styles", Type: TypeTextArray},
			{Name: "master_id", Type: TypeInteger},
			{Name: "data_quality", Type: TypeText},
		},
	}
}

// Canonical returns the superseding 5-table schema in creation order.
func Canonical() []Table {
	return []Table{
		releaseTable(),
		{
			Name:         "release_label",
			SurrogateKey: true,
			Columns: []Column{
				{Name: "release_id", Type: TypeInteger, NotNull: true},
				{Name: "label_id", Type: TypeInteger},
				{Name: "label", Type: TypeText},
				{Name: "catno", Type: TypeText},
			},
		},
		{
			Name:         "release_video",
			SurrogateKey: true,
			Columns: []Column{
				{Name: "release_id", Type: TypeInteger, NotNull: true},
				{Name: "duration", Type: TypeInteger},
				{Name: "src", Type: TypeText},
				{Name: "title", Type: TypeText},
			},
		},
		{
			Name:         "track",
			SurrogateKey: true,
			Columns: []Column{
				{Name: "release_id", Type: TypeInteger, NotNull: true},
				{Name: "title", Type: TypeText},
				{Name: "position", Type: TypeText},
				{Name: "duration", Type: TypeText},
			},
		},
		{
			Name:         "format",
			SurrogateKey: true,
			Columns: []Column{
				{Name: "release_id", Type: TypeInteger, NotNull: true},
				{Name: "name", Type: TypeText},
				{Name: "qty", Type: TypeText},
				{Name: "text", Type: TypeText},
			},
		},
	}
}

// Legacy returns the older 3-table schema in creation order.
func Legacy() []Table {
	return []Table{
		releaseTable(),
		{
			Name: "release_label",
			Columns: []Column{
				{Name: "release_id", Type: TypeInteger, NotNull: true},
				{Name: "label", Type: TypeText},
				{Name: "catno", Type: TypeText},
				{Name: "label_id", Type: TypeInteger},
			},
		},
		{
			Name: "release_video",
			Columns: []Column{
				{Name: "release_id", Type: TypeInteger, NotNull: true},
				{Name: "duration", Type: TypeInteger},
				{Name: "src", Type: TypeText},
				{Name: "title", Type: TypeText},
			},
		},
	}
}

// Tables returns the table set for a schema version in creation order.
func Tables(v Version) []Table {
	if v == VersionLegacy {
		return Legacy()
	}
	return Canonical()
}

// TableNames returns the table names for a version in creation order.
func TableNames(v Version) []string {
	tables := Tables(v)
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
