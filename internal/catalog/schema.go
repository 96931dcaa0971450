// Package catalog owns the schema metadata that sits above the value
// codec: columns, table schemas, records, and the on-disk catalog file
// that lists every table in a database.
package catalog

import (
	"fmt"

	"tinydb/internal/value"
)

// Column describes one column of a table.
type Column struct {
	Name   string
	Type   value.Type
	Length int // declared length for Str/Char; 0 otherwise

	IsPrimaryKey bool
	IsForeignKey bool
	RefTable     string // non-empty iff IsForeignKey
	RefColumn    string // non-empty iff IsForeignKey
}

// FieldSpec adapts a Column to the shape the value codec expects.
func (c Column) FieldSpec() value.FieldSpec {
	return value.FieldSpec{Type: c.Type, Length: c.Length}
}

// TableSchema is the full column list and file paths for one table.
type TableSchema struct {
	Name          string
	Columns       []Column
	DataFilePath  string
	IndexFilePath string
}

// PrimaryKeyColumn returns the table's primary key column and its index,
// or ok=false if the table has none (which CREATE TABLE never allows, but
// callers that walk an already-loaded schema still need to check).
func (t TableSchema) PrimaryKeyColumn() (col Column, index int, ok bool) {
	for i, c := range t.Columns {
		if c.IsPrimaryKey {
			return c, i, true
		}
	}
	return Column{}, -1, false
}

// ColumnByName finds a column by its declared name.
func (t TableSchema) ColumnByName(name string) (Column, int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return c, i, true
		}
	}
	return Column{}, -1, false
}

// RecordSize returns the fixed byte length of one encoded record under
// this schema: the sum of each column's encoded field size.
func (t TableSchema) RecordSize() int {
	n := 0
	for _, c := range t.Columns {
		n += value.EncodedSize(c.FieldSpec())
	}
	return n
}

// Record maps column name to value, covering exactly the table's declared
// columns after insertion.
type Record map[string]value.Value

// Clone returns a shallow copy safe to mutate independently of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func validateNewTable(schema TableSchema) error {
	seen := make(map[string]bool, len(schema.Columns))
	pkCount := 0
	for _, c := range schema.Columns {
		if seen[c.Name] {
			return fmt.Errorf("catalog: duplicate column %q in table %q", c.Name, schema.Name)
		}
		seen[c.Name] = true
		if c.IsPrimaryKey {
			pkCount++
			if c.Type != value.Int {
				return fmt.Errorf("catalog: primary key column %q must be INT", c.Name)
			}
		}
	}
	if pkCount > 1 {
		return fmt.Errorf("catalog: table %q declares more than one primary key column", schema.Name)
	}
	return nil
}
