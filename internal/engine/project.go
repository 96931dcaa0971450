package engine

import (
	"tinydb/internal/catalog"
	"tinydb/internal/query"
)

// projectRow picks out cols from rec, resolving each reference against its
// qualified "table.column" key first and falling back to the bare column
// name if the qualified key isn't present — the same fallback
// filterRecordsByColumns used in the original SELECT projection.
func projectRow(rec catalog.Record, cols []query.ColRef) catalog.Record {
	out := make(catalog.Record, len(cols))
	for _, c := range cols {
		label := c.String()
		if v, ok := rec[label]; ok {
			out[label] = v
			continue
		}
		if v, ok := rec[c.Column]; ok {
			out[label] = v
		}
	}
	return out
}

// columnLabels renders the display column list for a result set.
func columnLabels(cols []query.ColRef) []string {
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.String()
	}
	return labels
}

// starColumns returns every column of schema as an unqualified ColRef,
// used when a SELECT * has no JOIN to disambiguate against.
func starColumns(schema catalog.TableSchema) []query.ColRef {
	cols := make([]query.ColRef, len(schema.Columns))
	for i, c := range schema.Columns {
		cols[i] = query.ColRef{Column: c.Name}
	}
	return cols
}

// starColumnsQualified returns every column of schema qualified by table,
// used for SELECT * in a JOIN query.
func starColumnsQualified(table string, schema catalog.TableSchema) []query.ColRef {
	cols := make([]query.ColRef, len(schema.Columns))
	for i, c := range schema.Columns {
		cols[i] = query.ColRef{Table: table, Column: c.Name}
	}
	return cols
}
