package engine

import (
	"fmt"

	"tinydb/internal/btree"
	"tinydb/internal/catalog"
	"tinydb/internal/condition"
	"tinydb/internal/query"
	"tinydb/internal/store"
	"tinydb/internal/value"
)

func (e *Engine) execSelect(s *query.SelectStmt) (QueryResult, error) {
	cat, err := e.currentCatalog()
	if err != nil {
		return QueryResult{Kind: "SELECT"}, err
	}
	fromSchema, ok := cat.GetTableSchema(s.TableName)
	if !ok {
		return QueryResult{Kind: "SELECT"}, fmt.Errorf("engine: table %q does not exist", s.TableName)
	}

	if s.JoinTable != "" {
		return e.execSelectJoin(s, fromSchema, cat)
	}

	fromStore := store.New(fromSchema)
	idx, err := e.index(fromSchema)
	if err != nil {
		return QueryResult{Kind: "SELECT"}, err
	}

	records, err := e.fetchRows(fromSchema, idx, fromStore, s.Where)
	if err != nil {
		return QueryResult{Kind: "SELECT"}, err
	}

	cols := s.Columns
	if s.Star {
		cols = starColumns(fromSchema)
	}
	rows := make([]catalog.Record, len(records))
	for i, rec := range records {
		rows[i] = projectRow(rec, cols)
	}

	return QueryResult{Kind: "SELECT", Columns: columnLabels(cols), Rows: rows, RecordsFound: len(rows)}, nil
}

func (e *Engine) execSelectJoin(s *query.SelectStmt, fromSchema catalog.TableSchema, cat *catalog.Catalog) (QueryResult, error) {
	joinSchema, ok := cat.GetTableSchema(s.JoinTable)
	if !ok {
		return QueryResult{Kind: "SELECT"}, fmt.Errorf("engine: table %q does not exist", s.JoinTable)
	}

	leftRows, err := store.New(fromSchema).ScanAll()
	if err != nil {
		return QueryResult{Kind: "SELECT"}, err
	}
	rightRows, err := store.New(joinSchema).ScanAll()
	if err != nil {
		return QueryResult{Kind: "SELECT"}, err
	}

	leftKey := s.JoinLeft.Column
	rightKey := s.JoinRight.Column
	// JoinLeft/JoinRight may name either side first; match whichever
	// column belongs to which table by checking against the FROM schema.
	if _, _, ok := fromSchema.ColumnByName(s.JoinRight.Column); ok {
		if _, _, ok := joinSchema.ColumnByName(s.JoinLeft.Column); ok {
			leftKey, rightKey = s.JoinRight.Column, s.JoinLeft.Column
		}
	}

	cols := s.Columns
	if s.Star {
		cols = append(starColumnsQualified(s.TableName, fromSchema), starColumnsQualified(s.JoinTable, joinSchema)...)
	}

	var rows []catalog.Record
	for _, l := range leftRows {
		lv, ok := l.Record[leftKey]
		if !ok {
			continue
		}
		for _, r := range rightRows {
			rv, ok := r.Record[rightKey]
			if !ok || !value.Equal(lv, rv) {
				continue
			}
			joined := mergeJoined(s.TableName, l.Record, s.JoinTable, r.Record)
			if s.Where != nil && !condition.Evaluate(*s.Where, joined) {
				continue
			}
			rows = append(rows, projectRow(joined, cols))
		}
	}

	return QueryResult{Kind: "SELECT", Columns: columnLabels(cols), Rows: rows, RecordsFound: len(rows)}, nil
}

// fetchRows resolves a WHERE clause against a single table: a lone
// `pk = <int>` condition takes the B+ tree point-lookup path, otherwise
// every row is scanned and evaluated. A nil where is an unconditional scan.
func (e *Engine) fetchRows(schema catalog.TableSchema, idx *btree.Tree, st *store.Store, where *condition.Expr) ([]catalog.Record, error) {
	if where == nil {
		rows, err := st.ScanAll()
		if err != nil {
			return nil, err
		}
		return recordsOf(rows), nil
	}

	if pkCol, _, ok := schema.PrimaryKeyColumn(); ok && len(where.Conds) == 1 && len(where.Connectives) == 0 {
		c := where.Conds[0]
		if c.Column == pkCol.Name && c.Op == "=" && c.Lit.Type == value.Int {
			offsets, err := idx.Search(c.Lit.I)
			if err != nil {
				return nil, err
			}
			recs := make([]catalog.Record, 0, len(offsets))
			for _, off := range offsets {
				rec, err := st.ReadAt(off)
				if err != nil {
					return nil, err
				}
				recs = append(recs, rec)
			}
			return recs, nil
		}
	}

	rows, err := st.ScanAll()
	if err != nil {
		return nil, err
	}
	var out []catalog.Record
	for _, row := range rows {
		if condition.Evaluate(*where, row.Record) {
			out = append(out, row.Record)
		}
	}
	return out, nil
}

func recordsOf(rows []store.Row) []catalog.Record {
	out := make([]catalog.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Record
	}
	return out
}
