package engine

import (
	"fmt"

	"tinydb/internal/catalog"
	"tinydb/internal/query"
	"tinydb/internal/store"
)

func (e *Engine) execInsert(s *query.InsertStmt) (QueryResult, error) {
	cat, err := e.currentCatalog()
	if err != nil {
		return QueryResult{Kind: "INSERT"}, err
	}
	schema, ok := cat.GetTableSchema(s.TableName)
	if !ok {
		return QueryResult{Kind: "INSERT"}, fmt.Errorf("engine: table %q does not exist", s.TableName)
	}
	if len(s.Values) != len(schema.Columns) {
		return QueryResult{Kind: "INSERT"}, fmt.Errorf("engine: INSERT INTO %s: expected %d values, got %d", s.TableName, len(schema.Columns), len(s.Values))
	}

	rec := make(catalog.Record, len(schema.Columns))
	for i, col := range schema.Columns {
		rec[col.Name] = s.Values[i]
	}

	pkCol, _, _ := schema.PrimaryKeyColumn()
	pkVal := rec[pkCol.Name]
	idx, err := e.index(schema)
	if err != nil {
		return QueryResult{Kind: "INSERT"}, err
	}
	if existing, err := idx.Search(pkVal.I); err != nil {
		return QueryResult{Kind: "INSERT"}, err
	} else if len(existing) > 0 {
		return QueryResult{Kind: "INSERT"}, fmt.Errorf("engine: INSERT INTO %s: duplicate primary key %d", s.TableName, pkVal.I)
	}

	st := store.New(schema)
	offset, err := st.Insert(rec)
	if err != nil {
		return QueryResult{Kind: "INSERT"}, err
	}
	if err := idx.Insert(pkVal.I, offset); err != nil {
		return QueryResult{Kind: "INSERT"}, err
	}

	return QueryResult{Kind: "INSERT", RecordsFound: 1}, nil
}
