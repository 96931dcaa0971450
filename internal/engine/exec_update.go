package engine

import (
	"fmt"

	"tinydb/internal/btree"
	"tinydb/internal/catalog"
	"tinydb/internal/condition"
	"tinydb/internal/query"
	"tinydb/internal/store"
)

func (e *Engine) execUpdate(s *query.UpdateStmt) (QueryResult, error) {
	cat, err := e.currentCatalog()
	if err != nil {
		return QueryResult{Kind: "UPDATE"}, err
	}
	schema, ok := cat.GetTableSchema(s.TableName)
	if !ok {
		return QueryResult{Kind: "UPDATE"}, fmt.Errorf("engine: table %q does not exist", s.TableName)
	}
	pkCol, _, _ := schema.PrimaryKeyColumn()

	where := condition.Expr{}
	if s.Where != nil {
		where = *s.Where
	}

	for _, a := range s.Assignments {
		if a.Column == pkCol.Name {
			return QueryResult{Kind: "UPDATE"}, fmt.Errorf("engine: UPDATE %s: cannot assign primary key column %q", s.TableName, a.Column)
		}
	}

	predicate := func(rec catalog.Record) bool { return condition.Evaluate(where, rec) }
	mutate := func(rec catalog.Record) catalog.Record {
		out := rec.Clone()
		for _, a := range s.Assignments {
			out[a.Column] = a.Value
		}
		return out
	}

	st := store.New(schema)
	result, err := st.Rewrite(predicate, mutate)
	if err != nil {
		return QueryResult{Kind: "UPDATE"}, err
	}

	if result.Matched > 0 {
		if err := e.rebuildIndex(schema, pkCol.Name, result.Survivors); err != nil {
			return QueryResult{Kind: "UPDATE"}, err
		}
	}

	e.log.Info("updated %d row(s) in %q", result.Matched, s.TableName)
	return QueryResult{Kind: "UPDATE", RecordsFound: result.Matched}, nil
}

// rebuildIndex closes any open index handle for schema, rebuilds its index
// file from survivors' final (pk, offset) pairs, and lets the handle be
// lazily reopened on next use.
func (e *Engine) rebuildIndex(schema catalog.TableSchema, pkColumn string, survivors []store.OffsetMapping) error {
	e.closeIndex(schema.Name)
	pairs := make([]btree.Entry, len(survivors))
	for i, m := range survivors {
		pairs[i] = btree.Entry{Key: m.Record[pkColumn].I, Offset: m.NewOffset}
	}
	if err := btree.Rebuild(schema.IndexFilePath, pairs); err != nil {
		return fmt.Errorf("engine: rebuild index for %q: %w", schema.Name, err)
	}
	return nil
}
