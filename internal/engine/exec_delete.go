package engine

import (
	"fmt"

	"tinydb/internal/catalog"
	"tinydb/internal/condition"
	"tinydb/internal/query"
	"tinydb/internal/store"
)

func (e *Engine) execDelete(s *query.DeleteStmt) (QueryResult, error) {
	cat, err := e.currentCatalog()
	if err != nil {
		return QueryResult{Kind: "DELETE"}, err
	}
	schema, ok := cat.GetTableSchema(s.TableName)
	if !ok {
		return QueryResult{Kind: "DELETE"}, fmt.Errorf("engine: table %q does not exist", s.TableName)
	}
	pkCol, _, _ := schema.PrimaryKeyColumn()

	where := condition.Expr{}
	if s.Where != nil {
		where = *s.Where
	}
	predicate := func(rec catalog.Record) bool { return condition.Evaluate(where, rec) }

	st := store.New(schema)
	result, err := st.Rewrite(predicate, nil)
	if err != nil {
		return QueryResult{Kind: "DELETE"}, err
	}

	if result.Matched > 0 {
		if err := e.rebuildIndex(schema, pkCol.Name, result.Survivors); err != nil {
			return QueryResult{Kind: "DELETE"}, err
		}
	}

	e.log.Info("deleted %d row(s) from %q", result.Matched, s.TableName)
	return QueryResult{Kind: "DELETE", RecordsFound: result.Matched}, nil
}
