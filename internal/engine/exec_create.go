package engine

import (
	"fmt"
	"path/filepath"

	"tinydb/internal/catalog"
	"tinydb/internal/query"
)

func (e *Engine) execCreateDatabase(s *query.CreateDatabaseStmt) (QueryResult, error) {
	if err := e.mgr.CreateDatabase(s.Name); err != nil {
		return QueryResult{Kind: "CREATE_DATABASE"}, err
	}
	return QueryResult{Kind: "CREATE_DATABASE"}, nil
}

func (e *Engine) execDropDatabase(s *query.DropDatabaseStmt) (QueryResult, error) {
	wasCurrent := e.mgr.CurrentDatabase() == s.Name
	if err := e.mgr.DropDatabase(s.Name); err != nil {
		return QueryResult{Kind: "DROP_DATABASE"}, err
	}
	if wasCurrent {
		e.closeAllIndexes()
	}
	return QueryResult{Kind: "DROP_DATABASE"}, nil
}

func (e *Engine) execUseDatabase(s *query.UseDatabaseStmt) (QueryResult, error) {
	e.closeAllIndexes()
	if err := e.mgr.UseDatabase(s.Name); err != nil {
		return QueryResult{Kind: "USE"}, err
	}
	return QueryResult{Kind: "USE"}, nil
}

func (e *Engine) execShow(s *query.ShowStmt) (QueryResult, error) {
	switch s.What {
	case "DATABASES":
		names, err := e.mgr.ListDatabases()
		if err != nil {
			return QueryResult{Kind: "SHOW_DATABASES"}, err
		}
		return namesResult("SHOW_DATABASES", "database", names), nil
	case "TABLES":
		cat, err := e.currentCatalog()
		if err != nil {
			return QueryResult{Kind: "SHOW_TABLES"}, err
		}
		return namesResult("SHOW_TABLES", "table", cat.ListTables()), nil
	default:
		return QueryResult{}, fmt.Errorf("engine: unknown SHOW target %q", s.What)
	}
}

func namesResult(kind, column string, names []string) QueryResult {
	rows := make([]catalog.Record, len(names))
	for i, n := range names {
		rows[i] = catalog.Record{column: stringValue(n)}
	}
	return QueryResult{Kind: kind, Columns: []string{column}, Rows: rows, RecordsFound: len(rows)}
}

func (e *Engine) execCreateTable(s *query.CreateTableStmt) (QueryResult, error) {
	cat, err := e.currentCatalog()
	if err != nil {
		return QueryResult{Kind: "CREATE_TABLE"}, err
	}
	dir, err := e.mgr.CurrentDir()
	if err != nil {
		return QueryResult{Kind: "CREATE_TABLE"}, err
	}

	schema := catalog.TableSchema{
		Name:          s.TableName,
		DataFilePath:  filepath.Join(dir, s.TableName+".dat"),
		IndexFilePath: filepath.Join(dir, s.TableName+".idx"),
	}
	fkByColumn := make(map[string]query.ForeignKeyDef, len(s.ForeignKeys))
	for _, fk := range s.ForeignKeys {
		fkByColumn[fk.Column] = fk
	}
	for _, cd := range s.Columns {
		col := catalog.Column{
			Name:         cd.Name,
			Type:         cd.Type,
			Length:       cd.Length,
			IsPrimaryKey: cd.IsPrimaryKey,
		}
		if fk, ok := fkByColumn[cd.Name]; ok {
			col.IsForeignKey = true
			col.RefTable = fk.RefTable
			col.RefColumn = fk.RefColumn
			if _, exists := cat.GetTableSchema(fk.RefTable); !exists {
				return QueryResult{Kind: "CREATE_TABLE"}, fmt.Errorf("engine: CREATE TABLE %s: referenced table %q does not exist", s.TableName, fk.RefTable)
			}
		}
		schema.Columns = append(schema.Columns, col)
	}

	if err := cat.CreateTable(schema); err != nil {
		return QueryResult{Kind: "CREATE_TABLE"}, err
	}

	idx, err := e.index(schema)
	if err != nil {
		cat.DropTable(s.TableName)
		return QueryResult{Kind: "CREATE_TABLE"}, err
	}
	_ = idx // opening it is enough to create the (empty) index file

	if err := e.mgr.SaveCurrent(); err != nil {
		return QueryResult{Kind: "CREATE_TABLE"}, err
	}
	e.log.Info("created table %q", s.TableName)
	return QueryResult{Kind: "CREATE_TABLE"}, nil
}

func (e *Engine) execDropTable(s *query.DropTableStmt) (QueryResult, error) {
	cat, err := e.currentCatalog()
	if err != nil {
		return QueryResult{Kind: "DROP_TABLE"}, err
	}
	schema, ok := cat.GetTableSchema(s.TableName)
	if !ok {
		return QueryResult{Kind: "DROP_TABLE"}, fmt.Errorf("engine: table %q does not exist", s.TableName)
	}
	e.closeIndex(s.TableName)
	if err := cat.DropTable(s.TableName); err != nil {
		return QueryResult{Kind: "DROP_TABLE"}, err
	}
	if err := e.mgr.SaveCurrent(); err != nil {
		return QueryResult{Kind: "DROP_TABLE"}, err
	}
	removeIfExists(schema.DataFilePath)
	removeIfExists(schema.IndexFilePath)
	e.log.Info("dropped table %q", s.TableName)
	return QueryResult{Kind: "DROP_TABLE"}, nil
}
