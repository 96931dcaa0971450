// Package engine drives the catalog, record store, B+ tree index,
// condition engine and query parser to fulfil each parsed statement,
// producing a result set and diagnostics per statement.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"tinydb/internal/btree"
	"tinydb/internal/catalog"
	"tinydb/internal/dblog"
	"tinydb/internal/query"
)

// QueryResult is the envelope returned for one statement: kind identifies
// the statement type executed, columns/rows carry a result set (SELECT
// and SHOW), RecordsFound is the row count, and ErrorMessage is empty iff
// the statement succeeded.
type QueryResult struct {
	Kind         string
	Columns      []string
	Rows         []catalog.Record
	RecordsFound int
	ErrorMessage string
	QueryID      string
}

func (r QueryResult) Success() bool { return r.ErrorMessage == "" }

// Engine is the single-process, synchronous query executor. It owns the
// process-wide current-database pointer (via its catalog Manager) and the
// open index handles for the current database's tables.
type Engine struct {
	mgr     *catalog.Manager
	log     *dblog.Logger
	indexes map[string]*btree.Tree // table name -> open index handle
}

// New returns an engine rooted at dataRoot.
func New(dataRoot string, log *dblog.Logger) (*Engine, error) {
	if log == nil {
		log = dblog.Default()
	}
	mgr, err := catalog.NewManager(dataRoot, log)
	if err != nil {
		return nil, err
	}
	return &Engine{mgr: mgr, log: log, indexes: make(map[string]*btree.Tree)}, nil
}

// Execute runs every ';'-separated statement in query in submission order.
// State carried across statements is limited to the current database. The
// first statement to fail (parse or execution) halts the remainder of the
// batch; statements that already committed side effects before the
// failure are not rolled back.
func (e *Engine) Execute(queryText string) []QueryResult {
	var results []QueryResult
	for _, stmtText := range query.SplitStatements(queryText) {
		qid := uuid.NewString()
		res := e.executeOne(stmtText, qid)
		results = append(results, res)
		if !res.Success() {
			e.log.Error("query %s: halting batch: %s", qid, res.ErrorMessage)
			break
		}
	}
	return results
}

func (e *Engine) executeOne(stmtText, qid string) QueryResult {
	var schema query.SchemaProvider
	if cat, err := e.mgr.Current(); err == nil {
		schema = cat
	}

	stmt, err := query.ParseStatement(stmtText, schema)
	if err != nil {
		return QueryResult{ErrorMessage: err.Error(), QueryID: qid}
	}

	res, err := e.dispatch(stmt)
	res.QueryID = qid
	if err != nil {
		res.ErrorMessage = err.Error()
	}
	return res
}

func (e *Engine) dispatch(stmt query.Statement) (QueryResult, error) {
	switch s := stmt.(type) {
	case *query.CreateDatabaseStmt:
		return e.execCreateDatabase(s)
	case *query.DropDatabaseStmt:
		return e.execDropDatabase(s)
	case *query.UseDatabaseStmt:
		return e.execUseDatabase(s)
	case *query.ShowStmt:
		return e.execShow(s)
	case *query.CreateTableStmt:
		return e.execCreateTable(s)
	case *query.DropTableStmt:
		return e.execDropTable(s)
	case *query.InsertStmt:
		return e.execInsert(s)
	case *query.SelectStmt:
		return e.execSelect(s)
	case *query.UpdateStmt:
		return e.execUpdate(s)
	case *query.DeleteStmt:
		return e.execDelete(s)
	default:
		return QueryResult{}, fmt.Errorf("engine: unsupported statement type %T", stmt)
	}
}

// currentCatalog returns the live catalog or an error result-worthy error
// if no database has been selected via USE.
func (e *Engine) currentCatalog() (*catalog.Catalog, error) {
	return e.mgr.Current()
}

// closeIndex closes and forgets an open index handle, if any, e.g. before
// a rebuild replaces the underlying file.
func (e *Engine) closeIndex(table string) {
	if t, ok := e.indexes[table]; ok {
		t.Close()
		delete(e.indexes, table)
	}
}

// index lazily opens (or returns the already-open handle for) a table's
// index file.
func (e *Engine) index(schema catalog.TableSchema) (*btree.Tree, error) {
	if t, ok := e.indexes[schema.Name]; ok {
		return t, nil
	}
	t, err := btree.Open(schema.IndexFilePath)
	if err != nil {
		return nil, fmt.Errorf("engine: open index for %q: %w", schema.Name, err)
	}
	e.indexes[schema.Name] = t
	return t, nil
}

// closeAllIndexes closes every open index handle, e.g. when unmounting
// the current database on USE or DROP DATABASE.
func (e *Engine) closeAllIndexes() {
	for name, t := range e.indexes {
		t.Close()
		delete(e.indexes, name)
	}
}

// Close releases the engine's open index handles and current-database
// lock.
func (e *Engine) Close() {
	e.closeAllIndexes()
	e.mgr.Close()
}
