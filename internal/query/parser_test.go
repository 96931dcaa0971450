package query

import (
	"testing"

	"tinydb/internal/catalog"
	"tinydb/internal/value"
)

type fakeSchema map[string]catalog.TableSchema

func (f fakeSchema) GetTableSchema(name string) (catalog.TableSchema, bool) {
	s, ok := f[name]
	return s, ok
}

func usersSchema() fakeSchema {
	return fakeSchema{
		"users": catalog.TableSchema{
			Name: "users",
			Columns: []catalog.Column{
				{Name: "id", Type: value.Int, IsPrimaryKey: true},
				{Name: "name", Type: value.Str, Length: 32},
				{Name: "active", Type: value.Bool},
			},
		},
	}
}

func TestParseCreateTable_Basic(t *testing.T) {
	stmt, err := ParseStatement("CREATE TABLE users (id INT PRIMARY KEY, name STRING(32), active BOOL)", nil)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	ct, ok := stmt.(*CreateTableStmt)
	if !ok {
		t.Fatalf("expected *CreateTableStmt, got %T", stmt)
	}
	if ct.TableName != "users" || len(ct.Columns) != 3 {
		t.Fatalf("unexpected statement: %+v", ct)
	}
	if ct.PrimaryKey != "id" {
		t.Fatalf("expected primary key 'id', got %q", ct.PrimaryKey)
	}
}

func TestParseCreateTable_RejectsNonIntPrimaryKey(t *testing.T) {
	_, err := ParseStatement("CREATE TABLE users (id STRING(8) PRIMARY KEY, name STRING(8))", nil)
	if err == nil {
		t.Fatalf("expected error: primary key column must be INT")
	}
}

func TestParseCreateTable_ForeignKeyClause(t *testing.T) {
	stmt, err := ParseStatement(
		"CREATE TABLE orders (id INT PRIMARY KEY, customer_id INT, FOREIGN KEY (customer_id) REFERENCES customers(id))",
		nil,
	)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	ct := stmt.(*CreateTableStmt)
	if len(ct.ForeignKeys) != 1 {
		t.Fatalf("expected 1 foreign key, got %d", len(ct.ForeignKeys))
	}
	fk := ct.ForeignKeys[0]
	if fk.Column != "customer_id" || fk.RefTable != "customers" || fk.RefColumn != "id" {
		t.Fatalf("unexpected foreign key: %+v", fk)
	}
}

func TestParseInsert_CoercesLiteralsToColumnTypes(t *testing.T) {
	stmt, err := ParseStatement(`INSERT INTO users VALUES (1, 'Alice', true)`, usersSchema())
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	ins, ok := stmt.(*InsertStmt)
	if !ok {
		t.Fatalf("expected *InsertStmt, got %T", stmt)
	}
	if len(ins.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(ins.Values))
	}
	if ins.Values[0].Type != value.Int || ins.Values[0].I != 1 {
		t.Fatalf("unexpected first value: %+v", ins.Values[0])
	}
	if ins.Values[1].Type != value.Str || ins.Values[1].S != "Alice" {
		t.Fatalf("unexpected second value: %+v", ins.Values[1])
	}
	if ins.Values[2].Type != value.Bool || ins.Values[2].B != true {
		t.Fatalf("unexpected third value: %+v", ins.Values[2])
	}
}

func TestParseInsert_WrongArityErrors(t *testing.T) {
	_, err := ParseStatement(`INSERT INTO users VALUES (1, 'Alice')`, usersSchema())
	if err == nil {
		t.Fatalf("expected error: wrong number of values")
	}
}

func TestParseInsert_TypeMismatchErrors(t *testing.T) {
	_, err := ParseStatement(`INSERT INTO users VALUES ('one', 'Alice', true)`, usersSchema())
	if err == nil {
		t.Fatalf("expected error: string literal bound to INT column")
	}
}

func TestParseSelect_Star(t *testing.T) {
	stmt, err := ParseStatement("SELECT * FROM users", usersSchema())
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if !sel.Star || sel.TableName != "users" {
		t.Fatalf("unexpected statement: %+v", sel)
	}
}

func TestParseSelect_ColumnListAndWhere(t *testing.T) {
	stmt, err := ParseStatement("SELECT id, name FROM users WHERE active = true", usersSchema())
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if len(sel.Columns) != 2 || sel.Columns[0].Column != "id" || sel.Columns[1].Column != "name" {
		t.Fatalf("unexpected columns: %+v", sel.Columns)
	}
	if sel.Where == nil || len(sel.Where.Conds) != 1 {
		t.Fatalf("expected a single-condition WHERE clause, got %+v", sel.Where)
	}
}

func TestParseSelect_UnknownColumnErrors(t *testing.T) {
	_, err := ParseStatement("SELECT ghost FROM users", usersSchema())
	if err == nil {
		t.Fatalf("expected error: column 'ghost' does not exist")
	}
}

func TestParseSelect_JoinClause(t *testing.T) {
	schema := usersSchema()
	schema["orders"] = catalog.TableSchema{
		Name: "orders",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Int, IsPrimaryKey: true},
			{Name: "user_id", Type: value.Int},
		},
	}
	stmt, err := ParseStatement("SELECT * FROM users JOIN orders ON users.id = orders.user_id", schema)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if sel.JoinTable != "orders" {
		t.Fatalf("expected join table 'orders', got %q", sel.JoinTable)
	}
	if sel.JoinLeft.String() != "users.id" || sel.JoinRight.String() != "orders.user_id" {
		t.Fatalf("unexpected join condition: %+v = %+v", sel.JoinLeft, sel.JoinRight)
	}
}

func TestParseUpdate_SetAndWhere(t *testing.T) {
	stmt, err := ParseStatement(`UPDATE users SET active = false WHERE id = 1`, nil)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	upd := stmt.(*UpdateStmt)
	if len(upd.Assignments) != 1 || upd.Assignments[0].Column != "active" {
		t.Fatalf("unexpected assignments: %+v", upd.Assignments)
	}
	if upd.Where == nil || upd.Where.Conds[0].Column != "id" {
		t.Fatalf("unexpected WHERE: %+v", upd.Where)
	}
}

func TestParseDelete_WithWhere(t *testing.T) {
	stmt, err := ParseStatement(`DELETE FROM users WHERE id = 1`, nil)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	del := stmt.(*DeleteStmt)
	if del.TableName != "users" || del.Where == nil {
		t.Fatalf("unexpected statement: %+v", del)
	}
}

func TestParseDelete_WithoutWhere(t *testing.T) {
	stmt, err := ParseStatement(`DELETE FROM users`, nil)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	del := stmt.(*DeleteStmt)
	if del.Where != nil {
		t.Fatalf("expected no WHERE clause, got %+v", del.Where)
	}
}

func TestParseShow_DatabasesAndTables(t *testing.T) {
	stmt, err := ParseStatement("SHOW DATABASES", nil)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	if stmt.(*ShowStmt).What != "DATABASES" {
		t.Fatalf("expected SHOW DATABASES")
	}

	stmt, err = ParseStatement("SHOW TABLES", nil)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	if stmt.(*ShowStmt).What != "TABLES" {
		t.Fatalf("expected SHOW TABLES")
	}
}

func TestParseStatement_UnknownKeywordErrors(t *testing.T) {
	if _, err := ParseStatement("FROBNICATE users", nil); err == nil {
		t.Fatalf("expected error for an unknown statement keyword")
	}
}

func TestSplitStatements_RespectsQuotedSemicolons(t *testing.T) {
	stmts := SplitStatements(`INSERT INTO t VALUES (1, 'a;b'); SELECT * FROM t;`)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
}
