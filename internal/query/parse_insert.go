package query

import (
	"fmt"

	"tinydb/internal/value"
)

func parseInsert(c *cursor, schema SchemaProvider) (Statement, error) {
	if err := c.expect("INTO"); err != nil {
		return nil, fmt.Errorf("query: INSERT: %w", err)
	}
	tableName, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: INSERT: %w", err)
	}
	if err := c.expect("VALUES"); err != nil {
		return nil, fmt.Errorf("query: INSERT INTO %s: %w", tableName, err)
	}
	if err := c.expect("("); err != nil {
		return nil, fmt.Errorf("query: INSERT INTO %s: %w", tableName, err)
	}

	var literals []literalValue
	for {
		tok, ok := c.next()
		if !ok {
			return nil, fmt.Errorf("query: INSERT INTO %s: unexpected end of input", tableName)
		}
		if tok == ")" {
			break
		}
		if tok == "," {
			continue
		}
		literals = append(literals, parseLiteral(tok))
	}

	if schema == nil {
		return nil, fmt.Errorf("query: INSERT INTO %s: no catalog available to resolve column types", tableName)
	}
	tblSchema, ok := schema.GetTableSchema(tableName)
	if !ok {
		return nil, fmt.Errorf("query: INSERT INTO %s: table does not exist", tableName)
	}
	if len(literals) != len(tblSchema.Columns) {
		return nil, fmt.Errorf("query: INSERT INTO %s: expected %d values, got %d", tableName, len(tblSchema.Columns), len(literals))
	}

	values := make([]value.Value, len(literals))
	for i, lit := range literals {
		v, err := coerceLiteral(lit, tblSchema.Columns[i])
		if err != nil {
			return nil, fmt.Errorf("query: INSERT INTO %s: %w", tableName, err)
		}
		values[i] = v
	}

	return &InsertStmt{TableName: tableName, Values: values}, nil
}
