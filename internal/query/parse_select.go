package query

import (
	"fmt"

	"tinydb/internal/catalog"
)

func parseSelect(c *cursor, schema SchemaProvider) (Statement, error) {
	stmt := &SelectStmt{}

	first, ok := c.peek()
	if !ok {
		return nil, fmt.Errorf("query: SELECT: missing projection")
	}
	if first == "*" {
		c.next()
		stmt.Star = true
	} else {
		for {
			tok, ok := c.next()
			if !ok {
				return nil, fmt.Errorf("query: SELECT: missing projection")
			}
			if tok == "FROM" || tok == "," {
				return nil, fmt.Errorf("query: SELECT: missing projection")
			}
			stmt.Columns = append(stmt.Columns, parseColRef(tok))

			next, ok := c.peek()
			if !ok {
				return nil, fmt.Errorf("query: SELECT: expected FROM")
			}
			if next == "," {
				c.next()
				continue
			}
			break
		}
	}

	if err := c.expect("FROM"); err != nil {
		return nil, fmt.Errorf("query: SELECT: %w", err)
	}
	tableName, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: SELECT FROM: %w", err)
	}
	stmt.TableName = tableName

	if next, ok := c.peekUpper(); ok && next == "JOIN" {
		c.next()
		joinTable, err := parseIdent(c)
		if err != nil {
			return nil, fmt.Errorf("query: SELECT JOIN: %w", err)
		}
		stmt.JoinTable = joinTable
		if err := c.expect("ON"); err != nil {
			return nil, fmt.Errorf("query: SELECT JOIN: %w", err)
		}
		leftTok, err := parseIdent(c)
		if err != nil {
			return nil, fmt.Errorf("query: SELECT JOIN ON: %w", err)
		}
		stmt.JoinLeft = parseColRef(leftTok)
		if err := c.expect("="); err != nil {
			return nil, fmt.Errorf("query: SELECT JOIN ON: %w", err)
		}
		rightTok, err := parseIdent(c)
		if err != nil {
			return nil, fmt.Errorf("query: SELECT JOIN ON: %w", err)
		}
		stmt.JoinRight = parseColRef(rightTok)
	}

	if next, ok := c.peekUpper(); ok && next == "WHERE" {
		c.next()
		where, err := parseWhereClause(c)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if !c.atEnd() {
		tok, _ := c.peek()
		return nil, fmt.Errorf("query: SELECT: unexpected token %q", tok)
	}

	if schema != nil && !stmt.Star {
		if err := validateSelectColumns(stmt, schema); err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

// validateSelectColumns checks that every projected column exists in the
// FROM table or, if present, the JOIN table — qualified or unqualified.
func validateSelectColumns(stmt *SelectStmt, schema SchemaProvider) error {
	fromSchema, ok := schema.GetTableSchema(stmt.TableName)
	if !ok {
		return fmt.Errorf("query: SELECT: table %q does not exist", stmt.TableName)
	}
	var joinSchema catalog.TableSchema
	hasJoin := stmt.JoinTable != ""
	if hasJoin {
		joinSchema, ok = schema.GetTableSchema(stmt.JoinTable)
		if !ok {
			return fmt.Errorf("query: SELECT: table %q does not exist", stmt.JoinTable)
		}
	}

	for _, col := range stmt.Columns {
		if columnExists(col, stmt.TableName, fromSchema) {
			continue
		}
		if hasJoin && columnExists(col, stmt.JoinTable, joinSchema) {
			continue
		}
		return fmt.Errorf("query: SELECT: column %q does not exist", col.String())
	}
	return nil
}

func columnExists(col ColRef, tableName string, schema catalog.TableSchema) bool {
	if col.Table != "" && col.Table != tableName {
		return false
	}
	_, _, ok := schema.ColumnByName(col.Column)
	return ok
}
