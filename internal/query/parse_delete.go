package query

import "fmt"

func parseDelete(c *cursor) (Statement, error) {
	if err := c.expect("FROM"); err != nil {
		return nil, fmt.Errorf("query: DELETE: %w", err)
	}
	tableName, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: DELETE FROM: %w", err)
	}
	stmt := &DeleteStmt{TableName: tableName}

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
		return nil, fmt.Errorf("query: DELETE FROM %s: unexpected token %q", tableName, tok)
	}

	return stmt, nil
}
