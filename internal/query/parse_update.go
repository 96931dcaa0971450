package query

import "fmt"

func parseUpdate(c *cursor) (Statement, error) {
	tableName, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: UPDATE: %w", err)
	}
	if err := c.expect("SET"); err != nil {
		return nil, fmt.Errorf("query: UPDATE %s: %w", tableName, err)
	}

	stmt := &UpdateStmt{TableName: tableName}

	for {
		col, err := parseIdent(c)
		if err != nil {
			return nil, fmt.Errorf("query: UPDATE %s SET: %w", tableName, err)
		}
		if err := c.expect("="); err != nil {
			return nil, fmt.Errorf("query: UPDATE %s SET: %w", tableName, err)
		}
		litTok, ok := c.next()
		if !ok {
			return nil, fmt.Errorf("query: UPDATE %s SET: expected value for %q", tableName, col)
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: literalToValue(parseLiteral(litTok))})

		next, ok := c.peek()
		if !ok {
			break
		}
		if next == "," {
			c.next()
			continue
		}
		break
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
		return nil, fmt.Errorf("query: UPDATE %s: unexpected token %q", tableName, tok)
	}

	return stmt, nil
}
