package query

import "fmt"

func parseCreateDatabase(c *cursor) (Statement, error) {
	name, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: CREATE DATABASE: %w", err)
	}
	return &CreateDatabaseStmt{Name: name}, nil
}

func parseDropDatabase(c *cursor) (Statement, error) {
	name, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: DROP DATABASE: %w", err)
	}
	return &DropDatabaseStmt{Name: name}, nil
}

func parseUseDatabase(c *cursor) (Statement, error) {
	name, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: USE: %w", err)
	}
	return &UseDatabaseStmt{Name: name}, nil
}

func parseShow(c *cursor) (Statement, error) {
	obj, ok := c.peekUpper()
	if !ok {
		return nil, fmt.Errorf("query: SHOW: expected DATABASES or TABLES")
	}
	switch obj {
	case "DATABASES", "TABLES":
		c.next()
		return &ShowStmt{What: obj}, nil
	default:
		return nil, fmt.Errorf("query: SHOW: unknown object %q", obj)
	}
}
