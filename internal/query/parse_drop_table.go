package query

import "fmt"

func parseDropTable(c *cursor) (Statement, error) {
	name, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: DROP TABLE: %w", err)
	}
	return &DropTableStmt{TableName: name}, nil
}
