package query

import (
	"fmt"
	"strconv"

	"tinydb/internal/value"
)

func parseColumnType(tok string) (value.Type, bool) {
	switch upper(tok) {
	case "INT":
		return value.Int, true
	case "FLOAT":
		return value.Float, true
	case "BOOL":
		return value.Bool, true
	case "STRING":
		return value.Str, true
	case "CHAR":
		return value.Char, true
	default:
		return 0, false
	}
}

func parseCreateTable(c *cursor) (Statement, error) {
	name, err := parseIdent(c)
	if err != nil {
		return nil, fmt.Errorf("query: CREATE TABLE: %w", err)
	}
	if err := c.expect("("); err != nil {
		return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
	}

	stmt := &CreateTableStmt{TableName: name}

	for {
		tok, ok := c.peekUpper()
		if !ok {
			return nil, fmt.Errorf("query: CREATE TABLE %s: unexpected end of input", name)
		}

		switch tok {
		case "PRIMARY":
			c.next()
			if err := c.expect("KEY"); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			if err := c.expect("("); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			col, err := parseIdent(c)
			if err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: PRIMARY KEY: %w", name, err)
			}
			if err := c.expect(")"); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			stmt.PrimaryKey = col

		case "FOREIGN":
			c.next()
			if err := c.expect("KEY"); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			if err := c.expect("("); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			localCol, err := parseIdent(c)
			if err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: FOREIGN KEY: %w", name, err)
			}
			if err := c.expect(")"); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			if err := c.expect("REFERENCES"); err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			refTable, err := parseIdent(c)
			if err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: FOREIGN KEY REFERENCES: %w", name, err)
			}
			refCol := localCol
			if next, ok := c.peek(); ok && next == "(" {
				c.next()
				refCol, err = parseIdent(c)
				if err != nil {
					return nil, fmt.Errorf("query: CREATE TABLE %s: FOREIGN KEY: %w", name, err)
				}
				if err := c.expect(")"); err != nil {
					return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
				}
			}
			stmt.ForeignKeys = append(stmt.ForeignKeys, ForeignKeyDef{Column: localCol, RefTable: refTable, RefColumn: refCol})

		case ")":
			c.next()
			if len(stmt.Columns) == 0 {
				return nil, fmt.Errorf("query: CREATE TABLE %s: no columns defined", name)
			}
			return finishCreateTable(stmt)

		default:
			col, err := parseColumnDef(c)
			if err != nil {
				return nil, fmt.Errorf("query: CREATE TABLE %s: %w", name, err)
			}
			stmt.Columns = append(stmt.Columns, col)
			if col.IsPrimaryKey {
				stmt.PrimaryKey = col.Name
			}
		}

		next, ok := c.peek()
		if !ok {
			return nil, fmt.Errorf("query: CREATE TABLE %s: unexpected end of input", name)
		}
		if next == "," {
			c.next()
			continue
		}
		if next == ")" {
			continue // loop will consume it above
		}
		return nil, fmt.Errorf("query: CREATE TABLE %s: expected ',' or ')', got %q", name, next)
	}
}

func parseColumnDef(c *cursor) (ColumnDef, error) {
	colName, err := parseIdent(c)
	if err != nil {
		return ColumnDef{}, err
	}
	typeTok, err := parseIdent(c)
	if err != nil {
		return ColumnDef{}, fmt.Errorf("column %q: %w", colName, err)
	}
	colType, ok := parseColumnType(typeTok)
	if !ok {
		return ColumnDef{}, fmt.Errorf("column %q: unknown type %q", colName, typeTok)
	}

	def := ColumnDef{Name: colName, Type: colType}

	if colType == value.Str || colType == value.Char {
		if err := c.expect("("); err != nil {
			return ColumnDef{}, fmt.Errorf("column %q: expected length specification: %w", colName, err)
		}
		lenTok, err := parseIdent(c)
		if err != nil {
			return ColumnDef{}, fmt.Errorf("column %q: %w", colName, err)
		}
		n, err := strconv.Atoi(lenTok)
		if err != nil {
			return ColumnDef{}, fmt.Errorf("column %q: invalid length %q", colName, lenTok)
		}
		if err := c.expect(")"); err != nil {
			return ColumnDef{}, fmt.Errorf("column %q: %w", colName, err)
		}
		def.Length = n
	}

	if next, ok := c.peekUpper(); ok && next == "PRIMARY" {
		c.next()
		if err := c.expect("KEY"); err != nil {
			return ColumnDef{}, fmt.Errorf("column %q: %w", colName, err)
		}
		def.IsPrimaryKey = true
	}

	return def, nil
}

func finishCreateTable(stmt *CreateTableStmt) (Statement, error) {
	if stmt.PrimaryKey == "" {
		return nil, fmt.Errorf("query: CREATE TABLE %s: no primary key declared", stmt.TableName)
	}
	pkFound := false
	for i, col := range stmt.Columns {
		if col.Name == stmt.PrimaryKey {
			stmt.Columns[i].IsPrimaryKey = true
			pkFound = true
			if col.Type != value.Int {
				return nil, fmt.Errorf("query: CREATE TABLE %s: primary key column %q must be INT", stmt.TableName, col.Name)
			}
		}
	}
	if !pkFound {
		return nil, fmt.Errorf("query: CREATE TABLE %s: primary key column %q not declared", stmt.TableName, stmt.PrimaryKey)
	}
	return stmt, nil
}
