package query

import (
	"fmt"
	"strconv"

	"tinydb/internal/catalog"
	"tinydb/internal/value"
)

// SchemaProvider is the catalog lookup the parser needs: INSERT value
// coercion and SELECT/JOIN column validation both consult it. Defined
// here (not imported from catalog) so the parser depends on catalog only
// through this narrow interface.
type SchemaProvider interface {
	GetTableSchema(name string) (catalog.TableSchema, bool)
}

// SplitStatements splits a multi-statement query string on ';',
// respecting quoted string literals.
func SplitStatements(query string) []string {
	return splitStatements(query)
}

// cursor walks a token slice for one statement.
type cursor struct {
	tokens []string
	pos    int
}

func (c *cursor) peek() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	return c.tokens[c.pos], true
}

func (c *cursor) peekUpper() (string, bool) {
	t, ok := c.peek()
	if !ok {
		return "", false
	}
	return upper(t), true
}

func (c *cursor) next() (string, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

func (c *cursor) expect(lit string) error {
	t, ok := c.next()
	if !ok || upper(t) != upper(lit) {
		return fmt.Errorf("query: syntax error: expected %q, got %q", lit, t)
	}
	return nil
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.tokens) }

// ParseStatement parses one statement (already split off of any ';'
// separators) into a Statement. schema is consulted for INSERT value
// coercion and SELECT/JOIN column validation; it may be nil for
// statements that don't need it.
func ParseStatement(stmt string, schema SchemaProvider) (Statement, error) {
	tokens := tokenize(stmt)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("query: empty statement")
	}
	c := &cursor{tokens: tokens}

	head, _ := c.peekUpper()
	switch head {
	case "CREATE":
		c.next()
		obj, ok := c.peekUpper()
		if !ok {
			return nil, fmt.Errorf("query: syntax error: expected DATABASE or TABLE after CREATE")
		}
		switch obj {
		case "DATABASE":
			c.next()
			return parseCreateDatabase(c)
		case "TABLE":
			c.next()
			return parseCreateTable(c)
		default:
			return nil, fmt.Errorf("query: syntax error: unknown CREATE object %q", obj)
		}
	case "DROP":
		c.next()
		obj, ok := c.peekUpper()
		if !ok {
			return nil, fmt.Errorf("query: syntax error: expected DATABASE or TABLE after DROP")
		}
		switch obj {
		case "DATABASE":
			c.next()
			return parseDropDatabase(c)
		case "TABLE":
			c.next()
			return parseDropTable(c)
		default:
			return nil, fmt.Errorf("query: syntax error: unknown DROP object %q", obj)
		}
	case "USE":
		c.next()
		return parseUseDatabase(c)
	case "SHOW":
		c.next()
		return parseShow(c)
	case "INSERT":
		c.next()
		return parseInsert(c, schema)
	case "SELECT":
		c.next()
		return parseSelect(c, schema)
	case "UPDATE":
		c.next()
		return parseUpdate(c)
	case "DELETE":
		c.next()
		return parseDelete(c)
	default:
		return nil, fmt.Errorf("query: syntax error: unknown statement %q", head)
	}
}

// parseColRef splits a token on its first '.' into a qualified column
// reference; a token with no '.' is an unqualified reference.
func parseColRef(tok string) ColRef {
	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' {
			return ColRef{Table: tok[:i], Column: tok[i+1:]}
		}
	}
	return ColRef{Column: tok}
}

func literalToValue(lit literalValue) value.Value {
	switch lit.kind {
	case litInt:
		return value.NewInt(lit.i)
	case litFloat:
		return value.NewFloat(lit.f)
	case litBool:
		return value.NewBool(lit.b)
	default:
		return value.NewString(lit.s)
	}
}

func parseIdent(c *cursor) (string, error) {
	t, ok := c.next()
	if !ok {
		return "", fmt.Errorf("query: syntax error: expected identifier")
	}
	return t, nil
}

// parseLiteral parses a value literal greedily: int, else float, else
// bool (true/false, case-insensitive), else string. A quoted token is
// always a string, with the surrounding quotes stripped.
func parseLiteral(tok string) literalValue {
	if isQuoted(tok) {
		return literalValue{kind: litString, s: unquote(tok)}
	}
	if i, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return literalValue{kind: litInt, i: int32(i)}
	}
	if f, err := strconv.ParseFloat(tok, 32); err == nil {
		return literalValue{kind: litFloat, f: float32(f)}
	}
	switch upper(tok) {
	case "TRUE":
		return literalValue{kind: litBool, b: true}
	case "FALSE":
		return literalValue{kind: litBool, b: false}
	}
	return literalValue{kind: litString, s: tok}
}

type litKind int

const (
	litInt litKind = iota
	litFloat
	litString
	litBool
)

// literalValue is the untyped literal the tokenizer/parser produces
// before it's coerced against a declared column type.
type literalValue struct {
	kind litKind
	i    int32
	f    float32
	s    string
	b    bool
}
