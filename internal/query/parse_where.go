package query

import (
	"fmt"

	"tinydb/internal/condition"
)

// parseWhereClause parses the cond_list grammar production:
//
//	cond_list := [NOT] cmp ((AND|OR) [NOT] cmp)*
//	cmp       := col_ref op literal
//
// c must be positioned just after the WHERE keyword.
func parseWhereClause(c *cursor) (*condition.Expr, error) {
	expr := &condition.Expr{}

	for {
		tok, ok := c.peekUpper()
		if ok && tok == "NOT" {
			c.next()
			expr.Connectives = append(expr.Connectives, condition.Not)
		}

		cmp, err := parseComparison(c)
		if err != nil {
			return nil, err
		}
		expr.Conds = append(expr.Conds, cmp)

		next, ok := c.peekUpper()
		if !ok || (next != "AND" && next != "OR") {
			break
		}
		c.next()
		if next == "AND" {
			expr.Connectives = append(expr.Connectives, condition.And)
		} else {
			expr.Connectives = append(expr.Connectives, condition.Or)
		}
	}

	if err := expr.Validate(); err != nil {
		return nil, fmt.Errorf("query: WHERE: %w", err)
	}
	return expr, nil
}

func parseComparison(c *cursor) (condition.Comparison, error) {
	colTok, ok := c.next()
	if !ok {
		return condition.Comparison{}, fmt.Errorf("query: WHERE: expected column, got end of input")
	}
	col := parseColRef(colTok)

	// Unrecognized operators (e.g. LIKE) are accepted here and simply
	// never match at evaluation time, per the condition engine's
	// documented treatment of unknown operators.
	opTok, ok := c.next()
	if !ok {
		return condition.Comparison{}, fmt.Errorf("query: WHERE: expected operator after %q", colTok)
	}

	litTok, ok := c.next()
	if !ok {
		return condition.Comparison{}, fmt.Errorf("query: WHERE: expected literal after operator %q", opTok)
	}
	lit := parseLiteral(litTok)

	return condition.Comparison{Column: col.String(), Op: opTok, Lit: literalToValue(lit)}, nil
}
