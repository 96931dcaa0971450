package query

import (
	"fmt"

	"tinydb/internal/catalog"
	"tinydb/internal/value"
)

// coerceLiteral converts an untyped parsed literal into a Value matching
// col's declared type. A mismatch (e.g. a string literal bound to an INT
// column) is a parse error, per INSERT's value-binding contract.
func coerceLiteral(lit literalValue, col catalog.Column) (value.Value, error) {
	switch col.Type {
	case value.Int:
		if lit.kind != litInt {
			return value.Value{}, fmt.Errorf("column %q expects INT", col.Name)
		}
		return value.NewInt(lit.i), nil
	case value.Float:
		switch lit.kind {
		case litFloat:
			return value.NewFloat(lit.f), nil
		case litInt:
			return value.NewFloat(float32(lit.i)), nil
		default:
			return value.Value{}, fmt.Errorf("column %q expects FLOAT", col.Name)
		}
	case value.Bool:
		if lit.kind != litBool {
			return value.Value{}, fmt.Errorf("column %q expects BOOL", col.Name)
		}
		return value.NewBool(lit.b), nil
	case value.Str:
		if lit.kind != litString {
			return value.Value{}, fmt.Errorf("column %q expects STRING", col.Name)
		}
		return value.NewString(lit.s), nil
	case value.Char:
		if lit.kind != litString {
			return value.Value{}, fmt.Errorf("column %q expects CHAR", col.Name)
		}
		return value.NewChar(lit.s), nil
	default:
		return value.Value{}, fmt.Errorf("column %q has unknown type", col.Name)
	}
}
