// Package value implements the tagged scalar that every column, literal
// and record field is built from.
package value

import "fmt"

// Type is the logical type tag of a Value.
type Type int

const (
	Int Type = iota
	Float
	Str
	Char
	Bool
)

func (t Type) String() string {
	switch t {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Str:
		return "STRING"
	case Char:
		return "CHAR"
	case Bool:
		return "BOOL"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Value is a tagged scalar. Only the field matching Type is meaningful;
// the others stay at their zero value.
type Value struct {
	Type Type

	I int32   // Int
	F float32 // Float
	S string  // Str, Char
	B bool    // Bool
}

func NewInt(i int32) Value       { return Value{Type: Int, I: i} }
func NewFloat(f float32) Value   { return Value{Type: Float, F: f} }
func NewString(s string) Value   { return Value{Type: Str, S: s} }
func NewChar(s string) Value     { return Value{Type: Char, S: s} }
func NewBool(b bool) Value       { return Value{Type: Bool, B: b} }

// Zero returns the per-type default used to fill a column missing from a
// record at insert time.
func Zero(t Type) Value {
	switch t {
	case Int:
		return Value{Type: Int}
	case Float:
		return Value{Type: Float}
	case Str:
		return Value{Type: Str}
	case Char:
		return Value{Type: Char}
	case Bool:
		return Value{Type: Bool}
	default:
		return Value{Type: t}
	}
}

// Equal reports whether a and b hold the same tag and scalar. Cross-tag
// comparisons are always false, never an error.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Int:
		return a.I == b.I
	case Float:
		return a.F == b.F
	case Str, Char:
		return a.S == b.S
	case Bool:
		return a.B == b.B
	default:
		return false
	}
}

// Less reports whether a < b. ok is false when the pair has no defined
// ordering (mismatched tags, or a Bool operand).
func Less(a, b Value) (less bool, ok bool) {
	if a.Type != b.Type {
		return false, false
	}
	switch a.Type {
	case Int:
		return a.I < b.I, true
	case Float:
		return a.F < b.F, true
	case Str, Char:
		return a.S < b.S, true
	default:
		return false, false
	}
}

// Compare evaluates a single relational operator between a and b. Unknown
// operators and non-orderable/mismatched-tag pairs evaluate to false, never
// an error, so WHERE stays total as required by the condition engine.
func Compare(op string, a, b Value) bool {
	switch op {
	case "=":
		return Equal(a, b)
	case "!=":
		return !Equal(a, b) && a.Type == b.Type
	case ">":
		lt, ok := Less(b, a)
		return ok && lt
	case "<":
		lt, ok := Less(a, b)
		return ok && lt
	case ">=":
		lt, ok := Less(a, b)
		return ok && !lt
	case "<=":
		lt, ok := Less(b, a)
		return ok && !lt
	default:
		return false
	}
}
