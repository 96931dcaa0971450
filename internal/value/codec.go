package value

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FieldSpec is the minimal column shape the codec needs: a type tag plus,
// for Str/Char, the declared fixed-width length n. Kept independent of
// package catalog so catalog can import value without a cycle.
type FieldSpec struct {
	Type   Type
	Length int // only meaningful for Str/Char
}

// EncodedSize returns the fixed on-disk footprint of a field with the
// given spec, per the codec table: INT/FLOAT 4, BOOL 1, CHAR(n) n,
// STRING(n) 4+n.
func EncodedSize(spec FieldSpec) int {
	switch spec.Type {
	case Int, Float:
		return 4
	case Bool:
		return 1
	case Char:
		return spec.Length
	case Str:
		return 4 + spec.Length
	default:
		return 0
	}
}

// EncodeField appends the fixed-width encoding of v to dst and returns the
// result. v.Type must match spec.Type.
func EncodeField(dst []byte, v Value, spec FieldSpec) ([]byte, error) {
	if v.Type != spec.Type {
		return nil, fmt.Errorf("value: encode type mismatch: field is %s, value is %s", spec.Type, v.Type)
	}
	switch spec.Type {
	case Int:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v.I))
		return append(dst, buf[:]...), nil
	case Float:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v.F))
		return append(dst, buf[:]...), nil
	case Bool:
		if v.B {
			return append(dst, 0x01), nil
		}
		return append(dst, 0x00), nil
	case Char:
		buf := make([]byte, spec.Length)
		copy(buf, v.S)
		return append(dst, buf...), nil
	case Str:
		n := spec.Length
		payload := []byte(v.S)
		l := len(payload)
		if l > n {
			l = n
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(l))
		dst = append(dst, lenBuf[:]...)
		buf := make([]byte, n)
		copy(buf, payload[:l])
		return append(dst, buf...), nil
	default:
		return nil, fmt.Errorf("value: encode: unknown field type %v", spec.Type)
	}
}

// DecodeField reads one field from the front of src per spec. It returns
// the decoded value and the number of bytes consumed. A short read or a
// length prefix exceeding the declared length is a fatal I/O-level error,
// per the codec's deserialization contract.
func DecodeField(src []byte, spec FieldSpec) (Value, int, error) {
	need := EncodedSize(spec)
	if len(src) < need {
		return Value{}, 0, fmt.Errorf("value: decode: short read for %s field: need %d bytes, have %d", spec.Type, need, len(src))
	}
	switch spec.Type {
	case Int:
		return Value{Type: Int, I: int32(binary.LittleEndian.Uint32(src[:4]))}, 4, nil
	case Float:
		return Value{Type: Float, F: math.Float32frombits(binary.LittleEndian.Uint32(src[:4]))}, 4, nil
	case Bool:
		return Value{Type: Bool, B: src[0] != 0x00}, 1, nil
	case Char:
		raw := src[:spec.Length]
		end := len(raw)
		for end > 0 && raw[end-1] == 0x00 {
			end--
		}
		return Value{Type: Char, S: string(raw[:end])}, spec.Length, nil
	case Str:
		l := int(binary.LittleEndian.Uint32(src[:4]))
		if l > spec.Length {
			return Value{}, 0, fmt.Errorf("value: decode: string length prefix %d exceeds declared length %d", l, spec.Length)
		}
		payload := src[4 : 4+spec.Length]
		return Value{Type: Str, S: string(payload[:l])}, 4 + spec.Length, nil
	default:
		return Value{}, 0, fmt.Errorf("value: decode: unknown field type %v", spec.Type)
	}
}
