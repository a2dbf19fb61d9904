package dysl

import "fmt"

// Version information for the dysl substrate.
const (
	VersionMajor  = 0
	VersionMinor  = 1
	VersionPatch  = 0
	VersionString = "0.1.0"
)

// --- Tags ------------------------------------------------------------------

// Tag is a small integer identifying the runtime type of a value or of a
// heap object. The zero tag is Undefined.
type Tag int8

// Pre-defined tags for values and heap objects.
const (
	Undefined Tag = iota
	IntegerType
	RealType
	BooleanType
	CharType
	StringType
	SymbolType
	PairType
)

func (t Tag) String() string {
	switch t {
	case IntegerType:
		return "integer"
	case RealType:
		return "real"
	case BooleanType:
		return "boolean"
	case CharType:
		return "char"
	case StringType:
		return "string"
	case SymbolType:
		return "symbol"
	case PairType:
		return "pair"
	}
	return "undefined"
}

// --- Handles ---------------------------------------------------------------

// Handle references a heap object tracked by a collector. Handles are stable
// for the lifetime of the object they reference, i.e. an object never moves
// to a different handle. The zero handle references no object.
//
// Handles replace the intrusive raw-pointer links of classic interpreter
// heaps: objects live in an arena indexed by handle, and tracking-list links
// are handle pairs.
type Handle uint32

// NoObject is the null handle.
const NoObject Handle = 0

// --- Values ----------------------------------------------------------------

// Value is a tagged union over the primitive runtime types. Values are
// copied freely; only the reference variants (string, symbol, pair) carry
// ownership semantics, shared and managed by the collector.
type Value struct {
	Typ Tag
	I   int32
	R   float64
	B   bool
	C   rune
	Ref Handle
}

// IntValue wraps an integer.
func IntValue(n int32) Value {
	return Value{Typ: IntegerType, I: n}
}

// RealValue wraps a real number.
func RealValue(x float64) Value {
	return Value{Typ: RealType, R: x}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{Typ: BooleanType, B: b}
}

// CharValue wraps a character.
func CharValue(c rune) Value {
	return Value{Typ: CharType, C: c}
}

// RefValue wraps a handle to a heap object. tag should be one of the
// reference tags (StringType, SymbolType, PairType).
func RefValue(tag Tag, h Handle) Value {
	return Value{Typ: tag, Ref: h}
}

// IsRef is a predicate: does v reference a heap object?
func (v Value) IsRef() bool {
	return v.Ref != NoObject &&
		(v.Typ == StringType || v.Typ == SymbolType || v.Typ == PairType)
}

// String is a debug Stringer for values.
func (v Value) String() string {
	switch v.Typ {
	case IntegerType:
		return fmt.Sprintf("%d", v.I)
	case RealType:
		return fmt.Sprintf("%g", v.R)
	case BooleanType:
		return fmt.Sprintf("%v", v.B)
	case CharType:
		return fmt.Sprintf("%q", v.C)
	case StringType, SymbolType, PairType:
		return fmt.Sprintf("<%s #%d>", v.Typ, v.Ref)
	}
	return "<undefined>"
}

// --- Hashing ---------------------------------------------------------------

// FNV-1a constants (32 bit).
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Hash computes the FNV-1a hash of a byte sequence. This is the one hash
// function used for symbol interning; it is not a cryptographic hash.
func Hash(key []byte) uint32 {
	h := fnvOffsetBasis
	for _, b := range key {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}
