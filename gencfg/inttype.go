package gencfg

// IntType selects the integer representation of a generated field or enum.
type IntType int

const (
	I8 IntType = iota
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	Int
	Uint
)

// TypeName returns the Go type name for the representation.
func (t IntType) TypeName() string {
	switch t {
	case I8:
		return "int8"
	case U8:
		return "uint8"
	case I16:
		return "int16"
	case U16:
		return "uint16"
	case I32:
		return "int32"
	case U32:
		return "uint32"
	case I64:
		return "int64"
	case U64:
		return "uint64"
	case Int:
		return "int"
	case Uint:
		return "uint"
	default:
		return "int32"
	}
}

// Signed reports whether the representation is signed.
func (t IntType) Signed() bool {
	switch t {
	case I8, I16, I32, I64, Int:
		return true
	}
	return false
}

func (t IntType) String() string { return t.TypeName() }

// IntTypeFromName maps a type name ("int8", "uint", ...) back to its
// IntType. The second result is false for unknown names.
func IntTypeFromName(name string) (IntType, bool) {
	for t := I8; t <= Uint; t++ {
		if t.TypeName() == name {
			return t, true
		}
	}
	return 0, false
}
