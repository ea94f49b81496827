package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// DeclRef is an opaque reference to a declaration owned by the program unit.
// The unit package interprets it; the type table only carries it around.
type DeclRef uint32

// NoDeclRef marks the absence of a declaration.
const NoDeclRef DeclRef = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindWChar
	KindInt
	KindUint
	KindFloat
	KindPointer
	KindReference
	KindRecord
	KindEnum
	KindFunction
	KindDependent
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindWChar:
		return "wchar"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindReference:
		return "reference"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	case KindDependent:
		return "dependent"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats in bits.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID  // for pointers and references
	Decl    DeclRef // for records, enums and dependent names
	Width   Width   // for numeric primitives
	Payload uint32  // index into kind-specific side tables (functions)
}

// IsDependent reports whether the type mentions an unresolved template
// parameter. Layout queries on dependent types are a caller defect.
func (t Type) IsDependent() bool { return t.Kind == KindDependent }
