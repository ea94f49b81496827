// Package constant classifies the oracle's constant-folding results into a
// self-describing encoding safely transportable across a foreign-function
// boundary.
package constant

import (
	"fmt"

	"abiscope/internal/oracle"
)

// Kind tags a constant value's runtime representation. The numbering is
// part of the interop contract.
type Kind int32

const (
	Unknown Kind = iota
	NullPointer
	UnsignedInteger
	SignedInteger
	FloatingPoint
	String
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case NullPointer:
		return "null pointer"
	case UnsignedInteger:
		return "unsigned integer"
	case SignedInteger:
		return "signed integer"
	case FloatingPoint:
		return "floating point"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// StringKind records a string constant's element encoding.
type StringKind uint32

const (
	Ascii StringKind = iota
	// WideChar never survives encoding: it is resolved to the concrete
	// UTF equivalent with WideCharBit set.
	WideChar
	UTF8
	UTF16
	UTF32

	// WideCharBit marks a constant whose source notation used the
	// platform's default wide-character type. The low bits carry the
	// resolved concrete encoding.
	WideCharBit StringKind = 1 << 31
)

// Encoding returns the concrete encoding with the wide-notation bit cleared.
func (k StringKind) Encoding() StringKind { return k &^ WideCharBit }

// IsWideNotation reports whether the literal was written with the
// platform's wide-character notation.
func (k StringKind) IsWideNotation() bool { return k&WideCharBit != 0 }

// Value is the tagged snapshot of one evaluated constant.
//
// A value can be valid while HasSideEffects or HasUndefinedBehavior is set:
// the evaluator may produce a result even though computing it executed
// behavior the source language deems undefined. Callers must distinguish
// "has a value" from "value is trustworthy".
type Value struct {
	Kind                 Kind
	HasSideEffects       bool
	HasUndefinedBehavior bool

	// SubKind is the bit width for the numeric kinds, a StringKind for
	// String, and the evaluator's own value-kind numbering for Unknown.
	SubKind uint32

	// Bits is the numeric payload: zero-extended for UnsignedInteger,
	// sign-extended for SignedInteger, the raw IEEE-754 pattern for
	// FloatingPoint, zero for NullPointer and String.
	Bits uint64

	str []byte
}

// StringBytes returns the owned byte buffer of a String value. The buffer
// lives until Dispose is called.
func (v *Value) StringBytes() []byte {
	if v == nil || v.Kind != String {
		return nil
	}
	return v.str
}

// StringKind returns the element encoding of a String value.
func (v *Value) StringKind() StringKind {
	if v == nil || v.Kind != String {
		return Ascii
	}
	return StringKind(v.SubKind)
}

// Dispose releases the separately allocated string buffer. Calling it on
// any other kind is a no-op. Dispose at most once per value; double
// disposal is a caller defect, not a recoverable condition.
func (v *Value) Dispose() {
	if v == nil || v.Kind != String {
		return
	}
	v.str = nil
}

// Failure reports that an expression could not be reduced to a value.
// Diagnostic may be empty.
type Failure struct {
	Diagnostic string
}

func (f *Failure) Error() string {
	if f == nil || f.Diagnostic == "" {
		return "constant evaluation failed"
	}
	return f.Diagnostic
}

// Compute evaluates the constant value behind a cursor.
//
// Outcomes:
//   - (value, nil): the cursor has a constant value.
//   - (nil, nil): the cursor is a variable declaration with no initializer.
//     This "no value" result is distinct from failure.
//   - (nil, *Failure): evaluation failed, optionally with a diagnostic.
func Compute(o oracle.ConstOracle, cur oracle.Cursor) (*Value, error) {
	var expr oracle.ExprID

	switch {
	case cur.IsDecl():
		if o.DeclKind(cur.Decl) != oracle.DeclVar {
			return nil, &Failure{Diagnostic: "the cursor is not a variable declaration or expression"}
		}
		init, hasInit, ok := o.VarInit(cur.Decl)
		if !ok {
			return nil, &Failure{Diagnostic: "the cursor is not a variable declaration or expression"}
		}
		if !hasInit {
			return nil, nil
		}
		expr = init
	case cur.IsExpr():
		expr = cur.Expr
	default:
		return nil, &Failure{Diagnostic: "the cursor is not a variable declaration or expression"}
	}

	res, ok := o.Evaluate(expr)
	if !ok {
		if res != nil && len(res.Diagnostics) > 0 {
			return nil, &Failure{Diagnostic: "constant evaluation returned diagnostics"}
		}
		return nil, &Failure{}
	}

	return encode(res), nil
}

// encode classifies one evaluator result. Side-effect and UB flags pass
// through unconditionally, even on success.
func encode(res *oracle.EvalResult) *Value {
	v := &Value{
		Kind:                 Unknown,
		HasSideEffects:       res.HasSideEffects,
		HasUndefinedBehavior: res.HasUndefinedBehavior,
		SubKind:              uint32(res.RawKind),
	}

	switch res.Kind {
	case oracle.EvalInt:
		v.SubKind = res.BitWidth
		if res.Signed {
			v.Kind = SignedInteger
			v.Bits = signExtend(res.Bits, res.BitWidth)
		} else {
			v.Kind = UnsignedInteger
			v.Bits = zeroExtend(res.Bits, res.BitWidth)
		}
	case oracle.EvalFloat:
		v.Kind = FloatingPoint
		v.SubKind = res.BitWidth
		v.Bits = res.Bits
	case oracle.EvalNullPointer:
		v.Kind = NullPointer
		v.SubKind = 0
	case oracle.EvalLValue:
		// Only a string literal lvalue base is representable; any other
		// lvalue stays classified as unknown.
		if res.Literal != nil {
			encodeString(v, res.Literal)
		}
	}

	return v
}

func encodeString(v *Value, lit *oracle.StringLiteral) {
	kind := StringKind(lit.Kind)
	if kind == WideChar {
		// The wide notation's width is platform-dependent; resolve it to
		// a concrete encoding from the literal's element byte width.
		switch lit.CharByteWidth {
		case 1:
			kind = UTF8 | WideCharBit
		case 2:
			kind = UTF16 | WideCharBit
		case 4:
			kind = UTF32 | WideCharBit
		default:
			panic(fmt.Sprintf("constant: wide string literal has element width %d", lit.CharByteWidth))
		}
	}

	v.Kind = String
	v.SubKind = uint32(kind)
	v.Bits = 0
	v.str = append([]byte(nil), lit.Bytes...)
}

func signExtend(bits uint64, width uint32) uint64 {
	if width == 0 || width >= 64 {
		return bits
	}
	shift := 64 - width
	return uint64(int64(bits<<shift) >> shift)
}

func zeroExtend(bits uint64, width uint32) uint64 {
	if width == 0 || width >= 64 {
		return bits
	}
	return bits & (1<<width - 1)
}
