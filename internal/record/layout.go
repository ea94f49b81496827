// Package record merges heterogeneous layout facts (data members, base
// sub-objects, vtable pointers, virtual-base adjustors) into one
// offset-ordered description of a type's memory image.
package record

import (
	"fmt"

	"abiscope/internal/oracle"
	"abiscope/internal/types"
	"abiscope/internal/vtable"
)

// FieldKind enumerates the entry kinds of a merged layout sequence. The
// numbering is part of the interop contract.
type FieldKind int32

const (
	FieldNormal FieldKind = iota
	FieldVTablePtr
	FieldNonVirtualBase
	// FieldVirtualBaseTablePtr only appears under the Microsoft family.
	FieldVirtualBaseTablePtr
	// FieldVTorDisp only appears under the Microsoft family.
	FieldVTorDisp
	FieldVirtualBase
)

func (k FieldKind) String() string {
	switch k {
	case FieldNormal:
		return "field"
	case FieldVTablePtr:
		return "vtable pointer"
	case FieldNonVirtualBase:
		return "non-virtual base"
	case FieldVirtualBaseTablePtr:
		return "vbtable pointer"
	case FieldVTorDisp:
		return "vtordisp"
	case FieldVirtualBase:
		return "virtual base"
	default:
		return fmt.Sprintf("FieldKind(%d)", k)
	}
}

// Field is one entry of the merged layout sequence.
type Field struct {
	Kind FieldKind
	// Offset is signed: displacement adjustors can be reported at a
	// negative offset relative to the start of an embedded sub-object.
	Offset int64
	Name   string

	// Type is the field's type for FieldNormal, the base's type for the
	// base and vtordisp kinds, void** for FieldVTablePtr and void* for
	// FieldVirtualBaseTablePtr.
	Type types.TypeID

	// Only set for FieldNormal.
	Decl          oracle.DeclID
	IsBitField    bool
	BitFieldStart uint32
	BitFieldWidth uint32

	// Only set for FieldNonVirtualBase and FieldVirtualBase.
	IsPrimaryBase bool
}

// Layout is the projected memory image of one complete record type.
type Layout struct {
	Type  types.TypeID
	Size  int64
	Align int64

	// C++-only attributes.
	IsCxx           bool
	NonVirtualSize  int64
	NonVirtualAlign int64
	ArgPassing      oracle.ArgPassingKind

	fields  []Field
	VTables []*vtable.Table
}

// Fields returns the merged sequence in non-decreasing offset order.
// Callers must not mutate the returned slice.
func (l *Layout) Fields() []Field { return l.fields }

// addField inserts a field preserving the non-decreasing offset invariant.
// The insertion point is the first entry whose offset exceeds the new
// entry's offset, so equal-offset entries keep their insertion order. Ties
// are legitimate: a vtable pointer and the first non-virtual base both
// start at offset zero.
func (l *Layout) addField(f Field) {
	at := len(l.fields)
	for i, existing := range l.fields {
		if existing.Offset > f.Offset {
			at = i
			break
		}
	}
	l.fields = append(l.fields, Field{})
	copy(l.fields[at+1:], l.fields[at:])
	l.fields[at] = f
}
