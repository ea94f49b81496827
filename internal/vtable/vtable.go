// Package vtable projects dispatch-table component sequences into flat,
// consumer-facing tables. Slot order is load-bearing: binding generators
// index into a table at a fixed slot number, so projection never reorders,
// deduplicates or filters.
package vtable

import (
	"fmt"

	"abiscope/internal/oracle"
)

// EntryKind enumerates dispatch table entry kinds as exposed to consumers.
// The numbering is part of the interop contract.
type EntryKind int32

const (
	VCallOffset EntryKind = iota
	VBaseOffset
	OffsetToTop
	RTTI
	FunctionPointer
	CompleteDestructorPointer
	DeletingDestructorPointer
	UnusedFunctionPointer
)

func (k EntryKind) String() string {
	switch k {
	case VCallOffset:
		return "vcall offset"
	case VBaseOffset:
		return "vbase offset"
	case OffsetToTop:
		return "offset to top"
	case RTTI:
		return "rtti"
	case FunctionPointer:
		return "function pointer"
	case CompleteDestructorPointer:
		return "complete dtor pointer"
	case DeletingDestructorPointer:
		return "deleting dtor pointer"
	case UnusedFunctionPointer:
		return "unused function pointer"
	default:
		return fmt.Sprintf("EntryKind(%d)", k)
	}
}

// entryKindFromComponent maps the oracle's component numbering onto the
// interop numbering. The two currently coincide, but the mapping is kept
// explicit and asserted by tests so an oracle renumbering is caught instead
// of silently propagated.
var entryKindFromComponent = map[oracle.VTableComponentKind]EntryKind{
	oracle.ComponentVCallOffset:           VCallOffset,
	oracle.ComponentVBaseOffset:           VBaseOffset,
	oracle.ComponentOffsetToTop:           OffsetToTop,
	oracle.ComponentRTTI:                  RTTI,
	oracle.ComponentFunctionPointer:       FunctionPointer,
	oracle.ComponentCompleteDtorPointer:   CompleteDestructorPointer,
	oracle.ComponentDeletingDtorPointer:   DeletingDestructorPointer,
	oracle.ComponentUnusedFunctionPointer: UnusedFunctionPointer,
}

// Entry is one dispatch table slot. Exactly one payload field is meaningful
// for a given kind; the others are zero-valued.
type Entry struct {
	Kind   EntryKind
	Offset int64         // VCallOffset, VBaseOffset, OffsetToTop
	Method oracle.DeclID // the three pointer kinds
	RTTI   oracle.DeclID // RTTI
}

// Table is one dispatch table owned by a class. Under the Microsoft family
// a class may own several, one per distinct vtable-pointer offset in the
// most-derived object; they surface on the record layout in offset order.
type Table struct {
	// VFPtrOffset is the vtable-pointer offset this table serves.
	// Always 0 under the Itanium family.
	VFPtrOffset int64
	Entries     []Entry
}

// Project maps one component sequence 1:1 onto a Table, preserving oracle
// order exactly.
func Project(vfptrOffset int64, components []oracle.VTableComponent) *Table {
	t := &Table{
		VFPtrOffset: vfptrOffset,
		Entries:     make([]Entry, len(components)),
	}
	for i, c := range components {
		kind, ok := entryKindFromComponent[c.Kind]
		if !ok {
			panic(fmt.Errorf("unknown vtable component kind %d", c.Kind))
		}
		entry := Entry{Kind: kind}
		switch kind {
		case VCallOffset, VBaseOffset, OffsetToTop:
			entry.Offset = c.Offset
		case RTTI:
			entry.RTTI = c.RTTI
		case FunctionPointer, CompleteDestructorPointer, DeletingDestructorPointer, UnusedFunctionPointer:
			entry.Method = c.Method
		}
		t.Entries[i] = entry
	}
	return t
}
