package record

import (
	"fmt"

	"fortio.org/safecast"

	"abiscope/internal/abi"
	"abiscope/internal/oracle"
	"abiscope/internal/vtable"
)

// Project builds the merged layout of a record declaration.
//
// It returns (nil, nil) when the declaration is not applicable: not a
// record, or a forward declaration with no definition. A base whose type is
// still dependent is a caller precondition violation and panics, since
// layout queries are only valid once every template affecting the type has
// been instantiated.
func Project(o oracle.LayoutOracle, target abi.Target, decl oracle.DeclID) (*Layout, error) {
	switch o.DeclKind(decl) {
	case oracle.DeclRecord, oracle.DeclTemplateSpecialization:
	default:
		return nil, nil
	}
	facts, ok := o.RecordFacts(decl)
	if !ok {
		return nil, nil
	}

	in := o.Types()
	builtins := in.Builtins()

	l := &Layout{
		Type:       facts.Type,
		Size:       facts.Size,
		Align:      facts.Align,
		IsCxx:      facts.IsCxx,
		ArgPassing: facts.ArgPassing,
	}
	if facts.IsCxx {
		l.NonVirtualSize = facts.NonVirtualSize
		l.NonVirtualAlign = facts.NonVirtualAlign
	}

	if facts.IsCxx {
		// The two vtable-pointer conditions are mutually exclusive in
		// practice but checked independently: family selection is a
		// per-target property, not a per-type one.
		if facts.IsDynamic && facts.PrimaryBase == oracle.NoDeclID && !target.IsMicrosoft() {
			l.addField(Field{
				Kind: FieldVTablePtr,
				Name: "vtable_pointer",
				Type: builtins.VoidPtr2,
			})
		} else if facts.HasOwnVFPtr {
			l.addField(Field{
				Kind: FieldVTablePtr,
				Name: "vftable_pointer",
				Type: builtins.VoidPtr2,
			})
		}

		for _, base := range facts.Bases {
			if base.Virtual {
				// Virtual bases come up later, at their final offsets.
				continue
			}
			if tt, ok := in.Lookup(base.Type); ok && tt.IsDependent() {
				panic(fmt.Sprintf("record: layout query on type with dependent base (decl#%d)", decl))
			}
			isPrimary := facts.PrimaryBase != oracle.NoDeclID && base.Decl == facts.PrimaryBase
			l.addField(Field{
				Kind:          FieldNonVirtualBase,
				Offset:        base.Offset,
				Name:          baseName(isPrimary, false),
				Type:          base.Type,
				IsPrimaryBase: isPrimary,
			})
		}

		if facts.HasOwnVBPtr {
			l.addField(Field{
				Kind:   FieldVirtualBaseTablePtr,
				Offset: facts.VBPtrOffset,
				Name:   "vbtable_pointer",
				Type:   builtins.VoidPtr,
			})
		}
	}

	for _, f := range facts.Fields {
		offset, err := safecast.Conv[int64](f.BitOffset / 8)
		if err != nil {
			return nil, &Error{Kind: ErrOffsetOverflow, Decl: decl, Err: err}
		}
		field := Field{
			Kind:   FieldNormal,
			Offset: offset,
			Name:   f.Name,
			Type:   f.Type,
			Decl:   f.Decl,
		}
		// Bitfield tagging relies on the oracle reporting fields in
		// already offset-ordered iteration order; the merged list cannot
		// be used to re-derive bit positions because merge ordering is by
		// byte offset and can legitimately tie.
		if f.IsBitField || f.BitOffset%8 != 0 {
			field.IsBitField = true
			start, err := safecast.Conv[uint32](f.BitOffset - uint64(offset)*8)
			if err != nil {
				return nil, &Error{Kind: ErrOffsetOverflow, Decl: decl, Err: err}
			}
			field.BitFieldStart = start
			field.BitFieldWidth = f.BitWidth
		}
		l.addField(field)
	}

	if facts.IsCxx {
		for _, vbase := range facts.VBases {
			if vbase.HasVTorDisp {
				l.addField(Field{
					Kind:   FieldVTorDisp,
					Offset: vbase.Offset - target.VTorDispSlotSize(),
					Name:   "vtordisp",
					Type:   vbase.Type,
				})
			}
			isPrimary := facts.PrimaryBase != oracle.NoDeclID && vbase.Decl == facts.PrimaryBase
			l.addField(Field{
				Kind:          FieldVirtualBase,
				Offset:        vbase.Offset,
				Name:          baseName(isPrimary, true),
				Type:          vbase.Type,
				IsPrimaryBase: isPrimary,
			})
		}
	}

	if facts.IsCxx && facts.IsDynamic {
		if target.IsMicrosoft() {
			offsets := facts.VFPtrOffsets
			if len(offsets) == 0 {
				offsets = []int64{0}
			}
			for _, vfptr := range offsets {
				components, ok := o.VTableComponents(decl, vfptr)
				if !ok {
					return nil, &Error{Kind: ErrMissingVTable, Decl: decl, VFPtrOffset: vfptr}
				}
				l.VTables = append(l.VTables, vtable.Project(vfptr, components))
			}
		} else {
			components, ok := o.VTableComponents(decl, 0)
			if !ok {
				return nil, &Error{Kind: ErrMissingVTable, Decl: decl}
			}
			l.VTables = append(l.VTables, vtable.Project(0, components))
		}
	}

	return l, nil
}

func baseName(primary, virtual bool) string {
	switch {
	case primary && virtual:
		return "primary_virtual_base"
	case virtual:
		return "virtual_base"
	case primary:
		return "primary_base"
	default:
		return "base"
	}
}
