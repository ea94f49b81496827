package interop

import (
	"abiscope/internal/constant"
	"abiscope/internal/funcabi"
	"abiscope/internal/macro"
	"abiscope/internal/record"
	"abiscope/internal/unit"
	"abiscope/internal/vtable"
)

// Package interop defines the flat boundary representation handed to
// foreign consumers (snapshot files, generated bindings). Every scalar is
// fixed-width and every enum value is pinned here: renumbering an internal
// enum must not change what goes over the boundary. The mapping tables are
// hand-maintained and asserted by tests.

// RecordField is one boundary field of a record layout. Non-bitfield
// payload fields leave the BitField* members zero.
type RecordField struct {
	Kind          int32
	Offset        int64
	Type          uint32
	Name          string
	IsBitField    uint8
	IsPrimaryBase uint8
	BitFieldStart uint32
	BitFieldWidth uint32
}

// VTableEntry is one boundary dispatch-table slot.
type VTableEntry struct {
	Kind   int32
	Offset int64
	Method uint32
	RTTI   uint32
}

// VTable is one boundary dispatch table, keyed by the vtable-pointer
// offset it serves.
type VTable struct {
	VFPtrOffset int64
	Entries     []VTableEntry
}

// RecordLayout is the boundary rendition of a projected record layout.
type RecordLayout struct {
	Type                uint32
	Size                int64
	Alignment           int64
	IsCxxRecord         uint8
	NonVirtualSize      int64
	NonVirtualAlignment int64
	ArgPassing          int32
	Fields              []RecordField
	VTables             []VTable
}

// ConstantValueInfo is the boundary rendition of an evaluated constant.
// For string constants Value is unused and the bytes travel separately as
// a ConstantString.
type ConstantValueInfo struct {
	HasSideEffects       uint8
	HasUndefinedBehavior uint8
	Kind                 int32
	SubKind              uint32
	Value                uint64
}

// ConstantString carries the raw memory of a string constant.
type ConstantString struct {
	SizeBytes uint64
	Data      []byte
}

// ArgumentInfo is the boundary ABI classification of one argument or
// return value.
type ArgumentInfo struct {
	Type   uint32
	Kind   uint8
	Flags  uint16
	Extra  uint32
	Extra2 uint32
}

// ArrangedFunction is the boundary rendition of a function's
// call-lowering decision.
type ArrangedFunction struct {
	CallingConvention          uint32
	EffectiveCallingConvention uint32
	SourceConvention           uint8
	Flags                      uint16
	RequiredArguments          uint32
	RegParm                    uint32
	Return                     ArgumentInfo
	Arguments                  []ArgumentInfo
}

// MacroInformation is the boundary rendition of one preprocessor macro.
type MacroInformation struct {
	Name            string
	File            uint32
	Line            uint32
	Column          uint32
	WasUndefined    uint8
	IsFunctionLike  uint8
	IsBuiltin       uint8
	HasCommaPasting uint8
	VariadicKind    int32
	Parameters      []string
}

// OperatorOverloadInfo is the boundary row of the operator table.
type OperatorOverloadInfo struct {
	Kind         int32
	Name         string
	Spelling     string
	IsUnary      uint8
	IsBinary     uint8
	IsMemberOnly uint8
}

// TemplateInstantiationMetrics is the boundary rendition of a batch
// instantiation outcome.
type TemplateInstantiationMetrics struct {
	TotalSpecializations     uint64
	PartialSpecializations   uint64
	SuccessfulInstantiations uint64
	FailedInstantiations     uint64
}

// Pinned wire values. Keyed by internal enum so that adding an internal
// value without extending the table is caught by the projection panic and
// the table tests rather than by a silent renumber.

var fieldKindWire = map[record.FieldKind]int32{
	record.FieldNormal:              0,
	record.FieldVTablePtr:           1,
	record.FieldNonVirtualBase:      2,
	record.FieldVirtualBaseTablePtr: 3,
	record.FieldVTorDisp:            4,
	record.FieldVirtualBase:         5,
}

var vtableEntryKindWire = map[vtable.EntryKind]int32{
	vtable.VCallOffset:               0,
	vtable.VBaseOffset:               1,
	vtable.OffsetToTop:               2,
	vtable.RTTI:                      3,
	vtable.FunctionPointer:           4,
	vtable.CompleteDestructorPointer: 5,
	vtable.DeletingDestructorPointer: 6,
	vtable.UnusedFunctionPointer:     7,
}

var constantKindWire = map[constant.Kind]int32{
	constant.Unknown:         0,
	constant.NullPointer:     1,
	constant.UnsignedInteger: 2,
	constant.SignedInteger:   3,
	constant.FloatingPoint:   4,
	constant.String:          5,
}

// FieldKindWire returns the pinned boundary value of a layout field kind.
func FieldKindWire(k record.FieldKind) int32 {
	v, ok := fieldKindWire[k]
	if !ok {
		panic("interop: unmapped record field kind " + k.String())
	}
	return v
}

// VTableEntryKindWire returns the pinned boundary value of a dispatch
// table entry kind.
func VTableEntryKindWire(k vtable.EntryKind) int32 {
	v, ok := vtableEntryKindWire[k]
	if !ok {
		panic("interop: unmapped vtable entry kind " + k.String())
	}
	return v
}

// ConstantKindWire returns the pinned boundary value of a constant kind.
func ConstantKindWire(k constant.Kind) int32 {
	v, ok := constantKindWire[k]
	if !ok {
		panic("interop: unmapped constant kind " + k.String())
	}
	return v
}

// FromLayout flattens a projected record layout. Field order is preserved
// verbatim; consumers rely on it.
func FromLayout(l *record.Layout) *RecordLayout {
	if l == nil {
		return nil
	}
	out := &RecordLayout{
		Type:                uint32(l.Type),
		Size:                l.Size,
		Alignment:           l.Align,
		IsCxxRecord:         boolWire(l.IsCxx),
		NonVirtualSize:      l.NonVirtualSize,
		NonVirtualAlignment: l.NonVirtualAlign,
		ArgPassing:          int32(l.ArgPassing),
	}
	for _, f := range l.Fields() {
		out.Fields = append(out.Fields, RecordField{
			Kind:          FieldKindWire(f.Kind),
			Offset:        f.Offset,
			Type:          uint32(f.Type),
			Name:          f.Name,
			IsBitField:    boolWire(f.IsBitField),
			IsPrimaryBase: boolWire(f.IsPrimaryBase),
			BitFieldStart: f.BitFieldStart,
			BitFieldWidth: f.BitFieldWidth,
		})
	}
	for _, t := range l.VTables {
		out.VTables = append(out.VTables, FromVTable(t))
	}
	return out
}

// FromVTable flattens one dispatch table.
func FromVTable(t *vtable.Table) VTable {
	out := VTable{VFPtrOffset: t.VFPtrOffset}
	for _, e := range t.Entries {
		out.Entries = append(out.Entries, VTableEntry{
			Kind:   VTableEntryKindWire(e.Kind),
			Offset: e.Offset,
			Method: uint32(e.Method),
			RTTI:   uint32(e.RTTI),
		})
	}
	return out
}

// FromConstant flattens a computed constant. For string constants the
// second return value carries the bytes; it is nil otherwise.
func FromConstant(v *constant.Value) (ConstantValueInfo, *ConstantString) {
	info := ConstantValueInfo{
		HasSideEffects:       boolWire(v.HasSideEffects),
		HasUndefinedBehavior: boolWire(v.HasUndefinedBehavior),
		Kind:                 ConstantKindWire(v.Kind),
		SubKind:              v.SubKind,
		Value:                v.Bits,
	}
	if v.Kind != constant.String {
		return info, nil
	}
	bytes := v.StringBytes()
	info.Value = 0
	return info, &ConstantString{SizeBytes: uint64(len(bytes)), Data: bytes}
}

// FromArranged flattens a call-lowering arrangement. The funcabi enums
// already carry target-level numbering, so they cross unchanged.
func FromArranged(a *funcabi.Arranged) *ArrangedFunction {
	if a == nil {
		return nil
	}
	out := &ArrangedFunction{
		CallingConvention:          uint32(a.CallingConvention),
		EffectiveCallingConvention: uint32(a.EffectiveCallingConvention),
		SourceConvention:           uint8(a.SourceConvention),
		Flags:                      uint16(a.Flags),
		RequiredArguments:          a.RequiredArgs,
		RegParm:                    a.RegParm,
		Return:                     fromArg(a.Return),
	}
	for _, arg := range a.Args {
		out.Arguments = append(out.Arguments, fromArg(arg))
	}
	return out
}

func fromArg(a funcabi.ArgInfo) ArgumentInfo {
	return ArgumentInfo{
		Type:   uint32(a.Type),
		Kind:   uint8(a.Kind),
		Flags:  uint16(a.Flags),
		Extra:  a.Extra,
		Extra2: a.Extra2,
	}
}

// FromMacro flattens one macro record. Parameters are copied: the source
// slice is scratch-backed and only valid during enumeration.
func FromMacro(m *macro.Info) MacroInformation {
	out := MacroInformation{
		Name:            m.Name,
		File:            uint32(m.Location.File),
		Line:            m.Location.Line,
		Column:          m.Location.Col,
		WasUndefined:    boolWire(m.WasUndefined),
		IsFunctionLike:  boolWire(m.IsFunctionLike),
		IsBuiltin:       boolWire(m.IsBuiltin),
		HasCommaPasting: boolWire(m.HasCommaPasting),
		VariadicKind:    int32(m.VariadicKind),
	}
	if len(m.Params) > 0 {
		out.Parameters = append([]string(nil), m.Params...)
	}
	return out
}

// FromOperator flattens one operator table row.
func FromOperator(info funcabi.OperatorInfo) OperatorOverloadInfo {
	return OperatorOverloadInfo{
		Kind:         int32(info.Kind),
		Name:         info.Name,
		Spelling:     info.Spelling,
		IsUnary:      boolWire(info.IsUnary),
		IsBinary:     boolWire(info.IsBinary),
		IsMemberOnly: boolWire(info.IsMemberOnly),
	}
}

// FromMetrics flattens a batch instantiation outcome.
func FromMetrics(m unit.InstantiationMetrics) TemplateInstantiationMetrics {
	return TemplateInstantiationMetrics{
		TotalSpecializations:     m.TotalSpecializations,
		PartialSpecializations:   m.PartialSpecializations,
		SuccessfulInstantiations: m.SuccessfulInstantiations,
		FailedInstantiations:     m.FailedInstantiations,
	}
}

func boolWire(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
