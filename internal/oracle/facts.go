package oracle

import (
	"abiscope/internal/source"
	"abiscope/internal/types"
)

// ArgPassingKind mirrors the layout engine's record argument-passing
// restriction classification.
type ArgPassingKind int32

const (
	CanPassInRegisters ArgPassingKind = iota
	CannotPassInRegisters
	CanNeverPassInRegisters
	ArgPassingInvalid
)

// BaseFact describes one direct base class specifier.
type BaseFact struct {
	Decl    DeclID
	Type    types.TypeID
	Offset  int64 // byte offset of the sub-object; unused for virtual bases
	Virtual bool
}

// FieldFact describes one ordinary data member. Facts arrive in declaration
// order with non-decreasing bit offsets.
type FieldFact struct {
	Name       string
	Decl       DeclID
	Type       types.TypeID
	BitOffset  uint64
	IsBitField bool
	BitWidth   uint32
}

// VBaseFact describes one entry of the flattened virtual-base set.
type VBaseFact struct {
	Decl        DeclID
	Type        types.TypeID
	Offset      int64
	HasVTorDisp bool // Microsoft family: base needs a displacement adjustor
}

// RecordFacts is everything the layout engine knows about one complete
// record type.
type RecordFacts struct {
	Type  types.TypeID
	Size  int64 // bytes
	Align int64 // bytes

	// C++-only facts; zero-valued for plain C records.
	IsCxx           bool
	IsDynamic       bool // has virtual methods anywhere in the hierarchy
	NonVirtualSize  int64
	NonVirtualAlign int64
	PrimaryBase     DeclID
	HasOwnVFPtr     bool // owns its vtable pointer slot (not inherited)
	HasOwnVBPtr     bool // Microsoft: owns a virtual-base-table pointer
	VBPtrOffset     int64

	Bases  []BaseFact
	Fields []FieldFact
	VBases []VBaseFact

	// VFPtrOffsets lists the distinct vtable-pointer offsets in the
	// most-derived class (Microsoft family; empty means offset 0 only).
	VFPtrOffsets []int64

	ArgPassing ArgPassingKind
}

// VTableComponentKind enumerates dispatch table component kinds. The
// numbering is pinned by the interop contract; see internal/interop.
type VTableComponentKind int32

const (
	ComponentVCallOffset VTableComponentKind = iota
	ComponentVBaseOffset
	ComponentOffsetToTop
	ComponentRTTI
	ComponentFunctionPointer
	ComponentCompleteDtorPointer
	ComponentDeletingDtorPointer
	ComponentUnusedFunctionPointer
)

// VTableComponent is one slot of a dispatch table as reported by the
// vtable builder. Exactly one payload field is meaningful per kind.
type VTableComponent struct {
	Kind   VTableComponentKind
	Offset int64  // VCallOffset, VBaseOffset, OffsetToTop
	Method DeclID // the three pointer kinds
	RTTI   DeclID // RTTI
}

// EvalKind tags the evaluator's result value.
type EvalKind uint8

const (
	EvalNone EvalKind = iota
	EvalInt
	EvalFloat
	EvalNullPointer
	EvalLValue
	EvalOther
)

// StringLiteralKind mirrors the source-level string literal notation.
type StringLiteralKind int32

const (
	LiteralAscii StringLiteralKind = iota
	LiteralWide
	LiteralUTF8
	LiteralUTF16
	LiteralUTF32
)

// StringLiteral carries the raw bytes of a string literal together with its
// source notation and element width.
type StringLiteral struct {
	Kind          StringLiteralKind
	CharByteWidth uint32
	Bytes         []byte
}

// EvalResult is the evaluator's tagged output. A result can be valid while
// still flagged for side effects or undefined behavior observed during
// evaluation; callers decide how much to trust it.
type EvalResult struct {
	HasSideEffects       bool
	HasUndefinedBehavior bool

	Kind    EvalKind
	RawKind int32 // evaluator's own value-kind numbering, for EvalOther

	// EvalInt / EvalFloat payload.
	Signed   bool
	BitWidth uint32
	Bits     uint64

	// EvalLValue payload: non-nil only when the lvalue base is a string
	// literal. Any other lvalue base stays unclassified.
	Literal *StringLiteral

	Diagnostics []string
}

// MacroVariadicKind classifies a macro's variadic notation.
type MacroVariadicKind int32

const (
	MacroNotVariadic MacroVariadicKind = iota
	MacroVariadicC99
	MacroVariadicGNU
)

// MacroRecord is one identifier-table entry with macro definition history.
type MacroRecord struct {
	Name            string
	Location        source.Location
	WasUndefined    bool // defined at some point, later #undef'd
	IsFunctionLike  bool
	IsBuiltin       bool
	HasCommaPasting bool // contains ", ## __VA_ARGS__"
	VariadicKind    MacroVariadicKind
	Params          []string
}

// ArgFact is the raw ABI classification of one argument or return value as
// reported by the call-convention model. funcabi normalizes it.
type ArgFact struct {
	Type types.TypeID
	Kind uint8 // funcabi.ArgKind numbering

	HasCoerceToType                bool
	HasPaddingType                 bool
	HasUnpaddedCoerceAndExpandType bool
	PaddingInReg                   bool
	InReg                          bool
	CanBeFlattened                 bool
	SignExt                        bool
	IndirectByVal                  bool
	IndirectRealign                bool
	SRetAfterThis                  bool
	InAllocaSRet                   bool

	DirectOffset      uint32
	IndirectAlign     uint32
	IndirectAddrSpace uint32
	AllocaFieldIndex  uint32
}

// Arrangement is the raw calling-convention snapshot of one function.
type Arrangement struct {
	CallingConvention          uint32 // target-level numeric id
	EffectiveCallingConvention uint32
	AstCallingConvention       uint8 // source-level named convention

	IsInstanceMethod    bool
	IsChainCall         bool
	IsNoReturn          bool
	IsReturnsRetained   bool
	IsNoCallerSavedRegs bool
	HasRegParm          bool
	IsNoCfCheck         bool
	IsVariadic          bool
	UsesInAlloca        bool
	HasExtParameterInfo bool

	RequiredArgs uint32
	RegParm      uint32

	Return ArgFact
	Args   []ArgFact
}
