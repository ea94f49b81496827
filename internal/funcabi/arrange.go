// Package funcabi snapshots a function's ABI argument/return classification
// and effective calling convention for binding generators.
package funcabi

import (
	"abiscope/internal/oracle"
	"abiscope/internal/types"
)

// FunctionFlags packs function-level traits as independent bits.
type FunctionFlags uint16

const (
	FuncIsInstanceMethod FunctionFlags = 1 << iota
	FuncIsChainCall
	FuncIsNoReturn
	FuncIsReturnsRetained
	FuncIsNoCallerSavedRegs
	FuncHasRegParm
	FuncIsNoCfCheck
	FuncIsVariadic
	FuncUsesInAlloca
	FuncHasExtendedParameterInfo
)

// Arranged is the complete calling-convention snapshot of one function.
type Arranged struct {
	// CallingConvention is the declared target-level convention;
	// EffectiveCallingConvention is what calls actually use after target
	// overrides. SourceConvention is the source-level named convention.
	// All three are exposed because they can disagree.
	CallingConvention          CallingConv
	EffectiveCallingConvention CallingConv
	SourceConvention           SourceConv

	Flags FunctionFlags

	// RequiredArgs counts the non-variadic-tail formal arguments.
	RequiredArgs uint32
	// RegParm counts the arguments passed in registers under regparm.
	RegParm uint32

	Return ArgInfo
	Args   []ArgInfo
}

// Project snapshots a function, constructor or destructor declaration.
// Constructors and destructors are arranged for the nominated sub-object
// variant (complete-object by default). Returns nil for declarations that
// are not functions.
func Project(o oracle.CallOracle, decl oracle.DeclID, variant oracle.CtorDtorVariant) *Arranged {
	switch o.DeclKind(decl) {
	case oracle.DeclFunction, oracle.DeclMethod, oracle.DeclConstructor, oracle.DeclDestructor:
	default:
		return nil
	}
	raw, ok := o.Arrangement(decl, variant)
	if !ok {
		return nil
	}
	return projectArrangement(raw)
}

// ProjectType snapshots a bare function type, for function pointers with no
// backing declaration. Returns nil when the type is not a function type.
func ProjectType(o oracle.CallOracle, fn types.TypeID) *Arranged {
	if tt, ok := o.Types().Lookup(fn); !ok || tt.Kind != types.KindFunction {
		return nil
	}
	raw, ok := o.ArrangementForType(fn)
	if !ok {
		return nil
	}
	return projectArrangement(raw)
}

func projectArrangement(raw *oracle.Arrangement) *Arranged {
	a := &Arranged{
		CallingConvention:          CallingConv(raw.CallingConvention),
		EffectiveCallingConvention: CallingConv(raw.EffectiveCallingConvention),
		SourceConvention:           SourceConv(raw.AstCallingConvention),
		RequiredArgs:               raw.RequiredArgs,
		RegParm:                    raw.RegParm,
		Return:                     projectArg(&raw.Return),
		Args:                       make([]ArgInfo, len(raw.Args)),
	}
	for i := range raw.Args {
		a.Args[i] = projectArg(&raw.Args[i])
	}

	var flags FunctionFlags
	if raw.IsInstanceMethod {
		flags |= FuncIsInstanceMethod
	}
	if raw.IsChainCall {
		flags |= FuncIsChainCall
	}
	if raw.IsNoReturn {
		flags |= FuncIsNoReturn
	}
	if raw.IsReturnsRetained {
		flags |= FuncIsReturnsRetained
	}
	if raw.IsNoCallerSavedRegs {
		flags |= FuncIsNoCallerSavedRegs
	}
	if raw.HasRegParm {
		flags |= FuncHasRegParm
	}
	if raw.IsNoCfCheck {
		flags |= FuncIsNoCfCheck
	}
	if raw.IsVariadic {
		flags |= FuncIsVariadic
	}
	if raw.UsesInAlloca {
		flags |= FuncUsesInAlloca
	}
	if raw.HasExtParameterInfo {
		flags |= FuncHasExtendedParameterInfo
	}
	a.Flags = flags

	return a
}
