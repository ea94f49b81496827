package unit

import (
	"abiscope/internal/oracle"
	"abiscope/internal/types"
)

// The Unit satisfies every oracle-facing interface of the projection layer.
var (
	_ oracle.LayoutOracle = (*Unit)(nil)
	_ oracle.ConstOracle  = (*Unit)(nil)
	_ oracle.CallOracle   = (*Unit)(nil)
	_ oracle.MacroOracle  = (*Unit)(nil)
)

// DeclKind classifies a declaration; DeclInvalid for unknown IDs.
func (u *Unit) DeclKind(id oracle.DeclID) oracle.DeclKind {
	d, ok := u.Decl(id)
	if !ok {
		return oracle.DeclInvalid
	}
	return d.Kind
}

// RecordFacts returns layout facts for a record declaration. ok is false
// for forward declarations and non-records.
func (u *Unit) RecordFacts(id oracle.DeclID) (*oracle.RecordFacts, bool) {
	facts, ok := u.records[id]
	if !ok || facts == nil {
		return nil, false
	}
	return facts, true
}

// VTableComponents returns the class's dispatch table components at one
// vtable-pointer offset.
func (u *Unit) VTableComponents(decl oracle.DeclID, vfptrOffset int64) ([]oracle.VTableComponent, bool) {
	components, ok := u.vtables[vtableKey{decl: decl, offset: vfptrOffset}]
	return components, ok
}

// VarInit returns the initializer of a variable declaration.
func (u *Unit) VarInit(id oracle.DeclID) (oracle.ExprID, bool, bool) {
	d, ok := u.Decl(id)
	if !ok || d.Kind != oracle.DeclVar {
		return oracle.NoExprID, false, false
	}
	init, hasInit := u.varInits[id]
	return init, hasInit, true
}

// Evaluate returns the stored constant-folding outcome of an expression.
func (u *Unit) Evaluate(id oracle.ExprID) (*oracle.EvalResult, bool) {
	if id == oracle.NoExprID || int(id) >= len(u.evals) {
		return nil, false
	}
	slot := u.evals[id]
	return slot.result, slot.ok
}

// Arrangement returns the calling-convention facts of a function-like
// declaration. Plain functions ignore the variant; constructors and
// destructors are looked up per nominated variant.
func (u *Unit) Arrangement(decl oracle.DeclID, variant oracle.CtorDtorVariant) (*oracle.Arrangement, bool) {
	switch u.DeclKind(decl) {
	case oracle.DeclConstructor, oracle.DeclDestructor:
	default:
		variant = oracle.VariantComplete
	}
	a, ok := u.arrangements[arrangementKey{decl: decl, variant: variant}]
	return a, ok
}

// ArrangementForType returns the calling-convention facts of a bare
// function type.
func (u *Unit) ArrangementForType(fn types.TypeID) (*oracle.Arrangement, bool) {
	a, ok := u.typeArrangements[fn]
	return a, ok
}

// IsCompleteType reports whether a type can be passed or returned by value.
// Primitives, pointers and references are always complete; record and enum
// types are complete once facts were installed for them.
func (u *Unit) IsCompleteType(t types.TypeID) bool {
	tt, ok := u.types.Lookup(t)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindInvalid, types.KindVoid, types.KindDependent:
		return false
	case types.KindRecord, types.KindEnum:
		return u.complete[t]
	default:
		return true
	}
}

// Macros iterates identifier-table entries with macro definition history.
func (u *Unit) Macros(fn func(*oracle.MacroRecord) bool) {
	for i := range u.macros {
		if !fn(&u.macros[i]) {
			return
		}
	}
}
