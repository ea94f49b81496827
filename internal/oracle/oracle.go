// Package oracle defines the boundary between the projection layer and the
// semantic engine that actually computes ABI layout. The projectors never
// invent an offset: every number they emit was reported through one of the
// fact structures below. The engine behind the interface is expected to be
// fully resolved (no pending template instantiations) before any query.
package oracle

import (
	"abiscope/internal/source"
	"abiscope/internal/types"
)

// DeclID identifies a declaration inside a program unit.
type DeclID = types.DeclRef

// NoDeclID marks the absence of a declaration.
const NoDeclID DeclID = types.NoDeclRef

// ExprID identifies a standalone expression inside a program unit.
type ExprID uint32

// NoExprID marks the absence of an expression.
const NoExprID ExprID = 0

// DeclKind classifies a declaration for dispatch purposes.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclRecord
	DeclEnum
	DeclFunction
	DeclMethod
	DeclConstructor
	DeclDestructor
	DeclVar
	DeclField
	DeclTemplateSpecialization
)

// Cursor points at either a declaration or a standalone expression.
// Exactly one of the two fields is set.
type Cursor struct {
	Decl DeclID
	Expr ExprID
}

// DeclCursor makes a cursor referring to a declaration.
func DeclCursor(d DeclID) Cursor { return Cursor{Decl: d} }

// ExprCursor makes a cursor referring to an expression.
func ExprCursor(e ExprID) Cursor { return Cursor{Expr: e} }

// IsDecl reports whether the cursor refers to a declaration.
func (c Cursor) IsDecl() bool { return c.Decl != NoDeclID }

// IsExpr reports whether the cursor refers to an expression.
func (c Cursor) IsExpr() bool { return c.Decl == NoDeclID && c.Expr != NoExprID }

// LayoutOracle answers record layout queries.
type LayoutOracle interface {
	// Types exposes the unit's type table for reference resolution.
	Types() *types.Interner
	// DeclKind classifies a declaration; DeclInvalid for unknown IDs.
	DeclKind(DeclID) DeclKind
	// RecordFacts returns layout facts for a record declaration. ok is
	// false for forward declarations and non-records.
	RecordFacts(DeclID) (*RecordFacts, bool)
	// VTableComponents returns the dispatch table component sequence a
	// class owns at the given vtable-pointer offset in the most-derived
	// object. Itanium callers always pass offset 0.
	VTableComponents(decl DeclID, vfptrOffset int64) ([]VTableComponent, bool)
}

// ConstOracle evaluates compile-time constants. The evaluation algorithm
// itself lives behind this interface; the encoder only classifies results.
type ConstOracle interface {
	DeclKind(DeclID) DeclKind
	// VarInit returns the initializer expression of a variable declaration.
	// hasInit is false for declared-but-uninitialized variables.
	VarInit(DeclID) (init ExprID, hasInit bool, ok bool)
	// Evaluate constant-folds an expression. ok is false when the
	// expression cannot be reduced to a value; the result may still carry
	// diagnostics in that case.
	Evaluate(ExprID) (*EvalResult, bool)
}

// CallOracle answers calling-convention queries.
type CallOracle interface {
	Types() *types.Interner
	DeclKind(DeclID) DeclKind
	// Arrangement returns the ABI classification of a function
	// declaration. Constructors and destructors require a sub-object
	// variant nomination.
	Arrangement(decl DeclID, variant CtorDtorVariant) (*Arrangement, bool)
	// ArrangementForType classifies a bare function type (for function
	// pointers with no backing declaration).
	ArrangementForType(fn types.TypeID) (*Arrangement, bool)
	// IsCompleteType reports whether a type can be passed or returned by
	// value. Incomplete records and forward declarations report false.
	IsCompleteType(types.TypeID) bool
}

// CtorDtorVariant nominates which sub-object variant of a constructor or
// destructor is being arranged.
type CtorDtorVariant uint8

const (
	// VariantComplete arranges the complete-object ("C1"/"D1") variant.
	// This is the default policy.
	VariantComplete CtorDtorVariant = iota
	// VariantBase arranges the base-object ("C2"/"D2") variant.
	VariantBase
)

// MacroOracle exposes the preprocessor's macro definition history.
type MacroOracle interface {
	// Macros iterates identifier-table entries that ever had a macro
	// definition, in identifier-table order.
	Macros(func(*MacroRecord) bool)
	FileSet() *source.FileSet
}
