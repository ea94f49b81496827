// Package unit holds the in-memory representation of one fully-analyzed
// program unit: declarations, type table, layout facts, macro history and
// template specializations. A Unit implements the oracle interfaces the
// projection layer consumes.
//
// Queries never mutate the unit, with one exception: template instantiation
// (see template.go) does, and is unsafe to run concurrently with any other
// query against the same unit. Callers serialize access to one unit;
// distinct units are fully independent.
package unit

import (
	"fmt"

	"fortio.org/safecast"

	"abiscope/internal/funcabi"
	"abiscope/internal/oracle"
	"abiscope/internal/source"
	"abiscope/internal/types"
)

// Decl is one declaration owned by the unit.
type Decl struct {
	Kind oracle.DeclKind
	Name string
	Type types.TypeID
	Loc  source.Location
	// Operator is the overloaded-operator kind for function declarations;
	// OpNone means the declaration is not an operator.
	Operator funcabi.OperatorKind
	// Uuid is the GUID string of the declaration's uuid attribute, if any.
	Uuid string
}

type vtableKey struct {
	decl   oracle.DeclID
	offset int64
}

// Unit is an opaque handle to an analyzed program unit.
type Unit struct {
	name  string
	types *types.Interner
	files *source.FileSet

	decls []Decl // indexed by DeclID; slot 0 reserved

	records  map[oracle.DeclID]*oracle.RecordFacts
	vtables  map[vtableKey][]oracle.VTableComponent
	complete map[types.TypeID]bool

	varInits map[oracle.DeclID]oracle.ExprID
	evals    []evalSlot // indexed by ExprID; slot 0 reserved

	arrangements     map[arrangementKey]*oracle.Arrangement
	typeArrangements map[types.TypeID]*oracle.Arrangement

	macros []oracle.MacroRecord
	specs  []specialization
}

type evalSlot struct {
	result *oracle.EvalResult
	ok     bool
}

type arrangementKey struct {
	decl    oracle.DeclID
	variant oracle.CtorDtorVariant
}

// New creates an empty unit.
func New(name string) *Unit {
	return &Unit{
		name:             name,
		types:            types.NewInterner(),
		files:            source.NewFileSet(),
		decls:            make([]Decl, 1),
		records:          make(map[oracle.DeclID]*oracle.RecordFacts),
		vtables:          make(map[vtableKey][]oracle.VTableComponent),
		complete:         make(map[types.TypeID]bool),
		varInits:         make(map[oracle.DeclID]oracle.ExprID),
		evals:            make([]evalSlot, 1),
		arrangements:     make(map[arrangementKey]*oracle.Arrangement),
		typeArrangements: make(map[types.TypeID]*oracle.Arrangement),
	}
}

// Name returns the unit's display name.
func (u *Unit) Name() string { return u.name }

// Types exposes the unit's interned type table.
func (u *Unit) Types() *types.Interner { return u.types }

// FileSet exposes the unit's file table.
func (u *Unit) FileSet() *source.FileSet { return u.files }

// AddFile registers a physical file.
func (u *Unit) AddFile(path string, main bool) source.FileID {
	return u.files.Add(path, main)
}

// AddDecl registers a declaration and returns its ID.
func (u *Unit) AddDecl(d Decl) oracle.DeclID {
	slot, err := safecast.Conv[uint32](len(u.decls))
	if err != nil {
		panic(fmt.Errorf("decl table overflow: %w", err))
	}
	u.decls = append(u.decls, d)
	return oracle.DeclID(slot)
}

// AddRecordDecl registers a record declaration plus its nominal type.
func (u *Unit) AddRecordDecl(name string) (oracle.DeclID, types.TypeID) {
	id := u.AddDecl(Decl{Kind: oracle.DeclRecord, Name: name})
	t := u.types.RegisterRecord(types.DeclRef(id), name)
	u.decls[id].Type = t
	return id, t
}

// AddEnumDecl registers an enum declaration plus its nominal type.
func (u *Unit) AddEnumDecl(name string) (oracle.DeclID, types.TypeID) {
	id := u.AddDecl(Decl{Kind: oracle.DeclEnum, Name: name})
	t := u.types.RegisterEnum(types.DeclRef(id), name)
	u.decls[id].Type = t
	return id, t
}

// SetUuidAttr attaches a uuid attribute GUID to a declaration.
func (u *Unit) SetUuidAttr(id oracle.DeclID, guid string) {
	if int(id) > 0 && int(id) < len(u.decls) {
		u.decls[id].Uuid = guid
	}
}

// UuidAttr reports the GUID carried by a declaration's uuid attribute.
// Declarations without one report ("", false), the same answer an
// unknown declaration gets.
func (u *Unit) UuidAttr(id oracle.DeclID) (string, bool) {
	d, ok := u.Decl(id)
	if !ok || d.Uuid == "" {
		return "", false
	}
	return d.Uuid, true
}

// SetRecordFacts installs layout facts for a record declaration, marking it
// complete. A record with no facts is a forward declaration.
func (u *Unit) SetRecordFacts(decl oracle.DeclID, facts *oracle.RecordFacts) {
	u.records[decl] = facts
	if facts != nil {
		u.complete[facts.Type] = true
	}
}

// SetVTableComponents installs the dispatch table component sequence a
// class owns at one vtable-pointer offset.
func (u *Unit) SetVTableComponents(decl oracle.DeclID, offset int64, components []oracle.VTableComponent) {
	u.vtables[vtableKey{decl: decl, offset: offset}] = components
}

// MarkComplete records that a non-record type is complete (primitives are
// assumed complete by default; see IsCompleteType).
func (u *Unit) MarkComplete(t types.TypeID) { u.complete[t] = true }

// AddVar registers a variable declaration with an optional initializer.
func (u *Unit) AddVar(name string, t types.TypeID, init oracle.ExprID) oracle.DeclID {
	id := u.AddDecl(Decl{Kind: oracle.DeclVar, Name: name, Type: t})
	if init != oracle.NoExprID {
		u.varInits[id] = init
	}
	return id
}

// AddExpr registers a standalone expression with its pre-computed
// evaluation outcome. ok=false models expressions the evaluator could not
// reduce to a value.
func (u *Unit) AddExpr(result *oracle.EvalResult, ok bool) oracle.ExprID {
	slot, err := safecast.Conv[uint32](len(u.evals))
	if err != nil {
		panic(fmt.Errorf("expression table overflow: %w", err))
	}
	u.evals = append(u.evals, evalSlot{result: result, ok: ok})
	return oracle.ExprID(slot)
}

// SetArrangement installs the calling-convention facts for a function
// declaration variant.
func (u *Unit) SetArrangement(decl oracle.DeclID, variant oracle.CtorDtorVariant, a *oracle.Arrangement) {
	u.arrangements[arrangementKey{decl: decl, variant: variant}] = a
}

// SetTypeArrangement installs the calling-convention facts for a bare
// function type.
func (u *Unit) SetTypeArrangement(fn types.TypeID, a *oracle.Arrangement) {
	u.typeArrangements[fn] = a
}

// AddMacro appends one identifier-table entry with macro history.
func (u *Unit) AddMacro(rec oracle.MacroRecord) {
	u.macros = append(u.macros, rec)
}

// Decl returns a declaration by ID.
func (u *Unit) Decl(id oracle.DeclID) (Decl, bool) {
	if id == oracle.NoDeclID || int(id) >= len(u.decls) {
		return Decl{}, false
	}
	return u.decls[id], true
}

// LookupDecl finds a declaration by name. Linear scan; units are small and
// the CLI is the only caller.
func (u *Unit) LookupDecl(name string) (oracle.DeclID, bool) {
	for i := 1; i < len(u.decls); i++ {
		if u.decls[i].Name == name {
			return oracle.DeclID(i), true
		}
	}
	return oracle.NoDeclID, false
}

// Records returns the IDs of all record-like declarations in insertion
// order, template specializations included.
func (u *Unit) Records() []oracle.DeclID {
	var out []oracle.DeclID
	for i := 1; i < len(u.decls); i++ {
		switch u.decls[i].Kind {
		case oracle.DeclRecord, oracle.DeclTemplateSpecialization:
			out = append(out, oracle.DeclID(i))
		}
	}
	return out
}

// Functions returns the IDs of all function-like declarations.
func (u *Unit) Functions() []oracle.DeclID {
	var out []oracle.DeclID
	for i := 1; i < len(u.decls); i++ {
		switch u.decls[i].Kind {
		case oracle.DeclFunction, oracle.DeclMethod, oracle.DeclConstructor, oracle.DeclDestructor:
			out = append(out, oracle.DeclID(i))
		}
	}
	return out
}

// Vars returns the IDs of all variable declarations.
func (u *Unit) Vars() []oracle.DeclID {
	var out []oracle.DeclID
	for i := 1; i < len(u.decls); i++ {
		if u.decls[i].Kind == oracle.DeclVar {
			out = append(out, oracle.DeclID(i))
		}
	}
	return out
}
