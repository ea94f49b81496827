package unit_test

import (
	"testing"

	"abiscope/internal/oracle"
	"abiscope/internal/types"
	"abiscope/internal/unit"
)

func TestIsCompleteType(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()

	complete := []types.TypeID{
		b.Bool, b.Char, b.Int32, b.Uint64, b.Float64,
		u.Types().RegisterPointer(b.Void),
		u.Types().RegisterReference(b.Int32),
	}
	for _, id := range complete {
		if !u.IsCompleteType(id) {
			t.Errorf("%s reported incomplete", u.Types().Spelling(id))
		}
	}

	if u.IsCompleteType(b.Void) {
		t.Error("void reported complete")
	}
	if u.IsCompleteType(types.NoTypeID) {
		t.Error("invalid type reported complete")
	}

	dep := u.Types().RegisterDependent(types.DeclRef(1), "T")
	if u.IsCompleteType(dep) {
		t.Error("dependent type reported complete")
	}

	_, rec := u.AddRecordDecl("Widget")
	if u.IsCompleteType(rec) {
		t.Error("forward-declared record reported complete")
	}
	u.MarkComplete(rec)
	if !u.IsCompleteType(rec) {
		t.Error("completed record reported incomplete")
	}
}

func TestDeclKindUnknownID(t *testing.T) {
	u := unit.New("t")
	if kind := u.DeclKind(oracle.NoDeclID); kind != oracle.DeclInvalid {
		t.Errorf("NoDeclID kind = %v", kind)
	}
	if kind := u.DeclKind(oracle.DeclID(999)); kind != oracle.DeclInvalid {
		t.Errorf("out-of-range kind = %v", kind)
	}
}

func TestVarInitNonVariable(t *testing.T) {
	u := unit.New("t")
	rec, _ := u.AddRecordDecl("Widget")
	if _, _, ok := u.VarInit(rec); ok {
		t.Error("record declaration reported a variable initializer")
	}

	// A variable without an initializer is still a variable.
	v := u.AddVar("x", u.Types().Builtins().Int32, oracle.NoExprID)
	_, hasInit, ok := u.VarInit(v)
	if !ok || hasInit {
		t.Errorf("uninitialized var: hasInit=%v ok=%v", hasInit, ok)
	}
}

func TestEvaluateBadID(t *testing.T) {
	u := unit.New("t")
	if _, ok := u.Evaluate(oracle.NoExprID); ok {
		t.Error("NoExprID evaluated")
	}
	if _, ok := u.Evaluate(oracle.ExprID(42)); ok {
		t.Error("out-of-range expression evaluated")
	}
}

func TestDeclEnumeration(t *testing.T) {
	u := unit.New("t")
	rec, _ := u.AddRecordDecl("Widget")
	fn := u.AddDecl(unit.Decl{Kind: oracle.DeclFunction, Name: "f"})
	v := u.AddVar("x", u.Types().Builtins().Int32, oracle.NoExprID)
	spec := u.AddSpecialization("Box<int>", unit.SpecializationUndeclared, false, true, true, nil, nil)

	records := u.Records()
	if len(records) != 2 || records[0] != rec || records[1] != spec {
		t.Errorf("Records() = %v", records)
	}
	if fns := u.Functions(); len(fns) != 1 || fns[0] != fn {
		t.Errorf("Functions() = %v", fns)
	}
	if vars := u.Vars(); len(vars) != 1 || vars[0] != v {
		t.Errorf("Vars() = %v", vars)
	}
}
