package record_test

import (
	"errors"
	"reflect"
	"testing"

	"abiscope/internal/abi"
	"abiscope/internal/oracle"
	"abiscope/internal/record"
	"abiscope/internal/unit"
)

func newRecord(t *testing.T, u *unit.Unit, name string, size, align int64) (oracle.DeclID, *oracle.RecordFacts) {
	t.Helper()
	decl, typ := u.AddRecordDecl(name)
	return decl, &oracle.RecordFacts{Type: typ, Size: size, Align: align}
}

func fieldNames(l *record.Layout) []string {
	names := make([]string, 0, len(l.Fields()))
	for _, f := range l.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func TestProjectNonRecordDecl(t *testing.T) {
	u := unit.New("t")
	decl := u.AddDecl(unit.Decl{Kind: oracle.DeclFunction, Name: "f"})
	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if l != nil || err != nil {
		t.Fatalf("non-record decl projected (%+v, %v)", l, err)
	}
}

func TestProjectForwardDeclaration(t *testing.T) {
	u := unit.New("t")
	decl, _ := u.AddRecordDecl("Fwd")
	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if l != nil || err != nil {
		t.Fatalf("forward declaration projected (%+v, %v)", l, err)
	}
}

func TestProjectPlainStruct(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	decl, facts := newRecord(t, u, "Point", 8, 4)
	facts.Fields = []oracle.FieldFact{
		{Name: "x", Type: b.Int32, BitOffset: 0},
		{Name: "y", Type: b.Int32, BitOffset: 32},
	}
	u.SetRecordFacts(decl, facts)

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 8 || l.Align != 4 || l.IsCxx {
		t.Fatalf("header mismatch: %+v", l)
	}
	if got := fieldNames(l); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("fields %v", got)
	}
	if l.Fields()[1].Offset != 4 {
		t.Fatalf("y at offset %d, want 4", l.Fields()[1].Offset)
	}
	if len(l.VTables) != 0 {
		t.Fatalf("plain struct grew %d vtables", len(l.VTables))
	}
}

func TestProjectDeterministic(t *testing.T) {
	build := func() *record.Layout {
		u := unit.New("t")
		b := u.Types().Builtins()
		decl, facts := newRecord(t, u, "S", 16, 8)
		facts.Fields = []oracle.FieldFact{
			{Name: "a", Type: b.Int64, BitOffset: 0},
			{Name: "b", Type: b.Int32, BitOffset: 64},
			{Name: "c", Type: b.Char, BitOffset: 96},
		}
		u.SetRecordFacts(decl, facts)
		l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
		if err != nil {
			t.Fatal(err)
		}
		return l
	}
	first, second := build(), build()
	if !reflect.DeepEqual(first.Fields(), second.Fields()) {
		t.Fatalf("same facts projected differently:\n%v\n%v", first.Fields(), second.Fields())
	}
}

func TestProjectEqualOffsetsKeepInsertionOrder(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	decl, facts := newRecord(t, u, "U", 4, 4)
	// Union-style facts: every member at bit offset zero.
	facts.Fields = []oracle.FieldFact{
		{Name: "as_int", Type: b.Int32, BitOffset: 0},
		{Name: "as_float", Type: b.Float32, BitOffset: 0},
		{Name: "as_bytes", Type: b.Char, BitOffset: 0},
	}
	u.SetRecordFacts(decl, facts)

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}
	if got := fieldNames(l); !reflect.DeepEqual(got, []string{"as_int", "as_float", "as_bytes"}) {
		t.Fatalf("equal-offset members reordered: %v", got)
	}
}

func TestProjectBitfields(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	decl, facts := newRecord(t, u, "Flags", 4, 4)
	facts.Fields = []oracle.FieldFact{
		{Name: "lo", Type: b.Uint32, BitOffset: 0, IsBitField: true, BitWidth: 3},
		{Name: "mid", Type: b.Uint32, BitOffset: 3, IsBitField: true, BitWidth: 5},
		{Name: "crossing", Type: b.Uint32, BitOffset: 13, IsBitField: true, BitWidth: 6},
	}
	u.SetRecordFacts(decl, facts)

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}
	fields := l.Fields()
	checks := []struct {
		name   string
		offset int64
		start  uint32
		width  uint32
	}{
		{"lo", 0, 0, 3},
		{"mid", 0, 3, 5},
		{"crossing", 1, 5, 6},
	}
	for i, want := range checks {
		f := fields[i]
		if !f.IsBitField {
			t.Errorf("%s not tagged as bitfield", want.name)
		}
		if f.Name != want.name || f.Offset != want.offset || f.BitFieldStart != want.start || f.BitFieldWidth != want.width {
			t.Errorf("%s: got offset=%d start=%d width=%d", f.Name, f.Offset, f.BitFieldStart, f.BitFieldWidth)
		}
	}
}

func TestProjectItaniumVTablePointer(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	decl, facts := newRecord(t, u, "Dyn", 16, 8)
	facts.IsCxx = true
	facts.IsDynamic = true
	facts.NonVirtualSize = 16
	facts.NonVirtualAlign = 8
	facts.Fields = []oracle.FieldFact{{Name: "x", Type: b.Int32, BitOffset: 64}}
	u.SetRecordFacts(decl, facts)
	u.SetVTableComponents(decl, 0, []oracle.VTableComponent{
		{Kind: oracle.ComponentOffsetToTop},
		{Kind: oracle.ComponentRTTI, RTTI: decl},
	})

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}
	first := l.Fields()[0]
	if first.Kind != record.FieldVTablePtr || first.Name != "vtable_pointer" || first.Offset != 0 {
		t.Fatalf("expected vtable pointer at offset 0, got %+v", first)
	}
	if first.Type != b.VoidPtr2 {
		t.Fatalf("vtable pointer typed %d, want void**", first.Type)
	}
	if len(l.VTables) != 1 || l.VTables[0].VFPtrOffset != 0 {
		t.Fatalf("vtables: %+v", l.VTables)
	}
}

func TestProjectItaniumPrimaryBaseSuppressesOwnVTablePointer(t *testing.T) {
	u := unit.New("t")
	baseDecl, baseFacts := newRecord(t, u, "Base", 8, 8)
	baseFacts.IsCxx = true
	baseFacts.IsDynamic = true
	u.SetRecordFacts(baseDecl, baseFacts)
	baseType := baseFacts.Type

	decl, facts := newRecord(t, u, "Derived", 16, 8)
	facts.IsCxx = true
	facts.IsDynamic = true
	facts.PrimaryBase = baseDecl
	facts.Bases = []oracle.BaseFact{{Decl: baseDecl, Type: baseType, Offset: 0}}
	u.SetRecordFacts(decl, facts)
	u.SetVTableComponents(decl, 0, []oracle.VTableComponent{{Kind: oracle.ComponentOffsetToTop}})

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}
	first := l.Fields()[0]
	if first.Kind != record.FieldNonVirtualBase || first.Name != "primary_base" || !first.IsPrimaryBase {
		t.Fatalf("expected primary base at offset 0, got %+v", first)
	}
	for _, f := range l.Fields() {
		if f.Kind == record.FieldVTablePtr {
			t.Fatalf("derived class with primary base grew its own vtable pointer: %+v", f)
		}
	}
}

func TestProjectNonPolymorphicSingleBaseIsPrimary(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	baseDecl, baseFacts := newRecord(t, u, "Base", 4, 4)
	baseFacts.IsCxx = true
	u.SetRecordFacts(baseDecl, baseFacts)
	baseType := baseFacts.Type

	decl, facts := newRecord(t, u, "Derived", 8, 4)
	facts.IsCxx = true
	facts.PrimaryBase = baseDecl
	facts.Bases = []oracle.BaseFact{{Decl: baseDecl, Type: baseType, Offset: 0}}
	facts.Fields = []oracle.FieldFact{{Name: "extra", Type: b.Int32, BitOffset: 32}}
	u.SetRecordFacts(decl, facts)

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}

	var bases []record.Field
	for _, f := range l.Fields() {
		if f.Kind == record.FieldNonVirtualBase {
			bases = append(bases, f)
		}
		if f.Kind == record.FieldVTablePtr {
			t.Fatalf("non-polymorphic record grew a vtable pointer: %+v", f)
		}
	}
	if len(bases) != 1 {
		t.Fatalf("base fields = %+v", bases)
	}
	base := bases[0]
	if base.Offset != 0 || !base.IsPrimaryBase || base.Name != "primary_base" {
		t.Errorf("single base sub-object = %+v, want primary at offset 0", base)
	}
	if len(l.VTables) != 0 {
		t.Errorf("non-polymorphic record projected %d vtables", len(l.VTables))
	}
}

func TestProjectMicrosoftVFTableAndVBTable(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	vbaseDecl, vbaseFacts := newRecord(t, u, "VBase", 8, 8)
	vbaseFacts.IsCxx = true
	u.SetRecordFacts(vbaseDecl, vbaseFacts)
	vbaseType := vbaseFacts.Type

	decl, facts := newRecord(t, u, "Most", 32, 8)
	facts.IsCxx = true
	facts.IsDynamic = true
	facts.HasOwnVFPtr = true
	facts.HasOwnVBPtr = true
	facts.VBPtrOffset = 8
	facts.Fields = []oracle.FieldFact{{Name: "n", Type: b.Int32, BitOffset: 128}}
	facts.VBases = []oracle.VBaseFact{{Decl: vbaseDecl, Type: vbaseType, Offset: 24, HasVTorDisp: true}}
	u.SetRecordFacts(decl, facts)
	u.SetVTableComponents(decl, 0, []oracle.VTableComponent{{Kind: oracle.ComponentFunctionPointer, Method: decl}})

	l, err := record.Project(u, abi.X86_64WindowsMSVC(), decl)
	if err != nil {
		t.Fatal(err)
	}
	got := fieldNames(l)
	want := []string{"vftable_pointer", "vbtable_pointer", "n", "vtordisp", "virtual_base"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("field sequence %v, want %v", got, want)
	}

	fields := l.Fields()
	if fields[1].Offset != 8 || fields[1].Type != b.VoidPtr {
		t.Fatalf("vbtable pointer: %+v", fields[1])
	}
	if fields[3].Kind != record.FieldVTorDisp || fields[3].Offset != 20 {
		t.Fatalf("vtordisp: %+v (want offset 20, four bytes before the virtual base)", fields[3])
	}
	if fields[4].Kind != record.FieldVirtualBase || fields[4].Offset != 24 {
		t.Fatalf("virtual base: %+v", fields[4])
	}
}

func TestProjectMicrosoftMultipleVFPtrOffsets(t *testing.T) {
	u := unit.New("t")
	decl, facts := newRecord(t, u, "Multi", 32, 8)
	facts.IsCxx = true
	facts.IsDynamic = true
	facts.HasOwnVFPtr = true
	facts.VFPtrOffsets = []int64{0, 16}
	u.SetRecordFacts(decl, facts)
	u.SetVTableComponents(decl, 0, []oracle.VTableComponent{{Kind: oracle.ComponentFunctionPointer, Method: decl}})
	u.SetVTableComponents(decl, 16, []oracle.VTableComponent{{Kind: oracle.ComponentFunctionPointer, Method: decl}})

	l, err := record.Project(u, abi.X86_64WindowsMSVC(), decl)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.VTables) != 2 || l.VTables[0].VFPtrOffset != 0 || l.VTables[1].VFPtrOffset != 16 {
		t.Fatalf("vtables: %+v", l.VTables)
	}
}

func TestProjectMissingVTableComponents(t *testing.T) {
	u := unit.New("t")
	decl, facts := newRecord(t, u, "Dyn", 8, 8)
	facts.IsCxx = true
	facts.IsDynamic = true
	u.SetRecordFacts(decl, facts)

	_, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	var rerr *record.Error
	if !errors.As(err, &rerr) || rerr.Kind != record.ErrMissingVTable {
		t.Fatalf("error = %v, want ErrMissingVTable", err)
	}
}

func TestProjectPanicsOnDependentBase(t *testing.T) {
	u := unit.New("t")
	depType := u.Types().RegisterDependent(40, "T")
	baseDecl := u.AddDecl(unit.Decl{Kind: oracle.DeclRecord, Name: "T", Type: depType})

	decl, facts := newRecord(t, u, "Holder", 8, 8)
	facts.IsCxx = true
	facts.Bases = []oracle.BaseFact{{Decl: baseDecl, Type: depType}}
	u.SetRecordFacts(decl, facts)

	defer func() {
		if recover() == nil {
			t.Fatal("no panic for dependent base")
		}
	}()
	_, _ = record.Project(u, abi.X86_64LinuxGNU(), decl)
}

func TestProjectOffsetsNonDecreasing(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	baseDecl, baseFacts := newRecord(t, u, "Base", 8, 8)
	baseFacts.IsCxx = true
	u.SetRecordFacts(baseDecl, baseFacts)

	// Facts arrive grouped per step, not globally sorted; the merged
	// sequence must come out offset-sorted anyway.
	decl, facts := newRecord(t, u, "Mixed", 40, 8)
	facts.IsCxx = true
	facts.IsDynamic = true
	facts.HasOwnVFPtr = true
	facts.HasOwnVBPtr = true
	facts.VBPtrOffset = 8
	facts.Bases = []oracle.BaseFact{{Decl: baseDecl, Type: baseFacts.Type, Offset: 16}}
	facts.Fields = []oracle.FieldFact{
		{Name: "a", Type: b.Int32, BitOffset: 192},
		{Name: "b", Type: b.Int32, BitOffset: 224},
	}
	facts.VBases = []oracle.VBaseFact{{Decl: baseDecl, Type: baseFacts.Type, Offset: 32, HasVTorDisp: true}}
	u.SetRecordFacts(decl, facts)
	u.SetVTableComponents(decl, 0, []oracle.VTableComponent{{Kind: oracle.ComponentFunctionPointer, Method: decl}})

	l, err := record.Project(u, abi.X86_64WindowsMSVC(), decl)
	if err != nil {
		t.Fatal(err)
	}
	fields := l.Fields()
	for i := 1; i < len(fields); i++ {
		if fields[i].Offset < fields[i-1].Offset {
			t.Fatalf("offset regressed at %q: %d after %d", fields[i].Name, fields[i].Offset, fields[i-1].Offset)
		}
	}
}

func TestProjectArgPassingPassthrough(t *testing.T) {
	u := unit.New("t")
	decl, facts := newRecord(t, u, "NoReg", 8, 8)
	facts.ArgPassing = oracle.CannotPassInRegisters
	u.SetRecordFacts(decl, facts)

	l, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil {
		t.Fatal(err)
	}
	if l.ArgPassing != oracle.CannotPassInRegisters {
		t.Fatalf("ArgPassing = %v", l.ArgPassing)
	}
}
