package unit_test

import (
	"strings"
	"testing"

	"abiscope/internal/funcabi"
	"abiscope/internal/oracle"
	"abiscope/internal/types"
	"abiscope/internal/unit"
)

const sampleManifest = `
name = "sample"
target = "x86_64-linux-gnu"

[[files]]
path = "widget.h"
main = true

[[files]]
path = "base.h"

[[records]]
name = "Opaque"
forward = true

[[records]]
name = "Base"
size = 8
align = 8
cxx = true
dynamic = true
non_virtual_size = 8
non_virtual_align = 8
has_own_vfptr = true

  [[records.vtables]]
  offset = 0

    [[records.vtables.entries]]
    kind = "offset-to-top"
    offset = 0

    [[records.vtables.entries]]
    kind = "rtti"
    rtti = "Base"

    [[records.vtables.entries]]
    kind = "function"
    method = "Base::frob"

[[records]]
name = "Widget"
uuid = "b1bb8478-4546-4f32-a395-33dd26ce3a97"
size = 24
align = 8
cxx = true
dynamic = true
non_virtual_size = 24
non_virtual_align = 8
primary_base = "Base"
arg_passing = "no-registers"

  [[records.bases]]
  type = "Base"
  offset = 0

  [[records.fields]]
  name = "count"
  type = "int32"
  bit_offset = 64

  [[records.fields]]
  name = "flags"
  type = "uint32"
  bit_offset = 96
  bitfield = true
  bit_width = 3

  [[records.fields]]
  name = "next"
  type = "*Widget"
  bit_offset = 128

[[functions]]
name = "Base::frob"
kind = "method"

[[functions]]
name = "make_widget"
type = "Widget(int32, *Opaque)"
calling_convention = 0
required_args = 2
flags = ["noreturn", "variadic"]

  [functions.return]
  type = "Widget"
  kind = "indirect"
  flags = ["byval"]
  extra = 8

  [[functions.args]]
  type = "int32"
  kind = "extend"
  flags = ["sign-extended"]

  [[functions.args]]
  type = "*Opaque"
  kind = "direct"

[[functions]]
name = "Widget::operator+="
kind = "method"
operator = "+="
type = "&Widget(int32)"
flags = ["instance-method"]

  [functions.return]
  type = "&Widget"
  kind = "direct"

  [[functions.args]]
  type = "int32"
  kind = "direct"

[[vars]]
name = "kAnswer"
type = "int32"

  [vars.value]
  kind = "int"
  signed = true
  bit_width = 32
  int = 42

[[vars]]
name = "kGreeting"
type = "*wchar"

  [vars.value]
  kind = "string"
  string = "hi"
  literal_kind = "utf16"

[[macros]]
name = "WIDGET_MAX"
file = "widget.h"
line = 12
col = 9
function_like = true
params = ["a", "b"]

[[templates]]
name = "Box<int>"
kind = "undeclared"
has_definition = true
instantiable = true

  [templates.record]
  name = "Box<int>"
  size = 4
  align = 4
  cxx = true

    [[templates.record.fields]]
    name = "value"
    type = "int32"

[[templates]]
name = "Box<T*>"
kind = "undeclared"
partial = true
has_definition = true
`

func TestLoadManifestData(t *testing.T) {
	u, target, err := unit.LoadManifestData(sampleManifest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if u.Name() != "sample" {
		t.Errorf("unit name = %q", u.Name())
	}
	if target.Triple != "x86_64-linux-gnu" || target.IsMicrosoft() {
		t.Errorf("target = %+v", target)
	}

	widget, ok := u.LookupDecl("Widget")
	if !ok {
		t.Fatal("Widget not declared")
	}
	facts, ok := u.RecordFacts(widget)
	if !ok {
		t.Fatal("Widget has no facts")
	}
	if facts.Size != 24 || !facts.IsDynamic || facts.ArgPassing != oracle.CannotPassInRegisters {
		t.Errorf("Widget facts = %+v", facts)
	}
	if base, _ := u.LookupDecl("Base"); facts.PrimaryBase != base {
		t.Errorf("primary base = %d", facts.PrimaryBase)
	}
	if len(facts.Fields) != 3 || !facts.Fields[1].IsBitField || facts.Fields[1].BitWidth != 3 {
		t.Errorf("Widget fields = %+v", facts.Fields)
	}
	if got := u.Types().Spelling(facts.Fields[2].Type); got != "Widget *" {
		t.Errorf("next field spelling = %q", got)
	}

	if guid, ok := u.UuidAttr(widget); !ok || guid != "b1bb8478-4546-4f32-a395-33dd26ce3a97" {
		t.Errorf("Widget uuid = %q (ok=%v)", guid, ok)
	}

	// Forward declarations carry no facts and stay incomplete.
	opaque, _ := u.LookupDecl("Opaque")
	if _, ok := u.RecordFacts(opaque); ok {
		t.Error("forward declaration has facts")
	}
	if guid, ok := u.UuidAttr(opaque); ok || guid != "" {
		t.Errorf("unattributed record reported uuid %q", guid)
	}

	base, _ := u.LookupDecl("Base")
	components, ok := u.VTableComponents(base, 0)
	if !ok || len(components) != 3 {
		t.Fatalf("Base vtable = %v (ok=%v)", components, ok)
	}
	if components[1].Kind != oracle.ComponentRTTI || components[1].RTTI != base {
		t.Errorf("rtti slot = %+v", components[1])
	}
	if frob, _ := u.LookupDecl("Base::frob"); components[2].Method != frob {
		t.Errorf("function slot = %+v", components[2])
	}
}

func TestLoadManifestFunction(t *testing.T) {
	u, _, err := unit.LoadManifestData(sampleManifest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	decl, ok := u.LookupDecl("make_widget")
	if !ok {
		t.Fatal("make_widget not declared")
	}
	a, ok := u.Arrangement(decl, oracle.VariantComplete)
	if !ok {
		t.Fatal("make_widget has no arrangement")
	}
	if !a.IsNoReturn || !a.IsVariadic || a.IsInstanceMethod {
		t.Errorf("flags = %+v", a)
	}
	if a.RequiredArgs != 2 || len(a.Args) != 2 {
		t.Errorf("args = %d/%d", a.RequiredArgs, len(a.Args))
	}
	if a.Return.Kind != 2 || !a.Return.IndirectByVal || a.Return.IndirectAlign != 8 {
		t.Errorf("return fact = %+v", a.Return)
	}
	if a.Args[0].Kind != 1 || !a.Args[0].SignExt {
		t.Errorf("arg 0 fact = %+v", a.Args[0])
	}

	d, _ := u.Decl(decl)
	if d.Type == types.NoTypeID {
		t.Fatal("make_widget has no declared type")
	}
	if got := u.Types().Spelling(d.Type); got != "Widget (int32_t, Opaque *)" {
		t.Errorf("function type spelling = %q", got)
	}

	// Declaration-only entry: present, no arrangement.
	frob, _ := u.LookupDecl("Base::frob")
	if _, ok := u.Arrangement(frob, oracle.VariantComplete); ok {
		t.Error("declaration-only method grew an arrangement")
	}

	plusEq, ok := u.LookupDecl("Widget::operator+=")
	if !ok {
		t.Fatal("operator+= not declared")
	}
	od, _ := u.Decl(plusEq)
	if od.Operator != funcabi.OpPlusEqual {
		t.Errorf("operator+= decl kind = %v, want PlusEqual", od.Operator)
	}
	if md, _ := u.Decl(decl); md.Operator != funcabi.OpNone {
		t.Errorf("make_widget tagged as operator %v", md.Operator)
	}
}

func TestLoadManifestVarsAndMacros(t *testing.T) {
	u, _, err := unit.LoadManifestData(sampleManifest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	answer, _ := u.LookupDecl("kAnswer")
	init, hasInit, ok := u.VarInit(answer)
	if !ok || !hasInit {
		t.Fatal("kAnswer lost its initializer")
	}
	res, ok := u.Evaluate(init)
	if !ok || res.Kind != oracle.EvalInt || res.Bits != 42 || !res.Signed {
		t.Errorf("kAnswer = %+v (ok=%v)", res, ok)
	}

	greeting, _ := u.LookupDecl("kGreeting")
	init, _, _ = u.VarInit(greeting)
	res, ok = u.Evaluate(init)
	if !ok || res.Kind != oracle.EvalLValue || res.Literal == nil {
		t.Fatalf("kGreeting = %+v (ok=%v)", res, ok)
	}
	if res.Literal.Kind != oracle.LiteralUTF16 || res.Literal.CharByteWidth != 2 || len(res.Literal.Bytes) != 4 {
		t.Errorf("kGreeting literal = %+v", res.Literal)
	}

	found := false
	u.Macros(func(rec *oracle.MacroRecord) bool {
		if rec.Name != "WIDGET_MAX" {
			return true
		}
		found = true
		if !rec.IsFunctionLike || len(rec.Params) != 2 {
			t.Errorf("macro = %+v", rec)
		}
		if got := rec.Location.String(); !strings.Contains(got, "12:9") {
			t.Errorf("macro location = %q", got)
		}
		return false
	})
	if !found {
		t.Error("WIDGET_MAX not loaded")
	}
}

func TestLoadManifestEnums(t *testing.T) {
	const data = `
name = "enums"

[[enums]]
name = "Color"

[[enums]]
name = "Mode"
forward = true

[[functions]]
name = "paint"
type = "void(Color)"

  [functions.return]
  type = "void"
  kind = "ignore"

  [[functions.args]]
  type = "Color"
  kind = "direct"
`
	u, _, err := unit.LoadManifestData(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	color, ok := u.LookupDecl("Color")
	if !ok {
		t.Fatal("Color not declared")
	}
	if kind := u.DeclKind(color); kind != oracle.DeclEnum {
		t.Errorf("Color decl kind = %v", kind)
	}
	d, _ := u.Decl(color)
	if got := u.Types().Spelling(d.Type); got != "Color" {
		t.Errorf("Color spelling = %q", got)
	}
	if !u.IsCompleteType(d.Type) {
		t.Error("defined enum reported incomplete")
	}

	// An opaque enum declaration stays incomplete.
	mode, _ := u.LookupDecl("Mode")
	md, _ := u.Decl(mode)
	if u.IsCompleteType(md.Type) {
		t.Error("opaque enum reported complete")
	}

	paint, _ := u.LookupDecl("paint")
	pd, _ := u.Decl(paint)
	if got := u.Types().Spelling(pd.Type); got != "void (Color)" {
		t.Errorf("paint type spelling = %q", got)
	}
}

func TestLoadManifestTemplates(t *testing.T) {
	u, _, err := unit.LoadManifestData(sampleManifest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	box, ok := u.LookupDecl("Box<int>")
	if !ok {
		t.Fatal("Box<int> not declared")
	}
	if kind := u.SpecializationKindOf(box); kind != unit.SpecializationUndeclared {
		t.Errorf("kind before instantiation = %v", kind)
	}
	if _, ok := u.RecordFacts(box); ok {
		t.Error("facts visible before instantiation")
	}

	if !u.Instantiate(box) {
		t.Fatal("instantiation failed")
	}
	facts, ok := u.RecordFacts(box)
	if !ok || facts.Size != 4 || len(facts.Fields) != 1 {
		t.Errorf("instantiated facts = %+v (ok=%v)", facts, ok)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad toml", "records = 3", "failed to parse TOML"},
		{"bad target", `target = "m68k-amiga"`, `unsupported target "m68k-amiga"`},
		{
			"unknown field type",
			"[[records]]\nname = \"R\"\n[[records.fields]]\nname = \"x\"\ntype = \"quaternion\"",
			`unknown type spec "quaternion"`,
		},
		{
			"unknown base",
			"[[records]]\nname = \"R\"\n[[records.bases]]\ntype = \"Missing\"",
			`unknown record "Missing"`,
		},
		{
			"unknown arg kind",
			"[[functions]]\nname = \"f\"\n[functions.return]\ntype = \"void\"\nkind = \"warp\"",
			`unknown argument kind "warp"`,
		},
		{
			"unknown function flag",
			"[[functions]]\nname = \"f\"\nflags = [\"sparkly\"]\n[functions.return]\ntype = \"void\"\nkind = \"ignore\"",
			`unknown function flag "sparkly"`,
		},
		{
			"unknown operator",
			"[[functions]]\nname = \"f\"\noperator = \"@\"",
			`unknown operator "@"`,
		},
		{
			"unknown value kind",
			"[[vars]]\nname = \"v\"\ntype = \"int32\"\n[vars.value]\nkind = \"maybe\"",
			`unknown value kind "maybe"`,
		},
		{
			"unknown template kind",
			"[[templates]]\nname = \"T<x>\"\nkind = \"telepathic\"",
			`unknown kind "telepathic"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := unit.LoadManifestData(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestResolveTypeSpec(t *testing.T) {
	u := unit.New("t")
	_, widget := u.AddRecordDecl("Widget")

	tests := []struct {
		spec string
		want string
	}{
		{"void", "void"},
		{"*char", "char *"},
		{"&Widget", "Widget &"},
		{"**void", "void **"},
		{"int32(char)", "int32_t (char)"},
		{"void(int32, ...)", "void (int32_t, ...)"},
		{"void()", "void (void)"},
	}
	for _, tt := range tests {
		id, err := u.ResolveTypeSpec(tt.spec)
		if err != nil {
			t.Errorf("%q: %v", tt.spec, err)
			continue
		}
		if got := u.Types().Spelling(id); got != tt.want {
			t.Errorf("%q spelled %q, want %q", tt.spec, got, tt.want)
		}
	}

	if id, err := u.ResolveTypeSpec("Widget"); err != nil || id != widget {
		t.Errorf("Widget resolved to %d, err %v", id, err)
	}
	if _, err := u.ResolveTypeSpec(""); err == nil {
		t.Error("empty spec resolved")
	}
	if _, err := u.ResolveTypeSpec("*"); err == nil {
		t.Error("bare pointer spec resolved")
	}
}
