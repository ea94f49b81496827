package ui

import (
	"strings"
	"testing"

	"abiscope/internal/abi"
	"abiscope/internal/constant"
	"abiscope/internal/funcabi"
	"abiscope/internal/oracle"
	"abiscope/internal/record"
	"abiscope/internal/unit"
)

func projectWidget(t *testing.T) (*unit.Unit, *record.Layout) {
	t.Helper()
	u := unit.New("t")
	decl, typ := u.AddRecordDecl("Widget")
	b := u.Types().Builtins()
	u.SetRecordFacts(decl, &oracle.RecordFacts{
		Type:            typ,
		Size:            16,
		Align:           8,
		IsCxx:           true,
		IsDynamic:       true,
		NonVirtualSize:  16,
		NonVirtualAlign: 8,
		HasOwnVFPtr:     true,
		Fields: []oracle.FieldFact{
			{Name: "count", Type: b.Int32, BitOffset: 64},
			{Name: "flags", Type: b.Uint32, BitOffset: 96, IsBitField: true, BitWidth: 3},
		},
	})
	u.SetVTableComponents(decl, 0, []oracle.VTableComponent{
		{Kind: oracle.ComponentOffsetToTop, Offset: 0},
		{Kind: oracle.ComponentRTTI, RTTI: decl},
	})
	layout, err := record.Project(u, abi.X86_64LinuxGNU(), decl)
	if err != nil || layout == nil {
		t.Fatalf("project: %v", err)
	}
	return u, layout
}

func TestFormatLayout(t *testing.T) {
	u, layout := projectWidget(t)
	out := FormatLayout(u.Types(), "Widget", layout)

	for _, want := range []string{
		"Widget  size=16 align=8  nvsize=16 nvalign=8",
		"vtable_pointer",
		"count",
		"bits 0..2",
		"vtable @0",
		"offset to top",
		"rtti",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatArranged(t *testing.T) {
	u := unit.New("t")
	b := u.Types().Builtins()
	a := &funcabi.Arranged{
		CallingConvention:          funcabi.ConvC,
		EffectiveCallingConvention: funcabi.ConvX86_64SysV,
		Flags:                      funcabi.FuncHasRegParm,
		RequiredArgs:               1,
		RegParm:                    2,
		Return:                     funcabi.ArgInfo{Kind: funcabi.Ignore, Type: b.Void},
		Args:                       []funcabi.ArgInfo{{Kind: funcabi.Extend, Flags: funcabi.FlagSignExtended, Type: b.Int32}},
	}
	out := FormatArranged(u.Types(), "poke", a)

	for _, want := range []string{
		"poke",
		"convention ccc",
		"(effective x86_64_sysvcc)",
		"required args 1",
		"regparm 2",
		"extend",
		"int32_t",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatArrangedNoRegParm(t *testing.T) {
	u := unit.New("t")
	a := &funcabi.Arranged{Return: funcabi.ArgInfo{Kind: funcabi.Ignore}}
	if out := FormatArranged(u.Types(), "f", a); strings.Contains(out, "regparm") {
		t.Errorf("regparm shown without the flag:\n%s", out)
	}
}

func TestFormatValue(t *testing.T) {
	neg := int64(-7)
	v := &constant.Value{Kind: constant.SignedInteger, SubKind: 32, Bits: uint64(neg), HasSideEffects: true}
	out := FormatValue("kOffset", v)
	for _, want := range []string{"kOffset", "-7", "signed integer", "[side effects]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	unknown := &constant.Value{Kind: constant.Unknown, SubKind: 9}
	if out := FormatValue("kWeird", unknown); !strings.Contains(out, "unknown constant") {
		t.Errorf("unknown value rendered %q", out)
	}
}

func TestFormatBlockers(t *testing.T) {
	if out := FormatBlockers("poke", nil); !strings.Contains(out, "callable") {
		t.Errorf("callable verdict = %q", out)
	}
	out := FormatBlockers("steal", []string{"Return type 'Opaque' is incomplete."})
	if !strings.Contains(out, "not callable") || !strings.Contains(out, "'Opaque'") {
		t.Errorf("blocked verdict = %q", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"short", 0, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a very long identifier", 10, "a very ..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
