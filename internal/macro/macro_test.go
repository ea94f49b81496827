package macro_test

import (
	"testing"

	"abiscope/internal/macro"
	"abiscope/internal/oracle"
	"abiscope/internal/unit"
)

func newMacroUnit() *unit.Unit {
	u := unit.New("t")
	u.AddMacro(oracle.MacroRecord{Name: "VERSION"})
	u.AddMacro(oracle.MacroRecord{
		Name:           "MAX",
		IsFunctionLike: true,
		Params:         []string{"a", "b"},
	})
	u.AddMacro(oracle.MacroRecord{
		Name:            "LOG",
		IsFunctionLike:  true,
		VariadicKind:    oracle.MacroVariadicC99,
		HasCommaPasting: true,
		Params:          []string{"fmt"},
	})
	u.AddMacro(oracle.MacroRecord{Name: "TEMP", WasUndefined: true})
	u.AddMacro(oracle.MacroRecord{Name: "__FILE__", IsBuiltin: true})
	return u
}

func TestEnumerateOrderAndFields(t *testing.T) {
	u := newMacroUnit()

	var names []string
	macro.Enumerate(u, func(m *macro.Info) bool {
		names = append(names, m.Name)
		switch m.Name {
		case "MAX":
			if !m.IsFunctionLike || len(m.Params) != 2 || m.Params[0] != "a" || m.Params[1] != "b" {
				t.Errorf("MAX = %+v", m)
			}
		case "LOG":
			if m.VariadicKind != oracle.MacroVariadicC99 || !m.HasCommaPasting {
				t.Errorf("LOG = %+v", m)
			}
		case "TEMP":
			if !m.WasUndefined {
				t.Error("TEMP lost its undef history")
			}
		case "__FILE__":
			if !m.IsBuiltin {
				t.Error("__FILE__ not flagged builtin")
			}
		}
		return true
	})

	want := []string{"VERSION", "MAX", "LOG", "TEMP", "__FILE__"}
	if len(names) != len(want) {
		t.Fatalf("enumerated %q", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestEnumerateParamsAreScratchBacked(t *testing.T) {
	u := newMacroUnit()

	// Params must be copied to survive the callback; holding the slice
	// observes it being overwritten by the next entry.
	var held []string
	var copied []string
	macro.Enumerate(u, func(m *macro.Info) bool {
		if m.Name == "MAX" {
			held = m.Params
			copied = append([]string(nil), m.Params...)
		}
		return true
	})

	if len(copied) != 2 || copied[0] != "a" || copied[1] != "b" {
		t.Fatalf("copied params = %q", copied)
	}
	if len(held) > 0 && held[0] == "a" && len(held) == 2 {
		t.Error("held params slice was not reused by a later entry")
	}
}

func TestEnumerateEarlyStop(t *testing.T) {
	u := newMacroUnit()

	calls := 0
	macro.Enumerate(u, func(m *macro.Info) bool {
		calls++
		return m.Name != "MAX"
	})
	if calls != 2 {
		t.Errorf("callback ran %d times, want 2", calls)
	}
}

func TestCount(t *testing.T) {
	if got := macro.Count(newMacroUnit()); got != 5 {
		t.Errorf("Count = %d", got)
	}
	if got := macro.Count(unit.New("empty")); got != 0 {
		t.Errorf("empty Count = %d", got)
	}
}
