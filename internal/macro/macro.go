// Package macro enumerates preprocessor macro definition history.
package macro

import (
	"abiscope/internal/oracle"
	"abiscope/internal/source"
)

// Info describes one macro identifier for the duration of a single
// callback invocation.
type Info struct {
	Name     string
	Location source.Location

	// WasUndefined is set for identifiers that had a definition at some
	// point but were later #undef'd; they are reported, not excluded.
	WasUndefined    bool
	IsFunctionLike  bool
	IsBuiltin       bool
	HasCommaPasting bool
	VariadicKind    oracle.MacroVariadicKind

	// Params is backed by a scratch buffer reused across invocations.
	// It is only valid until the callback returns; callers needing
	// persistence must copy it.
	Params []string
}

// Enumerate invokes fn once per identifier-table entry with defined macro
// history, in identifier-table order. Returning false from fn stops the
// enumeration early.
func Enumerate(o oracle.MacroOracle, fn func(*Info) bool) {
	var scratch []string
	var info Info

	o.Macros(func(rec *oracle.MacroRecord) bool {
		scratch = scratch[:0]
		scratch = append(scratch, rec.Params...)

		info = Info{
			Name:            rec.Name,
			Location:        rec.Location,
			WasUndefined:    rec.WasUndefined,
			IsFunctionLike:  rec.IsFunctionLike,
			IsBuiltin:       rec.IsBuiltin,
			HasCommaPasting: rec.HasCommaPasting,
			VariadicKind:    rec.VariadicKind,
			Params:          scratch,
		}
		return fn(&info)
	})
}

// Count returns the number of identifiers with macro definition history.
func Count(o oracle.MacroOracle) int {
	n := 0
	o.Macros(func(*oracle.MacroRecord) bool {
		n++
		return true
	})
	return n
}
