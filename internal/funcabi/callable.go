package funcabi

import (
	"fmt"

	"abiscope/internal/oracle"
	"abiscope/internal/types"
)

// CheckCallable verifies that a function type's return and parameter types
// are complete enough to emit a call through a binding. It returns nil when
// the function is callable, otherwise an ordered list of diagnostics, one
// per offending type, return type first.
//
// Diagnostics from the nested completeness checks are aggregated into one
// list rather than reported incrementally.
func CheckCallable(o oracle.CallOracle, fn types.TypeID) []string {
	in := o.Types()
	info, ok := in.FnInfo(fn)
	if !ok {
		return []string{"the specified type is not a function type"}
	}

	var diags []string

	ret := info.Result
	if tt, ok := in.Lookup(ret); ok && tt.Kind == types.KindVoid {
		// void is always allowed for return types despite being incomplete.
	} else if !o.IsCompleteType(ret) {
		diags = append(diags, fmt.Sprintf("Return type '%s' is incomplete.", in.Spelling(ret)))
	}

	for _, param := range info.Params {
		if !o.IsCompleteType(param) {
			diags = append(diags, fmt.Sprintf("Argument type '%s' is incomplete.", in.Spelling(param)))
		}
	}

	return diags
}
