package driver

import (
	"fmt"

	"abiscope/internal/abi"
	"abiscope/internal/constant"
	"abiscope/internal/funcabi"
	"abiscope/internal/interop"
	"abiscope/internal/macro"
	"abiscope/internal/oracle"
	"abiscope/internal/record"
	"abiscope/internal/types"
	"abiscope/internal/unit"
)

// ProjectUnit runs every projection over one unit and assembles the
// boundary snapshot. The unit is queried from a single goroutine:
// template instantiation mutates it.
func ProjectUnit(u *unit.Unit, target abi.Target) (*interop.Snapshot, error) {
	snap := interop.NewSnapshot(u.Name(), target.Triple)

	// Instantiate templates up front so their layouts are projectable below.
	snap.Metrics = interop.FromMetrics(u.InstantiateAll())

	for _, decl := range u.Records() {
		d, _ := u.Decl(decl)
		layout, err := record.Project(u, target, decl)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", d.Name, err)
		}
		if layout == nil {
			// Forward declaration or uninstantiated specialization.
			continue
		}
		rs := interop.RecordSnapshot{
			Name:   d.Name,
			Layout: interop.FromLayout(layout),
		}
		if guid, ok := u.UuidAttr(decl); ok {
			rs.Uuid = guid
		}
		snap.Records = append(snap.Records, rs)
	}

	for _, decl := range u.Functions() {
		d, _ := u.Decl(decl)
		arranged := funcabi.Project(u, decl, oracle.VariantComplete)
		if arranged == nil {
			// Declaration-only entry, e.g. a vtable target.
			continue
		}
		fs := interop.FunctionSnapshot{
			Name:     d.Name,
			Arranged: interop.FromArranged(arranged),
		}
		if d.Operator != funcabi.OpNone {
			op := interop.FromOperator(funcabi.OperatorInfoFor(d.Operator))
			fs.Operator = &op
		}
		if d.Type != types.NoTypeID {
			fs.Blockers = funcabi.CheckCallable(u, d.Type)
		}
		fs.Callable = len(fs.Blockers) == 0
		snap.Functions = append(snap.Functions, fs)
	}

	for _, decl := range u.Vars() {
		d, _ := u.Decl(decl)
		val, err := constant.Compute(u, oracle.DeclCursor(decl))
		if err != nil || val == nil {
			// Not evaluable to a constant; bindings have nothing to emit.
			continue
		}
		info, str := interop.FromConstant(val)
		snap.Constants = append(snap.Constants, interop.ConstantSnapshot{
			Name:   d.Name,
			Info:   info,
			String: str,
		})
	}

	macro.Enumerate(u, func(m *macro.Info) bool {
		snap.Macros = append(snap.Macros, interop.FromMacro(m))
		return true
	})

	return snap, nil
}

// ProjectManifestFile loads a unit manifest and projects it.
func ProjectManifestFile(path string) (*interop.Snapshot, error) {
	u, target, err := unit.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return ProjectUnit(u, target)
}
