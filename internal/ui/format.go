package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"abiscope/internal/constant"
	"abiscope/internal/funcabi"
	"abiscope/internal/record"
	"abiscope/internal/types"
	"abiscope/internal/vtable"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	offsetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// FormatLayout renders a record layout as an offset-sorted table.
func FormatLayout(in *types.Interner, name string, l *record.Layout) string {
	var b strings.Builder
	header := fmt.Sprintf("%s  size=%d align=%d", name, l.Size, l.Align)
	if l.IsCxx {
		header += fmt.Sprintf("  nvsize=%d nvalign=%d", l.NonVirtualSize, l.NonVirtualAlign)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	nameWidth := 0
	for _, f := range l.Fields() {
		if w := runewidth.StringWidth(f.Name); w > nameWidth {
			nameWidth = w
		}
	}

	for _, f := range l.Fields() {
		offset := offsetStyle.Render(fmt.Sprintf("%6d", f.Offset))
		kind := kindStyle.Render(fmt.Sprintf("%-18s", f.Kind.String()))
		padded := f.Name + strings.Repeat(" ", nameWidth-runewidth.StringWidth(f.Name))
		line := fmt.Sprintf("  %s  %s %s  %s", offset, kind, padded, dimStyle.Render(in.Spelling(f.Type)))
		if f.IsBitField {
			line += dimStyle.Render(fmt.Sprintf("  bits %d..%d", f.BitFieldStart, f.BitFieldStart+f.BitFieldWidth-1))
		}
		if f.IsPrimaryBase {
			line += dimStyle.Render("  (primary)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, t := range l.VTables {
		b.WriteString(FormatVTable(t))
	}
	return b.String()
}

// FormatVTable renders one dispatch table.
func FormatVTable(t *vtable.Table) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("vtable @%d", t.VFPtrOffset)))
	b.WriteString("\n")
	for i, e := range t.Entries {
		line := fmt.Sprintf("  %s  %s", offsetStyle.Render(fmt.Sprintf("[%2d]", i)), kindStyle.Render(e.Kind.String()))
		switch e.Kind {
		case vtable.VCallOffset, vtable.VBaseOffset, vtable.OffsetToTop:
			line += dimStyle.Render(fmt.Sprintf(" %d", e.Offset))
		case vtable.RTTI:
			line += dimStyle.Render(fmt.Sprintf(" decl#%d", e.RTTI))
		default:
			line += dimStyle.Render(fmt.Sprintf(" decl#%d", e.Method))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatArranged renders a function's call-lowering decision.
func FormatArranged(in *types.Interner, name string, a *funcabi.Arranged) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  convention %s", kindStyle.Render(a.CallingConvention.String())))
	if a.EffectiveCallingConvention != a.CallingConvention {
		b.WriteString(fmt.Sprintf(" (effective %s)", a.EffectiveCallingConvention.String()))
	}
	b.WriteString(fmt.Sprintf("  source %s\n", a.SourceConvention.String()))
	b.WriteString(fmt.Sprintf("  required args %d", a.RequiredArgs))
	if a.Flags&funcabi.FuncHasRegParm != 0 {
		b.WriteString(fmt.Sprintf("  regparm %d", a.RegParm))
	}
	b.WriteString("\n")
	b.WriteString(formatArg(in, "ret", a.Return))
	for i, arg := range a.Args {
		b.WriteString(formatArg(in, fmt.Sprintf("#%d", i), arg))
	}
	return b.String()
}

func formatArg(in *types.Interner, label string, a funcabi.ArgInfo) string {
	return fmt.Sprintf("  %s  %s %s  %s\n",
		offsetStyle.Render(fmt.Sprintf("%4s", label)),
		kindStyle.Render(fmt.Sprintf("%-17s", a.Kind.String())),
		dimStyle.Render(fmt.Sprintf("flags=%#04x", uint16(a.Flags))),
		in.Spelling(a.Type))
}

// FormatValue renders an evaluated constant.
func FormatValue(name string, v *constant.Value) string {
	text, err := v.Text()
	if err != nil {
		return fmt.Sprintf("%s = %s\n", headerStyle.Render(name), errorStyle.Render(err.Error()))
	}
	line := fmt.Sprintf("%s = %s  %s", headerStyle.Render(name), text, dimStyle.Render(v.Kind.String()))
	if v.HasSideEffects {
		line += errorStyle.Render("  [side effects]")
	}
	if v.HasUndefinedBehavior {
		line += errorStyle.Render("  [undefined behavior]")
	}
	return line + "\n"
}

// FormatBlockers renders a callability verdict.
func FormatBlockers(name string, blockers []string) string {
	if len(blockers) == 0 {
		return fmt.Sprintf("%s: %s\n", name, successStyle.Render("callable"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", name, errorStyle.Render("not callable"))
	for _, reason := range blockers {
		fmt.Fprintf(&b, "  %s\n", reason)
	}
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
