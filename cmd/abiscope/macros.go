package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"abiscope/internal/macro"
	"abiscope/internal/oracle"
	"abiscope/internal/unit"
)

var (
	macrosMainOnly     bool
	macrosFunctionLike bool
)

func init() {
	macrosCmd.Flags().BoolVar(&macrosMainOnly, "main-only", false, "only macros defined in main files")
	macrosCmd.Flags().BoolVar(&macrosFunctionLike, "function-like", false, "only function-like macros")
}

var macrosCmd = &cobra.Command{
	Use:   "macros <manifest>",
	Short: "Enumerate preprocessor macros recorded in a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, _, err := unit.LoadManifest(args[0])
		if err != nil {
			return err
		}
		shown := 0
		macro.Enumerate(u, func(m *macro.Info) bool {
			if macrosMainOnly && !u.FileSet().IsFromMainFile(m.Location) {
				return true
			}
			if macrosFunctionLike && !m.IsFunctionLike {
				return true
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatMacro(m))
			shown++
			return true
		})
		if shown == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no macros matched")
		}
		return nil
	},
}

func formatMacro(m *macro.Info) string {
	var b strings.Builder
	b.WriteString(m.Name)
	if m.IsFunctionLike {
		b.WriteString("(")
		b.WriteString(strings.Join(m.Params, ", "))
		switch m.VariadicKind {
		case oracle.MacroVariadicC99:
			if len(m.Params) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		case oracle.MacroVariadicGNU:
			b.WriteString("...")
		}
		b.WriteString(")")
	}
	if m.Location.IsValid() {
		fmt.Fprintf(&b, "  %s", m.Location)
	}
	var traits []string
	if m.IsBuiltin {
		traits = append(traits, "builtin")
	}
	if m.WasUndefined {
		traits = append(traits, "undefined")
	}
	if m.HasCommaPasting {
		traits = append(traits, "comma-pasting")
	}
	if len(traits) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(traits, " "))
	}
	return b.String()
}
