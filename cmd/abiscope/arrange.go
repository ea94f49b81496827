package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abiscope/internal/funcabi"
	"abiscope/internal/oracle"
	"abiscope/internal/types"
	"abiscope/internal/ui"
	"abiscope/internal/unit"
)

var arrangeBase bool

func init() {
	arrangeCmd.Flags().BoolVar(&arrangeBase, "base", false, "arrange the base-object variant of constructors and destructors")
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange <manifest> [function...]",
	Short: "Show call-lowering arrangements for functions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, _, err := unit.LoadManifest(args[0])
		if err != nil {
			return err
		}
		decls, err := selectDecls(u, args[1:], u.Functions())
		if err != nil {
			return err
		}

		variant := oracle.VariantComplete
		if arrangeBase {
			variant = oracle.VariantBase
		}
		for _, decl := range decls {
			d, _ := u.Decl(decl)
			arranged := funcabi.Project(u, decl, variant)
			if arranged == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no arrangement recorded\n", d.Name)
				continue
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.FormatArranged(u.Types(), d.Name, arranged))
			if d.Type != types.NoTypeID {
				fmt.Fprint(cmd.OutOrStdout(), ui.FormatBlockers(d.Name, funcabi.CheckCallable(u, d.Type)))
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}
