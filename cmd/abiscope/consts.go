package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abiscope/internal/constant"
	"abiscope/internal/oracle"
	"abiscope/internal/ui"
	"abiscope/internal/unit"
)

var constsCmd = &cobra.Command{
	Use:   "consts <manifest> [var...]",
	Short: "Evaluate variable initializers to constants",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, _, err := unit.LoadManifest(args[0])
		if err != nil {
			return err
		}
		decls, err := selectDecls(u, args[1:], u.Vars())
		if err != nil {
			return err
		}
		for _, decl := range decls {
			d, _ := u.Decl(decl)
			v, err := constant.Compute(u, oracle.DeclCursor(decl))
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", d.Name, err)
				continue
			}
			if v == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no constant initializer\n", d.Name)
				continue
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.FormatValue(d.Name, v))
		}
		return nil
	},
}
