package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abiscope/internal/oracle"
	"abiscope/internal/unit"
)

var templatesCmd = &cobra.Command{
	Use:   "templates <manifest>",
	Short: "Instantiate class template specializations and report metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, _, err := unit.LoadManifest(args[0])
		if err != nil {
			return err
		}
		metrics := u.InstantiateAll()

		u.EnumerateSpecializations(func(kind unit.SpecializationKind, decl oracle.DeclID) bool {
			d, _ := u.Decl(decl)
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", d.Name, kind)
			return true
		})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nspecializations: %d (partial %d)\n", metrics.TotalSpecializations, metrics.PartialSpecializations)
		fmt.Fprintf(out, "instantiated: %d, failed: %d\n", metrics.SuccessfulInstantiations, metrics.FailedInstantiations)
		return nil
	},
}
