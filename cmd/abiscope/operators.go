package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abiscope/internal/funcabi"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "Print the overloadable operator table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for kind := funcabi.OpNone + 1; kind < funcabi.OpInvalid; kind++ {
			info := funcabi.OperatorInfoFor(kind)
			var traits string
			if info.IsUnary {
				traits += " unary"
			}
			if info.IsBinary {
				traits += " binary"
			}
			if info.IsMemberOnly {
				traits += " member-only"
			}
			fmt.Fprintf(out, "%-16s operator%-8s%s\n", info.Name, info.Spelling, traits)
		}
		return nil
	},
}
