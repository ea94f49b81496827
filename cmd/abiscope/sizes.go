package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abiscope/internal/interop"
)

var sizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "Print the boundary struct size table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sizes := interop.TypeSizes{TypeSizes: interop.OwnSize()}
		if !sizes.Fill() {
			return fmt.Errorf("size handshake failed")
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-30s %d\n", "TypeSizes", sizes.TypeSizes)
		fmt.Fprintf(out, "%-30s %d\n", "RecordField", sizes.RecordField)
		fmt.Fprintf(out, "%-30s %d\n", "VTableEntry", sizes.VTableEntry)
		fmt.Fprintf(out, "%-30s %d\n", "VTable", sizes.VTable)
		fmt.Fprintf(out, "%-30s %d\n", "RecordLayout", sizes.RecordLayout)
		fmt.Fprintf(out, "%-30s %d\n", "ConstantValueInfo", sizes.ConstantValueInfo)
		fmt.Fprintf(out, "%-30s %d\n", "ConstantString", sizes.ConstantString)
		fmt.Fprintf(out, "%-30s %d\n", "ArgumentInfo", sizes.ArgumentInfo)
		fmt.Fprintf(out, "%-30s %d\n", "ArrangedFunction", sizes.ArrangedFunction)
		fmt.Fprintf(out, "%-30s %d\n", "MacroInformation", sizes.MacroInformation)
		fmt.Fprintf(out, "%-30s %d\n", "OperatorOverloadInfo", sizes.OperatorOverloadInfo)
		fmt.Fprintf(out, "%-30s %d\n", "TemplateInstantiationMetrics", sizes.TemplateInstantiationMetrics)
		return nil
	},
}
