package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"abiscope/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "abiscope",
	Short: "ABI and record layout introspection for binding generators",
	Long:  `abiscope projects record layouts, vtables, calling conventions, constants and macros out of analyzed program units`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(arrangeCmd)
	rootCmd.AddCommand(constsCmd)
	rootCmd.AddCommand(macrosCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(operatorsCmd)
	rootCmd.AddCommand(sizesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel manifest jobs (0 = number of CPUs)")

	cobra.OnInitialize(configureColor)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func configureColor() {
	mode, err := rootCmd.PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}
