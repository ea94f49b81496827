package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"abiscope/internal/ui"
	"abiscope/internal/unit"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <manifest>",
	Short: "Browse a unit's projections interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) {
			return fmt.Errorf("explore needs a terminal; use layout/arrange/consts for plain output")
		}
		u, target, err := unit.LoadManifest(args[0])
		if err != nil {
			return err
		}
		model := ui.NewExploreModel(u, target)
		program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}
