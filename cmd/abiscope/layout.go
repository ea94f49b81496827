package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abiscope/internal/oracle"
	"abiscope/internal/record"
	"abiscope/internal/ui"
	"abiscope/internal/unit"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <manifest> [record...]",
	Short: "Project record layouts from a unit manifest",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, target, err := unit.LoadManifest(args[0])
		if err != nil {
			return err
		}
		u.InstantiateAll()

		decls, err := selectDecls(u, args[1:], u.Records())
		if err != nil {
			return err
		}
		for _, decl := range decls {
			d, _ := u.Decl(decl)
			layout, err := record.Project(u, target, decl)
			if err != nil {
				return fmt.Errorf("record %q: %w", d.Name, err)
			}
			if layout == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: incomplete type\n", d.Name)
				continue
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.FormatLayout(u.Types(), d.Name, layout))
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

// selectDecls resolves requested declaration names, or returns all of the
// fallback set when no names were requested.
func selectDecls(u *unit.Unit, names []string, all []oracle.DeclID) ([]oracle.DeclID, error) {
	if len(names) == 0 {
		return all, nil
	}
	out := make([]oracle.DeclID, 0, len(names))
	for _, name := range names {
		decl, ok := u.LookupDecl(name)
		if !ok {
			return nil, fmt.Errorf("no declaration named %q in the manifest", name)
		}
		out = append(out, decl)
	}
	return out, nil
}
