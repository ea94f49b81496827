package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"abiscope/internal/driver"
	"abiscope/internal/interop"
	"abiscope/internal/ui"
)

var (
	exportOut    string
	exportUI     string
	exportVerify bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory for snapshots")
	exportCmd.Flags().StringVar(&exportUI, "ui", "auto", "progress ui (auto|on|off)")
	exportCmd.Flags().BoolVar(&exportVerify, "verify", false, "read each snapshot back after writing")
}

var exportCmd = &cobra.Command{
	Use:   "export <manifest>...",
	Short: "Project manifests and export boundary snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseProgressMode(exportUI)
		if err != nil {
			return err
		}
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return err
		}
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}

		var results []driver.Result
		if wantProgressUI(mode, len(args)) {
			results, err = projectWithUI(cmd.Context(), args, jobs)
		} else {
			results, err = driver.ProjectManifests(cmd.Context(), args, jobs)
		}
		if err != nil {
			return err
		}

		var failed []string
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Path, res.Err)
				failed = append(failed, res.Path)
				continue
			}
			dest := snapshotPath(exportOut, res.Path)
			if err := interop.WriteSnapshot(dest, res.Snapshot); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			if exportVerify {
				if err := verifySnapshot(dest); err != nil {
					return fmt.Errorf("verifying %s: %w", dest, err)
				}
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Path, dest)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d manifests failed", len(failed), len(results))
		}
		return nil
	},
}

type exportOutcome struct {
	results []driver.Result
	err     error
}

func projectWithUI(ctx context.Context, paths []string, jobs int) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan exportOutcome, 1)

	go func() {
		results, err := driver.ProjectManifestsObserved(ctx, paths, jobs, events)
		outcomeCh <- exportOutcome{results: results, err: err}
	}()

	model := ui.NewProgressModel("exporting snapshots", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func snapshotPath(dir, manifest string) string {
	base := filepath.Base(manifest)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".snap.mp")
}

func verifySnapshot(path string) error {
	_, ok, err := interop.ReadSnapshot(path)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("snapshot missing or schema mismatch")
	}
	return nil
}
