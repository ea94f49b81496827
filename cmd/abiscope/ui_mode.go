package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode controls the live progress view during snapshot export.
type progressMode string

const (
	progressAuto progressMode = "auto"
	progressOn   progressMode = "on"
	progressOff  progressMode = "off"
)

func parseProgressMode(value string) (progressMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return progressAuto, nil
	case "on":
		return progressOn, nil
	case "off":
		return progressOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (want auto, on, or off)", value)
	}
}

// wantProgressUI reports whether the export should run under the live
// progress view. Export is batch-oriented: a single manifest finishes
// too quickly for a progress screen to be worth anything, so auto only
// brings it up for multi-manifest batches on a terminal.
func wantProgressUI(mode progressMode, batch int) bool {
	switch mode {
	case progressOn:
		return true
	case progressOff:
		return false
	default:
		return batch > 1 && isTerminal(os.Stdout)
	}
}
