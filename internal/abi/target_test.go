package abi_test

import (
	"testing"

	"abiscope/internal/abi"
)

func TestTargetFamilies(t *testing.T) {
	linux := abi.X86_64LinuxGNU()
	windows := abi.X86_64WindowsMSVC()

	if linux.IsMicrosoft() {
		t.Error("linux-gnu target reports Microsoft family")
	}
	if !windows.IsMicrosoft() {
		t.Error("windows-msvc target does not report Microsoft family")
	}
	if linux.PtrSize != 8 || windows.PtrSize != 8 {
		t.Errorf("x86-64 pointer sizes: linux=%d windows=%d", linux.PtrSize, windows.PtrSize)
	}
}

func TestVTorDispSlotSize(t *testing.T) {
	if got := abi.X86_64WindowsMSVC().VTorDispSlotSize(); got != 4 {
		t.Fatalf("vtordisp slot size = %d, want 4", got)
	}
}

func TestFamilyString(t *testing.T) {
	if abi.FamilyItanium.String() == abi.FamilyMicrosoft.String() {
		t.Fatal("family strings are not distinct")
	}
}
