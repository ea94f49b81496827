package source_test

import (
	"testing"

	"abiscope/internal/source"
)

func TestFileSetAddDeduplicates(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.Add("widget.h", true)
	b := fs.Add("impl.h", false)
	if a == b {
		t.Fatalf("distinct paths share FileID %d", a)
	}
	if again := fs.Add("widget.h", false); again != a {
		t.Fatalf("re-adding widget.h produced %d, want %d", again, a)
	}
	// The first registration wins, flag included.
	f, ok := fs.Lookup(a)
	if !ok || !f.Main {
		t.Fatalf("widget.h lost its main flag: %+v ok=%v", f, ok)
	}
}

func TestIsFromMainFile(t *testing.T) {
	fs := source.NewFileSet()
	main := fs.Add("unit.h", true)
	include := fs.Add("vendor.h", false)

	if !fs.IsFromMainFile(source.Location{File: main, Line: 1, Col: 1}) {
		t.Error("location in main file not recognized")
	}
	if fs.IsFromMainFile(source.Location{File: include, Line: 1, Col: 1}) {
		t.Error("location in included file reported as main")
	}
	if fs.IsFromMainFile(source.Location{}) {
		t.Error("invalid location reported as main")
	}
}

func TestLocationString(t *testing.T) {
	if got := (source.Location{}).String(); got != "<invalid>" {
		t.Errorf("invalid location renders %q", got)
	}
	loc := source.Location{File: 2, Line: 14, Col: 3}
	if got := loc.String(); got != "file#2:14:3" {
		t.Errorf("location renders %q", got)
	}
}
