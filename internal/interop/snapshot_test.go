package interop_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"abiscope/internal/interop"
)

func sampleSnapshot() *interop.Snapshot {
	s := interop.NewSnapshot("widget", "x86_64-linux-gnu")
	s.Records = append(s.Records, interop.RecordSnapshot{
		Name: "Widget",
		Uuid: "b1bb8478-4546-4f32-a395-33dd26ce3a97",
		Layout: &interop.RecordLayout{
			Size:      24,
			Alignment: 8,
			Fields: []interop.RecordField{
				{Kind: 1, Offset: 0, Name: "vtable_pointer"},
				{Kind: 0, Offset: 8, Name: "count"},
			},
			VTables: []interop.VTable{{
				VFPtrOffset: 0,
				Entries:     []interop.VTableEntry{{Kind: 2}, {Kind: 3, RTTI: 1}},
			}},
		},
	})
	s.Functions = append(s.Functions, interop.FunctionSnapshot{
		Name:     "make_widget",
		Arranged: &interop.ArrangedFunction{RequiredArguments: 2},
		Callable: false,
		Blockers: []string{"Return type 'Opaque' is incomplete."},
	})
	s.Functions = append(s.Functions, interop.FunctionSnapshot{
		Name:     "Widget::operator+=",
		Arranged: &interop.ArrangedFunction{RequiredArguments: 1},
		Operator: &interop.OperatorOverloadInfo{Kind: 18, Name: "PlusEqual", Spelling: "+=", IsBinary: 1},
		Callable: true,
	})
	s.Constants = append(s.Constants, interop.ConstantSnapshot{
		Name:   "kGreeting",
		Info:   interop.ConstantValueInfo{Kind: 5},
		String: &interop.ConstantString{SizeBytes: 2, Data: []byte("hi")},
	})
	s.Macros = append(s.Macros, interop.MacroInformation{Name: "WIDGET_MAX", IsFunctionLike: 1, Parameters: []string{"a", "b"}})
	s.Metrics = interop.TemplateInstantiationMetrics{TotalSpecializations: 3, SuccessfulInstantiations: 2}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.snap.mp")
	want := sampleSnapshot()

	if err := interop.WriteSnapshot(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok, err := interop.ReadSnapshot(path)
	if err != nil || !ok {
		t.Fatalf("read: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the snapshot:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadSnapshotMissingFile(t *testing.T) {
	s, ok, err := interop.ReadSnapshot(filepath.Join(t.TempDir(), "nope.snap.mp"))
	if s != nil || ok || err != nil {
		t.Errorf("missing file: s=%v ok=%v err=%v", s, ok, err)
	}
}

func TestReadSnapshotSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.snap.mp")
	stale := sampleSnapshot()
	stale.Schema = 9999
	if err := interop.WriteSnapshot(path, stale); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, ok, err := interop.ReadSnapshot(path)
	if s != nil || ok || err != nil {
		t.Errorf("schema mismatch: s=%v ok=%v err=%v", s, ok, err)
	}
}

func TestWriteSnapshotCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "widget.snap.mp")
	if err := interop.WriteSnapshot(path, sampleSnapshot()); err != nil {
		t.Fatalf("write into nested directory: %v", err)
	}
	if _, ok, err := interop.ReadSnapshot(path); !ok || err != nil {
		t.Errorf("read back: ok=%v err=%v", ok, err)
	}
}
