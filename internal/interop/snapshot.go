package interop

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the snapshot format changes.
const snapshotSchemaVersion uint16 = 2

// Snapshot is a serialized projection of one program unit: everything a
// binding generator needs, detached from the analysis session that
// produced it.
type Snapshot struct {
	// Schema version for safe invalidation when the format changes
	Schema uint16

	Unit   string
	Target string

	Records   []RecordSnapshot
	Functions []FunctionSnapshot
	Constants []ConstantSnapshot
	Macros    []MacroInformation

	Metrics TemplateInstantiationMetrics
}

// RecordSnapshot pairs a record's qualified name with its flattened layout.
// Uuid is the GUID of the record's uuid attribute, empty when absent.
type RecordSnapshot struct {
	Name   string
	Uuid   string
	Layout *RecordLayout
}

// FunctionSnapshot pairs a function's qualified name with its arrangement.
// Operator is set only for overloaded-operator declarations.
type FunctionSnapshot struct {
	Name     string
	Arranged *ArrangedFunction
	Operator *OperatorOverloadInfo
	Callable bool
	Blockers []string
}

// ConstantSnapshot pairs a variable's name with its evaluated value.
type ConstantSnapshot struct {
	Name   string
	Info   ConstantValueInfo
	String *ConstantString
}

// NewSnapshot returns an empty snapshot stamped with the current schema.
func NewSnapshot(unitName, target string) *Snapshot {
	return &Snapshot{Schema: snapshotSchemaVersion, Unit: unitName, Target: target}
}

// WriteSnapshot serializes the snapshot to path atomically: the payload is
// written to a temp file in the destination directory and renamed over the
// target, so readers never observe a half-written snapshot.
func WriteSnapshot(path string, s *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmp)
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadSnapshot deserializes a snapshot from path. A missing file or a
// schema mismatch reports (nil, false, nil): both mean "no usable
// snapshot", not an error.
func ReadSnapshot(path string) (*Snapshot, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()

	var s Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return nil, false, err
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, false, nil
	}
	return &s, true, nil
}
