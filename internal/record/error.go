package record

import (
	"fmt"

	"abiscope/internal/oracle"
)

// ErrorKind enumerates projection error kinds.
type ErrorKind uint8

const (
	// ErrOffsetOverflow indicates an oracle-reported offset that does not
	// fit the interop carrier width.
	ErrOffsetOverflow ErrorKind = iota + 1
	// ErrMissingVTable indicates the oracle marked a record dynamic but
	// reported no dispatch table components for one of its vtable pointers.
	ErrMissingVTable
)

// Error represents an inconsistency between oracle facts during projection.
type Error struct {
	Kind        ErrorKind
	Decl        oracle.DeclID
	VFPtrOffset int64 // for ErrMissingVTable
	Err         error // for ErrOffsetOverflow
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrOffsetOverflow:
		return fmt.Sprintf("field offset overflow (decl#%d): %v", e.Decl, e.Err)
	case ErrMissingVTable:
		return fmt.Sprintf("dynamic record has no vtable components at offset %d (decl#%d)", e.VFPtrOffset, e.Decl)
	default:
		return fmt.Sprintf("record projection error kind=%d decl#%d", e.Kind, e.Decl)
	}
}

func (e *Error) Unwrap() error { return e.Err }
