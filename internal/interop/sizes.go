package interop

import "unsafe"

// TypeSizes is the struct-size handshake between this library and a
// consumer compiled against its own copy of the boundary declarations.
// The caller sets TypeSizes to the size it was compiled with and calls
// Fill; a mismatch means the two sides disagree about the very struct
// used to compare sizes, so nothing else can be trusted.
type TypeSizes struct {
	TypeSizes                    int32
	RecordField                  int32
	VTableEntry                  int32
	VTable                       int32
	RecordLayout                 int32
	ConstantValueInfo            int32
	ConstantString               int32
	ArgumentInfo                 int32
	ArrangedFunction             int32
	MacroInformation             int32
	OperatorOverloadInfo         int32
	TemplateInstantiationMetrics int32
}

// Fill validates the handshake field and, on success, fills every other
// field with this library's sizes and returns true. On mismatch it
// returns false and leaves the struct untouched.
func (t *TypeSizes) Fill() bool {
	if t.TypeSizes != int32(unsafe.Sizeof(TypeSizes{})) {
		return false
	}
	t.RecordField = int32(unsafe.Sizeof(RecordField{}))
	t.VTableEntry = int32(unsafe.Sizeof(VTableEntry{}))
	t.VTable = int32(unsafe.Sizeof(VTable{}))
	t.RecordLayout = int32(unsafe.Sizeof(RecordLayout{}))
	t.ConstantValueInfo = int32(unsafe.Sizeof(ConstantValueInfo{}))
	t.ConstantString = int32(unsafe.Sizeof(ConstantString{}))
	t.ArgumentInfo = int32(unsafe.Sizeof(ArgumentInfo{}))
	t.ArrangedFunction = int32(unsafe.Sizeof(ArrangedFunction{}))
	t.MacroInformation = int32(unsafe.Sizeof(MacroInformation{}))
	t.OperatorOverloadInfo = int32(unsafe.Sizeof(OperatorOverloadInfo{}))
	t.TemplateInstantiationMetrics = int32(unsafe.Sizeof(TemplateInstantiationMetrics{}))
	return true
}

// OwnSize returns the size a caller should place in the handshake field.
func OwnSize() int32 {
	return int32(unsafe.Sizeof(TypeSizes{}))
}
