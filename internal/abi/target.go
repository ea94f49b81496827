package abi

// Family selects between the two supported C++ ABI families.
type Family uint8

const (
	// FamilyItanium is the single-vtable family used by the System V world.
	FamilyItanium Family = iota
	// FamilyMicrosoft is the multiple-vtables-with-adjustor-thunks family.
	FamilyMicrosoft
)

func (f Family) String() string {
	switch f {
	case FamilyItanium:
		return "itanium"
	case FamilyMicrosoft:
		return "microsoft"
	default:
		return "unknown"
	}
}

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
	Family   Family
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
		Family:   FamilyItanium,
	}
}

func X86_64WindowsMSVC() Target {
	return Target{
		Triple:   "x86_64-windows-msvc",
		PtrSize:  8,
		PtrAlign: 8,
		Family:   FamilyMicrosoft,
	}
}

// VTorDispSlotSize is the byte distance between a virtual base sub-object
// and its displacement adjustor slot under the Microsoft family.
//
// TODO: validate this on a 32-bit Microsoft target; both current targets
// report the historical 4-byte slot regardless of pointer width.
func (t Target) VTorDispSlotSize() int64 {
	return 4
}

// IsMicrosoft reports whether the target uses the adjustor-thunk family.
func (t Target) IsMicrosoft() bool {
	return t.Family == FamilyMicrosoft
}
