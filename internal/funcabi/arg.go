package funcabi

import (
	"fmt"

	"abiscope/internal/oracle"
	"abiscope/internal/types"
)

// ArgKind classifies how one argument (or the return value) is passed.
// The numbering is part of the interop contract.
type ArgKind uint8

const (
	// Direct passes the value in registers, possibly coerced to another
	// type shape.
	Direct ArgKind = iota
	// Extend is Direct plus sign/zero extension of a small integer.
	Extend
	// Indirect passes a pointer to a temporary.
	Indirect
	// IndirectAliased passes a pointer to the original object (no copy),
	// possibly in a non-default address space.
	IndirectAliased
	// Ignore emits nothing for the value.
	Ignore
	// Expand flattens an aggregate into consecutive scalar arguments.
	Expand
	// CoerceAndExpand packs the value through an intermediate type shape
	// and expands that shape into registers.
	CoerceAndExpand
	// InAlloca places the value in caller-pre-allocated stack space that
	// the callee accesses in place.
	InAlloca
)

func (k ArgKind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Extend:
		return "extend"
	case Indirect:
		return "indirect"
	case IndirectAliased:
		return "indirect-aliased"
	case Ignore:
		return "ignore"
	case Expand:
		return "expand"
	case CoerceAndExpand:
		return "coerce-and-expand"
	case InAlloca:
		return "inalloca"
	default:
		return fmt.Sprintf("ArgKind(%d)", k)
	}
}

// ArgFlags is a bit set whose valid bits depend on the argument kind.
type ArgFlags uint16

const (
	FlagHasCoerceToType ArgFlags = 1 << iota
	FlagHasPaddingType
	FlagHasUnpaddedCoerceAndExpandType
	FlagPaddingInRegister
	FlagInAllocaSRet
	FlagIndirectByVal
	FlagIndirectRealign
	FlagSRetAfterThis
	FlagInRegister
	FlagCanBeFlattened
	FlagSignExtended
)

// validArgFlags is the closed table of flag bits a kind may carry. Flags
// reported outside a kind's valid set are dropped rather than propagated.
var validArgFlags = [InAlloca + 1]ArgFlags{
	Direct:          FlagHasCoerceToType | FlagHasPaddingType | FlagPaddingInRegister | FlagInRegister | FlagCanBeFlattened,
	Extend:          FlagHasCoerceToType | FlagHasPaddingType | FlagPaddingInRegister | FlagInRegister | FlagSignExtended,
	Indirect:        FlagHasPaddingType | FlagPaddingInRegister | FlagInRegister | FlagIndirectByVal | FlagIndirectRealign | FlagSRetAfterThis,
	IndirectAliased: FlagPaddingInRegister | FlagIndirectRealign,
	Ignore:          FlagPaddingInRegister,
	Expand:          FlagHasPaddingType | FlagPaddingInRegister,
	CoerceAndExpand: FlagHasCoerceToType | FlagHasUnpaddedCoerceAndExpandType | FlagPaddingInRegister,
	InAlloca:        FlagPaddingInRegister | FlagInAllocaSRet,
}

// ValidFlags returns the flag bits a kind may legitimately carry.
func (k ArgKind) ValidFlags() ArgFlags {
	if int(k) >= len(validArgFlags) {
		return 0
	}
	return validArgFlags[k]
}

// ArgInfo is the normalized classification of one argument or return value.
type ArgInfo struct {
	Type  types.TypeID
	Kind  ArgKind
	Flags ArgFlags

	// Extra is the first kind-dependent auxiliary integer:
	// Direct/Extend byte offset, Indirect/IndirectAliased alignment,
	// InAlloca field index.
	Extra uint32
	// Extra2 is the IndirectAliased address-space id.
	Extra2 uint32
}

// projectArg normalizes one raw classification: copy the kind and auxiliary
// values, build the flag set, and mask it against the kind's valid set.
func projectArg(fact *oracle.ArgFact) ArgInfo {
	kind := ArgKind(fact.Kind)
	info := ArgInfo{
		Type: fact.Type,
		Kind: kind,
	}

	var flags ArgFlags
	if fact.HasCoerceToType {
		flags |= FlagHasCoerceToType
	}
	if fact.HasPaddingType {
		flags |= FlagHasPaddingType
	}
	if fact.HasUnpaddedCoerceAndExpandType {
		flags |= FlagHasUnpaddedCoerceAndExpandType
	}
	if fact.PaddingInReg {
		flags |= FlagPaddingInRegister
	}
	if fact.InReg {
		flags |= FlagInRegister
	}
	if fact.CanBeFlattened {
		flags |= FlagCanBeFlattened
	}
	if fact.SignExt {
		flags |= FlagSignExtended
	}
	if fact.IndirectByVal {
		flags |= FlagIndirectByVal
	}
	if fact.IndirectRealign {
		flags |= FlagIndirectRealign
	}
	if fact.SRetAfterThis {
		flags |= FlagSRetAfterThis
	}
	if fact.InAllocaSRet {
		flags |= FlagInAllocaSRet
	}
	info.Flags = flags & kind.ValidFlags()

	switch kind {
	case Direct, Extend:
		info.Extra = fact.DirectOffset
	case Indirect:
		info.Extra = fact.IndirectAlign
	case IndirectAliased:
		info.Extra = fact.IndirectAlign
		info.Extra2 = fact.IndirectAddrSpace
	case InAlloca:
		info.Extra = fact.AllocaFieldIndex
	}

	return info
}
