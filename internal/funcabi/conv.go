package funcabi

import "fmt"

// CallingConv is a target-level numeric calling convention identifier. The
// numbering is part of the interop contract and pinned by tests.
type CallingConv uint32

const (
	ConvC            CallingConv = 0
	ConvFast         CallingConv = 8
	ConvCold         CallingConv = 9
	ConvPreserveMost CallingConv = 14
	ConvPreserveAll  CallingConv = 15
	ConvSwift        CallingConv = 16
	ConvTail         CallingConv = 18
	ConvCFGuardCheck CallingConv = 19

	// Target-specific conventions start at 64.
	ConvX86StdCall        CallingConv = 64
	ConvX86FastCall       CallingConv = 65
	ConvX86ThisCall       CallingConv = 70
	ConvX86_64SysV        CallingConv = 78
	ConvWin64             CallingConv = 79
	ConvX86VectorCall     CallingConv = 80
	ConvX86RegCall        CallingConv = 92
	ConvAArch64VectorCall CallingConv = 97
)

func (c CallingConv) String() string {
	switch c {
	case ConvC:
		return "ccc"
	case ConvFast:
		return "fastcc"
	case ConvCold:
		return "coldcc"
	case ConvPreserveMost:
		return "preserve_mostcc"
	case ConvPreserveAll:
		return "preserve_allcc"
	case ConvSwift:
		return "swiftcc"
	case ConvTail:
		return "tailcc"
	case ConvCFGuardCheck:
		return "cfguard_checkcc"
	case ConvX86StdCall:
		return "x86_stdcallcc"
	case ConvX86FastCall:
		return "x86_fastcallcc"
	case ConvX86ThisCall:
		return "x86_thiscallcc"
	case ConvX86_64SysV:
		return "x86_64_sysvcc"
	case ConvWin64:
		return "win64cc"
	case ConvX86VectorCall:
		return "x86_vectorcallcc"
	case ConvX86RegCall:
		return "x86_regcallcc"
	case ConvAArch64VectorCall:
		return "aarch64_vector_pcs"
	default:
		return fmt.Sprintf("cc(%d)", uint32(c))
	}
}

// SourceConv is the source-level named calling convention. It can disagree
// with CallingConv: a source-level convention may be overridden by target
// defaults, which is why both are exposed.
type SourceConv uint8

const (
	SourceC SourceConv = iota
	SourceX86StdCall
	SourceX86FastCall
	SourceX86ThisCall
	SourceX86VectorCall
	SourceX86Pascal
	SourceWin64
	SourceX86_64SysV
	SourceX86RegCall
	SourceAAPCS
	SourceAAPCSVFP
	SourceIntelOclBicc
	SourceSpirFunction
	SourceOpenCLKernel
	SourceSwift
	SourcePreserveMost
	SourcePreserveAll
	SourceAArch64VectorCall
)

func (c SourceConv) String() string {
	names := [...]string{
		"cdecl", "stdcall", "fastcall", "thiscall", "vectorcall", "pascal",
		"ms_abi", "sysv_abi", "regcall", "pcs(\"aapcs\")", "pcs(\"aapcs-vfp\")",
		"intel_ocl_bicc", "spir_function", "opencl_kernel", "swiftcall",
		"preserve_most", "preserve_all", "aarch64_vector_pcs",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return fmt.Sprintf("SourceConv(%d)", uint8(c))
}
