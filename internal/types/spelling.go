package types

import (
	"fmt"
	"strings"
)

// Spelling renders a type the way it would appear in a C++ header.
func (in *Interner) Spelling(id TypeID) string {
	return strings.TrimSpace(in.SpellingWithPlaceholder(id, ""))
}

// SpellingWithPlaceholder renders a type with a declarator name embedded at
// the position the name would occupy in a declaration, e.g. a pointer to
// function renders as "int (*name)(char)". Binding generators use this to
// emit typedefs and parameter lists without re-implementing declarator
// layout rules.
func (in *Interner) SpellingWithPlaceholder(id TypeID, placeholder string) string {
	return in.spell(id, placeholder)
}

func (in *Interner) spell(id TypeID, decl string) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return joinSpelling("<invalid>", decl)
	}
	switch tt.Kind {
	case KindVoid:
		return joinSpelling("void", decl)
	case KindBool:
		return joinSpelling("bool", decl)
	case KindChar:
		return joinSpelling("char", decl)
	case KindWChar:
		return joinSpelling("wchar_t", decl)
	case KindInt:
		return joinSpelling(fmt.Sprintf("int%d_t", tt.Width), decl)
	case KindUint:
		return joinSpelling(fmt.Sprintf("uint%d_t", tt.Width), decl)
	case KindFloat:
		if tt.Width == Width32 {
			return joinSpelling("float", decl)
		}
		return joinSpelling("double", decl)
	case KindPointer:
		return in.spellIndirect(tt.Elem, "*"+decl)
	case KindReference:
		return in.spellIndirect(tt.Elem, "&"+decl)
	case KindRecord, KindEnum, KindDependent:
		if name, ok := in.names[id]; ok {
			return joinSpelling(name, decl)
		}
		return joinSpelling(fmt.Sprintf("type#%d", id), decl)
	case KindFunction:
		info, ok := in.FnInfo(id)
		if !ok {
			return joinSpelling("<invalid fn>", decl)
		}
		params := make([]string, 0, len(info.Params)+1)
		for _, p := range info.Params {
			params = append(params, in.Spelling(p))
		}
		if info.Variadic {
			params = append(params, "...")
		}
		if len(params) == 0 {
			params = append(params, "void")
		}
		return in.spell(info.Result, fmt.Sprintf("%s(%s)", decl, strings.Join(params, ", ")))
	default:
		return joinSpelling(tt.Kind.String(), decl)
	}
}

// spellIndirect wraps the declarator in parentheses when the element type
// binds tighter than the pointer/reference marker (functions do).
func (in *Interner) spellIndirect(elem TypeID, decl string) string {
	tt, ok := in.Lookup(elem)
	if ok && tt.Kind == KindFunction {
		return in.spell(elem, "("+decl+")")
	}
	return in.spell(elem, decl)
}

func joinSpelling(base, decl string) string {
	if decl == "" {
		return base
	}
	return base + " " + decl
}
