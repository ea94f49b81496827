package unit

import (
	"fmt"

	"abiscope/internal/oracle"
	"abiscope/internal/types"
)

// SpecializationKind classifies a class template specialization. The
// numbering is part of the interop contract (Invalid occupies slot 0 so
// that "not a specialization" is distinguishable from "undeclared").
type SpecializationKind int32

const (
	SpecializationInvalid SpecializationKind = iota
	SpecializationUndeclared
	SpecializationImplicitInstantiation
	SpecializationExplicitSpecialization
	SpecializationExplicitInstantiationDeclaration
	SpecializationExplicitInstantiationDefinition
)

func (k SpecializationKind) String() string {
	switch k {
	case SpecializationInvalid:
		return "invalid"
	case SpecializationUndeclared:
		return "undeclared"
	case SpecializationImplicitInstantiation:
		return "implicit instantiation"
	case SpecializationExplicitSpecialization:
		return "explicit specialization"
	case SpecializationExplicitInstantiationDeclaration:
		return "explicit instantiation declaration"
	case SpecializationExplicitInstantiationDefinition:
		return "explicit instantiation definition"
	default:
		return fmt.Sprintf("SpecializationKind(%d)", k)
	}
}

// InstantiationMetrics aggregates the outcome of a batch instantiation.
type InstantiationMetrics struct {
	TotalSpecializations     uint64
	PartialSpecializations   uint64
	SuccessfulInstantiations uint64
	FailedInstantiations     uint64
}

type specialization struct {
	decl oracle.DeclID
	kind SpecializationKind
	// partial specializations are enumerated but never instantiated.
	partial bool
	// hasDefinition is false for specializations of templates that are
	// never defined; those are skipped by batch instantiation.
	hasDefinition bool
	// instantiable models whether the semantic engine can instantiate the
	// specialization on demand.
	instantiable bool
	// facts become the record's layout facts upon instantiation.
	facts   *oracle.RecordFacts
	vtables map[int64][]oracle.VTableComponent
}

// AddSpecialization registers a class template specialization declaration.
// facts (and per-offset vtable components) become visible only once the
// specialization is instantiated.
func (u *Unit) AddSpecialization(name string, kind SpecializationKind, partial, hasDefinition, instantiable bool, facts *oracle.RecordFacts, vtables map[int64][]oracle.VTableComponent) oracle.DeclID {
	id := u.AddDecl(Decl{Kind: oracle.DeclTemplateSpecialization, Name: name})
	t := u.types.RegisterRecord(types.DeclRef(id), name)
	u.decls[id].Type = t
	if facts != nil {
		facts.Type = t
	}
	u.specs = append(u.specs, specialization{
		decl:          id,
		kind:          kind,
		partial:       partial,
		hasDefinition: hasDefinition,
		instantiable:  instantiable,
		facts:         facts,
		vtables:       vtables,
	})
	if kind != SpecializationUndeclared {
		// Already-instantiated specializations are complete records.
		u.installSpecialization(len(u.specs) - 1)
	}
	return id
}

// SpecializationKindOf returns the specialization kind of a declaration, or
// SpecializationInvalid when the declaration is not a class template
// specialization.
func (u *Unit) SpecializationKindOf(id oracle.DeclID) SpecializationKind {
	for i := range u.specs {
		if u.specs[i].decl == id {
			return u.specs[i].kind
		}
	}
	return SpecializationInvalid
}

// Instantiate instantiates one specialized class template on demand.
// Returns true when the template is instantiated or was already; false when
// the declaration is not a specialization or instantiation fails.
//
// Instantiate mutates the unit. It must not run concurrently with any other
// query against the same unit.
func (u *Unit) Instantiate(id oracle.DeclID) bool {
	for i := range u.specs {
		if u.specs[i].decl != id {
			continue
		}
		if u.specs[i].kind != SpecializationUndeclared {
			return true
		}
		if !u.specs[i].instantiable {
			return false
		}
		u.specs[i].kind = SpecializationImplicitInstantiation
		u.installSpecialization(i)
		return true
	}
	return false
}

// InstantiateAll instantiates every fully-specialized class template that
// is still undeclared, reporting aggregate metrics instead of per-decl
// errors. Failures never propagate as errors.
//
// InstantiateAll mutates the unit; see Instantiate.
func (u *Unit) InstantiateAll() InstantiationMetrics {
	var metrics InstantiationMetrics
	for i := range u.specs {
		s := &u.specs[i]
		if !s.hasDefinition {
			continue
		}
		if s.partial {
			metrics.PartialSpecializations++
			continue
		}
		metrics.TotalSpecializations++
		if s.kind != SpecializationUndeclared {
			continue
		}
		if !s.instantiable {
			metrics.FailedInstantiations++
			continue
		}
		s.kind = SpecializationImplicitInstantiation
		u.installSpecialization(i)
		metrics.SuccessfulInstantiations++
	}
	return metrics
}

// EnumerateSpecializations invokes fn once per specialized class template,
// including uninstantiated ones, in declaration order. Returning false
// stops early.
func (u *Unit) EnumerateSpecializations(fn func(SpecializationKind, oracle.DeclID) bool) {
	for i := range u.specs {
		if !fn(u.specs[i].kind, u.specs[i].decl) {
			return
		}
	}
}

func (u *Unit) installSpecialization(i int) {
	s := &u.specs[i]
	if s.facts == nil {
		return
	}
	u.records[s.decl] = s.facts
	u.complete[s.facts.Type] = true
	for offset, components := range s.vtables {
		u.vtables[vtableKey{decl: s.decl, offset: offset}] = components
	}
}
