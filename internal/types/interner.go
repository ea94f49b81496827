package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid  TypeID
	Void     TypeID
	Bool     TypeID
	Char     TypeID
	WChar    TypeID
	Int32    TypeID
	Int64    TypeID
	Uint32   TypeID
	Uint64   TypeID
	Float32  TypeID
	Float64  TypeID
	VoidPtr  TypeID // void*
	VoidPtr2 TypeID // void**, the type of a vtable pointer slot
}

type typeKey struct {
	kind    Kind
	elem    TypeID
	decl    DeclRef
	width   Width
	payload uint32
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	names    map[TypeID]string
	fns      []FnInfo
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1), // TypeID 0 reserved for NoTypeID
		index: make(map[typeKey]TypeID),
		names: make(map[TypeID]string),
	}
	in.builtins = Builtins{
		Invalid: in.internRaw(Type{Kind: KindInvalid}),
		Void:    in.internRaw(Type{Kind: KindVoid}),
		Bool:    in.internRaw(Type{Kind: KindBool, Width: Width8}),
		Char:    in.internRaw(Type{Kind: KindChar, Width: Width8}),
		WChar:   in.internRaw(Type{Kind: KindWChar, Width: Width32}),
		Int32:   in.internRaw(Type{Kind: KindInt, Width: Width32}),
		Int64:   in.internRaw(Type{Kind: KindInt, Width: Width64}),
		Uint32:  in.internRaw(Type{Kind: KindUint, Width: Width32}),
		Uint64:  in.internRaw(Type{Kind: KindUint, Width: Width64}),
		Float32: in.internRaw(Type{Kind: KindFloat, Width: Width32}),
		Float64: in.internRaw(Type{Kind: KindFloat, Width: Width64}),
	}
	in.builtins.VoidPtr = in.RegisterPointer(in.builtins.Void)
	in.builtins.VoidPtr2 = in.RegisterPointer(in.builtins.VoidPtr)
	return in
}

// Builtins returns the TypeIDs of the seeded primitives.
func (in *Interner) Builtins() Builtins { return in.builtins }

// Lookup retrieves the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// RegisterPointer creates or finds a pointer type.
func (in *Interner) RegisterPointer(elem TypeID) TypeID {
	return in.internRaw(Type{Kind: KindPointer, Elem: elem})
}

// RegisterReference creates or finds a reference type.
func (in *Interner) RegisterReference(elem TypeID) TypeID {
	return in.internRaw(Type{Kind: KindReference, Elem: elem})
}

// RegisterRecord creates or finds the type of a record declaration.
func (in *Interner) RegisterRecord(decl DeclRef, name string) TypeID {
	id := in.internRaw(Type{Kind: KindRecord, Decl: decl})
	if name != "" {
		in.names[id] = name
	}
	return id
}

// RegisterEnum creates or finds the type of an enum declaration.
func (in *Interner) RegisterEnum(decl DeclRef, name string) TypeID {
	id := in.internRaw(Type{Kind: KindEnum, Decl: decl})
	if name != "" {
		in.names[id] = name
	}
	return id
}

// RegisterDependent creates or finds a dependent (template-parameter-shaped)
// type. Such a type must never reach a layout query.
func (in *Interner) RegisterDependent(decl DeclRef, name string) TypeID {
	id := in.internRaw(Type{Kind: KindDependent, Decl: decl})
	if name != "" {
		in.names[id] = name
	}
	return id
}

// Name returns the declared name of a nominal type, if any.
func (in *Interner) Name(id TypeID) (string, bool) {
	if in == nil {
		return "", false
	}
	name, ok := in.names[id]
	return name, ok
}

func (in *Interner) internRaw(t Type) TypeID {
	key := typeKey{kind: t.Kind, elem: t.Elem, decl: t.Decl, width: t.Width, payload: t.Payload}
	if id, ok := in.index[key]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type interner overflow: %w", err))
	}
	in.types = append(in.types, t)
	id := TypeID(slot)
	in.index[key] = id
	return id
}
