package unit

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/BurntSushi/toml"

	"abiscope/internal/abi"
	"abiscope/internal/funcabi"
	"abiscope/internal/oracle"
	"abiscope/internal/source"
	"abiscope/internal/types"
)

// The manifest format is a TOML snapshot of an analyzed program unit: the
// declarations of interest plus the layout facts the semantic engine
// reported for them. It exists so the CLI (and tests) can exercise the
// projection layer without linking the engine itself.

type manifest struct {
	Name      string             `toml:"name"`
	Target    string             `toml:"target"`
	Files     []fileManifest     `toml:"files"`
	Records   []recordManifest   `toml:"records"`
	Enums     []enumManifest     `toml:"enums"`
	Functions []functionManifest `toml:"functions"`
	Vars      []varManifest      `toml:"vars"`
	Macros    []macroManifest    `toml:"macros"`
	Templates []templateManifest `toml:"templates"`
}

type fileManifest struct {
	Path string `toml:"path"`
	Main bool   `toml:"main"`
}

type enumManifest struct {
	Name    string `toml:"name"`
	Forward bool   `toml:"forward"`
}

type recordManifest struct {
	Name            string           `toml:"name"`
	Forward         bool             `toml:"forward"`
	Uuid            string           `toml:"uuid"`
	Size            int64            `toml:"size"`
	Align           int64            `toml:"align"`
	Cxx             bool             `toml:"cxx"`
	Dynamic         bool             `toml:"dynamic"`
	NonVirtualSize  int64            `toml:"non_virtual_size"`
	NonVirtualAlign int64            `toml:"non_virtual_align"`
	PrimaryBase     string           `toml:"primary_base"`
	HasOwnVFPtr     bool             `toml:"has_own_vfptr"`
	HasOwnVBPtr     bool             `toml:"has_own_vbptr"`
	VBPtrOffset     int64            `toml:"vbptr_offset"`
	VFPtrOffsets    []int64          `toml:"vfptr_offsets"`
	ArgPassing      string           `toml:"arg_passing"`
	Bases           []baseManifest   `toml:"bases"`
	Fields          []fieldManifest  `toml:"fields"`
	VBases          []vbaseManifest  `toml:"vbases"`
	VTables         []vtableManifest `toml:"vtables"`
}

type baseManifest struct {
	Type    string `toml:"type"`
	Offset  int64  `toml:"offset"`
	Virtual bool   `toml:"virtual"`
}

type fieldManifest struct {
	Name      string `toml:"name"`
	Type      string `toml:"type"`
	BitOffset uint64 `toml:"bit_offset"`
	BitField  bool   `toml:"bitfield"`
	BitWidth  uint32 `toml:"bit_width"`
}

type vbaseManifest struct {
	Type     string `toml:"type"`
	Offset   int64  `toml:"offset"`
	VTorDisp bool   `toml:"vtordisp"`
}

type vtableManifest struct {
	Offset  int64                 `toml:"offset"`
	Entries []vtableEntryManifest `toml:"entries"`
}

type vtableEntryManifest struct {
	Kind   string `toml:"kind"`
	Offset int64  `toml:"offset"`
	Method string `toml:"method"`
	RTTI   string `toml:"rtti"`
}

type functionManifest struct {
	Name    string        `toml:"name"`
	Kind    string        `toml:"kind"`     // function|method|constructor|destructor
	Type    string        `toml:"type"`     // function type spec, e.g. "int32(char, *Base)"
	Op      string        `toml:"operator"` // operator spelling, e.g. "+=" or "[]"
	Variant string        `toml:"variant"` // complete|base
	Conv    uint32        `toml:"calling_convention"`
	EffConv *uint32       `toml:"effective_calling_convention"`
	SrcConv uint8         `toml:"source_convention"`
	Flags   []string      `toml:"flags"`
	ReqArgs uint32        `toml:"required_args"`
	RegParm uint32        `toml:"reg_parm"`
	Return  argManifest   `toml:"return"`
	Args    []argManifest `toml:"args"`
}

type argManifest struct {
	Type   string   `toml:"type"`
	Kind   string   `toml:"kind"`
	Flags  []string `toml:"flags"`
	Extra  uint32   `toml:"extra"`
	Extra2 uint32   `toml:"extra2"`
}

type varManifest struct {
	Name  string         `toml:"name"`
	Type  string         `toml:"type"`
	Value *valueManifest `toml:"value"`
}

type valueManifest struct {
	Kind              string   `toml:"kind"` // int|float|nullptr|string|unknown|fail
	Signed            bool     `toml:"signed"`
	BitWidth          uint32   `toml:"bit_width"`
	Int               int64    `toml:"int"`
	Float             float64  `toml:"float"`
	String            string   `toml:"string"`
	LiteralKind       string   `toml:"literal_kind"` // ascii|wide|utf8|utf16|utf32
	CharWidth         uint32   `toml:"char_width"`
	SideEffects       bool     `toml:"side_effects"`
	UndefinedBehavior bool     `toml:"undefined_behavior"`
	Diagnostics       []string `toml:"diagnostics"`
}

type macroManifest struct {
	Name         string   `toml:"name"`
	File         string   `toml:"file"`
	Line         uint32   `toml:"line"`
	Col          uint32   `toml:"col"`
	FunctionLike bool     `toml:"function_like"`
	Builtin      bool     `toml:"builtin"`
	CommaPasting bool     `toml:"comma_pasting"`
	Undefined    bool     `toml:"undefined"`
	Variadic     string   `toml:"variadic"` // none|c99|gnu
	Params       []string `toml:"params"`
}

type templateManifest struct {
	Name          string          `toml:"name"`
	Kind          string          `toml:"kind"` // undeclared|implicit|explicit|decl|def
	Partial       bool            `toml:"partial"`
	HasDefinition bool            `toml:"has_definition"`
	Instantiable  bool            `toml:"instantiable"`
	Record        *recordManifest `toml:"record"`
}

// LoadManifest parses a unit manifest and materializes the program unit
// plus the target it was analyzed for.
func LoadManifest(path string) (*Unit, abi.Target, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, abi.Target{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return buildUnit(&m)
}

// LoadManifestData is LoadManifest over in-memory bytes, for tests.
func LoadManifestData(data string) (*Unit, abi.Target, error) {
	var m manifest
	if _, err := toml.Decode(data, &m); err != nil {
		return nil, abi.Target{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return buildUnit(&m)
}

func buildUnit(m *manifest) (*Unit, abi.Target, error) {
	target, err := targetByName(m.Target)
	if err != nil {
		return nil, abi.Target{}, err
	}

	u := New(m.Name)
	for _, f := range m.Files {
		u.AddFile(f.Path, f.Main)
	}

	// First pass: register record and enum declarations so type references
	// resolve regardless of declaration order.
	for i := range m.Records {
		u.AddRecordDecl(m.Records[i].Name)
	}
	for i := range m.Enums {
		e := &m.Enums[i]
		_, t := u.AddEnumDecl(e.Name)
		if !e.Forward {
			u.MarkComplete(t)
		}
	}

	// Function declarations next: vtable entries refer to them by name.
	for i := range m.Functions {
		if err := loadFunction(u, &m.Functions[i]); err != nil {
			return nil, target, err
		}
	}

	// Second pass: record facts.
	for i := range m.Records {
		rec := &m.Records[i]
		decl, ok := u.LookupDecl(rec.Name)
		if !ok {
			return nil, target, fmt.Errorf("record %q vanished during load", rec.Name)
		}
		if rec.Uuid != "" {
			u.SetUuidAttr(decl, rec.Uuid)
		}
		if rec.Forward {
			continue
		}
		facts, vtables, err := loadRecordFacts(u, rec, decl)
		if err != nil {
			return nil, target, err
		}
		u.SetRecordFacts(decl, facts)
		for offset, components := range vtables {
			u.SetVTableComponents(decl, offset, components)
		}
	}

	for i := range m.Vars {
		if err := loadVar(u, &m.Vars[i]); err != nil {
			return nil, target, err
		}
	}

	for i := range m.Macros {
		loadMacro(u, &m.Macros[i])
	}

	for i := range m.Templates {
		if err := loadTemplate(u, &m.Templates[i]); err != nil {
			return nil, target, err
		}
	}

	return u, target, nil
}

func targetByName(name string) (abi.Target, error) {
	switch name {
	case "", "x86_64-linux-gnu":
		return abi.X86_64LinuxGNU(), nil
	case "x86_64-windows-msvc":
		return abi.X86_64WindowsMSVC(), nil
	default:
		return abi.Target{}, fmt.Errorf("unsupported target %q", name)
	}
}

func loadRecordFacts(u *Unit, rec *recordManifest, decl oracle.DeclID) (*oracle.RecordFacts, map[int64][]oracle.VTableComponent, error) {
	d, _ := u.Decl(decl)
	facts := &oracle.RecordFacts{
		Type:            d.Type,
		Size:            rec.Size,
		Align:           rec.Align,
		IsCxx:           rec.Cxx,
		IsDynamic:       rec.Dynamic,
		NonVirtualSize:  rec.NonVirtualSize,
		NonVirtualAlign: rec.NonVirtualAlign,
		HasOwnVFPtr:     rec.HasOwnVFPtr,
		HasOwnVBPtr:     rec.HasOwnVBPtr,
		VBPtrOffset:     rec.VBPtrOffset,
		VFPtrOffsets:    rec.VFPtrOffsets,
	}

	var err error
	if facts.ArgPassing, err = parseArgPassing(rec.ArgPassing); err != nil {
		return nil, nil, fmt.Errorf("record %q: %w", rec.Name, err)
	}

	if rec.PrimaryBase != "" {
		primary, ok := u.LookupDecl(rec.PrimaryBase)
		if !ok {
			return nil, nil, fmt.Errorf("record %q: unknown primary base %q", rec.Name, rec.PrimaryBase)
		}
		facts.PrimaryBase = primary
	}

	for _, b := range rec.Bases {
		baseDecl, baseType, err := resolveRecordRef(u, b.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("record %q: %w", rec.Name, err)
		}
		facts.Bases = append(facts.Bases, oracle.BaseFact{
			Decl:    baseDecl,
			Type:    baseType,
			Offset:  b.Offset,
			Virtual: b.Virtual,
		})
	}

	for _, f := range rec.Fields {
		fieldType, err := u.ResolveTypeSpec(f.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("record %q field %q: %w", rec.Name, f.Name, err)
		}
		fieldDecl := u.AddDecl(Decl{Kind: oracle.DeclField, Name: rec.Name + "::" + f.Name, Type: fieldType})
		facts.Fields = append(facts.Fields, oracle.FieldFact{
			Name:       f.Name,
			Decl:       fieldDecl,
			Type:       fieldType,
			BitOffset:  f.BitOffset,
			IsBitField: f.BitField,
			BitWidth:   f.BitWidth,
		})
	}

	for _, vb := range rec.VBases {
		vbDecl, vbType, err := resolveRecordRef(u, vb.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("record %q: %w", rec.Name, err)
		}
		facts.VBases = append(facts.VBases, oracle.VBaseFact{
			Decl:        vbDecl,
			Type:        vbType,
			Offset:      vb.Offset,
			HasVTorDisp: vb.VTorDisp,
		})
	}

	vtables := make(map[int64][]oracle.VTableComponent, len(rec.VTables))
	for _, vt := range rec.VTables {
		components := make([]oracle.VTableComponent, 0, len(vt.Entries))
		for _, e := range vt.Entries {
			c, err := loadVTableEntry(u, &e)
			if err != nil {
				return nil, nil, fmt.Errorf("record %q: %w", rec.Name, err)
			}
			components = append(components, c)
		}
		vtables[vt.Offset] = components
	}

	return facts, vtables, nil
}

func loadVTableEntry(u *Unit, e *vtableEntryManifest) (oracle.VTableComponent, error) {
	var c oracle.VTableComponent
	switch e.Kind {
	case "vcall-offset":
		c.Kind = oracle.ComponentVCallOffset
		c.Offset = e.Offset
	case "vbase-offset":
		c.Kind = oracle.ComponentVBaseOffset
		c.Offset = e.Offset
	case "offset-to-top":
		c.Kind = oracle.ComponentOffsetToTop
		c.Offset = e.Offset
	case "rtti":
		c.Kind = oracle.ComponentRTTI
		decl, _, err := resolveRecordRef(u, e.RTTI)
		if err != nil {
			return c, err
		}
		c.RTTI = decl
	case "function", "complete-dtor", "deleting-dtor", "unused":
		switch e.Kind {
		case "function":
			c.Kind = oracle.ComponentFunctionPointer
		case "complete-dtor":
			c.Kind = oracle.ComponentCompleteDtorPointer
		case "deleting-dtor":
			c.Kind = oracle.ComponentDeletingDtorPointer
		case "unused":
			c.Kind = oracle.ComponentUnusedFunctionPointer
		}
		decl, ok := u.LookupDecl(e.Method)
		if !ok {
			return c, fmt.Errorf("unknown vtable method %q", e.Method)
		}
		c.Method = decl
	default:
		return c, fmt.Errorf("unknown vtable entry kind %q", e.Kind)
	}
	return c, nil
}

func loadFunction(u *Unit, f *functionManifest) error {
	kind := oracle.DeclFunction
	switch f.Kind {
	case "", "function":
	case "method":
		kind = oracle.DeclMethod
	case "constructor":
		kind = oracle.DeclConstructor
	case "destructor":
		kind = oracle.DeclDestructor
	default:
		return fmt.Errorf("function %q: unknown kind %q", f.Name, f.Kind)
	}

	fnType := types.NoTypeID
	if f.Type != "" {
		t, err := u.ResolveTypeSpec(f.Type)
		if err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
		fnType = t
	}
	op := funcabi.OpNone
	if f.Op != "" {
		k, ok := funcabi.OperatorKindForSpelling(f.Op)
		if !ok {
			return fmt.Errorf("function %q: unknown operator %q", f.Name, f.Op)
		}
		op = k
	}
	decl := u.AddDecl(Decl{Kind: kind, Name: f.Name, Type: fnType, Operator: op})

	// A function entry without classification facts is declaration-only
	// (e.g. referenced from a vtable).
	if f.Return.Type == "" && len(f.Args) == 0 && len(f.Flags) == 0 {
		return nil
	}

	ret, err := loadArg(u, &f.Return)
	if err != nil {
		return fmt.Errorf("function %q return: %w", f.Name, err)
	}
	arrangement := &oracle.Arrangement{
		CallingConvention:          f.Conv,
		EffectiveCallingConvention: f.Conv,
		AstCallingConvention:       f.SrcConv,
		RequiredArgs:               f.ReqArgs,
		RegParm:                    f.RegParm,
		Return:                     ret,
	}
	if f.EffConv != nil {
		arrangement.EffectiveCallingConvention = *f.EffConv
	}
	for i := range f.Args {
		arg, err := loadArg(u, &f.Args[i])
		if err != nil {
			return fmt.Errorf("function %q arg %d: %w", f.Name, i, err)
		}
		arrangement.Args = append(arrangement.Args, arg)
	}
	for _, flag := range f.Flags {
		if err := setFunctionFlag(arrangement, flag); err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
	}

	variant := oracle.VariantComplete
	if f.Variant == "base" {
		variant = oracle.VariantBase
	}
	u.SetArrangement(decl, variant, arrangement)
	return nil
}

func setFunctionFlag(a *oracle.Arrangement, flag string) error {
	switch flag {
	case "instance-method":
		a.IsInstanceMethod = true
	case "chain-call":
		a.IsChainCall = true
	case "noreturn":
		a.IsNoReturn = true
	case "returns-retained":
		a.IsReturnsRetained = true
	case "no-caller-saved-regs":
		a.IsNoCallerSavedRegs = true
	case "regparm":
		a.HasRegParm = true
	case "no-cf-check":
		a.IsNoCfCheck = true
	case "variadic":
		a.IsVariadic = true
	case "inalloca":
		a.UsesInAlloca = true
	case "ext-parameter-info":
		a.HasExtParameterInfo = true
	default:
		return fmt.Errorf("unknown function flag %q", flag)
	}
	return nil
}

func loadArg(u *Unit, a *argManifest) (oracle.ArgFact, error) {
	var fact oracle.ArgFact
	t, err := u.ResolveTypeSpec(a.Type)
	if err != nil {
		return fact, err
	}
	fact.Type = t

	kinds := map[string]uint8{
		"direct": 0, "extend": 1, "indirect": 2, "indirect-aliased": 3,
		"ignore": 4, "expand": 5, "coerce-and-expand": 6, "inalloca": 7,
	}
	kind, ok := kinds[a.Kind]
	if !ok {
		return fact, fmt.Errorf("unknown argument kind %q", a.Kind)
	}
	fact.Kind = kind

	for _, flag := range a.Flags {
		switch flag {
		case "coerce-to-type":
			fact.HasCoerceToType = true
		case "padding-type":
			fact.HasPaddingType = true
		case "unpadded-coerce-and-expand-type":
			fact.HasUnpaddedCoerceAndExpandType = true
		case "padding-in-reg":
			fact.PaddingInReg = true
		case "in-reg":
			fact.InReg = true
		case "can-be-flattened":
			fact.CanBeFlattened = true
		case "sign-extended":
			fact.SignExt = true
		case "byval":
			fact.IndirectByVal = true
		case "realign":
			fact.IndirectRealign = true
		case "sret-after-this":
			fact.SRetAfterThis = true
		case "inalloca-sret":
			fact.InAllocaSRet = true
		default:
			return fact, fmt.Errorf("unknown argument flag %q", flag)
		}
	}

	switch fact.Kind {
	case 0, 1: // direct, extend
		fact.DirectOffset = a.Extra
	case 2: // indirect
		fact.IndirectAlign = a.Extra
	case 3: // indirect-aliased
		fact.IndirectAlign = a.Extra
		fact.IndirectAddrSpace = a.Extra2
	case 7: // inalloca
		fact.AllocaFieldIndex = a.Extra
	}
	return fact, nil
}

func loadVar(u *Unit, v *varManifest) error {
	t, err := u.ResolveTypeSpec(v.Type)
	if err != nil {
		return fmt.Errorf("var %q: %w", v.Name, err)
	}
	init := oracle.NoExprID
	if v.Value != nil {
		res, ok, err := loadValue(v.Value)
		if err != nil {
			return fmt.Errorf("var %q: %w", v.Name, err)
		}
		init = u.AddExpr(res, ok)
	}
	u.AddVar(v.Name, t, init)
	return nil
}

func loadValue(v *valueManifest) (*oracle.EvalResult, bool, error) {
	res := &oracle.EvalResult{
		HasSideEffects:       v.SideEffects,
		HasUndefinedBehavior: v.UndefinedBehavior,
		Diagnostics:          v.Diagnostics,
	}
	switch v.Kind {
	case "int":
		res.Kind = oracle.EvalInt
		res.Signed = v.Signed
		res.BitWidth = v.BitWidth
		res.Bits = uint64(v.Int)
	case "float":
		res.Kind = oracle.EvalFloat
		res.BitWidth = v.BitWidth
		res.Bits = floatBits(v.Float, v.BitWidth)
	case "nullptr":
		res.Kind = oracle.EvalNullPointer
	case "string":
		res.Kind = oracle.EvalLValue
		lit, err := loadLiteral(v)
		if err != nil {
			return nil, false, err
		}
		res.Literal = lit
	case "unknown":
		res.Kind = oracle.EvalOther
	case "fail":
		return res, false, nil
	default:
		return nil, false, fmt.Errorf("unknown value kind %q", v.Kind)
	}
	return res, true, nil
}

func loadLiteral(v *valueManifest) (*oracle.StringLiteral, error) {
	lit := &oracle.StringLiteral{CharByteWidth: v.CharWidth}
	switch v.LiteralKind {
	case "", "ascii":
		lit.Kind = oracle.LiteralAscii
	case "wide":
		lit.Kind = oracle.LiteralWide
	case "utf8":
		lit.Kind = oracle.LiteralUTF8
	case "utf16":
		lit.Kind = oracle.LiteralUTF16
	case "utf32":
		lit.Kind = oracle.LiteralUTF32
	default:
		return nil, fmt.Errorf("unknown literal kind %q", v.LiteralKind)
	}
	if lit.CharByteWidth == 0 {
		switch lit.Kind {
		case oracle.LiteralUTF16:
			lit.CharByteWidth = 2
		case oracle.LiteralWide, oracle.LiteralUTF32:
			lit.CharByteWidth = 4
		default:
			lit.CharByteWidth = 1
		}
	}
	lit.Bytes = encodeLiteral(v.String, lit.CharByteWidth)
	return lit, nil
}

// encodeLiteral lays a literal's code units out in memory the way the
// evaluator hands them over: host endianness, width bytes per unit.
func encodeLiteral(s string, width uint32) []byte {
	switch width {
	case 2:
		units := utf16.Encode([]rune(s))
		buf := make([]byte, 0, len(units)*2)
		for _, unit := range units {
			buf = binary.NativeEndian.AppendUint16(buf, unit)
		}
		return buf
	case 4:
		runes := []rune(s)
		buf := make([]byte, 0, len(runes)*4)
		for _, r := range runes {
			buf = binary.NativeEndian.AppendUint32(buf, uint32(r))
		}
		return buf
	default:
		return []byte(s)
	}
}

func floatBits(v float64, bitWidth uint32) uint64 {
	if bitWidth == 32 {
		return uint64(math.Float32bits(float32(v)))
	}
	return math.Float64bits(v)
}

func loadMacro(u *Unit, m *macroManifest) {
	var loc source.Location
	if m.File != "" {
		loc.File = u.files.Add(m.File, false)
		loc.Line = m.Line
		loc.Col = m.Col
	}
	variadic := oracle.MacroNotVariadic
	switch m.Variadic {
	case "c99":
		variadic = oracle.MacroVariadicC99
	case "gnu":
		variadic = oracle.MacroVariadicGNU
	}
	u.AddMacro(oracle.MacroRecord{
		Name:            m.Name,
		Location:        loc,
		WasUndefined:    m.Undefined,
		IsFunctionLike:  m.FunctionLike,
		IsBuiltin:       m.Builtin,
		HasCommaPasting: m.CommaPasting,
		VariadicKind:    variadic,
		Params:          m.Params,
	})
}

func loadTemplate(u *Unit, t *templateManifest) error {
	kind := SpecializationUndeclared
	switch t.Kind {
	case "", "undeclared":
	case "implicit":
		kind = SpecializationImplicitInstantiation
	case "explicit":
		kind = SpecializationExplicitSpecialization
	case "decl":
		kind = SpecializationExplicitInstantiationDeclaration
	case "def":
		kind = SpecializationExplicitInstantiationDefinition
	default:
		return fmt.Errorf("template %q: unknown kind %q", t.Name, t.Kind)
	}

	if t.Record != nil {
		// Register first so the record's own name resolves inside its facts
		// (self-referential fields, recursive bases), then patch facts in.
		id := u.AddSpecialization(t.Name, kind, t.Partial, t.HasDefinition, t.Instantiable, nil, nil)
		f, vt, err := loadRecordFacts(u, t.Record, id)
		if err != nil {
			return err
		}
		d, _ := u.Decl(id)
		f.Type = d.Type
		for i := range u.specs {
			if u.specs[i].decl == id {
				u.specs[i].facts = f
				u.specs[i].vtables = vt
				if u.specs[i].kind != SpecializationUndeclared {
					u.installSpecialization(i)
				}
				break
			}
		}
		return nil
	}
	u.AddSpecialization(t.Name, kind, t.Partial, t.HasDefinition, t.Instantiable, nil, nil)
	return nil
}

func parseArgPassing(s string) (oracle.ArgPassingKind, error) {
	switch s {
	case "", "registers":
		return oracle.CanPassInRegisters, nil
	case "no-registers":
		return oracle.CannotPassInRegisters, nil
	case "never-registers":
		return oracle.CanNeverPassInRegisters, nil
	default:
		return oracle.ArgPassingInvalid, fmt.Errorf("unknown arg_passing %q", s)
	}
}

// ResolveTypeSpec resolves a textual type spec: primitives by name
// ("int32", "float64", "void", ...), pointers and references by "*" / "&"
// prefix, record types by declared name, and function types as
// "result(param, param, ...)".
func (u *Unit) ResolveTypeSpec(spec string) (types.TypeID, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return types.NoTypeID, fmt.Errorf("empty type spec")
	}
	if i := strings.IndexByte(spec, '('); i >= 0 && strings.HasSuffix(spec, ")") {
		return u.resolveFnSpec(spec[:i], spec[i+1:len(spec)-1])
	}
	if strings.HasPrefix(spec, "*") {
		elem, err := u.ResolveTypeSpec(spec[1:])
		if err != nil {
			return types.NoTypeID, err
		}
		return u.types.RegisterPointer(elem), nil
	}
	if strings.HasPrefix(spec, "&") {
		elem, err := u.ResolveTypeSpec(spec[1:])
		if err != nil {
			return types.NoTypeID, err
		}
		return u.types.RegisterReference(elem), nil
	}

	b := u.types.Builtins()
	switch spec {
	case "void":
		return b.Void, nil
	case "bool":
		return b.Bool, nil
	case "char":
		return b.Char, nil
	case "wchar":
		return b.WChar, nil
	case "int32":
		return b.Int32, nil
	case "int64":
		return b.Int64, nil
	case "uint32":
		return b.Uint32, nil
	case "uint64":
		return b.Uint64, nil
	case "float32":
		return b.Float32, nil
	case "float64":
		return b.Float64, nil
	}

	if decl, ok := u.LookupDecl(spec); ok {
		d, _ := u.Decl(decl)
		if d.Type != types.NoTypeID {
			return d.Type, nil
		}
	}
	return types.NoTypeID, fmt.Errorf("unknown type spec %q", spec)
}

func (u *Unit) resolveFnSpec(result, params string) (types.TypeID, error) {
	res, err := u.ResolveTypeSpec(result)
	if err != nil {
		return types.NoTypeID, err
	}
	var paramTypes []types.TypeID
	variadic := false
	if params = strings.TrimSpace(params); params != "" {
		for _, p := range strings.Split(params, ",") {
			p = strings.TrimSpace(p)
			if p == "..." {
				variadic = true
				continue
			}
			t, err := u.ResolveTypeSpec(p)
			if err != nil {
				return types.NoTypeID, err
			}
			paramTypes = append(paramTypes, t)
		}
	}
	return u.types.RegisterFn(paramTypes, res, variadic), nil
}

func resolveRecordRef(u *Unit, name string) (oracle.DeclID, types.TypeID, error) {
	decl, ok := u.LookupDecl(name)
	if !ok {
		return oracle.NoDeclID, types.NoTypeID, fmt.Errorf("unknown record %q", name)
	}
	d, _ := u.Decl(decl)
	return decl, d.Type, nil
}
