package funcabi

import "fmt"

// OperatorKind identifies an overloadable C++ operator. The numbering is
// part of the interop contract.
type OperatorKind int32

const (
	OpNone OperatorKind = iota
	OpNew
	OpDelete
	OpArrayNew
	OpArrayDelete
	OpPlus
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpCaret
	OpAmp
	OpPipe
	OpTilde
	OpExclaim
	OpEqual
	OpLess
	OpGreater
	OpPlusEqual
	OpMinusEqual
	OpStarEqual
	OpSlashEqual
	OpPercentEqual
	OpCaretEqual
	OpAmpEqual
	OpPipeEqual
	OpLessLess
	OpGreaterGreater
	OpLessLessEqual
	OpGreaterGreaterEqual
	OpEqualEqual
	OpExclaimEqual
	OpLessEqual
	OpGreaterEqual
	OpSpaceship
	OpAmpAmp
	OpPipePipe
	OpPlusPlus
	OpMinusMinus
	OpComma
	OpArrowStar
	OpArrow
	OpCall
	OpSubscript
	OpConditional
	OpCoawait
	OpInvalid
)

// OperatorInfo describes one overloadable operator.
type OperatorInfo struct {
	Kind         OperatorKind
	Name         string
	Spelling     string
	IsUnary      bool
	IsBinary     bool
	IsMemberOnly bool
}

// operatorTable is a closed static table; OperatorInfoFor indexes it by
// kind. The OpInvalid row is returned for any out-of-range kind.
var operatorTable = [...]OperatorInfo{
	{OpNone, "", "", false, false, false},
	{OpNew, "New", "new", true, true, false},
	{OpDelete, "Delete", "delete", true, true, false},
	{OpArrayNew, "Array_New", "new[]", true, true, false},
	{OpArrayDelete, "Array_Delete", "delete[]", true, true, false},
	{OpPlus, "Plus", "+", true, true, false},
	{OpMinus, "Minus", "-", true, true, false},
	{OpStar, "Star", "*", true, true, false},
	{OpSlash, "Slash", "/", false, true, false},
	{OpPercent, "Percent", "%", false, true, false},
	{OpCaret, "Caret", "^", false, true, false},
	{OpAmp, "Amp", "&", true, true, false},
	{OpPipe, "Pipe", "|", false, true, false},
	{OpTilde, "Tilde", "~", true, false, false},
	{OpExclaim, "Exclaim", "!", true, false, false},
	{OpEqual, "Equal", "=", false, true, true},
	{OpLess, "Less", "<", false, true, false},
	{OpGreater, "Greater", ">", false, true, false},
	{OpPlusEqual, "PlusEqual", "+=", false, true, false},
	{OpMinusEqual, "MinusEqual", "-=", false, true, false},
	{OpStarEqual, "StarEqual", "*=", false, true, false},
	{OpSlashEqual, "SlashEqual", "/=", false, true, false},
	{OpPercentEqual, "PercentEqual", "%=", false, true, false},
	{OpCaretEqual, "CaretEqual", "^=", false, true, false},
	{OpAmpEqual, "AmpEqual", "&=", false, true, false},
	{OpPipeEqual, "PipeEqual", "|=", false, true, false},
	{OpLessLess, "LessLess", "<<", false, true, false},
	{OpGreaterGreater, "GreaterGreater", ">>", false, true, false},
	{OpLessLessEqual, "LessLessEqual", "<<=", false, true, false},
	{OpGreaterGreaterEqual, "GreaterGreaterEqual", ">>=", false, true, false},
	{OpEqualEqual, "EqualEqual", "==", false, true, false},
	{OpExclaimEqual, "ExclaimEqual", "!=", false, true, false},
	{OpLessEqual, "LessEqual", "<=", false, true, false},
	{OpGreaterEqual, "GreaterEqual", ">=", false, true, false},
	{OpSpaceship, "Spaceship", "<=>", false, true, false},
	{OpAmpAmp, "AmpAmp", "&&", false, true, false},
	{OpPipePipe, "PipePipe", "||", false, true, false},
	{OpPlusPlus, "PlusPlus", "++", true, false, false},
	{OpMinusMinus, "MinusMinus", "--", true, false, false},
	{OpComma, "Comma", ",", false, true, false},
	{OpArrowStar, "ArrowStar", "->*", false, true, false},
	{OpArrow, "Arrow", "->", true, false, true},
	{OpCall, "Call", "()", true, true, true},
	{OpSubscript, "Subscript", "[]", false, true, true},
	{OpConditional, "Conditional", "?", false, true, false},
	{OpCoawait, "Coawait", "co_await", true, false, false},
	{OpInvalid, "", "", false, false, false},
}

// operatorBySpelling indexes the table by source spelling ("+=", "[]", ...).
// Spellings are unique across the table.
var operatorBySpelling = func() map[string]OperatorKind {
	m := make(map[string]OperatorKind, len(operatorTable))
	for _, row := range operatorTable {
		if row.Spelling != "" {
			m[row.Spelling] = row.Kind
		}
	}
	return m
}()

// OperatorKindForSpelling resolves a source spelling to its operator kind.
func OperatorKindForSpelling(spelling string) (OperatorKind, bool) {
	k, ok := operatorBySpelling[spelling]
	return k, ok
}

// OperatorInfoFor returns the table row for a kind. Out-of-range kinds get
// the OpInvalid row rather than an error.
func OperatorInfoFor(kind OperatorKind) OperatorInfo {
	if kind < OpNone || kind > OpInvalid {
		return operatorTable[OpInvalid]
	}
	return operatorTable[kind]
}

func (k OperatorKind) String() string {
	info := OperatorInfoFor(k)
	if info.Name == "" {
		return fmt.Sprintf("OperatorKind(%d)", int32(k))
	}
	return info.Name
}
