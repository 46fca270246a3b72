package optable

// Operators with a precedence at or below this are rendered with spaces
// around them.
const paddingThreshold = 50

// Precedence levels of the built-in operators.
const (
	PrecPostfix     = 130
	PrecSubscript   = 120
	PrecPower       = 110
	PrecUnary       = 100
	PrecProduct     = 90
	PrecSum         = 80
	PrecMap         = 70
	PrecCompare     = 60
	PrecEquality    = 55
	PrecAnd         = 50
	PrecOr          = 45
	PrecPreposition = 40
	PrecEquation    = 30
	PrecElse        = 25
	PrecDefine      = 20
	PrecReturn      = 10
)

// Call names of operators the compiler treats specially when decoding.
const (
	NameEquation = "eq"
	NameElse     = "else"
	NameGet      = "get"
	NameDefine   = "define"
	NameReturn   = "return"
	NameList     = "list"
	NameClosure  = "#"
	NameOperator = "operator"
)

// Prepositions are the word operators that build pairs.
var Prepositions = map[string]bool{"at": true, "in": true, "to": true}

var builtins = []struct {
	name   string
	assoc  Assoc
	prec   int
	symbol string
}{
	{"factorial", Postfix, PrecPostfix, "!"},
	{NameGet, Infix, PrecSubscript, "::"},
	{"pow", Infix, PrecPower, "^"},
	{"neg", Prefix, PrecUnary, "-"},
	{"not", Prefix, PrecUnary, "!"},
	{"inout", Prefix, PrecUnary, "&"},
	{"mul", Infix, PrecProduct, "*"},
	{"div", Infix, PrecProduct, "/"},
	{"mod", Infix, PrecProduct, "%"},
	{"add", Infix, PrecSum, "+"},
	{"concat", Infix, PrecSum, "++"},
	{"sub", Infix, PrecSum, "-"},
	{"map", Infix, PrecMap, "|"},
	{"filter", Infix, PrecMap, "|?"},
	{"lt", Infix, PrecCompare, "<"},
	{"le", Infix, PrecCompare, "<="},
	{"gt", Infix, PrecCompare, ">"},
	{"ge", Infix, PrecCompare, ">="},
	{"equals", Infix, PrecEquality, "=="},
	{"neq", Infix, PrecEquality, "!="},
	{"and", Infix, PrecAnd, "&&"},
	{"or", Infix, PrecOr, "||"},
	{"at", Infix, PrecPreposition, "at"},
	{"in", Infix, PrecPreposition, "in"},
	{"to", Infix, PrecPreposition, "to"},
	{NameEquation, Infix, PrecEquation, "="},
	{NameDefine, Infix, PrecDefine, ":="},
	{NameElse, Infix, PrecElse, "else"},
	{NameReturn, Prefix, PrecReturn, "return"},
}

// Default returns a new table with the built-in operators.
func Default() *Table {
	t := New()
	for _, b := range builtins {
		t.MustDefine(b.name, b.assoc, b.prec, b.symbol)
	}
	return t
}
