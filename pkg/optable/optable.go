// Package optable keeps the operator table shared by the compiler and the
// evaluator.
//
// Every operator has a canonical call name, an associativity, a precedence
// and usually a symbolic spelling. The compiler turns "a+b" into the call
// add(a,b) by consulting the table; the infix renderer goes the other way.
package optable

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"
)

// Assoc is the associativity of an operator, describing where its operands
// are.
type Assoc uint8

// Possible values of Assoc.
const (
	Prefix Assoc = iota
	Infix
	Postfix
)

var assocNames = [...]string{Prefix: "prefix", Infix: "infix", Postfix: "postfix"}

func (a Assoc) String() string {
	if int(a) < len(assocNames) {
		return assocNames[a]
	}
	return "assoc(" + fmt.Sprint(int(a)) + ")"
}

// ParseAssoc parses the name of an associativity.
func ParseAssoc(s string) (Assoc, bool) {
	for i, name := range assocNames {
		if name == s {
			return Assoc(i), true
		}
	}
	return 0, false
}

// Operator is the metadata of one operator.
type Operator struct {
	// Name is the call name the operator compiles to.
	Name  string
	Assoc Assoc
	// Precedence decides grouping; higher binds tighter.
	Precedence int
	// Symbol is the spelling in source code. Word symbols like "else" only
	// match whole identifiers.
	Symbol string
	// Encoding is a code point unique to this operator.
	Encoding rune
	// Padded operators are rendered with spaces around them.
	Padded bool
}

// IsWord reports whether the symbol of the operator is spelled with
// identifier characters.
func (op *Operator) IsWord() bool {
	r, _ := utf8.DecodeRuneInString(op.Symbol)
	return op.Symbol != "" && IsIdentRune(r, true)
}

// CompilationPriority returns the priority with which the symbol is matched
// against source code: longer symbols are tried first.
func (op *Operator) CompilationPriority() int {
	return utf8.RuneCountInString(op.Symbol)
}

// ConfigError is returned when an operator definition conflicts with the
// table.
type ConfigError struct {
	Name    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot define operator %q: %s", e.Name, e.Message)
}

type nameAssoc struct {
	name  string
	assoc Assoc
}

// Table is an operator table. Use New or Default to create one.
type Table struct {
	Encoder    Encoder
	byEncoding map[rune]*Operator
	byName     map[string][]*Operator
	bySymbol   map[string][]*Operator
	defined    map[nameAssoc]bool
}

// New returns an empty table.
func New() *Table {
	return &Table{
		byEncoding: make(map[rune]*Operator),
		byName:     make(map[string][]*Operator),
		bySymbol:   make(map[string][]*Operator),
		defined:    make(map[nameAssoc]bool),
	}
}

// Define registers a new operator and returns it. A fresh encoding is issued
// for the operator. It is an error to define the same name with the same
// associativity twice, or two operators with the same symbol and
// associativity.
func (t *Table) Define(name string, assoc Assoc, prec int, symbol string) (*Operator, error) {
	return t.DefineEncoded(name, assoc, prec, symbol, t.Encoder.Next())
}

// DefineEncoded is like Define, but uses the given encoding.
func (t *Table) DefineEncoded(name string, assoc Assoc, prec int, symbol string, enc rune) (*Operator, error) {
	if name == "" {
		return nil, &ConfigError{name, "empty name"}
	}
	if t.defined[nameAssoc{name, assoc}] {
		return nil, &ConfigError{name, "already defined as " + assoc.String() + " operator"}
	}
	if _, ok := t.byEncoding[enc]; ok {
		return nil, &ConfigError{name, fmt.Sprintf("encoding %U already in use", enc)}
	}
	if symbol != "" {
		if err := checkSymbol(symbol); err != nil {
			return nil, &ConfigError{name, err.Error()}
		}
		for _, other := range t.bySymbol[symbol] {
			if other.Assoc == assoc {
				return nil, &ConfigError{name, fmt.Sprintf(
					"symbol %q already used by %s operator %q", symbol, assoc, other.Name)}
			}
		}
	}
	t.Encoder.Reserve(enc)
	op := &Operator{Name: name, Assoc: assoc, Precedence: prec,
		Symbol: symbol, Encoding: enc}
	op.Padded = prec <= paddingThreshold || op.IsWord()
	t.byEncoding[enc] = op
	t.byName[name] = append(t.byName[name], op)
	t.defined[nameAssoc{name, assoc}] = true
	if symbol != "" {
		ops := append(t.bySymbol[symbol], op)
		sort.SliceStable(ops, func(i, j int) bool { return ops[i].Precedence > ops[j].Precedence })
		t.bySymbol[symbol] = ops
	}
	return op, nil
}

// MustDefine is like Define, but panics on error. It is intended for
// building tables at initialization time.
func (t *Table) MustDefine(name string, assoc Assoc, prec int, symbol string) *Operator {
	op, err := t.Define(name, assoc, prec, symbol)
	if err != nil {
		panic(err)
	}
	return op
}

func checkSymbol(symbol string) error {
	r, _ := utf8.DecodeRuneInString(symbol)
	word := IsIdentRune(r, true)
	for i, r := range symbol {
		if word && !IsIdentRune(r, i == 0) {
			return fmt.Errorf("symbol %q mixes word and punctuation characters", symbol)
		}
		if !word && (IsIdentRune(r, false) || isReserved(r)) {
			return fmt.Errorf("symbol %q contains reserved character %q", symbol, r)
		}
	}
	return nil
}

// Characters with a fixed meaning that operators may not use.
func isReserved(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', ',', ';', '"', '#', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// ByEncoding looks up an operator by its encoding.
func (t *Table) ByEncoding(enc rune) (*Operator, bool) {
	op, ok := t.byEncoding[enc]
	return op, ok
}

// ByName looks up an operator by its call name. When several operators share
// the name, the first one defined is returned.
func (t *Table) ByName(name string) (*Operator, bool) {
	ops := t.byName[name]
	if len(ops) == 0 {
		return nil, false
	}
	return ops[0], true
}

// ByNameAssoc looks up an operator by its call name and associativity.
func (t *Table) ByNameAssoc(name string, assoc Assoc) (*Operator, bool) {
	for _, op := range t.byName[name] {
		if op.Assoc == assoc {
			return op, true
		}
	}
	return nil, false
}

// Ambiguous returns all the operators spelled with the given symbol, with
// higher precedence first. The first one is the default reading of the
// symbol.
func (t *Table) Ambiguous(symbol string) []*Operator {
	return append([]*Operator(nil), t.bySymbol[symbol]...)
}

// Symbols returns all symbols in the table, ordered by compilation priority
// (longest first) and then lexically.
func (t *Table) Symbols() []string {
	symbols := make([]string, 0, len(t.bySymbol))
	for s := range t.bySymbol {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(symbols[i]), utf8.RuneCountInString(symbols[j])
		if li != lj {
			return li > lj
		}
		return symbols[i] < symbols[j]
	})
	return symbols
}

// Operators returns all operators, ordered by descending precedence and then
// by name.
func (t *Table) Operators() []*Operator {
	ops := make([]*Operator, 0, len(t.byEncoding))
	for _, op := range t.byEncoding {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Precedence != ops[j].Precedence {
			return ops[i].Precedence > ops[j].Precedence
		}
		if ops[i].Name != ops[j].Name {
			return ops[i].Name < ops[j].Name
		}
		return ops[i].Assoc < ops[j].Assoc
	})
	return ops
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	c := New()
	c.Encoder = Encoder{used: make(map[rune]bool), next: t.Encoder.next, counter: t.Encoder.counter}
	for r := range t.Encoder.used {
		c.Encoder.used[r] = true
	}
	for _, op := range t.Operators() {
		copied := *op
		c.byEncoding[op.Encoding] = &copied
		c.defined[nameAssoc{op.Name, op.Assoc}] = true
	}
	for name, ops := range t.byName {
		for _, op := range ops {
			c.byName[name] = append(c.byName[name], c.byEncoding[op.Encoding])
		}
	}
	for symbol, ops := range t.bySymbol {
		for _, op := range ops {
			c.bySymbol[symbol] = append(c.bySymbol[symbol], c.byEncoding[op.Encoding])
		}
	}
	return c
}

// IsIdentRune reports whether r may appear in an identifier. Digits may not
// start one.
func IsIdentRune(r rune, first bool) bool {
	switch {
	case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	case r >= 0x80 && r < privateUseStart:
		return unicode.IsLetter(r)
	}
	return false
}
