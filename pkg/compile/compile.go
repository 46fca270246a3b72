// Package compile turns source text into expression trees.
//
// Compilation of one statement goes through these stages: bracket and quote
// validation, lexing against the operator table, joining of continuation
// lines and precedence climbing parsing. Calls that stand for other node
// variants (lists, closures, equations, pairs) are decoded while the tree is
// built.
package compile

import (
	"context"
	"math/big"
	"strings"

	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/logutil"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

var logger = logutil.GetLogger("[compile] ")

// ErrorTag is used to parameterize diag.Error into compilation errors.
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "compilation error" }

// Error is a compilation error.
type Error = diag.Error[ErrorTag]

// DefaultTrailing are the names of calls that accept a trailing closure, as
// in "if(c) {...}" and "do {...}".
var DefaultTrailing = []string{"if", "while", "repeat", "for", "do", "try"}

// Compiler compiles source text against an operator table. Compiling a
// statement like operator("cross", "infix", 90, "><") defines the operator
// in the table, so that later statements can use it.
type Compiler struct {
	Table    *optable.Table
	Trailing map[string]bool
}

// New creates a Compiler using the given table.
func New(table *optable.Table) *Compiler {
	c := &Compiler{Table: table, Trailing: make(map[string]bool)}
	for _, name := range DefaultTrailing {
		c.Trailing[name] = true
	}
	return c
}

// Line compiles one statement with a fresh default operator table.
func Line(src string) (node.Node, error) {
	return New(optable.Default()).Source("[line]", src)
}

// Source compiles src as one logical statement. The name is used in error
// messages.
func (c *Compiler) Source(name, src string) (node.Node, error) {
	return c.statement(name, src, 0)
}

func (c *Compiler) statement(name, src string, lineOffset int) (node.Node, error) {
	wrap := func(e *posError) error {
		return &Error{Message: e.msg, Partial: e.partial, Context: diag.Context{
			Name: name, Source: src, Ranging: e.Ranging, LineOffset: lineOffset}}
	}
	if strings.TrimSpace(src) == "" {
		return nil, wrap(&posError{msg: "empty input", Ranging: diag.PointRanging(0)})
	}
	if err := checkBrackets(src); err != nil {
		return nil, wrap(err)
	}
	toks, err := newLexer(src, c.Table).lex()
	if err != nil {
		return nil, wrap(err)
	}
	n, err := parse(joinLines(toks, c.Table), c.Table, c.Trailing)
	if err != nil {
		return nil, wrap(err)
	}
	if err := c.defineOperators(n); err != nil {
		return nil, wrap(&posError{msg: err.Error(), Ranging: diag.Ranging{From: 0, To: len(src)}})
	}
	return n, nil
}

// defineOperators applies the operator definitions among the top-level
// statements of n to the table.
func (c *Compiler) defineOperators(n node.Node) error {
	stmts := []node.Node{n}
	if p, ok := n.(*node.Pipeline); ok {
		stmts = p.Stmts
	}
	for _, stmt := range stmts {
		def, ok := ParseOperatorDef(stmt)
		if !ok {
			continue
		}
		if err := def.Apply(c.Table); err != nil {
			return err
		}
	}
	return nil
}

// OperatorDef is a literal operator("name", "assoc", prec, "symbol")
// statement. The symbol defaults to the name.
type OperatorDef struct {
	Name       string
	Assoc      optable.Assoc
	Precedence int
	Symbol     string
}

// ParseOperatorDef recognizes an operator definition statement.
func ParseOperatorDef(n node.Node) (OperatorDef, bool) {
	call, ok := n.(*node.Call)
	if !ok || call.Name != optable.NameOperator || len(call.Args) < 3 || len(call.Args) > 4 {
		return OperatorDef{}, false
	}
	name, ok1 := call.Args[0].(node.String)
	assocName, ok2 := call.Args[1].(node.String)
	prec, ok3 := IntArg(call.Args[2])
	if !ok1 || !ok2 || !ok3 {
		return OperatorDef{}, false
	}
	assoc, ok := optable.ParseAssoc(assocName.V)
	if !ok {
		return OperatorDef{}, false
	}
	def := OperatorDef{name.V, assoc, prec, name.V}
	if len(call.Args) == 4 {
		symbol, ok := call.Args[3].(node.String)
		if !ok {
			return OperatorDef{}, false
		}
		def.Symbol = symbol.V
	}
	return def, true
}

// Apply defines the operator in the table. Defining an operator that is
// already in the table with the same metadata is a no-op.
func (d OperatorDef) Apply(t *optable.Table) error {
	if op, ok := t.ByNameAssoc(d.Name, d.Assoc); ok &&
		op.Precedence == d.Precedence && op.Symbol == d.Symbol {
		return nil
	}
	_, err := t.Define(d.Name, d.Assoc, d.Precedence, d.Symbol)
	return err
}

// Statement is one logical statement of a document.
type Statement struct {
	// 1-based line the statement starts on.
	Line   int
	Source string
	Node   node.Node
}

// Program is a compiled document.
type Program struct {
	Name       string
	Statements []Statement
}

// Document compiles a multi-line document. Physical lines are joined into
// logical statements while brackets are open. Blank lines and lines starting
// with '#' (but not "#(") are skipped. Compilation stops at the first error
// and when ctx is cancelled.
func (c *Compiler) Document(ctx context.Context, name, text string) (*Program, error) {
	prog := &Program{Name: name}
	var buf []string
	start := 0
	depth := 0
	for i, raw := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Message: "compilation cancelled: " + err.Error(),
				Context: diag.Context{Name: name, Ranging: diag.PointRanging(0), LineOffset: i}}
		}
		line := strings.TrimRight(raw, "\r")
		if isComment(line) {
			continue
		}
		if len(buf) == 0 {
			start = i + 1
		}
		buf = append(buf, line)
		depth += bracketDelta(line)
		if depth < 0 {
			src := strings.Join(buf, "\n")
			return nil, &Error{Message: "unmatched closing bracket", Context: diag.Context{
				Name: name, Source: src, Ranging: diag.Ranging{From: 0, To: len(src)}, LineOffset: start - 1}}
		}
		if depth > 0 {
			continue
		}
		src := strings.Join(buf, "\n")
		buf = buf[:0]
		n, err := c.statement(name, src, start-1)
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, Statement{start, src, n})
	}
	if len(buf) > 0 {
		src := strings.Join(buf, "\n")
		return nil, &Error{Message: "unclosed bracket at end of document", Partial: true,
			Context: diag.Context{Name: name, Source: src, Ranging: diag.PointRanging(len(src)), LineOffset: start - 1}}
	}
	logger.Printf("compiled %s: %d statements", name, len(prog.Statements))
	return prog, nil
}

func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "#(")
}

// bracketDelta returns the number of opening minus closing brackets on the
// line, ignoring string literals.
func bracketDelta(line string) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '(' || c == '[' || c == '{':
			delta++
		case c == ')' || c == ']' || c == '}':
			delta--
		}
	}
	return delta
}

var matching = map[byte]byte{')': '(', ']': '[', '}': '{'}

// checkBrackets validates that brackets are balanced and properly nested.
func checkBrackets(src string) *posError {
	var stack []int
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '\\':
			// Only meaningful within strings, which are skipped below.
		case '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return &posError{msg: "unterminated string literal", partial: true,
					Ranging: diag.Ranging{From: i, To: len(src)}}
			}
			i = j
		case '(', '[', '{':
			stack = append(stack, i)
		case ')', ']', '}':
			if len(stack) == 0 {
				return &posError{msg: "unmatched " + string(c), Ranging: diag.Ranging{From: i, To: i + 1}}
			}
			open := stack[len(stack)-1]
			if src[open] != matching[c] {
				return &posError{msg: "mismatched brackets " + string(src[open]) + " and " + string(c),
					Ranging: diag.Ranging{From: open, To: i + 1}}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return &posError{msg: "unclosed " + string(src[open]), partial: true,
			Ranging: diag.Ranging{From: open, To: open + 1}}
	}
	return nil
}

// NeedsMore reports whether src is an incomplete statement that more lines
// may complete, such as one with an open bracket or string.
func NeedsMore(src string) bool {
	err := checkBrackets(src)
	return err != nil && err.partial
}

// IntArg returns the value of a small integer literal.
func IntArg(n node.Node) (int, bool) {
	i, ok := n.(node.Int)
	if !ok || !i.V.IsInt64() || i.V.CmpAbs(big.NewInt(1<<31)) >= 0 {
		return 0, false
	}
	return int(i.V.Int64()), true
}
