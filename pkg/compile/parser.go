package compile

import (
	"fmt"
	"math/big"
	"strconv"

	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

// parser is a precedence climbing parser over the tokens of one logical
// statement. Errors are raised with panic and recovered in parse.
type parser struct {
	toks  []token
	pos   int
	table *optable.Table
	// Names of calls that accept a trailing closure.
	trailing map[string]bool
}

func parse(toks []token, table *optable.Table, trailing map[string]bool) (n node.Node, err *posError) {
	p := &parser{toks: toks, table: table, trailing: trailing}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*posError); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	n = p.grouping(tokEOF)
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(i int) token {
	if p.pos+i < len(p.toks) {
		return p.toks[p.pos+i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) prev() token {
	if p.pos == 0 {
		return token{typ: tokEOF}
	}
	return p.toks[p.pos-1]
}

func (p *parser) fail(r diag.Ranger, format string, args ...any) {
	panic(&posError{msg: fmt.Sprintf(format, args...), Ranging: r.Range()})
}

func (p *parser) expect(typ tokenType, what string) token {
	tok := p.peek()
	if tok.typ != typ {
		if tok.typ == tokEOF {
			p.fail(tok, "should be %s", what)
		}
		p.fail(tok, "unexpected %s, should be %s", describe(tok), what)
	}
	return p.next()
}

func describe(tok token) string {
	switch tok.typ {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string literal"
	}
	return strconv.Quote(tok.text)
}

var closing = map[tokenType]string{
	tokEOF: "end of input", tokRParen: "')'", tokRBracket: "']'", tokRBrace: "'}'",
}

// sequence parses statements separated by ';' up to the closing token, each
// statement being a ','-separated list of expressions. The closing token is
// not consumed.
func (p *parser) sequence(end tokenType) [][]node.Node {
	var stmts [][]node.Node
	for {
		for p.peek().typ == tokSemicolon {
			p.next()
		}
		if p.peek().typ == end {
			return stmts
		}
		stmt := []node.Node{p.expr(0)}
		for p.peek().typ == tokComma {
			p.next()
			stmt = append(stmt, p.expr(0))
		}
		stmts = append(stmts, stmt)
		switch tok := p.peek(); tok.typ {
		case tokSemicolon, end:
		default:
			p.fail(tok, "unexpected %s, should be %s", describe(tok), closing[end])
		}
	}
}

// grouping parses the content of a pair of parentheses: nothing is void, a
// single expression is itself, a ','-list is a list and several statements
// are a pipeline.
func (p *parser) grouping(end tokenType) node.Node {
	return group(p.sequence(end))
}

func group(stmts [][]node.Node) node.Node {
	switch len(stmts) {
	case 0:
		return node.Void{}
	case 1:
		return listOrSingle(stmts[0])
	}
	seq := make([]node.Node, len(stmts))
	for i, stmt := range stmts {
		seq[i] = listOrSingle(stmt)
	}
	return &node.Pipeline{Stmts: seq}
}

func listOrSingle(exprs []node.Node) node.Node {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &node.List{Elems: exprs}
}

// elements parses the content of a list, vector or argument list.
func (p *parser) elements(end tokenType) []node.Node {
	stmts := p.sequence(end)
	switch len(stmts) {
	case 0:
		return []node.Node{}
	case 1:
		return stmts[0]
	}
	return []node.Node{group(stmts)}
}

// expr parses an expression whose operators all bind tighter than minPrec.
func (p *parser) expr(minPrec int) node.Node {
	left := p.operand()
	for {
		tok := p.peek()
		switch {
		case tok.typ == tokOp:
			op := p.operatorVariant(tok)
			if op.Precedence <= minPrec {
				return left
			}
			p.next()
			if op.Assoc == optable.Postfix {
				left = p.call(tok, op.Name, left)
			} else {
				right := p.expr(op.Precedence)
				left = p.call(tok, op.Name, left, right)
			}
		case tok.typ == tokLBracket:
			// Subscripts bind tighter than any operator.
			open := p.next()
			indices := p.elements(tokRBracket)
			p.expect(tokRBracket, "']'")
			if len(indices) == 0 {
				p.fail(diag.MixedRanging(open, p.prev()), "empty subscript")
			}
			left = node.NewCall(optable.NameGet, append([]node.Node{left}, indices...)...)
		case p.implicitProduct(tok):
			mul, ok := p.table.ByNameAssoc("mul", optable.Infix)
			if !ok || mul.Precedence <= minPrec {
				return left
			}
			right := p.expr(mul.Precedence)
			left = node.NewCall(mul.Name, left, right)
		default:
			return left
		}
	}
}

// implicitProduct reports whether tok starts the right operand of an
// implied multiplication, as in "3x" or "(a+b)(a-b)".
func (p *parser) implicitProduct(tok token) bool {
	switch p.prev().typ {
	case tokNumber, tokRParen:
		return tok.typ == tokIdent || tok.typ == tokLParen
	}
	return false
}

// operatorVariant picks the infix or postfix reading of an operator symbol
// found after an operand.
func (p *parser) operatorVariant(tok token) *optable.Operator {
	var infix, postfix, prefix *optable.Operator
	for _, op := range p.table.Ambiguous(tok.text) {
		switch op.Assoc {
		case optable.Infix:
			infix = op
		case optable.Postfix:
			postfix = op
		case optable.Prefix:
			prefix = op
		}
	}
	switch {
	case infix != nil && postfix != nil:
		if p.startsOperand(p.peekAt(1)) {
			return infix
		}
		return postfix
	case infix != nil:
		return infix
	case postfix != nil:
		return postfix
	}
	p.fail(tok, "invalid associative use of %s operator %q", prefix.Assoc, tok.text)
	return nil
}

func (p *parser) startsOperand(tok token) bool {
	switch tok.typ {
	case tokNumber, tokString, tokIdent, tokLParen, tokLBracket, tokLBrace:
		return true
	case tokOp:
		return hasAssoc(p.table, tok.text, optable.Prefix)
	}
	return false
}

func (p *parser) operand() node.Node {
	tok := p.next()
	switch tok.typ {
	case tokNumber:
		return parseNumber(tok)
	case tokString:
		return node.String{V: tok.value}
	case tokLParen:
		n := p.grouping(tokRParen)
		p.expect(tokRParen, "')'")
		return n
	case tokLBrace:
		elems := p.elements(tokRBrace)
		p.expect(tokRBrace, "'}'")
		return &node.List{Elems: elems}
	case tokLBracket:
		elems := p.elements(tokRBracket)
		end := p.expect(tokRBracket, "']'")
		return p.vector(diag.MixedRanging(tok, end), elems)
	case tokIdent:
		return p.identifier(tok)
	case tokOp:
		return p.prefixOperator(tok)
	case tokEOF:
		p.fail(tok, "should be an operand")
	}
	p.fail(tok, "unexpected %s, should be an operand", describe(tok))
	return nil
}

func (p *parser) prefixOperator(tok token) node.Node {
	var prefix *optable.Operator
	for _, op := range p.table.Ambiguous(tok.text) {
		if op.Assoc == optable.Prefix {
			prefix = op
		}
	}
	if prefix == nil {
		// A word operator used like a function: "at(x, 3)".
		if op := p.table.Ambiguous(tok.text); len(op) > 0 && op[0].IsWord() && p.peek().typ == tokLParen {
			return p.callSyntax(tok, op[0].Name)
		}
		ops := p.table.Ambiguous(tok.text)
		p.fail(tok, "invalid associative use of %s operator %q", ops[0].Assoc, tok.text)
	}
	if !p.startsOperand(p.peek()) {
		if prefix.Name == optable.NameReturn {
			return node.Transfer{Keyword: node.Return}
		}
		p.fail(tok, "missing operand of prefix operator %q", tok.text)
	}
	return p.call(tok, prefix.Name, p.expr(prefix.Precedence))
}

func (p *parser) identifier(tok token) node.Node {
	name := tok.text
	switch next := p.peek(); {
	case name == optable.NameClosure:
		if next.typ != tokLParen {
			p.fail(tok, "'#' must be followed by '('")
		}
		p.next()
		body := p.grouping(tokRParen)
		p.expect(tokRParen, "')'")
		return &node.Closure{Body: body}
	case next.typ == tokLParen:
		return p.callSyntax(tok, name)
	case next.typ == tokLBrace && p.trailing[name]:
		return p.call(tok, name, p.trailingClosure())
	}
	return leaf(name)
}

// callSyntax parses "name(args)" with an optional trailing closure. The
// opening parenthesis has not been consumed.
func (p *parser) callSyntax(tok token, name string) node.Node {
	p.next()
	args := p.elements(tokRParen)
	p.expect(tokRParen, "')'")
	if p.peek().typ == tokLBrace && p.trailing[name] {
		args = append(args, p.trailingClosure())
	}
	return p.call(tok, name, args...)
}

func (p *parser) trailingClosure() node.Node {
	p.expect(tokLBrace, "'{'")
	body := p.grouping(tokRBrace)
	p.expect(tokRBrace, "'}'")
	return &node.Closure{Body: body}
}

func (p *parser) vector(r diag.Ranging, elems []node.Node) node.Node {
	if len(elems) == 0 {
		return &node.Vector{Elems: elems}
	}
	rows := make([][]node.Node, len(elems))
	for i, elem := range elems {
		row, ok := elem.(*node.Vector)
		if !ok {
			return &node.Vector{Elems: elems}
		}
		rows[i] = row.Elems
	}
	m, err := node.NewMatrix(rows)
	if err != nil {
		p.fail(r, "%v", err)
	}
	return m
}

// call builds a call node, decoding the names that stand for other node
// variants.
func (p *parser) call(tok token, name string, args ...node.Node) node.Node {
	switch {
	case name == optable.NameList:
		return &node.List{Elems: args}
	case name == optable.NameClosure:
		return &node.Closure{Body: group([][]node.Node{args})}
	case name == optable.NameEquation:
		if len(args) != 2 {
			p.fail(tok, "an equation needs two sides")
		}
		return &node.Equation{Left: args[0], Right: args[1], Rel: "="}
	case optable.Prepositions[name] && len(args) == 2:
		return &node.Pair{Left: args[0], Right: args[1], Prep: name}
	case name == optable.NameElse && len(args) > 0:
		if l, ok := args[len(args)-1].(*node.List); ok {
			args[len(args)-1] = &node.Closure{Body: listOrSingle(l.Elems)}
		}
	}
	return node.NewCall(name, args...)
}

// leaf resolves an identifier that is not a call.
func leaf(name string) node.Node {
	switch name {
	case "true":
		return node.Bool{V: true}
	case "false":
		return node.Bool{V: false}
	case node.Break, node.Continue, node.Return:
		return node.Transfer{Keyword: name}
	case node.Pi, "π":
		return node.Constant{Name: node.Pi}
	case node.Euler:
		return node.Constant{Name: node.Euler}
	case node.Infinity, "∞":
		return node.Constant{Name: node.Infinity}
	}
	return node.Variable{Name: name}
}

func parseNumber(tok token) node.Node {
	if i, ok := new(big.Int).SetString(tok.text, 10); ok {
		return node.Int{V: i}
	}
	// The lexer only produces well-formed numbers.
	f, _ := strconv.ParseFloat(tok.text, 64)
	return node.Float{V: f}
}
