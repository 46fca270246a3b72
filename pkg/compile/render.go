package compile

import (
	"strings"

	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/num"
	"src.sigma.sh/pkg/optable"
)

// Precedence of nodes that never need parentheses.
const atomPrec = 1 << 16

// Render returns the infix form of n, spelling calls with the operators of t
// where possible. Unlike String, the result is meant for humans; it compiles
// back to an equal tree unless the table changes.
func Render(n node.Node, t *optable.Table) string {
	s, _ := renderer{t}.render(n)
	return s
}

type renderer struct{ t *optable.Table }

func (r renderer) render(n node.Node) (string, int) {
	switch n := n.(type) {
	case *node.Call:
		return r.call(n)
	case *node.List:
		return "{" + r.join(n.Elems) + "}", atomPrec
	case *node.Vector:
		return "[" + r.join(n.Elems) + "]", atomPrec
	case *node.Matrix:
		rows := make([]string, len(n.Rows))
		for i, row := range n.Rows {
			rows[i] = "[" + r.join(row) + "]"
		}
		return "[" + strings.Join(rows, ", ") + "]", atomPrec
	case *node.Set:
		return "set({" + r.join(n.Elems) + "})", atomPrec
	case *node.Pair:
		if op, ok := r.t.ByNameAssoc(n.Prep, optable.Infix); ok {
			return r.infix(op, []node.Node{n.Left, n.Right})
		}
	case *node.Equation:
		if op, ok := r.t.ByNameAssoc(optable.NameEquation, optable.Infix); ok {
			return r.infix(op, []node.Node{n.Left, n.Right})
		}
	case *node.Closure:
		body, _ := r.render(n.Body)
		return "#(" + body + ")", atomPrec
	case *node.Pipeline:
		stmts := make([]string, len(n.Stmts))
		for i, stmt := range n.Stmts {
			stmts[i], _ = r.render(stmt)
		}
		return "(" + strings.Join(stmts, "; ") + ")", atomPrec
	case node.Int, node.Rational, node.Float:
		if num.Sign(n) < 0 {
			return n.String(), optable.PrecUnary
		}
		if _, ok := n.(node.Rational); ok {
			return n.String(), optable.PrecProduct
		}
	}
	return n.String(), atomPrec
}

func (r renderer) join(ns []node.Node) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i], _ = r.render(n)
	}
	return strings.Join(parts, ", ")
}

func (r renderer) call(c *node.Call) (string, int) {
	switch {
	case c.Name == "mul" && len(c.Args) > 1:
		if s, p, ok := r.product(c.Args); ok {
			return s, p
		}
	case c.Name == "pow":
		if d, ok := reciprocal(c); ok {
			return "1/" + r.operand(d, optable.PrecProduct, true), optable.PrecProduct
		}
	}
	switch len(c.Args) {
	case 1:
		if op, ok := r.t.ByNameAssoc(c.Name, optable.Prefix); ok {
			arg := r.operand(c.Args[0], op.Precedence, false)
			if op.IsWord() {
				return op.Symbol + " " + arg, op.Precedence
			}
			return op.Symbol + arg, op.Precedence
		}
		if op, ok := r.t.ByNameAssoc(c.Name, optable.Postfix); ok {
			return r.operand(c.Args[0], op.Precedence, false) + op.Symbol, op.Precedence
		}
	case 2:
		if op, ok := r.t.ByNameAssoc(c.Name, optable.Infix); ok {
			return r.infix(op, c.Args)
		}
	default:
		if op, ok := r.t.ByNameAssoc(c.Name, optable.Infix); ok && c.IsCommutative() {
			return r.infix(op, c.Args)
		}
	}
	return c.Name + "(" + r.join(c.Args) + ")", atomPrec
}

// infix renders operands joined by an infix operator. Operators are left
// associative, so right operands of equal precedence need parentheses unless
// the operator is commutative.
func (r renderer) infix(op *optable.Operator, args []node.Node) (string, int) {
	sep := op.Symbol
	if op.Padded {
		sep = " " + sep + " "
	}
	commutative := node.IsCommutative(op.Name)
	if op.Name == "add" {
		args = r.subtrahendsLast(args)
	}
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			if op.Name == "add" {
				if s, ok := r.subtrahend(arg); ok {
					sb.WriteString("-" + s)
					continue
				}
			}
			sb.WriteString(sep)
		}
		sb.WriteString(r.operand(arg, op.Precedence, i > 0 && !commutative))
	}
	return sb.String(), op.Precedence
}

// product renders factors with negative exponents as a quotient, and a
// product with a leading -1 as a negation.
func (r renderer) product(args []node.Node) (string, int, bool) {
	var numer, denom []node.Node
	for _, arg := range args {
		if d, ok := reciprocal(arg); ok {
			denom = append(denom, d)
		} else {
			numer = append(numer, arg)
		}
	}
	if len(denom) > 0 {
		if len(numer) == 0 {
			numer = []node.Node{node.IntOf(1)}
		}
		return r.operand(mulOf(numer), optable.PrecProduct, false) + "/" +
			r.operand(mulOf(denom), optable.PrecProduct, true), optable.PrecProduct, true
	}
	if i, ok := args[0].(node.Int); ok && i.IsInt64() && i.Int64() == -1 {
		if len(args) == 2 {
			return "-" + r.operand(args[1], optable.PrecUnary, false), optable.PrecUnary, true
		}
		s, _ := r.call(&node.Call{Name: "mul", Args: args[1:]})
		return "-" + s, optable.PrecProduct, true
	}
	return "", 0, false
}

// reciprocal returns b^n for a factor b^-n.
func reciprocal(n node.Node) (node.Node, bool) {
	c, ok := n.(*node.Call)
	if !ok || c.Name != "pow" || len(c.Args) != 2 || !node.IsNumber(c.Args[1]) || num.Sign(c.Args[1]) >= 0 {
		return nil, false
	}
	exp, err := num.Neg(c.Args[1])
	if err != nil {
		return nil, false
	}
	if num.IsOne(exp) {
		return c.Args[0], true
	}
	return &node.Call{Name: "pow", Args: []node.Node{c.Args[0], exp}}, true
}

func mulOf(args []node.Node) node.Node {
	if len(args) == 1 {
		return args[0]
	}
	return &node.Call{Name: "mul", Args: args}
}

// subtrahendsLast moves the terms shown subtracted after the others, unless
// all terms are.
func (r renderer) subtrahendsLast(args []node.Node) []node.Node {
	var plus, minus []node.Node
	for _, arg := range args {
		if _, ok := r.subtrahend(arg); ok {
			minus = append(minus, arg)
		} else {
			plus = append(plus, arg)
		}
	}
	if len(plus) == 0 {
		return args
	}
	return append(plus, minus...)
}

// subtrahend renders the negation of a term that is better shown subtracted.
func (r renderer) subtrahend(n node.Node) (string, bool) {
	if c, ok := n.(*node.Call); ok && c.Name == "neg" && len(c.Args) == 1 {
		return r.operand(c.Args[0], optable.PrecSum, true), true
	}
	if c, ok := n.(*node.Call); ok && c.Name == "mul" && len(c.Args) > 1 &&
		node.IsNumber(c.Args[0]) && num.Sign(c.Args[0]) < 0 {
		coef, err := num.Neg(c.Args[0])
		if err == nil {
			args := append([]node.Node{coef}, c.Args[1:]...)
			if num.IsOne(coef) {
				args = args[1:]
			}
			return r.operand(mulOf(args), optable.PrecSum, true), true
		}
	}
	if node.IsNumber(n) && num.Sign(n) < 0 {
		abs, err := num.Abs(n)
		if err == nil {
			return r.operand(abs, optable.PrecSum, true), true
		}
	}
	return "", false
}

func (r renderer) operand(n node.Node, prec int, right bool) string {
	s, p := r.render(n)
	if p < prec || p == prec && right {
		return "(" + s + ")"
	}
	return s
}
