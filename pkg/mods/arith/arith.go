// Package arith provides arithmetic over the numeric tower and the algebraic
// normal forms of sums, products and powers.
//
// Differences are sums of negated terms, negations are products with -1,
// quotients are products with reciprocal powers and square roots are powers
// of 1/2. Sums collect like terms, products collect like bases.
package arith

import (
	"math/big"

	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/num"
)

// Exact powers and factorials beyond these are range errors.
const (
	maxExponent  = 1 << 16
	maxFactorial = 1 << 14
)

var (
	algebraic = eval.One(eval.Algebraic)
	number    = eval.One(eval.Number)
)

// Module is the arith module.
var Module = &eval.Module{
	Name: "arith",
	Ops: []*eval.Operation{
		eval.Op("add", add, eval.Many(eval.Algebraic)),
		eval.Op("mul", mul, eval.Many(eval.Algebraic)),
		eval.Op("sub", sub, algebraic, algebraic),
		eval.Op("neg", neg, algebraic),
		eval.Op("div", div, algebraic, algebraic),
		eval.Op("mod", mod, number, number),
		eval.Op("pow", pow, algebraic, algebraic),
		eval.Op("sqrt", sqrt, algebraic),
		eval.Op("factorial", factorial, number),
		eval.Op("abs", abs, number),
		eval.Op("lt", comparison(func(c int) bool { return c < 0 }), algebraic, algebraic),
		eval.Op("le", comparison(func(c int) bool { return c <= 0 }), algebraic, algebraic),
		eval.Op("gt", comparison(func(c int) bool { return c > 0 }), algebraic, algebraic),
		eval.Op("ge", comparison(func(c int) bool { return c >= 0 }), algebraic, algebraic),
		eval.Op("approx", approx, eval.One(eval.Any)),
	},
}

func init() {
	for _, f := range functions {
		Module.Ops = append(Module.Ops, eval.Op(f.name, f.impl, algebraic))
	}
}

var (
	zero   = node.IntOf(0)
	one    = node.IntOf(1)
	minus1 = node.IntOf(-1)
	half   = node.RatOf(big.NewRat(1, 2))
)

func add(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	var constant node.Node = zero
	type term struct{ coef, rest node.Node }
	terms := make(map[string]*term)
	var order []string
	for _, arg := range args {
		if node.IsNumber(arg) {
			sum, err := num.Add(constant, arg)
			if err != nil {
				return nil, eval.NumError(err)
			}
			constant = sum
			continue
		}
		coef, rest := Coefficient(arg)
		key := rest.String()
		t, ok := terms[key]
		if !ok {
			t = &term{zero, rest}
			terms[key] = t
			order = append(order, key)
		}
		sum, err := num.Add(t.coef, coef)
		if err != nil {
			return nil, eval.NumError(err)
		}
		t.coef = sum
	}

	var out []node.Node
	for _, key := range order {
		t := terms[key]
		if num.IsZero(t.coef) {
			continue
		}
		out = append(out, Scale(t.coef, t.rest))
	}
	if len(out) == 0 || !num.IsZero(constant) {
		out = append(out, constant)
	}
	return changed("add", args, out)
}

func mul(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	var coef node.Node = one
	type power struct{ base, exp node.Node }
	powers := make(map[string]*power)
	var order []string
	for _, arg := range args {
		if node.IsNumber(arg) {
			prod, err := num.Mul(coef, arg)
			if err != nil {
				return nil, eval.NumError(err)
			}
			coef = prod
			continue
		}
		base, exp := splitPower(arg)
		key := base.String()
		p, ok := powers[key]
		if !ok {
			powers[key] = &power{base, exp}
			order = append(order, key)
			continue
		}
		p.exp = addExponents(p.exp, exp)
	}
	if num.IsZero(coef) {
		return coef, nil
	}

	var out []node.Node
	if !num.IsOne(coef) {
		out = append(out, coef)
	}
	for _, key := range order {
		p := powers[key]
		switch {
		case num.IsZero(p.exp):
		case num.IsOne(p.exp):
			out = append(out, p.base)
		default:
			out = append(out, node.NewCall("pow", p.base, p.exp))
		}
	}
	if len(out) == 0 {
		return coef, nil
	}
	return changed("mul", args, out)
}

// changed returns the call of name on out, or its only element. It returns
// nil if that is the same as the call of name on args.
func changed(name string, args, out []node.Node) (node.Node, error) {
	var res node.Node
	if len(out) == 1 {
		res = out[0]
	} else {
		res = node.NewCall(name, out...)
	}
	if res.Equal(&node.Call{Name: name, Args: args}) {
		return nil, nil
	}
	return res, nil
}

// Coefficient splits a term into its numeric coefficient and the rest.
func Coefficient(n node.Node) (coef, rest node.Node) {
	c, ok := n.(*node.Call)
	if !ok || c.Name != "mul" {
		return one, n
	}
	coef = one
	var others []node.Node
	for _, arg := range c.Args {
		if node.IsNumber(arg) {
			coef, _ = num.Mul(coef, arg)
		} else {
			others = append(others, arg)
		}
	}
	switch len(others) {
	case 0:
		return coef, one
	case 1:
		return coef, others[0]
	}
	return coef, &node.Call{Name: "mul", Args: others}
}

// Scale returns coef*n, dropping a coefficient of 1.
func Scale(coef, n node.Node) node.Node {
	if num.IsOne(coef) {
		return n
	}
	return node.NewCall("mul", coef, n)
}

func splitPower(n node.Node) (base, exp node.Node) {
	if c, ok := n.(*node.Call); ok && c.Name == "pow" && len(c.Args) == 2 {
		return c.Args[0], c.Args[1]
	}
	return n, one
}

func addExponents(a, b node.Node) node.Node {
	if sum, err := num.Add(a, b); err == nil {
		return sum
	}
	return node.NewCall("add", a, b)
}

func sub(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	a, b := args[0], args[1]
	if node.IsNumber(a) && node.IsNumber(b) {
		res, err := num.Sub(a, b)
		return res, eval.NumError(err)
	}
	return node.NewCall("add", a, node.NewCall("mul", minus1, b)), nil
}

func neg(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	if node.IsNumber(args[0]) {
		res, err := num.Neg(args[0])
		return res, eval.NumError(err)
	}
	return node.NewCall("mul", minus1, args[0]), nil
}

func div(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	a, b := args[0], args[1]
	if node.IsNumber(a) && node.IsNumber(b) {
		res, err := num.Div(a, b)
		return res, eval.NumError(err)
	}
	return node.NewCall("mul", a, node.NewCall("pow", b, minus1)), nil
}

func mod(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	res, err := num.Mod(args[0], args[1])
	return res, eval.NumError(err)
}

func pow(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	base, exp := args[0], args[1]
	if node.IsNumber(base) && node.IsNumber(exp) {
		if err := checkExponent(base, exp); err != nil {
			return nil, err
		}
		res, exact, err := num.Pow(base, exp)
		if err != nil {
			return nil, eval.NumError(err)
		}
		if !exact {
			return nil, nil
		}
		return res, nil
	}
	switch {
	case num.IsZero(exp):
		return one, nil
	case num.IsOne(exp):
		return base, nil
	case num.IsOne(base):
		return one, nil
	}
	if _, ok := exp.(node.Int); !ok {
		return nil, nil
	}
	c, ok := base.(*node.Call)
	if !ok {
		return nil, nil
	}
	switch c.Name {
	case "pow":
		// (b^e)^n = b^(e*n) for integer n.
		return node.NewCall("pow", c.Args[0], node.NewCall("mul", c.Args[1], exp)), nil
	case "mul":
		factors := make([]node.Node, len(c.Args))
		for i, f := range c.Args {
			factors[i] = node.NewCall("pow", f, exp)
		}
		return node.NewCall("mul", factors...), nil
	}
	return nil, nil
}

func checkExponent(base, exp node.Node) error {
	e, ok := exp.(node.Int)
	if !ok || e.IsInt64() && abs64(e.Int64()) <= maxExponent {
		return nil
	}
	if typ, _ := num.TypeOf(base); typ == num.Inexact {
		return nil
	}
	if b, ok := base.(node.Int); ok && b.IsInt64() && abs64(b.Int64()) <= 1 {
		return nil
	}
	return eval.Errorf(eval.Range, "exponent %v too large", exp)
}

func abs64(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}

func sqrt(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.NewCall("pow", args[0], half), nil
}

func factorial(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	if i, ok := args[0].(node.Int); ok && (!i.IsInt64() || i.Int64() > maxFactorial) {
		return nil, eval.Errorf(eval.Range, "factorial of %v too large", i)
	}
	res, err := num.Factorial(args[0])
	if err != nil {
		return nil, eval.Errorf(eval.Domain, "factorial needs a non-negative integer, got %v", args[0])
	}
	return res, nil
}

func abs(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	res, err := num.Abs(args[0])
	return res, eval.NumError(err)
}

// Compare compares two numbers or constants. It returns false if either of
// them has no numeric value.
func Compare(a, b node.Node) (int, bool) {
	if node.IsNumber(a) && node.IsNumber(b) {
		c, err := num.Cmp(a, b)
		return c, err == nil
	}
	x, ok := node.Float64(a)
	if !ok {
		return 0, false
	}
	y, ok := node.Float64(b)
	if !ok {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}

func comparison(test func(int) bool) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		c, ok := Compare(args[0], args[1])
		if !ok {
			return nil, nil
		}
		return node.Bool{V: test(c)}, nil
	}
}

// approx replaces exact numbers and constants with floats.
func approx(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.Transform(args[0], func(n node.Node) (node.Node, bool) {
		switch n.(type) {
		case node.Int, node.Rational, node.Constant:
			f, _ := node.Float64(n)
			return node.Float{V: f}, true
		}
		return nil, false
	}), nil
}
