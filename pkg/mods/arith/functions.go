package arith

import (
	"math"

	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/num"
)

// Elementary functions. Float arguments are evaluated; exact arguments are
// only rewritten at known special values and otherwise stay symbolic.

type function struct {
	name string
	f    func(float64) float64
	// Returns the exact value at n, or nil.
	exact func(n node.Node) (node.Node, error)
}

var (
	pi = node.Constant{Name: node.Pi}
	e  = node.Constant{Name: node.Euler}
)

var functions = []function{
	{"sin", math.Sin, func(n node.Node) (node.Node, error) {
		if num.IsZero(n) || n.Equal(pi) {
			return zero, nil
		}
		return nil, nil
	}},
	{"cos", math.Cos, func(n node.Node) (node.Node, error) {
		switch {
		case num.IsZero(n):
			return one, nil
		case n.Equal(pi):
			return minus1, nil
		}
		return nil, nil
	}},
	{"tan", math.Tan, func(n node.Node) (node.Node, error) {
		if num.IsZero(n) || n.Equal(pi) {
			return zero, nil
		}
		return nil, nil
	}},
	{"exp", math.Exp, func(n node.Node) (node.Node, error) {
		switch {
		case num.IsZero(n):
			return one, nil
		case num.IsOne(n):
			return e, nil
		}
		if inner, ok := innerOf(n, "ln"); ok {
			return inner, nil
		}
		return nil, nil
	}},
	{"ln", math.Log, func(n node.Node) (node.Node, error) {
		switch {
		case num.IsOne(n):
			return zero, nil
		case n.Equal(e):
			return one, nil
		case node.IsNumber(n) && num.Sign(n) <= 0:
			return nil, eval.Errorf(eval.Domain, "logarithm of non-positive number %v", n)
		}
		if inner, ok := innerOf(n, "exp"); ok {
			return inner, nil
		}
		return nil, nil
	}},
}

func innerOf(n node.Node, name string) (node.Node, bool) {
	if c, ok := n.(*node.Call); ok && c.Name == name && len(c.Args) == 1 {
		return c.Args[0], true
	}
	return nil, false
}

func (fn function) impl(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	arg := args[0]
	if res, err := fn.exact(arg); res != nil || err != nil {
		return res, err
	}
	if f, ok := arg.(node.Float); ok {
		v := fn.f(f.V)
		if math.IsNaN(v) {
			return nil, eval.Errorf(eval.Domain, "%s(%v) is undefined", fn.name, arg)
		}
		return node.Float{V: v}, nil
	}
	return nil, nil
}
