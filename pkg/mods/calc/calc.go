// Package calc provides symbolic differentiation.
package calc

import (
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
)

// Module is the calc module.
var Module = &eval.Module{
	Name: "calc",
	Ops: []*eval.Operation{
		eval.Op("deriv", deriv, eval.One(eval.Any), eval.One(eval.Any)),
	},
	Flags: map[string]eval.CallFlags{"deriv": eval.PreserveArgs},
}

// deriv differentiates its first argument with respect to a variable. The
// second argument is the variable, or "x at v" to evaluate the derivative at
// v. Any binding of the variable is masked while differentiating.
func deriv(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	x, point, err := variable(ev, args[1])
	if err != nil {
		return nil, err
	}

	ev.Scope.WithholdAccess(x.Name)
	d, err := func() (node.Node, error) {
		defer ev.Scope.ReleaseRestrictions()
		expr, err := ev.Simplify(args[0])
		if err != nil {
			return nil, err
		}
		d, err := Differentiate(expr, x)
		if err != nil {
			return nil, err
		}
		return ev.Simplify(d)
	}()
	if err != nil {
		return nil, err
	}
	if point == nil {
		return d, nil
	}
	return node.Substitute(d, x, point), nil
}

func variable(ev *eval.Evaler, n node.Node) (node.Variable, node.Node, error) {
	switch n := n.(type) {
	case node.Variable:
		return n, nil, nil
	case *node.Pair:
		if x, ok := n.Left.(node.Variable); ok && n.Prep == "at" {
			point, err := ev.Simplify(n.Right)
			return x, point, err
		}
	}
	return node.Variable{}, nil, eval.WrongType("a variable or \"variable at point\"", n)
}

func call(name string, args ...node.Node) node.Node { return node.NewCall(name, args...) }

var (
	zero   = node.IntOf(0)
	one    = node.IntOf(1)
	minus1 = node.IntOf(-1)
)

// Differentiate returns the derivative of a simplified expression with
// respect to x. The result is not simplified.
func Differentiate(n node.Node, x node.Variable) (node.Node, error) {
	if !node.Contains(n, x) {
		switch n.(type) {
		case *node.List, *node.Vector:
		default:
			return zero, nil
		}
	}
	switch n := n.(type) {
	case node.Variable:
		return one, nil
	case *node.List:
		elems, err := differentiateAll(n.Elems, x)
		return &node.List{Elems: elems}, err
	case *node.Vector:
		elems, err := differentiateAll(n.Elems, x)
		return &node.Vector{Elems: elems}, err
	case *node.Call:
		return differentiateCall(n, x)
	}
	return nil, eval.Errorf(eval.TypeMismatch, "cannot differentiate %s %v", n.Kind(), n)
}

func differentiateAll(ns []node.Node, x node.Variable) ([]node.Node, error) {
	out := make([]node.Node, len(ns))
	for i, n := range ns {
		d, err := Differentiate(n, x)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func differentiateCall(c *node.Call, x node.Variable) (node.Node, error) {
	if c.Name == "add" {
		terms, err := differentiateAll(c.Args, x)
		if err != nil {
			return nil, err
		}
		return call("add", terms...), nil
	}
	if c.Name == "mul" {
		// Product rule.
		terms := make([]node.Node, len(c.Args))
		for i, f := range c.Args {
			df, err := Differentiate(f, x)
			if err != nil {
				return nil, err
			}
			factors := append([]node.Node{df}, c.Args[:i]...)
			factors = append(factors, c.Args[i+1:]...)
			terms[i] = call("mul", factors...)
		}
		return call("add", terms...), nil
	}
	if c.Name == "pow" && len(c.Args) == 2 {
		return differentiatePow(c.Args[0], c.Args[1], x)
	}
	if len(c.Args) != 1 {
		return nil, eval.Errorf(eval.General, "cannot differentiate %v", c)
	}

	// Chain rule.
	u := c.Args[0]
	du, err := Differentiate(u, x)
	if err != nil {
		return nil, err
	}
	var outer node.Node
	switch c.Name {
	case "sin":
		outer = call("cos", u)
	case "cos":
		outer = call("mul", minus1, call("sin", u))
	case "tan":
		outer = call("add", one, call("pow", call("tan", u), node.IntOf(2)))
	case "exp":
		outer = call("exp", u)
	case "ln":
		outer = call("pow", u, minus1)
	case "neg":
		outer = minus1
	default:
		return nil, eval.Errorf(eval.General, "cannot differentiate %v", c)
	}
	return call("mul", outer, du), nil
}

func differentiatePow(base, exp node.Node, x node.Variable) (node.Node, error) {
	db, err := Differentiate(base, x)
	if err != nil {
		return nil, err
	}
	de, err := Differentiate(exp, x)
	if err != nil {
		return nil, err
	}
	switch {
	case !node.Contains(exp, x):
		// d(b^e) = e*b^(e-1)*db
		return call("mul", exp, call("pow", base, call("add", exp, minus1)), db), nil
	case !node.Contains(base, x):
		// d(b^e) = b^e*ln(b)*de
		return call("mul", call("pow", base, exp), call("ln", base), de), nil
	}
	// d(b^e) = b^e*(de*ln(b) + e*db/b)
	return call("mul", call("pow", base, exp), call("add",
		call("mul", de, call("ln", base)),
		call("mul", exp, db, call("pow", base, minus1)))), nil
}
