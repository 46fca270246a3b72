// Package logic provides boolean connectives and equality.
package logic

import (
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/num"
)

// Module is the logic module.
var Module = &eval.Module{
	Name: "logic",
	Ops: []*eval.Operation{
		eval.Op("not", not, eval.One(eval.Bool)),
		eval.Op("not", notNot, eval.One(eval.Call)),
		eval.Op("not", notOther, eval.One(eval.Any)),
		eval.Op("and", connective(false), eval.Many(eval.Any)),
		eval.Op("or", connective(true), eval.Many(eval.Any)),
		eval.Op("equals", equals, eval.One(eval.Any), eval.One(eval.Any)),
		eval.Op("neq", neq, eval.One(eval.Any), eval.One(eval.Any)),
	},
}

func not(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.Bool{V: !args[0].(node.Bool).V}, nil
}

func notNot(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	if c := args[0].(*node.Call); c.Name == "not" && len(c.Args) == 1 {
		return c.Args[0], nil
	}
	return nil, nil
}

func notOther(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	switch args[0].(type) {
	case node.Variable, *node.Call:
		return nil, nil
	}
	return nil, eval.WrongType("a boolean", args[0])
}

// connective returns the implementation of and (absorbing false) or of or
// (absorbing true). Identity elements are dropped.
func connective(absorbing bool) eval.Impl {
	name := "and"
	if absorbing {
		name = "or"
	}
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		var rest []node.Node
		for _, arg := range args {
			b, ok := arg.(node.Bool)
			switch {
			case !ok:
				rest = append(rest, arg)
			case b.V == absorbing:
				return b, nil
			}
		}
		switch len(rest) {
		case 0:
			return node.Bool{V: !absorbing}, nil
		case 1:
			return rest[0], nil
		case len(args):
			return nil, nil
		}
		return node.NewCall(name, rest...), nil
	}
}

// Equal decides whether two simplified nodes are equal. It returns false for
// the second value when that depends on unbound variables.
func Equal(a, b node.Node) (bool, bool) {
	if a.Equal(b) {
		return true, true
	}
	if node.IsNumber(a) && node.IsNumber(b) {
		c, err := num.Cmp(a, b)
		return err == nil && c == 0, true
	}
	if x, ok := node.Float64(a); ok {
		if y, ok := node.Float64(b); ok {
			return x == y, true
		}
	}
	if isValue(a) && isValue(b) {
		return false, true
	}
	return false, false
}

// isValue reports whether n has no variables or calls in it.
func isValue(n node.Node) bool {
	value := true
	node.Walk(n, func(m node.Node) bool {
		switch m.(type) {
		case node.Variable, *node.Call, *node.Closure:
			value = false
		}
		return value
	})
	return value
}

func equals(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	eq, ok := Equal(args[0], args[1])
	if !ok {
		return nil, nil
	}
	return node.Bool{V: eq}, nil
}

func neq(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	eq, ok := Equal(args[0], args[1])
	if !ok {
		return nil, nil
	}
	return node.Bool{V: !eq}, nil
}
