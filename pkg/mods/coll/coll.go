// Package coll provides operations on lists, vectors, sets and strings as
// sequences: element-wise arithmetic, subscripts, mapping and filtering.
package coll

import (
	"math/big"

	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

// Longest list range may build.
const maxRange = 1 << 20

var (
	seq     = eval.One(eval.Sequence)
	scalar  = eval.One(eval.Algebraic)
	anyArg  = eval.One(eval.Any)
	integer = eval.One(eval.Int)
)

// Module is the coll module.
var Module = &eval.Module{
	Name: "coll",
	Ops: []*eval.Operation{
		eval.Op("add", elementwise("add"), seq, seq),
		commutative(eval.Op("add", broadcast("add"), seq, scalar)),
		eval.Op("sub", elementwise("sub"), seq, seq),
		eval.Op("sub", broadcast("sub"), seq, scalar),
		eval.Op("sub", broadcastLeft("sub"), scalar, seq),
		eval.Op("mul", elementwise("mul"), seq, seq),
		commutative(eval.Op("mul", broadcast("mul"), seq, scalar)),
		eval.Op("div", elementwise("div"), seq, seq),
		eval.Op("div", broadcast("div"), seq, scalar),
		eval.Op("pow", broadcast("pow"), seq, scalar),
		eval.Op("neg", negate, seq),
		eval.Op("concat", concat, seq, seq),

		eval.Op(optable.NameGet, get, anyArg, eval.Many(eval.Any)),
		eval.Op("size", size, anyArg),
		eval.Op("map", mapOp, anyArg, anyArg),
		eval.Op("filter", filter, anyArg, anyArg),
		eval.Op("sum", sum, seq),
		eval.Op("prod", prod, seq),
		eval.Op("set", set, anyArg),
		eval.Op("range", rangeOp, integer),
		eval.Op("range", rangeOp, integer, integer),
		eval.Op("range", rangeOp, integer, integer, integer),
	},
}

func commutative(op *eval.Operation) *eval.Operation {
	op.Commutative = true
	return op
}

func elems(n node.Node) []node.Node {
	switch n := n.(type) {
	case *node.List:
		return n.Elems
	case *node.Vector:
		return n.Elems
	case *node.Set:
		return n.Elems
	}
	return nil
}

// like returns a sequence of the same kind as the template. The result is a
// vector if any of the templates is one.
func like(elems []node.Node, templates ...node.Node) node.Node {
	for _, t := range templates {
		if _, ok := t.(*node.Vector); ok {
			return &node.Vector{Elems: elems}
		}
	}
	return &node.List{Elems: elems}
}

func elementwise(name string) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		a, b := elems(args[0]), elems(args[1])
		if len(a) != len(b) {
			return nil, eval.Errorf(eval.Dimension, "%s of sequences of sizes %d and %d", name, len(a), len(b))
		}
		out := make([]node.Node, len(a))
		for i := range a {
			out[i] = node.NewCall(name, a[i], b[i])
		}
		return like(out, args...), nil
	}
}

func broadcast(name string) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		a := elems(args[0])
		out := make([]node.Node, len(a))
		for i := range a {
			out[i] = node.NewCall(name, a[i], args[1])
		}
		return like(out, args[0]), nil
	}
}

func broadcastLeft(name string) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		b := elems(args[1])
		out := make([]node.Node, len(b))
		for i := range b {
			out[i] = node.NewCall(name, args[0], b[i])
		}
		return like(out, args[1]), nil
	}
}

func negate(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	a := elems(args[0])
	out := make([]node.Node, len(a))
	for i := range a {
		out[i] = node.NewCall("neg", a[i])
	}
	return like(out, args[0]), nil
}

func concat(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	a, b := elems(args[0]), elems(args[1])
	out := make([]node.Node, 0, len(a)+len(b))
	out = append(append(out, a...), b...)
	return like(out, args...), nil
}

// get implements subscripts. Each index selects an element of a list or
// vector, a character of a string or a row of a matrix.
func get(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	target := args[0]
	for _, idx := range args[1:] {
		switch t := target.(type) {
		case node.Variable, *node.Call:
			return nil, nil
		case *node.List, *node.Vector:
			es := elems(t)
			i, err := eval.ResolveIndex(idx, len(es))
			if err != nil {
				return nil, err
			}
			target = es[i]
		case node.String:
			runes := []rune(t.V)
			i, err := eval.ResolveIndex(idx, len(runes))
			if err != nil {
				return nil, err
			}
			target = node.String{V: string(runes[i])}
		case *node.Matrix:
			i, err := eval.ResolveIndex(idx, t.NRows())
			if err != nil {
				return nil, err
			}
			target = &node.Vector{Elems: t.Rows[i]}
		default:
			return nil, eval.WrongType("a list, vector, matrix or string", target)
		}
	}
	return target, nil
}

func size(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	switch n := args[0].(type) {
	case *node.List, *node.Vector, *node.Set:
		return node.IntOf(int64(len(elems(n)))), nil
	case node.String:
		return node.IntOf(int64(len([]rune(n.V)))), nil
	case *node.Matrix:
		return &node.List{Elems: []node.Node{
			node.IntOf(int64(n.NRows())), node.IntOf(int64(n.NCols()))}}, nil
	case node.Variable, *node.Call:
		return nil, nil
	}
	return nil, eval.WrongType("a collection", args[0])
}

// apply applies a function reference or a closure to an element.
func apply(ev *eval.Evaler, fn, elem node.Node) (node.Node, error) {
	switch fn := fn.(type) {
	case *node.Closure:
		return ev.InvokeClosure(fn, elem)
	case node.Variable:
		return ev.Simplify(node.NewCall(fn.Name, elem))
	}
	return nil, eval.WrongType("a function or a closure", fn)
}

// members returns the elements of a mappable collection, and false if the
// collection is still symbolic.
func members(n node.Node) ([]node.Node, bool, error) {
	switch n := n.(type) {
	case *node.List, *node.Vector, *node.Set:
		return elems(n), true, nil
	case node.Variable, *node.Call:
		return nil, false, nil
	}
	return nil, false, eval.WrongType("a list, vector or set", n)
}

func rebuild(out []node.Node, template node.Node) node.Node {
	if _, ok := template.(*node.Set); ok {
		return node.NewSet(out...)
	}
	return like(out, template)
}

func mapOp(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	es, ok, err := members(args[0])
	if !ok {
		return nil, err
	}
	out := make([]node.Node, len(es))
	for i, e := range es {
		if out[i], err = apply(ev, args[1], e); err != nil {
			return nil, err
		}
	}
	return rebuild(out, args[0]), nil
}

func filter(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	es, ok, err := members(args[0])
	if !ok {
		return nil, err
	}
	var out []node.Node
	for _, e := range es {
		keep, err := apply(ev, args[1], e)
		if err != nil {
			return nil, err
		}
		b, ok := keep.(node.Bool)
		if !ok {
			return nil, eval.Errorf(eval.TypeMismatch, "filter predicate gave %v for %v, want a boolean", keep, e)
		}
		if b.V {
			out = append(out, e)
		}
	}
	if out == nil {
		out = []node.Node{}
	}
	return rebuild(out, args[0]), nil
}

func sum(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	es := elems(args[0])
	if len(es) == 0 {
		return node.IntOf(0), nil
	}
	return node.NewCall("add", es...), nil
}

func prod(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	es := elems(args[0])
	if len(es) == 0 {
		return node.IntOf(1), nil
	}
	return node.NewCall("mul", es...), nil
}

func set(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	switch n := args[0].(type) {
	case *node.Set:
		return n, nil
	case *node.List, *node.Vector:
		return node.NewSet(elems(n)...), nil
	case node.Variable, *node.Call:
		return nil, nil
	}
	return node.NewSet(args[0]), nil
}

// rangeOp returns the list of integers from a (default 0) up to but not
// including b, by step (default 1).
func rangeOp(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	bounds := make([]*big.Int, len(args))
	for i, arg := range args {
		bounds[i] = arg.(node.Int).V
	}
	from, to, step := big.NewInt(0), bounds[0], big.NewInt(1)
	if len(bounds) > 1 {
		from, to = bounds[0], bounds[1]
	}
	if len(bounds) > 2 {
		step = bounds[2]
	}
	if step.Sign() == 0 {
		return nil, eval.Errorf(eval.Domain, "range step must not be zero")
	}
	count := new(big.Int).Sub(to, from)
	count.Add(count, step).Sub(count, big.NewInt(int64(step.Sign())))
	count.Quo(count, step)
	if count.Sign() <= 0 {
		return &node.List{Elems: []node.Node{}}, nil
	}
	if !count.IsInt64() || count.Int64() > maxRange {
		return nil, eval.Errorf(eval.Range, "range of %v elements is too long", count)
	}
	out := make([]node.Node, count.Int64())
	cur := new(big.Int).Set(from)
	for i := range out {
		out[i] = node.Int{V: new(big.Int).Set(cur)}
		cur.Add(cur, step)
	}
	return &node.List{Elems: out}, nil
}
