package eval

import (
	"src.sigma.sh/pkg/node"
)

// Simplify returns the simplest form of n the registered operations can
// find. Bound variables are replaced by their values; unbound variables stay
// symbolic.
func (ev *Evaler) Simplify(n node.Node) (node.Node, error) {
	switch n := n.(type) {
	case *node.Call:
		return ev.simplifyCall(n)
	case node.Variable:
		v, ok := ev.Scope.Lookup(n.Name)
		if !ok {
			return n, nil
		}
		if v.Equal(n) {
			return v, nil
		}
		return ev.nested(v)
	case node.Transfer:
		switch n.Keyword {
		case node.Break:
			return nil, Break
		case node.Continue:
			return nil, Continue
		}
		return nil, ReturnValue{node.Void{}}
	case *node.List:
		elems, err := ev.simplifyAll(n.Elems)
		return &node.List{Elems: elems}, err
	case *node.Vector:
		elems, err := ev.simplifyAll(n.Elems)
		return &node.Vector{Elems: elems}, err
	case *node.Set:
		elems, err := ev.simplifyAll(n.Elems)
		return node.NewSet(elems...), err
	case *node.Matrix:
		rows := make([][]node.Node, len(n.Rows))
		for i, row := range n.Rows {
			var err error
			if rows[i], err = ev.simplifyAll(row); err != nil {
				return nil, err
			}
		}
		return &node.Matrix{Rows: rows}, nil
	case *node.Pair:
		sides, err := ev.simplifyAll([]node.Node{n.Left, n.Right})
		if err != nil {
			return nil, err
		}
		return &node.Pair{Left: sides[0], Right: sides[1], Prep: n.Prep}, nil
	case *node.Equation:
		sides, err := ev.simplifyAll([]node.Node{n.Left, n.Right})
		if err != nil {
			return nil, err
		}
		return &node.Equation{Left: sides[0], Right: sides[1], Rel: n.Rel}, nil
	case *node.Pipeline:
		var last node.Node = node.Void{}
		for _, stmt := range n.Stmts {
			var err error
			if last, err = ev.Simplify(stmt); err != nil {
				return nil, err
			}
		}
		return last, nil
	}
	// Numbers, strings, constants, void and closures.
	return n, nil
}

func (ev *Evaler) simplifyAll(ns []node.Node) ([]node.Node, error) {
	out := make([]node.Node, len(ns))
	for i, n := range ns {
		s, err := ev.Simplify(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// nested simplifies n one level deeper, so that cycles through variables hit
// the depth limit.
func (ev *Evaler) nested(n node.Node) (node.Node, error) {
	defer ev.leave()
	if err := ev.enter(n); err != nil {
		return nil, err
	}
	return ev.Simplify(n)
}

// enter increments the depth. Callers must call leave afterwards even when
// it fails.
func (ev *Evaler) enter(n node.Node) error {
	ev.depth++
	if ev.depth > ev.MaxDepth {
		logger.Printf("depth limit %d reached at %v", ev.MaxDepth, n)
		return tag(Errorf(StackLimit, "maximum depth %d exceeded", ev.MaxDepth), n)
	}
	return nil
}

func (ev *Evaler) leave() { ev.depth-- }

func (ev *Evaler) simplifyCall(c *node.Call) (node.Node, error) {
	defer ev.leave()
	if err := ev.enter(c); err != nil {
		return nil, err
	}

	reg := ev.Scope.Registry()
	flags := reg.Flags(c.Name)
	args := c.Args
	if flags&PreserveArgs == 0 {
		args = make([]node.Node, len(c.Args))
		for i, arg := range c.Args {
			if i == 0 && flags&PreserveFirstArg != 0 {
				args[i] = arg
				continue
			}
			s, err := ev.Simplify(arg)
			if err != nil {
				return nil, tag(err, c)
			}
			args[i] = s
		}
	}
	call := node.NewCall(c.Name, args...)

	for _, op := range reg.Resolve(call) {
		res, err := op.Impl(ev, call.Args)
		if err != nil {
			return nil, tag(err, call)
		}
		if res != nil {
			s, err := ev.Simplify(res)
			if err != nil {
				return nil, tag(err, call)
			}
			return s, nil
		}
	}

	if v, ok := ev.Scope.Lookup(c.Name); ok {
		if cl, ok := v.(*node.Closure); ok {
			res, err := ev.InvokeClosure(cl, call.Args...)
			return res, tag(err, call)
		}
	}

	if flags&Commutative != 0 && len(call.Args) > 2 {
		res, err := ev.rewriteCommutative(call)
		return res, tag(err, call)
	}
	return call, nil
}

// rewriteCommutative simplifies a commutative call by simplifying pairs of
// its arguments. Whenever a pair simplifies to something strictly less
// complex, the two arguments are replaced by the result and the pass starts
// over. The outcome is accepted only if it is less complex than c.
func (ev *Evaler) rewriteCommutative(c *node.Call) (node.Node, error) {
	args := append([]node.Node(nil), c.Args...)
	budget := ev.RewriteLimit
pass:
	for len(args) > 1 {
		for i := range args {
			n := args[i]
			rest := without(args, i)
			for j, m := range rest {
				if budget <= 0 {
					logger.Printf("rewrite limit %d reached at %v", ev.RewriteLimit, c)
					break pass
				}
				budget--
				pair := node.NewCall(c.Name, m, n)
				s, err := ev.Simplify(pair)
				if err != nil {
					return nil, err
				}
				if s.Complexity() < pair.Complexity() {
					args = append(without(rest, j), s)
					continue pass
				}
			}
		}
		break
	}
	var res node.Node
	if len(args) == 1 {
		res = args[0]
	} else {
		res = node.NewCall(c.Name, args...)
	}
	if res.Complexity() < c.Complexity() {
		return res, nil
	}
	return c, nil
}

func without(ns []node.Node, i int) []node.Node {
	out := make([]node.Node, 0, len(ns)-1)
	out = append(out, ns[:i]...)
	return append(out, ns[i+1:]...)
}
