package eval

import (
	"errors"
	"strconv"

	"src.sigma.sh/pkg/node"
)

// Name of the variable bound to the first argument of a closure. The other
// arguments are bound to "$1", "$2" and so on.
const ClosureArg = "$"

// param is a formal parameter of a user defined function.
type param struct {
	name  string
	fresh string
	byRef bool
}

// Implement builds the implementation of a user defined function with the
// given body and parameters. Each parameter is renamed to a fresh name in the
// body, so that an argument mentioning the parameter name, as in f({x}), is
// not captured.
//
// A parameter written as &x is passed by reference: the argument must be
// written as &y too, and the value of x when the function returns is assigned
// back to y.
func (ev *Evaler) Implement(body node.Node, params []node.Node) (Impl, error) {
	ps := make([]param, len(params))
	for i, p := range params {
		name, byRef, err := paramName(p)
		if err != nil {
			return nil, err
		}
		for _, q := range ps[:i] {
			if q.name == name {
				return nil, Errorf(General, "duplicate parameter %s", name)
			}
		}
		ps[i] = param{name, ev.Table.Encoder.Fresh(name), byRef}
		body = rename(body, name, ps[i].fresh)
	}
	return func(ev *Evaler, args []node.Node) (node.Node, error) {
		if len(args) != len(ps) {
			return nil, nil
		}
		return ev.callFunction(body, ps, args)
	}, nil
}

func paramName(p node.Node) (string, bool, error) {
	switch p := p.(type) {
	case node.Variable:
		return p.Name, false, nil
	case *node.Call:
		if p.Name == inoutName {
			if len(p.Args) == 1 {
				if v, ok := p.Args[0].(node.Variable); ok {
					return v.Name, true, nil
				}
			}
			return "", false, Errorf(General, "malformed by-reference parameter %v", p)
		}
	}
	return "", false, Errorf(General, "parameter must be a variable, got %v", p)
}

// rename replaces a variable and calls of the same name.
func rename(n node.Node, from, to string) node.Node {
	return node.Transform(n, func(m node.Node) (node.Node, bool) {
		switch m := m.(type) {
		case node.Variable:
			if m.Name == from {
				return node.Variable{Name: to}, true
			}
		case *node.Call:
			if m.Name == from {
				args := make([]node.Node, len(m.Args))
				for i, arg := range m.Args {
					args[i] = rename(arg, from, to)
				}
				return node.NewCall(to, args...), true
			}
		}
		return nil, false
	})
}

// renameCalls replaces the names of calls, leaving variables alone.
func renameCalls(n node.Node, from, to string) node.Node {
	return node.Transform(n, func(m node.Node) (node.Node, bool) {
		if c, ok := m.(*node.Call); ok && c.Name == from {
			args := make([]node.Node, len(c.Args))
			for i, arg := range c.Args {
				args[i] = renameCalls(arg, from, to)
			}
			return node.NewCall(to, args...), true
		}
		return nil, false
	})
}

func (ev *Evaler) callFunction(body node.Node, ps []param, args []node.Node) (node.Node, error) {
	type export struct{ fresh, target string }
	var exports []export
	values := make([]node.Node, len(ps))
	for i, p := range ps {
		arg := args[i]
		if p.byRef {
			target, ok := refTarget(arg)
			if !ok {
				return nil, Errorf(General, "argument for by-reference parameter %s must be written as &name, got %v", p.name, arg)
			}
			v, ok := ev.Scope.Lookup(target)
			if !ok {
				return nil, Errorf(General, "undefined by-reference argument %s", target)
			}
			values[i] = v
			exports = append(exports, export{p.fresh, target})
			continue
		}
		if v, ok := arg.(node.Variable); ok && ev.Scope.Registry().Has(v.Name) {
			// A function reference, as in apply(sq, 3).
			body = renameCalls(body, p.fresh, v.Name)
		}
		values[i] = arg
	}

	ev.Scope.Save()
	for i, p := range ps {
		ev.Scope.Define(p.fresh, values[i])
	}
	res, err := ev.runClosure(&node.Closure{Body: body, CaptureReturn: true})
	if err == nil {
		for i, p := range ps {
			res = node.Substitute(res, node.Variable{Name: p.fresh}, values[i])
		}
	}
	exported := make([]node.Node, len(exports))
	for i, ex := range exports {
		exported[i], _ = ev.Scope.Lookup(ex.fresh)
	}
	ev.Scope.Restore()
	if err != nil {
		return nil, err
	}
	for i, ex := range exports {
		if exported[i] != nil {
			ev.Scope.Define(ex.target, exported[i])
		}
	}
	return res, nil
}

func refTarget(arg node.Node) (string, bool) {
	if c, ok := arg.(*node.Call); ok && c.Name == inoutName && len(c.Args) == 1 {
		if v, ok := c.Args[0].(node.Variable); ok {
			return v.Name, true
		}
	}
	return "", false
}

// InvokeClosure calls a closure with arguments in a new scope. A return in
// the closure body returns from the closure.
func (ev *Evaler) InvokeClosure(cl *node.Closure, args ...node.Node) (node.Node, error) {
	ev.Scope.Save()
	defer ev.Scope.Restore()
	if len(args) > 0 {
		ev.Scope.Define(ClosureArg, args[0])
	}
	for i, arg := range args {
		ev.Scope.Define(ClosureArg+strconv.Itoa(i+1), arg)
	}
	return ev.runClosure(&node.Closure{Body: cl.Body, CaptureReturn: true})
}

// RunBlock runs the body of a flow control construct. The body of a closure
// is simplified in the current scope; other nodes are simplified as is.
func (ev *Evaler) RunBlock(n node.Node) (node.Node, error) {
	if cl, ok := n.(*node.Closure); ok {
		return ev.runClosure(cl)
	}
	return ev.Simplify(n)
}

func (ev *Evaler) runClosure(cl *node.Closure) (node.Node, error) {
	res, err := ev.Simplify(cl.Body)
	var ret ReturnValue
	if cl.CaptureReturn && errors.As(err, &ret) {
		return ret.Value, nil
	}
	return res, err
}
