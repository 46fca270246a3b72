package eval

import (
	"errors"

	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

// Flow control. All of these preserve their arguments and simplify them
// when needed.

func ifOp(ev *Evaler, args []node.Node) (node.Node, error) {
	call := &node.Call{Name: "if", Args: args}
	_, v, err := ev.branch(call)
	return v, err
}

// elseOp runs an if-else chain. It gives Void when no branch is taken.
func elseOp(ev *Evaler, args []node.Node) (node.Node, error) {
	call := &node.Call{Name: optable.NameElse, Args: args}
	taken, v, err := ev.branch(call)
	if err == nil && !taken {
		return node.Void{}, nil
	}
	return v, err
}

// branch runs an if call, or an else call chaining if calls, and reports
// whether any branch was taken.
func (ev *Evaler) branch(n node.Node) (bool, node.Node, error) {
	c, ok := n.(*node.Call)
	if !ok || len(c.Args) != 2 {
		return false, nil, WrongType("an if expression", n)
	}
	switch c.Name {
	case "if":
		ok, err := ev.condition(c.Args[0])
		if err != nil || !ok {
			return false, node.Void{}, err
		}
		v, err := ev.RunBlock(c.Args[1])
		return true, v, err
	case optable.NameElse:
		taken, v, err := ev.branch(c.Args[0])
		if taken || err != nil {
			return taken, v, err
		}
		if alt, ok := c.Args[1].(*node.Call); ok && (alt.Name == "if" || alt.Name == optable.NameElse) {
			return ev.branch(alt)
		}
		v, err = ev.RunBlock(c.Args[1])
		return true, v, err
	}
	return false, nil, WrongType("an if expression", n)
}

func (ev *Evaler) condition(n node.Node) (bool, error) {
	v, err := ev.Simplify(n)
	if err != nil {
		return false, err
	}
	b, ok := v.(node.Bool)
	if !ok {
		return false, WrongType("a boolean condition", v)
	}
	return b.V, nil
}

// loopBody runs one iteration of a loop body and reports whether the loop
// should stop.
func (ev *Evaler) loopBody(body node.Node) (bool, error) {
	if err := ev.ctx.Err(); err != nil {
		return true, err
	}
	_, err := ev.RunBlock(body)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, Break):
		return true, nil
	case errors.Is(err, Continue):
		return false, nil
	}
	return true, err
}

func while(ev *Evaler, args []node.Node) (node.Node, error) {
	for {
		ok, err := ev.condition(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return node.Void{}, nil
		}
		if stop, err := ev.loopBody(args[1]); stop {
			return node.Void{}, err
		}
	}
}

func repeat(ev *Evaler, args []node.Node) (node.Node, error) {
	v, err := ev.Simplify(args[0])
	if err != nil {
		return nil, err
	}
	n, ok := v.(node.Int)
	if !ok || !n.IsInt64() {
		return nil, WrongType("a repeat count", v)
	}
	if n.Sign() < 0 {
		return nil, Errorf(Domain, "negative repeat count %v", n)
	}
	for i := int64(0); i < n.Int64(); i++ {
		if stop, err := ev.loopBody(args[1]); stop {
			return node.Void{}, err
		}
	}
	return node.Void{}, nil
}

// forIn implements for(x in collection) {...}.
func forIn(ev *Evaler, args []node.Node) (node.Node, error) {
	p := args[0].(*node.Pair)
	v, ok := p.Left.(node.Variable)
	if p.Prep != "in" || !ok {
		return nil, WrongType("a loop header like x in {1, 2}", p)
	}
	coll, err := ev.Simplify(p.Right)
	if err != nil {
		return nil, err
	}
	var elems []node.Node
	switch coll := coll.(type) {
	case *node.List:
		elems = coll.Elems
	case *node.Vector:
		elems = coll.Elems
	case *node.Set:
		elems = coll.Elems
	case node.String:
		for _, r := range coll.V {
			elems = append(elems, node.String{V: string(r)})
		}
	default:
		return nil, WrongType("a collection to loop over", coll)
	}
	for _, elem := range elems {
		ev.Define(v.Name, elem)
		if stop, err := ev.loopBody(args[1]); stop {
			return node.Void{}, err
		}
	}
	return node.Void{}, nil
}

// forRange implements for(i, from, to) {...}, with both ends included.
func forRange(ev *Evaler, args []node.Node) (node.Node, error) {
	v := args[0].(node.Variable)
	bounds, err := ev.simplifyAll(args[1:3])
	if err != nil {
		return nil, err
	}
	from, ok1 := bounds[0].(node.Int)
	to, ok2 := bounds[1].(node.Int)
	if !ok1 || !ok2 || !from.IsInt64() || !to.IsInt64() {
		return nil, Errorf(TypeMismatch, "loop bounds must be integers, got %v and %v", bounds[0], bounds[1])
	}
	for i := from.Int64(); i <= to.Int64(); i++ {
		ev.Define(v.Name, node.IntOf(i))
		if stop, err := ev.loopBody(args[3]); stop {
			return node.Void{}, err
		}
	}
	return node.Void{}, nil
}

func do(ev *Evaler, args []node.Node) (node.Node, error) {
	return ev.RunBlock(args[0])
}

// try runs its first argument. If that fails, it returns the simplified
// second argument, or the error message when there is none. Flow signals are
// not caught.
func try(ev *Evaler, args []node.Node) (node.Node, error) {
	v, err := ev.RunBlock(args[0])
	if err == nil || IsFlow(err) {
		return v, err
	}
	if len(args) == 2 {
		return ev.RunBlock(args[1])
	}
	return node.String{V: Reason(err).Error()}, nil
}
