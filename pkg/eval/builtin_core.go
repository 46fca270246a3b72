package eval

import (
	"fmt"
	"strings"

	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

// Core operations: definitions, flow control and output.

const inoutName = "inout"

var coreModule = &Module{
	Name: "core",
	Ops: []*Operation{
		Op(optable.NameDefine, define, One(Any), One(Any)),
		Op("del", del, Many(Any)),
		Op("print", printOp, Many(Any)),
		Op(optable.NameOperator, operator, Many(Any)),
		Op(optable.NameReturn, returnOp, Many(Any)),
		Op("if", ifOp, One(Any), One(Any)),
		Op(optable.NameElse, elseOp, One(Any), One(Any)),
		Op("while", while, One(Any), One(Any)),
		Op("repeat", repeat, One(Any), One(Any)),
		Op("for", forIn, One(Pair), One(Any)),
		Op("for", forRange, One(Variable), One(Any), One(Any), One(Any)),
		Op("do", do, One(Any)),
		Op("try", try, One(Any)),
		Op("try", try, One(Any), One(Any)),
	},
	Flags: map[string]CallFlags{
		optable.NameDefine: PreserveArgs,
		"del":              PreserveArgs,
		"if":               PreserveArgs,
		optable.NameElse:   PreserveArgs,
		"while":            PreserveArgs,
		"repeat":           PreserveArgs,
		"for":              PreserveArgs,
		"do":               PreserveArgs,
		"try":              PreserveArgs,
		inoutName:          PreserveArgs,
		"add":              Commutative,
		"mul":              Commutative,
		"and":              Commutative,
		"or":               Commutative,
	},
}

func define(ev *Evaler, args []node.Node) (node.Node, error) {
	switch lhs := args[0].(type) {
	case node.Variable:
		v, err := ev.Simplify(args[1])
		if err != nil {
			return nil, err
		}
		if node.Contains(v, lhs) {
			return nil, Errorf(CircularDefinition, "%s is defined in terms of itself: %v", lhs.Name, v)
		}
		ev.Define(lhs.Name, v)
		return v, nil
	case *node.Call:
		if lhs.Name == optable.NameGet {
			return assignElement(ev, lhs, args[1])
		}
		impl, err := ev.Implement(functionBody(args[1]), lhs.Args)
		if err != nil {
			return nil, err
		}
		params := make([]Parameter, len(lhs.Args))
		for i := range params {
			params[i] = One(Any)
		}
		reg := ev.Scope.Registry().Remove(lhs.Name, params)
		ev.Scope.SetRegistry(reg.Register(&Operation{Name: lhs.Name, Params: params, Impl: impl}))
		logger.Printf("defined function %s/%d", lhs.Name, len(params))
		return node.Void{}, nil
	}
	return nil, Errorf(General, "cannot define %v", args[0])
}

// functionBody unwraps a braced block holding a single statement or
// pipeline, as in f(x) := {x + 1} and f(x) := { y := x; y+1 }. Bodies with
// several comma-separated elements stay lists.
func functionBody(n node.Node) node.Node {
	if l, ok := n.(*node.List); ok && len(l.Elems) == 1 {
		return l.Elems[0]
	}
	return n
}

// assignElement implements a[i] := v for lists and vectors.
func assignElement(ev *Evaler, lhs *node.Call, rhs node.Node) (node.Node, error) {
	target, ok := lhs.Args[0].(node.Variable)
	if !ok || len(lhs.Args) != 2 {
		return nil, Errorf(InvalidSubscript, "cannot assign to %v", lhs)
	}
	seq, ok := ev.Lookup(target.Name)
	if !ok {
		return nil, Errorf(UndefinedVariable, "%s", target.Name)
	}
	idx, err := ev.Simplify(lhs.Args[1])
	if err != nil {
		return nil, err
	}
	v, err := ev.Simplify(rhs)
	if err != nil {
		return nil, err
	}
	var elems []node.Node
	switch seq := seq.(type) {
	case *node.List:
		elems = append([]node.Node(nil), seq.Elems...)
	case *node.Vector:
		elems = append([]node.Node(nil), seq.Elems...)
	default:
		return nil, WrongType("a list or vector", seq)
	}
	i, err := ResolveIndex(idx, len(elems))
	if err != nil {
		return nil, err
	}
	elems[i] = v
	if _, ok := seq.(*node.Vector); ok {
		ev.Define(target.Name, &node.Vector{Elems: elems})
	} else {
		ev.Define(target.Name, &node.List{Elems: elems})
	}
	return v, nil
}

// ResolveIndex checks a zero-based index against a length. Negative indices
// count from the end.
func ResolveIndex(idx node.Node, n int) (int, error) {
	i, ok := compile.IntArg(idx)
	if !ok {
		return 0, Errorf(InvalidSubscript, "index must be an integer, got %v", idx)
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, Errorf(Index, "index %v out of range for length %d", idx, n)
	}
	return i, nil
}

func del(ev *Evaler, args []node.Node) (node.Node, error) {
	for _, arg := range args {
		v, ok := arg.(node.Variable)
		if !ok {
			return nil, WrongType("a variable", arg)
		}
		switch {
		case ev.Scope.Delete(v.Name):
		case ev.Scope.Registry().Has(v.Name):
			ev.Scope.SetRegistry(ev.Scope.Registry().RemoveAll(v.Name))
		default:
			return nil, Errorf(UndefinedVariable, "%s", v.Name)
		}
	}
	return node.Void{}, nil
}

func printOp(ev *Evaler, args []node.Node) (node.Node, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		if s, ok := arg.(node.String); ok {
			parts[i] = s.V
		} else {
			parts[i] = ev.Render(arg)
		}
	}
	fmt.Fprintln(ev.Out, strings.Join(parts, " "))
	return node.Void{}, nil
}

func operator(ev *Evaler, args []node.Node) (node.Node, error) {
	def, ok := compile.ParseOperatorDef(node.NewCall(optable.NameOperator, args...))
	if !ok {
		return nil, Errorf(General, "usage: operator(name, prefix|infix|postfix, precedence, symbol)")
	}
	if err := def.Apply(ev.Table); err != nil {
		return nil, &Error{General, err.Error()}
	}
	return node.Void{}, nil
}

func returnOp(ev *Evaler, args []node.Node) (node.Node, error) {
	switch len(args) {
	case 0:
		return nil, ReturnValue{node.Void{}}
	case 1:
		return nil, ReturnValue{args[0]}
	}
	return nil, ReturnValue{&node.List{Elems: args}}
}
