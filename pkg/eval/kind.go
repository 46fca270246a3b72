package eval

import "src.sigma.sh/pkg/node"

// Kind is a named predicate over nodes, used as the type of a parameter. The
// weight measures how unspecific the kind is; resolution tries operations
// with a lower total weight first.
type Kind struct {
	Name   string
	Weight int
	Match  func(node.Node) bool
}

func (k *Kind) String() string { return k.Name }

func concrete(name string, kinds ...node.Kind) *Kind {
	return &Kind{name, 1, func(n node.Node) bool {
		for _, k := range kinds {
			if n.Kind() == k {
				return true
			}
		}
		return false
	}}
}

// Predefined kinds.
var (
	Int      = concrete("integer", node.KindInt)
	Rational = concrete("rational", node.KindRational)
	Float    = concrete("float", node.KindFloat)
	Bool     = concrete("bool", node.KindBool)
	String   = concrete("string", node.KindString)
	Constant = concrete("constant", node.KindConstant)
	Variable = concrete("variable", node.KindVariable)
	Call     = concrete("call", node.KindCall)
	List     = concrete("list", node.KindList)
	Vector   = concrete("vector", node.KindVector)
	Matrix   = concrete("matrix", node.KindMatrix)
	Set      = concrete("set", node.KindSet)
	Pair     = concrete("pair", node.KindPair)
	Equation = concrete("equation", node.KindEquation)
	Closure  = concrete("closure", node.KindClosure)
	Void     = concrete("void", node.KindVoid)

	Number = &Kind{"number", 2, node.IsNumber}
	// Sequence is a list or a vector.
	Sequence = &Kind{"sequence", 2, func(n node.Node) bool {
		k := n.Kind()
		return k == node.KindList || k == node.KindVector
	}}
	// Algebraic is anything that stands for a number: numbers, constants,
	// variables and calls.
	Algebraic = &Kind{"algebraic", 3, IsAlgebraic}
	Any       = &Kind{"any", 4, func(node.Node) bool { return true }}
)

// IsAlgebraic reports whether n can stand for a number.
func IsAlgebraic(n node.Node) bool {
	switch n.Kind() {
	case node.KindInt, node.KindRational, node.KindFloat,
		node.KindConstant, node.KindVariable, node.KindCall:
		return true
	}
	return false
}
