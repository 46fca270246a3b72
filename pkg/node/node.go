// Package node defines the expression tree produced by the compiler and
// rewritten by the evaluator.
//
// The tree is a closed family of variants. Leaves (numbers, booleans, strings,
// constants, variables, void and transfer keywords) are immutable values.
// Composites (calls, collections, pairs, equations, closures and pipelines)
// are pointers; the evaluator rewrites their children in place, so callers
// that need an independent tree must use Copy.
package node

// Node is an expression.
type Node interface {
	// Kind returns the variant tag of the node.
	Kind() Kind
	// Complexity returns the cost measure of the node: 1 for leaves, and 1
	// plus the sum of the complexities of the children for composites.
	Complexity() int
	// Equal reports whether the node is structurally equal to another node.
	Equal(Node) bool
	// Copy returns an independent copy of the node.
	Copy() Node
	// String returns the canonical textual form of the node. The canonical
	// form compiles back to an equal node.
	String() string
}

// Kind is the variant tag of a Node.
type Kind uint8

// Possible values of Kind.
const (
	KindInt Kind = iota
	KindRational
	KindFloat
	KindBool
	KindString
	KindConstant
	KindVoid
	KindVariable
	KindTransfer
	KindCall
	KindList
	KindVector
	KindMatrix
	KindSet
	KindPair
	KindEquation
	KindClosure
	KindPipeline
)

var kindNames = [...]string{
	KindInt:      "integer",
	KindRational: "rational",
	KindFloat:    "float",
	KindBool:     "bool",
	KindString:   "string",
	KindConstant: "constant",
	KindVoid:     "void",
	KindVariable: "variable",
	KindTransfer: "transfer",
	KindCall:     "call",
	KindList:     "list",
	KindVector:   "vector",
	KindMatrix:   "matrix",
	KindSet:      "set",
	KindPair:     "pair",
	KindEquation: "equation",
	KindClosure:  "closure",
	KindPipeline: "pipeline",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumber reports whether n is an integer, rational or float literal.
func IsNumber(n Node) bool {
	switch n.(type) {
	case Int, Rational, Float:
		return true
	}
	return false
}

// IsLeaf reports whether n has no children.
func IsLeaf(n Node) bool {
	return n.Kind() < KindCall
}

func sumComplexity(ns []Node) int {
	sum := 0
	for _, n := range ns {
		sum += n.Complexity()
	}
	return sum
}

func equalSlices(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func copySlice(ns []Node) []Node {
	if ns == nil {
		return nil
	}
	copied := make([]Node, len(ns))
	for i, n := range ns {
		copied[i] = n.Copy()
	}
	return copied
}
