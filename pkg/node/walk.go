package node

// Children returns the direct children of n in order. Matrix elements are
// returned row by row.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Call:
		return n.Args
	case *List:
		return n.Elems
	case *Vector:
		return n.Elems
	case *Set:
		return n.Elems
	case *Matrix:
		var all []Node
		for _, row := range n.Rows {
			all = append(all, row...)
		}
		return all
	case *Pair:
		return []Node{n.Left, n.Right}
	case *Equation:
		return []Node{n.Left, n.Right}
	case *Closure:
		return []Node{n.Body}
	case *Pipeline:
		return n.Stmts
	}
	return nil
}

// Walk calls f on n and its descendants in pre-order. Children of a node are
// skipped when f returns false for it.
func Walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, ch := range Children(n) {
		Walk(ch, f)
	}
}

// Contains reports whether n or any of its descendants is equal to target.
func Contains(n, target Node) bool {
	found := false
	Walk(n, func(m Node) bool {
		if found {
			return false
		}
		if m.Equal(target) {
			found = true
		}
		return !found
	})
	return found
}

// Transform returns a copy of n where every node for which f returns true is
// replaced by the node f returns. Replaced nodes are not descended into.
// Calls are canonicalized again after their arguments change.
func Transform(n Node, f func(Node) (Node, bool)) Node {
	if m, ok := f(n); ok {
		return m
	}
	tr := func(ns []Node) []Node {
		if ns == nil {
			return nil
		}
		out := make([]Node, len(ns))
		for i, m := range ns {
			out[i] = Transform(m, f)
		}
		return out
	}
	switch n := n.(type) {
	case *Call:
		return NewCall(n.Name, tr(n.Args)...)
	case *List:
		return &List{tr(n.Elems)}
	case *Vector:
		return &Vector{tr(n.Elems)}
	case *Set:
		return NewSet(tr(n.Elems)...)
	case *Matrix:
		rows := make([][]Node, len(n.Rows))
		for i, row := range n.Rows {
			rows[i] = tr(row)
		}
		return &Matrix{rows}
	case *Pair:
		return &Pair{Transform(n.Left, f), Transform(n.Right, f), n.Prep}
	case *Equation:
		return &Equation{Transform(n.Left, f), Transform(n.Right, f), n.Rel}
	case *Closure:
		return &Closure{Transform(n.Body, f), n.CaptureReturn}
	case *Pipeline:
		return &Pipeline{tr(n.Stmts)}
	}
	return n
}

// Substitute returns a copy of n with every occurrence of from replaced by to.
func Substitute(n, from, to Node) Node {
	return Transform(n, func(m Node) (Node, bool) {
		if m.Equal(from) {
			return to.Copy(), true
		}
		return nil, false
	})
}
