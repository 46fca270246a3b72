package node

import (
	"errors"
	"sort"
	"strings"
)

// Call is a function application. It is also how every operator is
// represented: "a+b" compiles to Call{"add", [a, b]}.
type Call struct {
	Name string
	Args []Node
}

// NewCall returns a call node. Arguments of commutative names are flattened
// and put in canonical order.
func NewCall(name string, args ...Node) *Call {
	c := &Call{name, args}
	if IsCommutative(name) {
		c.Canonicalize()
	}
	return c
}

func (*Call) Kind() Kind            { return KindCall }
func (c *Call) Complexity() int     { return sumComplexity(c.Args) + 1 }
func (c *Call) Copy() Node          { return &Call{c.Name, copySlice(c.Args)} }
func (c *Call) String() string      { return c.Name + "(" + join(c.Args, ",") + ")" }
func (c *Call) IsCommutative() bool { return IsCommutative(c.Name) }

func (c *Call) Equal(o Node) bool {
	d, ok := o.(*Call)
	return ok && c.Name == d.Name && equalSlices(c.Args, d.Args)
}

// Canonicalize flattens nested calls with the same name and sorts the
// arguments by their canonical form. It is a no-op for non-commutative names.
func (c *Call) Canonicalize() {
	if !IsCommutative(c.Name) {
		return
	}
	flat := make([]Node, 0, len(c.Args))
	for _, arg := range c.Args {
		if inner, ok := arg.(*Call); ok && inner.Name == c.Name {
			inner.Canonicalize()
			flat = append(flat, inner.Args...)
		} else {
			flat = append(flat, arg)
		}
	}
	c.Args = sortCanonically(flat)
}

func sortCanonically(ns []Node) []Node {
	keys := make([]string, len(ns))
	for i, n := range ns {
		keys[i] = n.String()
	}
	idx := make([]int, len(ns))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })
	sorted := make([]Node, len(ns))
	for i, j := range idx {
		sorted[i] = ns[j]
	}
	return sorted
}

// List is an ordered collection.
type List struct{ Elems []Node }

func (*List) Kind() Kind          { return KindList }
func (l *List) Complexity() int   { return sumComplexity(l.Elems) + 1 }
func (l *List) Copy() Node        { return &List{copySlice(l.Elems)} }
func (l *List) String() string    { return "{" + join(l.Elems, ",") + "}" }
func (l *List) Equal(o Node) bool { m, ok := o.(*List); return ok && equalSlices(l.Elems, m.Elems) }

// Vector is a fixed-arity ordered collection.
type Vector struct{ Elems []Node }

func (*Vector) Kind() Kind          { return KindVector }
func (v *Vector) Complexity() int   { return sumComplexity(v.Elems) + 1 }
func (v *Vector) Copy() Node        { return &Vector{copySlice(v.Elems)} }
func (v *Vector) String() string    { return "[" + join(v.Elems, ",") + "]" }
func (v *Vector) Equal(o Node) bool { w, ok := o.(*Vector); return ok && equalSlices(v.Elems, w.Elems) }

// Matrix is a rectangular collection of rows. It always has at least one row,
// and all rows have the same non-zero length.
type Matrix struct{ Rows [][]Node }

// ErrBadMatrixShape is returned by NewMatrix when rows are missing, empty or
// of unequal length.
var ErrBadMatrixShape = errors.New("matrix rows must be non-empty and of equal length")

// NewMatrix validates the shape of the rows and returns a Matrix.
func NewMatrix(rows [][]Node) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrBadMatrixShape
	}
	for _, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			return nil, ErrBadMatrixShape
		}
	}
	return &Matrix{rows}, nil
}

func (*Matrix) Kind() Kind   { return KindMatrix }
func (m *Matrix) NRows() int { return len(m.Rows) }
func (m *Matrix) NCols() int { return len(m.Rows[0]) }

func (m *Matrix) Complexity() int {
	sum := 1
	for _, row := range m.Rows {
		sum += sumComplexity(row) + 1
	}
	return sum
}

func (m *Matrix) Copy() Node {
	rows := make([][]Node, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = copySlice(row)
	}
	return &Matrix{rows}
}

func (m *Matrix) String() string {
	rows := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = "[" + join(row, ",") + "]"
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func (m *Matrix) Equal(o Node) bool {
	n, ok := o.(*Matrix)
	if !ok || len(m.Rows) != len(n.Rows) {
		return false
	}
	for i := range m.Rows {
		if !equalSlices(m.Rows[i], n.Rows[i]) {
			return false
		}
	}
	return true
}

// Set is an unordered collection without duplicates, keyed by the canonical
// form of its elements.
type Set struct{ Elems []Node }

// NewSet returns a Set of the given elements with duplicates removed.
func NewSet(elems ...Node) *Set {
	seen := make(map[string]bool, len(elems))
	var unique []Node
	for _, e := range elems {
		if key := e.String(); !seen[key] {
			seen[key] = true
			unique = append(unique, e)
		}
	}
	return &Set{sortCanonically(unique)}
}

func (*Set) Kind() Kind        { return KindSet }
func (s *Set) Complexity() int { return sumComplexity(s.Elems) + 1 }
func (s *Set) Copy() Node      { return &Set{copySlice(s.Elems)} }
func (s *Set) String() string  { return "set({" + join(s.Elems, ",") + "})" }

// Has reports whether the set contains an element equal to n.
func (s *Set) Has(n Node) bool {
	key := n.String()
	for _, e := range s.Elems {
		if e.String() == key {
			return true
		}
	}
	return false
}

func (s *Set) Equal(o Node) bool {
	t, ok := o.(*Set)
	if !ok || len(s.Elems) != len(t.Elems) {
		return false
	}
	for _, e := range s.Elems {
		if !t.Has(e) {
			return false
		}
	}
	return true
}

// Pair is two nodes joined by a preposition, like "x at 3".
type Pair struct {
	Left, Right Node
	Prep        string
}

func (*Pair) Kind() Kind        { return KindPair }
func (p *Pair) Complexity() int { return p.Left.Complexity() + p.Right.Complexity() + 1 }
func (p *Pair) Copy() Node      { return &Pair{p.Left.Copy(), p.Right.Copy(), p.Prep} }
func (p *Pair) String() string  { return "(" + p.Left.String() + " " + p.Prep + " " + p.Right.String() + ")" }

func (p *Pair) Equal(o Node) bool {
	q, ok := o.(*Pair)
	return ok && p.Prep == q.Prep && p.Left.Equal(q.Left) && p.Right.Equal(q.Right)
}

// Equation is two nodes joined by a relation. Equality is insensitive to
// orientation: a=b equals b=a.
type Equation struct {
	Left, Right Node
	Rel         string
}

func (*Equation) Kind() Kind        { return KindEquation }
func (e *Equation) Complexity() int { return e.Left.Complexity() + e.Right.Complexity() + 1 }
func (e *Equation) Copy() Node      { return &Equation{e.Left.Copy(), e.Right.Copy(), e.Rel} }
func (e *Equation) String() string  { return "(" + e.Left.String() + e.Rel + e.Right.String() + ")" }

func (e *Equation) Equal(o Node) bool {
	f, ok := o.(*Equation)
	if !ok || e.Rel != f.Rel {
		return false
	}
	return e.Left.Equal(f.Left) && e.Right.Equal(f.Right) ||
		e.Left.Equal(f.Right) && e.Right.Equal(f.Left)
}

// Closure wraps a node whose evaluation is deferred until the closure is
// run. When CaptureReturn is set, a return signal raised by the body stops at
// the closure and its value becomes the closure's value.
type Closure struct {
	Body          Node
	CaptureReturn bool
}

func (*Closure) Kind() Kind        { return KindClosure }
func (c *Closure) Complexity() int { return c.Body.Complexity() + 1 }
func (c *Closure) Copy() Node      { return &Closure{c.Body.Copy(), c.CaptureReturn} }
func (c *Closure) String() string  { return "#(" + c.Body.String() + ")" }

func (c *Closure) Equal(o Node) bool {
	d, ok := o.(*Closure)
	return ok && c.CaptureReturn == d.CaptureReturn && c.Body.Equal(d.Body)
}

// Pipeline is a sequence of statements whose value is that of the last one.
type Pipeline struct{ Stmts []Node }

func (*Pipeline) Kind() Kind          { return KindPipeline }
func (p *Pipeline) Complexity() int   { return sumComplexity(p.Stmts) + 1 }
func (p *Pipeline) Copy() Node        { return &Pipeline{copySlice(p.Stmts)} }
func (p *Pipeline) String() string    { return "(" + join(p.Stmts, ";") + ")" }
func (p *Pipeline) Equal(o Node) bool { q, ok := o.(*Pipeline); return ok && equalSlices(p.Stmts, q.Stmts) }

func join(ns []Node, sep string) string {
	strs := make([]string, len(ns))
	for i, n := range ns {
		strs[i] = n.String()
	}
	return strings.Join(strs, sep)
}
