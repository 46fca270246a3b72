// Package linalg provides matrix operations. Entries may be symbolic; the
// results are built as expressions and simplified by the engine.
package linalg

import (
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
)

// Largest dimension identity builds.
const maxIdentity = 1 << 10

var (
	matrix = eval.One(eval.Matrix)
	vector = eval.One(eval.Vector)
	scalar = eval.One(eval.Algebraic)
)

// Module is the linalg module.
var Module = &eval.Module{
	Name: "linalg",
	Ops: []*eval.Operation{
		eval.Op("det", det, matrix),
		eval.Op("inv", inv, matrix),
		eval.Op("transpose", transpose, matrix),
		eval.Op("transpose", transposeVector, vector),
		eval.Op("identity", identity, eval.One(eval.Int)),
		eval.Op("dot", dotVectors, vector, vector),
		eval.Op("dot", dotMatrices, matrix, matrix),
		eval.Op("dot", dotMatrixVector, matrix, vector),
		eval.Op("dot", dotVectorMatrix, vector, matrix),
		eval.Op("add", entrywise("add"), matrix, matrix),
		eval.Op("sub", entrywise("sub"), matrix, matrix),
		{Name: "mul", Params: []eval.Parameter{matrix, scalar}, Commutative: true, Impl: scale},
		eval.Op("neg", negate, matrix),
	},
}

func square(m *node.Matrix) error {
	if m.NRows() != m.NCols() {
		return eval.Errorf(eval.NonSquareMatrix, "%d×%d matrix", m.NRows(), m.NCols())
	}
	return nil
}

func det(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	m := args[0].(*node.Matrix)
	if err := square(m); err != nil {
		return nil, err
	}
	return determinant(m.Rows), nil
}

// determinant expands along the first row.
func determinant(rows [][]node.Node) node.Node {
	n := len(rows)
	switch n {
	case 1:
		return rows[0][0]
	case 2:
		return node.NewCall("sub",
			node.NewCall("mul", rows[0][0], rows[1][1]),
			node.NewCall("mul", rows[0][1], rows[1][0]))
	}
	terms := make([]node.Node, n)
	for j := 0; j < n; j++ {
		term := node.NewCall("mul", rows[0][j], determinant(minor(rows, 0, j)))
		if j%2 == 1 {
			term = node.NewCall("neg", term)
		}
		terms[j] = term
	}
	return node.NewCall("add", terms...)
}

// minor returns rows without row i and column j.
func minor(rows [][]node.Node, i, j int) [][]node.Node {
	out := make([][]node.Node, 0, len(rows)-1)
	for r, row := range rows {
		if r == i {
			continue
		}
		cut := make([]node.Node, 0, len(row)-1)
		cut = append(cut, row[:j]...)
		out = append(out, append(cut, row[j+1:]...))
	}
	return out
}

// inv returns the adjugate divided by the determinant. A zero determinant
// surfaces as a division by zero.
func inv(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	m := args[0].(*node.Matrix)
	if err := square(m); err != nil {
		return nil, err
	}
	n := m.NRows()
	recip := node.NewCall("pow", determinant(m.Rows), node.IntOf(-1))
	if n == 1 {
		return &node.Matrix{Rows: [][]node.Node{{recip}}}, nil
	}
	rows := make([][]node.Node, n)
	for i := range rows {
		rows[i] = make([]node.Node, n)
		for j := range rows[i] {
			var cofactor node.Node = determinant(minor(m.Rows, j, i))
			if (i+j)%2 == 1 {
				cofactor = node.NewCall("neg", cofactor)
			}
			rows[i][j] = node.NewCall("mul", cofactor, recip)
		}
	}
	return &node.Matrix{Rows: rows}, nil
}

func transpose(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	m := args[0].(*node.Matrix)
	rows := make([][]node.Node, m.NCols())
	for j := range rows {
		rows[j] = make([]node.Node, m.NRows())
		for i := range rows[j] {
			rows[j][i] = m.Rows[i][j]
		}
	}
	return &node.Matrix{Rows: rows}, nil
}

// transposeVector turns a vector into a column matrix.
func transposeVector(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	v := args[0].(*node.Vector)
	if len(v.Elems) == 0 {
		return nil, eval.Errorf(eval.Dimension, "cannot transpose an empty vector")
	}
	rows := make([][]node.Node, len(v.Elems))
	for i, e := range v.Elems {
		rows[i] = []node.Node{e}
	}
	return &node.Matrix{Rows: rows}, nil
}

func identity(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	size := args[0].(node.Int)
	if size.Sign() <= 0 || !size.IsInt64() || size.Int64() > maxIdentity {
		return nil, eval.Errorf(eval.Domain, "identity needs a size between 1 and %d, got %v", maxIdentity, size)
	}
	n := int(size.Int64())
	rows := make([][]node.Node, n)
	for i := range rows {
		rows[i] = make([]node.Node, n)
		for j := range rows[i] {
			rows[i][j] = node.IntOf(0)
		}
		rows[i][i] = node.IntOf(1)
	}
	return &node.Matrix{Rows: rows}, nil
}

// inner returns the sum of products of a and b.
func inner(a, b []node.Node) (node.Node, error) {
	if len(a) != len(b) {
		return nil, eval.Errorf(eval.Dimension, "dot product of sizes %d and %d", len(a), len(b))
	}
	if len(a) == 0 {
		return node.IntOf(0), nil
	}
	terms := make([]node.Node, len(a))
	for i := range a {
		terms[i] = node.NewCall("mul", a[i], b[i])
	}
	return node.NewCall("add", terms...), nil
}

func column(m *node.Matrix, j int) []node.Node {
	col := make([]node.Node, m.NRows())
	for i, row := range m.Rows {
		col[i] = row[j]
	}
	return col
}

func dotVectors(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return inner(args[0].(*node.Vector).Elems, args[1].(*node.Vector).Elems)
}

func dotMatrices(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	a, b := args[0].(*node.Matrix), args[1].(*node.Matrix)
	if a.NCols() != b.NRows() {
		return nil, eval.Errorf(eval.Dimension, "cannot multiply %d×%d and %d×%d matrices",
			a.NRows(), a.NCols(), b.NRows(), b.NCols())
	}
	rows := make([][]node.Node, a.NRows())
	for i := range rows {
		rows[i] = make([]node.Node, b.NCols())
		for j := range rows[i] {
			var err error
			if rows[i][j], err = inner(a.Rows[i], column(b, j)); err != nil {
				return nil, err
			}
		}
	}
	return &node.Matrix{Rows: rows}, nil
}

func dotMatrixVector(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	m, v := args[0].(*node.Matrix), args[1].(*node.Vector)
	out := make([]node.Node, m.NRows())
	for i, row := range m.Rows {
		var err error
		if out[i], err = inner(row, v.Elems); err != nil {
			return nil, err
		}
	}
	return &node.Vector{Elems: out}, nil
}

func dotVectorMatrix(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	v, m := args[0].(*node.Vector), args[1].(*node.Matrix)
	out := make([]node.Node, m.NCols())
	for j := range out {
		var err error
		if out[j], err = inner(v.Elems, column(m, j)); err != nil {
			return nil, err
		}
	}
	return &node.Vector{Elems: out}, nil
}

func entrywise(name string) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		a, b := args[0].(*node.Matrix), args[1].(*node.Matrix)
		if a.NRows() != b.NRows() || a.NCols() != b.NCols() {
			return nil, eval.Errorf(eval.Dimension, "%s of %d×%d and %d×%d matrices",
				name, a.NRows(), a.NCols(), b.NRows(), b.NCols())
		}
		return mapEntries(a, func(i, j int, e node.Node) node.Node {
			return node.NewCall(name, e, b.Rows[i][j])
		}), nil
	}
}

func scale(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	k := args[1]
	return mapEntries(args[0].(*node.Matrix), func(_, _ int, e node.Node) node.Node {
		return node.NewCall("mul", k, e)
	}), nil
}

func negate(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return mapEntries(args[0].(*node.Matrix), func(_, _ int, e node.Node) node.Node {
		return node.NewCall("neg", e)
	}), nil
}

func mapEntries(m *node.Matrix, f func(i, j int, e node.Node) node.Node) *node.Matrix {
	rows := make([][]node.Node, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = make([]node.Node, len(row))
		for j, e := range row {
			rows[i][j] = f(i, j, e)
		}
	}
	return &node.Matrix{Rows: rows}
}
