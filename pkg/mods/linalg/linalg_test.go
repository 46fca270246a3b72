package linalg_test

import (
	"testing"

	"src.sigma.sh/pkg/eval"
	. "src.sigma.sh/pkg/eval/evaltest"
)

func TestDeterminant(t *testing.T) {
	Test(t,
		That("det([[1,2],[3,4]])").Puts(-2),
		That("det([[2,0,0],[0,3,0],[0,0,4]])").Puts(24),
		That("det([[1,2,3],[4,5,6],[7,8,9]])").Puts(0),
		That("det([[5]])").Puts(5),
		That("det([[a,b],[c,d]])").Puts("a*d-b*c"),
		That("det([[1,2,3],[4,5,6]])").Throws(ErrorWithKind(eval.NonSquareMatrix)),
	)
}

func TestInverse(t *testing.T) {
	Test(t,
		That("inv([[1,2],[3,4]])").Puts("[[-2, 1], [3/2, -1/2]]"),
		That("inv([[2]])").Puts("[[1/2]]"),
		That("inv([[1,2],[2,4]])").Throws(ErrorWithKind(eval.Domain)),
		That("dot(inv([[2,1],[1,1]]), [[2,1],[1,1]])").Puts("[[1, 0], [0, 1]]"),
	)
}

func TestProducts(t *testing.T) {
	Test(t,
		That("dot([1,2,3],[4,5,6])").Puts(32),
		That("dot([1,2],[1,2,3])").Throws(ErrorWithKind(eval.Dimension)),
		That("dot([[1,2],[3,4]],[[5,6],[7,8]])").Puts("[[19, 22], [43, 50]]"),
		That("dot([[1,2],[3,4]],[1,1])").Puts("[3, 7]"),
		That("dot([1,1],[[1,2],[3,4]])").Puts("[4, 6]"),
		That("dot([[1,2,3]],[[1,2]])").Throws(ErrorWithKind(eval.Dimension)),
		That("dot([x,y],[x,y])").Puts("x^2+y^2"),
	)
}

func TestEntrywise(t *testing.T) {
	Test(t,
		That("[[1,2],[3,4]]+[[1,1],[1,1]]").Puts("[[2, 3], [4, 5]]"),
		That("[[1,2],[3,4]]-[[1,1],[1,1]]").Puts("[[0, 1], [2, 3]]"),
		That("[[1,2],[3,4]]+[[1,2,3],[4,5,6]]").Throws(ErrorWithKind(eval.Dimension)),
		That("2*[[1,2],[3,4]]").Puts("[[2, 4], [6, 8]]"),
		That("[[1,2],[3,4]]*x").Puts("[[x, 2*x], [3*x, 4*x]]"),
		That("-[[1,-2]]").Puts("[[-1, 2]]"),
	)
}

func TestShapes(t *testing.T) {
	Test(t,
		That("transpose([[1,2,3],[4,5,6]])").Puts("[[1, 4], [2, 5], [3, 6]]"),
		That("transpose([1,2])").Puts("[[1], [2]]"),
		That("identity(2)").Puts("[[1, 0], [0, 1]]"),
		That("identity(0)").Throws(ErrorWithKind(eval.Domain)),
		That("size(identity(3))").Puts("{3, 3}"),
	)
}
