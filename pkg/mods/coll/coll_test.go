package coll_test

import (
	"testing"

	"src.sigma.sh/pkg/eval"
	. "src.sigma.sh/pkg/eval/evaltest"
)

func TestElementwise(t *testing.T) {
	Test(t,
		That("{1,2}+{3,4}").Puts("{4, 6}"),
		That("{1,2}+{3,4,5}").Throws(ErrorWithKind(eval.Dimension)),
		That("{5,6}-{1,2}").Puts("{4, 4}"),
		That("{1,2}*{3,4}").Puts("{3, 8}"),
		That("{2,4}/{2,8}").Puts("{1, 1/2}"),
		That("[1,2]+[3,4]").Puts("[4, 6]"),
		That("{1,2}+1").Puts("{2, 3}"),
		That("1+{1,2}").Puts("{2, 3}"),
		That("2*{x,y}").Puts("{2*x, 2*y}"),
		That("{1,2}-1").Puts("{0, 1}"),
		That("1-{1,2}").Puts("{0, -1}"),
		That("{1,2}^2").Puts("{1, 4}"),
		That("-{1,2}").Puts("{-1, -2}"),
		That("{1,2}+{3,4}+{5,6}").Puts("{9, 12}"),
		That("{1} ++ {2,3}").Puts("{1, 2, 3}"),
	)
}

func TestGet(t *testing.T) {
	Test(t,
		That("{1,2,3}::1").Puts(2),
		That("{1,2,3}[0]").Puts(1),
		That("{1,2,3}::-1").Puts(3),
		That("{1,2,3}::3").Throws(ErrorWithKind(eval.Index)),
		That("{1,2,3}::-4").Throws(ErrorWithKind(eval.Index)),
		That("{1,2,3}::x").Throws(ErrorWithKind(eval.InvalidSubscript)),
		That("{1,2,3}::(1/2)").Throws(ErrorWithKind(eval.InvalidSubscript)),
		That(`"hello"::1`).Puts(Str("e")),
		That("[[1,2],[3,4]]::1").Puts("[3, 4]"),
		That("[[1,2],[3,4]][1,0]").Puts(3),
		That("{{1,2},{3}}::0::1").Puts(2),
		That("5::0").Throws(ErrorWithKind(eval.TypeMismatch)),
		That("l::0").Puts("l::0"),
		That("l := {1,2,3}", "l::1 := 5", "l").Puts("{1, 2, 3}", 5, "{1, 5, 3}"),
	)
}

func TestQueries(t *testing.T) {
	Test(t,
		That("size({1,2,3})").Puts(3),
		That("size([])").Puts(0),
		That(`size("héllo")`).Puts(5),
		That("size([[1,2,3],[4,5,6]])").Puts("{2, 3}"),
		That("size(3)").Throws(ErrorWithKind(eval.TypeMismatch)),
		That("sum({1,2,3})").Puts(6),
		That("sum({})").Puts(0),
		That("sum({x,x,1})").Puts("1+2*x"),
		That("prod({2,3,4})").Puts(24),
		That("set({1,2,1})").Puts("set({1, 2})"),
		That("size(set({1,1,1}))").Puts(1),
		That("range(4)").Puts("{0, 1, 2, 3}"),
		That("range(2, 5)").Puts("{2, 3, 4}"),
		That("range(5, 0, -2)").Puts("{5, 3, 1}"),
		That("range(3, 1)").Puts("{}"),
		That("range(0, 5, 0)").Throws(ErrorWithKind(eval.Domain)),
	)
}

func TestMapFilter(t *testing.T) {
	Test(t,
		That("{1,2,3} | #($^2)").Puts("{1, 4, 9}"),
		That("{1,2,3} | #($ + 1)").Puts("{2, 3, 4}"),
		That("sq(x) := x^2", "{1,2,3} | sq").Puts("{1, 4, 9}"),
		That("{0, pi} | sin").Puts("{0, 0}"),
		That("{1,2,3,4} |? #($ % 2 == 0)").Puts("{2, 4}"),
		That("{1,2,3} |? #($ > 5)").Puts("{}"),
		That("{1,2} |? #($ + 1)").Throws(ErrorWithKind(eval.TypeMismatch)),
		That("range(5) | #($*$) |? #($ > 3)").Puts("{4, 9, 16}"),
		That("3 | #($)").Throws(ErrorWithKind(eval.TypeMismatch)),
	)
}
