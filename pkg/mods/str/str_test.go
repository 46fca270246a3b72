package str_test

import (
	"testing"

	"src.sigma.sh/pkg/eval"
	. "src.sigma.sh/pkg/eval/evaltest"
)

func TestStr(t *testing.T) {
	Test(t,
		That(`"foo" ++ "bar"`).Puts(Str("foobar")),
		That(`"x = " ++ 3`).Puts(Str("x = 3")),
		That(`x ++ "!"`).Puts(Str("x!")),
		That(`"n: " ++ (1/2)`).Puts(Str("n: 1/2")),
		That(`len("héllo")`).Puts(5),
		That(`upper("abc")`).Puts(Str("ABC")),
		That(`lower("ABC")`).Puts(Str("abc")),
		That(`trim("  a b  ")`).Puts(Str("a b")),
		That(`str(2*x)`).Puts(Str("2*x")),
		That(`str("s")`).Puts(Str("s")),
		That(`split("a,b,c", ",")`).Puts(`{"a", "b", "c"}`),
		That(`join({"a", 1, x}, "-")`).Puts(Str("a-1-x")),
		That(`str_repeat("ab", 3)`).Puts(Str("ababab")),
		That(`str_repeat("ab", -1)`).Throws(ErrorWithKind(eval.Domain)),
		That(`replace("banana", "a", "o")`).Puts(Str("bonono")),
		That(`index("héllo", "l")`).Puts(2),
		That(`index("abc", "z")`).Puts(-1),
		That(`contains("abc", "bc")`).Puts(true),
		That(`"abc" < "abd"`).Puts(true),
		That(`"b" >= "a"`).Puts(true),
		That(`"abc"::0`).Puts(Str("a")),
	)
}
