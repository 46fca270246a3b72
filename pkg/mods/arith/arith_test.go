package arith_test

import (
	"testing"

	"src.sigma.sh/pkg/eval"
	. "src.sigma.sh/pkg/eval/evaltest"
)

func TestNumbers(t *testing.T) {
	Test(t,
		That("3+4*5").Puts(23),
		That("(3+4)*5").Puts(35),
		That("10-4-3").Puts(3),
		That("7/2").Puts("7/2"),
		That("6/3").Puts(2),
		That("1/2+1/3").Puts("5/6"),
		That("1.5*2").Puts(3.0),
		That("1/2+0.5").Puts(1.0),
		That("-(3)").Puts(-3),
		That("7%3").Puts(1),
		That("-7%3").Puts(2),
		That("7.5%2").Puts(1.5),
		That("2^10").Puts(1024),
		That("2^-2").Puts("1/4"),
		That("4^(1/2)").Puts(2),
		That("5!").Puts(120),
		That("0!").Puts(1),
		That("abs(-3)").Puts(3),
		That("sqrt(9)").Puts(3),
		That("sqrt(1/4)").Puts("1/2"),
		That("100000000000000000000+1").Puts("100000000000000000001"),
	)
}

func TestNumberErrors(t *testing.T) {
	Test(t,
		That("1/0").Throws(ErrorWithKind(eval.Domain)),
		That("5%0").Throws(ErrorWithKind(eval.Domain)),
		That("0^-1").Throws(ErrorWithKind(eval.Domain)),
		That("(-3)!").Throws(ErrorWithKind(eval.Domain)),
		That("(1/2)!").Throws(ErrorWithKind(eval.Domain)),
		That("2^100000000").Throws(ErrorWithKind(eval.Range)),
		That("ln(0)").Throws(ErrorWithKind(eval.Domain)),
		That("ln(-2.0)").Throws(ErrorWithKind(eval.Domain)),
	)
}

func TestAlgebra(t *testing.T) {
	Test(t,
		That("x+x").Puts("2*x"),
		That("2x+3x").Puts("5*x"),
		That("x+y+x").Puts("2*x+y"),
		That("x-x").Puts(0),
		That("x+1-1").Puts("x"),
		That("0+x").Puts("x"),
		That("1*x").Puts("x"),
		That("0*x").Puts(0),
		That("x*x").Puts("x^2"),
		That("x*x*x").Puts("x^3"),
		That("x^2*x^3").Puts("x^5"),
		That("x/x").Puts(1),
		That("x^1").Puts("x"),
		That("x^0").Puts(1),
		That("1^x").Puts(1),
		That("(x^2)^3").Puts("x^6"),
		That("(2x)^2").Puts("4*x^2"),
		That("-x").Puts("-x"),
		That("x-y").Puts("x-y"),
		That("x/y").Puts("x/y"),
		That("2*x/2").Puts("x"),
		That("sqrt(x)").Puts("x^(1/2)"),
		That("sqrt(2)*sqrt(2)").Puts(2),
		That("2^(1/2)").Puts("2^(1/2)"),
	)
}

func TestAlgebra_Idempotent(t *testing.T) {
	for _, src := range []string{"x+x", "2x+3y-x", "x*y*x", "(x+1)^2", "x/y/z"} {
		Test(t, That("v := "+src).Then("v").Passes(func(t *testing.T, ev *eval.Evaler) {
			v, _ := ev.Lookup("v")
			again, err := ev.Simplify(v)
			if err != nil || !again.Equal(v) {
				t.Errorf("simplifying %v again gives %v, %v", v, again, err)
			}
		}).Puts(Anything, Anything))
	}
}

func TestCommutative(t *testing.T) {
	Test(t,
		That("y+x == x+y").Puts(true),
		That("a*b*c == c*b*a").Puts(true),
		That("x+2").Puts("2+x"),
	)
}

func TestComparisons(t *testing.T) {
	Test(t,
		That("1 < 2").Puts(true),
		That("2 <= 2").Puts(true),
		That("1/2 > 0.4").Puts(true),
		That("3 >= 4").Puts(false),
		That("pi > 3").Puts(true),
		That("e < pi").Puts(true),
		That("x < 1").Puts("x<1"),
	)
}

func TestFunctions(t *testing.T) {
	Test(t,
		That("sin(0)").Puts(0),
		That("cos(0)").Puts(1),
		That("cos(pi)").Puts(-1),
		That("exp(0)").Puts(1),
		That("exp(1)").Puts("e"),
		That("ln(1)").Puts(0),
		That("ln(e)").Puts(1),
		That("ln(exp(x))").Puts("x"),
		That("exp(ln(x))").Puts("x"),
		That("sin(x)").Puts("sin(x)"),
		That("sin(0.5)").Puts(Approximately(0.479425538604203)),
		That("approx(pi)").Puts(Approximately(3.141592653589793)),
		That("approx(1/4)").Puts(0.25),
		That("approx(sqrt(2))").Puts(Approximately(1.4142135623730951)),
		That("approx(2*x)").Puts("2.0*x"),
	)
}
