package calc_test

import (
	"testing"

	"src.sigma.sh/pkg/eval"
	. "src.sigma.sh/pkg/eval/evaltest"
)

func TestDeriv(t *testing.T) {
	Test(t,
		That("deriv(5, x)").Puts(0),
		That("deriv(x, x)").Puts(1),
		That("deriv(y, x)").Puts(0),
		That("deriv(x^2, x)").Puts("2*x"),
		That("deriv(3x^3+2x+1, x)").Puts("2+9*x^2"),
		That("deriv(x*y, x)").Puts("y"),
		That("deriv(sin(x), x)").Puts("cos(x)"),
		That("deriv(cos(x), x)").Puts("-sin(x)"),
		That("deriv(exp(2x), x)").Puts("2*exp(2*x)"),
		That("deriv(ln(x), x)").Puts("1/x"),
		That("deriv(e^x, x)").Puts("e^x"),
		That("deriv(2^x, x)").Puts("ln(2)*2^x"),
		That("deriv(1/x, x)").Puts("-1/x^2"),
		That("deriv({x, x^2}, x)").Puts("{1, 2*x}"),
	)
}

func TestDeriv_AtPoint(t *testing.T) {
	Test(t,
		That("deriv(x^2, x at 3)").Puts(6),
		That("deriv(x^3, x at 2)").Puts(12),
		That("deriv(sin(x), x at 0)").Puts(1),
	)
}

func TestDeriv_MasksBinding(t *testing.T) {
	Test(t,
		That("x := 3", "deriv(x^2, x at 1)").Puts(3, 2),
		That("x := 3", "deriv(x^2, x at 1)", "x").Puts(3, 2, 3),
		That("f(t) := t^2", "deriv(f(x), x)").Puts("2*x"),
	)
}

func TestDeriv_Errors(t *testing.T) {
	Test(t,
		That("deriv(x, 2)").Throws(ErrorWithKind(eval.TypeMismatch)),
		That("deriv(g(x), x)").Throws(ErrorWithKind(eval.General)),
		That("deriv(x::0, x)").Throws(ErrorWithKind(eval.General)),
	)
}
