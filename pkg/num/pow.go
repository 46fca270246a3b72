package num

import (
	"math"
	"math/big"

	"src.sigma.sh/pkg/node"
)

// Pow returns a^b. The second return value is false when the result has no
// exact representation, like 2^(1/2); such powers are left symbolic by the
// caller.
func Pow(a, b node.Node) (node.Node, bool, error) {
	typ, ok := Unify(a, b)
	if !ok {
		return nil, false, ErrNotNumber
	}
	if typ == Inexact {
		f := math.Pow(float(a), float(b))
		if math.IsNaN(f) {
			return nil, false, ErrDomain
		}
		return node.Float{V: f}, true, nil
	}

	base, exp := Rat(a), Rat(b)
	if exp.IsInt() {
		r, err := powInt(base, exp.Num())
		if err != nil {
			return nil, false, err
		}
		return node.RatOf(r), true, nil
	}
	// Rational exponent p/q: only perfect q-th roots of non-negative bases
	// are exact.
	if base.Sign() < 0 || !exp.Denom().IsInt64() {
		return nil, false, nil
	}
	q := exp.Denom().Int64()
	num, okNum := root(base.Num(), q)
	den, okDen := root(base.Denom(), q)
	if !okNum || !okDen {
		return nil, false, nil
	}
	r, err := powInt(new(big.Rat).SetFrac(num, den), exp.Num())
	if err != nil {
		return nil, false, err
	}
	return node.RatOf(r), true, nil
}

func powInt(base *big.Rat, exp *big.Int) (*big.Rat, error) {
	if exp.Sign() < 0 {
		if base.Sign() == 0 {
			return nil, ErrDivideByZero
		}
		base = new(big.Rat).Inv(base)
		exp = new(big.Int).Neg(exp)
	}
	num := new(big.Int).Exp(base.Num(), exp, nil)
	den := new(big.Int).Exp(base.Denom(), exp, nil)
	return new(big.Rat).SetFrac(num, den), nil
}

// root returns the exact q-th root of a non-negative integer, if it exists.
func root(n *big.Int, q int64) (*big.Int, bool) {
	if q == 2 {
		r := new(big.Int).Sqrt(n)
		return r, new(big.Int).Mul(r, r).Cmp(n) == 0
	}
	if n.Cmp(big.NewInt(1)) <= 0 {
		return new(big.Int).Set(n), true
	}
	if int64(n.BitLen()) <= q {
		// 1 < n < 2^q, so the root lies strictly between 1 and 2.
		return nil, false
	}
	r := floorRoot(n, q)
	return r, new(big.Int).Exp(r, big.NewInt(q), nil).Cmp(n) == 0
}

// floorRoot returns the largest r with r^q <= n, for n > 1 and q > 1, by
// Newton's iteration starting above the root.
func floorRoot(n *big.Int, q int64) *big.Int {
	bigQ := big.NewInt(q)
	qMinus1 := big.NewInt(q - 1)
	x := new(big.Int).Lsh(big.NewInt(1), uint((int64(n.BitLen())+q-1)/q))
	for {
		// y = ((q-1)*x + n/x^(q-1)) / q
		y := new(big.Int).Exp(x, qMinus1, nil)
		y.Quo(n, y)
		y.Add(y, new(big.Int).Mul(qMinus1, x))
		y.Quo(y, bigQ)
		if y.Cmp(x) >= 0 {
			return x
		}
		x = y
	}
}
