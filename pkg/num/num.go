// Package num implements arithmetic on the numeric leaves of the expression
// tree: exact integers and fractions, and floats.
//
// Operands are unified to the most general type among them, in the order
// exact (integer or fraction) < float. Exact results are normalized, so a
// fraction that reduces to a whole number comes back as an integer.
package num

import (
	"errors"
	"math"
	"math/big"

	"src.sigma.sh/pkg/node"
)

// Errors returned by the arithmetic functions.
var (
	ErrDivideByZero = errors.New("division by zero")
	ErrDomain       = errors.New("argument out of domain")
	ErrNotNumber    = errors.New("not a number")
)

// Type is the unified type of a group of numbers.
type Type uint8

// Possible values of Type, in order of precedence for unification.
const (
	Exact Type = iota
	Inexact
)

// TypeOf returns the Type of a numeric node, and false if n is not numeric.
func TypeOf(n node.Node) (Type, bool) {
	switch n.(type) {
	case node.Int, node.Rational:
		return Exact, true
	case node.Float:
		return Inexact, true
	}
	return 0, false
}

// Unify returns the most general Type of the given nodes, and false if any of
// them is not numeric.
func Unify(ns ...node.Node) (Type, bool) {
	typ := Exact
	for _, n := range ns {
		t, ok := TypeOf(n)
		if !ok {
			return 0, false
		}
		if t > typ {
			typ = t
		}
	}
	return typ, true
}

// Rat returns the exact value of an Int or Rational.
func Rat(n node.Node) *big.Rat {
	switch n := n.(type) {
	case node.Int:
		return n.Rat()
	case node.Rational:
		return n.Rat()
	}
	return nil
}

func float(n node.Node) float64 {
	f, _ := node.Float64(n)
	return f
}

func binary(a, b node.Node,
	exact func(x, y *big.Rat) (*big.Rat, error),
	inexact func(x, y float64) (float64, error)) (node.Node, error) {

	typ, ok := Unify(a, b)
	if !ok {
		return nil, ErrNotNumber
	}
	if typ == Exact {
		r, err := exact(Rat(a), Rat(b))
		if err != nil {
			return nil, err
		}
		return node.RatOf(r), nil
	}
	f, err := inexact(float(a), float(b))
	if err != nil {
		return nil, err
	}
	return node.Float{V: f}, nil
}

// Add returns a+b.
func Add(a, b node.Node) (node.Node, error) {
	return binary(a, b,
		func(x, y *big.Rat) (*big.Rat, error) { return x.Add(x, y), nil },
		func(x, y float64) (float64, error) { return x + y, nil })
}

// Sub returns a-b.
func Sub(a, b node.Node) (node.Node, error) {
	return binary(a, b,
		func(x, y *big.Rat) (*big.Rat, error) { return x.Sub(x, y), nil },
		func(x, y float64) (float64, error) { return x - y, nil })
}

// Mul returns a*b.
func Mul(a, b node.Node) (node.Node, error) {
	return binary(a, b,
		func(x, y *big.Rat) (*big.Rat, error) { return x.Mul(x, y), nil },
		func(x, y float64) (float64, error) { return x * y, nil })
}

// Div returns a/b. Exact division by zero is an error; float division follows
// IEEE 754.
func Div(a, b node.Node) (node.Node, error) {
	return binary(a, b,
		func(x, y *big.Rat) (*big.Rat, error) {
			if y.Sign() == 0 {
				return nil, ErrDivideByZero
			}
			return x.Quo(x, y), nil
		},
		func(x, y float64) (float64, error) { return x / y, nil })
}

// Mod returns the remainder of a/b with the sign of b, for integers; and
// math.Mod for floats.
func Mod(a, b node.Node) (node.Node, error) {
	if ai, ok := a.(node.Int); ok {
		if bi, ok := b.(node.Int); ok {
			if bi.Sign() == 0 {
				return nil, ErrDivideByZero
			}
			m := new(big.Int).Mod(ai.V, new(big.Int).Abs(bi.V))
			if bi.Sign() < 0 && m.Sign() != 0 {
				m.Add(m, bi.V)
			}
			return node.Int{V: m}, nil
		}
	}
	typ, ok := Unify(a, b)
	if !ok || typ == Exact {
		return nil, ErrDomain
	}
	return node.Float{V: math.Mod(float(a), float(b))}, nil
}

// Neg returns -a.
func Neg(a node.Node) (node.Node, error) {
	switch a := a.(type) {
	case node.Int:
		return node.Int{V: new(big.Int).Neg(a.V)}, nil
	case node.Rational:
		return node.Rational{Sign: -a.Sign, Num: a.Num, Den: a.Den}, nil
	case node.Float:
		return node.Float{V: -a.V}, nil
	}
	return nil, ErrNotNumber
}

// Abs returns |a|.
func Abs(a node.Node) (node.Node, error) {
	if Sign(a) < 0 {
		return Neg(a)
	}
	if _, ok := TypeOf(a); !ok {
		return nil, ErrNotNumber
	}
	return a, nil
}

// Sign returns -1, 0 or 1 for numeric nodes, and 0 otherwise.
func Sign(a node.Node) int {
	switch a := a.(type) {
	case node.Int:
		return a.Sign()
	case node.Rational:
		return a.Sign
	case node.Float:
		switch {
		case a.V < 0:
			return -1
		case a.V > 0:
			return 1
		}
	}
	return 0
}

// Cmp compares two numbers, returning -1, 0 or 1.
func Cmp(a, b node.Node) (int, error) {
	typ, ok := Unify(a, b)
	if !ok {
		return 0, ErrNotNumber
	}
	if typ == Exact {
		return Rat(a).Cmp(Rat(b)), nil
	}
	x, y := float(a), float(b)
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

// IsZero reports whether a is a numeric zero.
func IsZero(a node.Node) bool {
	_, ok := TypeOf(a)
	return ok && Sign(a) == 0
}

// IsOne reports whether a is the exact number 1.
func IsOne(a node.Node) bool {
	i, ok := a.(node.Int)
	return ok && i.IsInt64() && i.Int64() == 1
}

// Factorial returns n! for a non-negative integer n.
func Factorial(n node.Node) (node.Node, error) {
	i, ok := n.(node.Int)
	if !ok || i.Sign() < 0 || !i.IsInt64() {
		return nil, ErrDomain
	}
	return node.Int{V: new(big.Int).MulRange(1, i.Int64())}, nil
}
