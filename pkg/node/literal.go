package node

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Int is an arbitrary-precision integer. The wrapped *big.Int is never
// mutated after construction.
type Int struct{ V *big.Int }

// IntOf returns an Int with the given value.
func IntOf(i int64) Int { return Int{big.NewInt(i)} }

func (Int) Kind() Kind       { return KindInt }
func (Int) Complexity() int  { return 1 }
func (i Int) Copy() Node     { return i }
func (i Int) String() string { return i.V.String() }
func (i Int) Sign() int      { return i.V.Sign() }
func (i Int) IsInt64() bool  { return i.V.IsInt64() }
func (i Int) Int64() int64   { return i.V.Int64() }
func (i Int) Rat() *big.Rat  { return new(big.Rat).SetInt(i.V) }
func (i Int) Float() float64 { f, _ := new(big.Float).SetInt(i.V).Float64(); return f }
func (i Int) Equal(o Node) bool {
	j, ok := o.(Int)
	return ok && i.V.Cmp(j.V) == 0
}

// Rational is an exact fraction Sign*Num/Den. Num and Den are non-negative
// and coprime, Den is at least 2 and Sign is -1 or 1. Fractions that reduce
// to integers are represented by Int instead; use NewRational to construct.
type Rational struct {
	Sign     int
	Num, Den *big.Int
}

// ErrZeroDenominator is returned when constructing a fraction with a zero
// denominator.
var ErrZeroDenominator = errors.New("zero denominator")

// NewRational returns the normalized value of num/den, which is an Int if the
// fraction reduces to an integer.
func NewRational(num, den *big.Int) (Node, error) {
	if den.Sign() == 0 {
		return nil, ErrZeroDenominator
	}
	return RatOf(new(big.Rat).SetFrac(num, den)), nil
}

// RatOf converts a *big.Rat to an Int or a Rational.
func RatOf(r *big.Rat) Node {
	if r.IsInt() {
		return Int{new(big.Int).Set(r.Num())}
	}
	num := new(big.Int).Abs(r.Num())
	return Rational{r.Sign(), num, new(big.Int).Set(r.Denom())}
}

func (Rational) Kind() Kind      { return KindRational }
func (Rational) Complexity() int { return 1 }
func (r Rational) Copy() Node    { return r }

// Rat returns the value as a new *big.Rat.
func (r Rational) Rat() *big.Rat {
	num := new(big.Int).Set(r.Num)
	if r.Sign < 0 {
		num.Neg(num)
	}
	return new(big.Rat).SetFrac(num, r.Den)
}

func (r Rational) Float() float64 { f, _ := r.Rat().Float64(); return f }

func (r Rational) String() string {
	s := r.Num.String() + "/" + r.Den.String()
	if r.Sign < 0 {
		return "-" + s
	}
	return s
}

func (r Rational) Equal(o Node) bool {
	q, ok := o.(Rational)
	return ok && r.Sign == q.Sign && r.Num.Cmp(q.Num) == 0 && r.Den.Cmp(q.Den) == 0
}

// Float is a floating point number.
type Float struct{ V float64 }

func (Float) Kind() Kind      { return KindFloat }
func (Float) Complexity() int { return 1 }
func (f Float) Copy() Node    { return f }

func (f Float) String() string {
	switch {
	case math.IsInf(f.V, 1):
		return "inf"
	case math.IsInf(f.V, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f.V, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eN") {
		s += ".0"
	}
	return s
}

func (f Float) Equal(o Node) bool {
	g, ok := o.(Float)
	return ok && (f.V == g.V || math.IsNaN(f.V) && math.IsNaN(g.V))
}

// Bool is a boolean.
type Bool struct{ V bool }

func (Bool) Kind() Kind          { return KindBool }
func (Bool) Complexity() int     { return 1 }
func (b Bool) Copy() Node        { return b }
func (b Bool) String() string    { return strconv.FormatBool(b.V) }
func (b Bool) Equal(o Node) bool { c, ok := o.(Bool); return ok && b.V == c.V }

// String is a text literal.
type String struct{ V string }

func (String) Kind() Kind          { return KindString }
func (String) Complexity() int     { return 1 }
func (s String) Copy() Node        { return s }
func (s String) String() string    { return Quote(s.V) }
func (s String) Equal(o Node) bool { t, ok := o.(String); return ok && s.V == t.V }

var quoter = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Quote returns s as a double-quoted literal using the escapes understood by
// the compiler.
func Quote(s string) string { return `"` + quoter.Replace(s) + `"` }

// Constant is a named mathematical constant.
type Constant struct{ Name string }

// Names of constants.
const (
	Pi       = "pi"
	Euler    = "e"
	Infinity = "inf"
)

func (Constant) Kind() Kind          { return KindConstant }
func (Constant) Complexity() int     { return 1 }
func (c Constant) Copy() Node        { return c }
func (c Constant) String() string    { return c.Name }
func (c Constant) Equal(o Node) bool { d, ok := o.(Constant); return ok && c.Name == d.Name }

// Float returns the floating point approximation of the constant.
func (c Constant) Float() float64 {
	switch c.Name {
	case Pi:
		return math.Pi
	case Euler:
		return math.E
	case Infinity:
		return math.Inf(1)
	}
	return math.NaN()
}

// Void is the unit value.
type Void struct{}

func (Void) Kind() Kind        { return KindVoid }
func (Void) Complexity() int   { return 1 }
func (Void) Copy() Node        { return Void{} }
func (Void) String() string    { return "()" }
func (Void) Equal(o Node) bool { _, ok := o.(Void); return ok }

// Variable is a reference to a named definition.
type Variable struct{ Name string }

func (Variable) Kind() Kind          { return KindVariable }
func (Variable) Complexity() int     { return 1 }
func (v Variable) Copy() Node        { return v }
func (v Variable) String() string    { return v.Name }
func (v Variable) Equal(o Node) bool { w, ok := o.(Variable); return ok && v.Name == w.Name }

// Transfer is a bare flow control keyword: return, break or continue.
type Transfer struct{ Keyword string }

// Transfer keywords.
const (
	Return   = "return"
	Break    = "break"
	Continue = "continue"
)

func (Transfer) Kind() Kind          { return KindTransfer }
func (Transfer) Complexity() int     { return 1 }
func (t Transfer) Copy() Node        { return t }
func (t Transfer) String() string    { return t.Keyword }
func (t Transfer) Equal(o Node) bool { u, ok := o.(Transfer); return ok && t.Keyword == u.Keyword }

// Float64 returns the floating point value of a numeric node.
func Float64(n Node) (float64, bool) {
	switch n := n.(type) {
	case Int:
		return n.Float(), true
	case Rational:
		return n.Float(), true
	case Float:
		return n.V, true
	case Constant:
		return n.Float(), true
	}
	return 0, false
}
