package evaltest

import (
	"math"
	"regexp"

	"src.sigma.sh/pkg/node"
)

// ValueMatcher is a value that can be passed to [Case.Puts] and has its own
// matching semantics.
type ValueMatcher interface{ matchValue(node.Node) bool }

// Anything matches anything. It is useful when the value contains information
// that is useful when the test fails.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(node.Node) bool { return true }

// AnyInteger matches any integer.
var AnyInteger ValueMatcher = anyInteger{}

type anyInteger struct{}

func (anyInteger) matchValue(x node.Node) bool {
	_, ok := x.(node.Int)
	return ok
}

// ApproximatelyThreshold defines the threshold for matching float values when
// using [Approximately].
const ApproximatelyThreshold = 1e-12

// Approximately matches a float within the threshold defined by
// [ApproximatelyThreshold].
func Approximately(f float64) ValueMatcher { return approximately{f} }

type approximately struct{ value float64 }

func (a approximately) matchValue(value node.Node) bool {
	if value, ok := value.(node.Float); ok {
		return matchFloat64(a.value, value.V, ApproximatelyThreshold)
	}
	return false
}

func matchFloat64(a, b, threshold float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 0) && math.IsInf(b, 0) &&
		math.Signbit(a) == math.Signbit(b) {
		return true
	}
	return math.Abs(a-b) <= threshold
}

// StringMatching matches any value whose canonical form matches a regexp
// pattern. If the pattern is not a valid regexp, the function panics.
func StringMatching(p string) ValueMatcher { return stringMatching{regexp.MustCompile(p)} }

type stringMatching struct{ pattern *regexp.Regexp }

func (s stringMatching) matchValue(value node.Node) bool {
	return s.pattern.MatchString(value.String())
}

// Str matches a string leaf with the given content.
func Str(s string) ValueMatcher { return str{s} }

type str struct{ s string }

func (s str) matchValue(value node.Node) bool {
	v, ok := value.(node.String)
	return ok && v.V == s.s
}
