// Package str provides string functions.
package str

import (
	"strings"
	"unicode/utf8"

	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
)

// Longest string repeat may build.
const maxRepeat = 1 << 20

var (
	str    = eval.One(eval.String)
	anyArg = eval.One(eval.Any)
)

// Module is the str module.
var Module = &eval.Module{
	Name: "str",
	Ops: []*eval.Operation{
		eval.Op("concat", concat, str, str),
		eval.Op("concat", concat, str, anyArg),
		eval.Op("concat", concat, anyArg, str),
		eval.Op("len", length, str),
		eval.Op("str", toString, anyArg),
		eval.Op("split", split, str, str),
		eval.Op("join", join, eval.One(eval.Sequence), str),
		eval.Op("str_repeat", repeat, str, eval.One(eval.Int)),
		eval.Op("replace", replace, str, str, str),
		eval.Op("index", index, str, str),
		eval.Op("contains", contains, str, str),
		eval.Op("lt", compare(func(c int) bool { return c < 0 }), str, str),
		eval.Op("le", compare(func(c int) bool { return c <= 0 }), str, str),
		eval.Op("gt", compare(func(c int) bool { return c > 0 }), str, str),
		eval.Op("ge", compare(func(c int) bool { return c >= 0 }), str, str),
	},
}

func init() {
	for name, f := range map[string]func(string) string{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
	} {
		Module.Ops = append(Module.Ops, eval.Op(name, mapString(f), str))
	}
}

// text returns the content of a string, and the rendered form of anything
// else.
func text(ev *eval.Evaler, n node.Node) string {
	if s, ok := n.(node.String); ok {
		return s.V
	}
	return ev.Render(n)
}

func concat(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.String{V: text(ev, args[0]) + text(ev, args[1])}, nil
}

func length(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.IntOf(int64(utf8.RuneCountInString(args[0].(node.String).V))), nil
}

func toString(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.String{V: text(ev, args[0])}, nil
}

func split(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	parts := strings.Split(args[0].(node.String).V, args[1].(node.String).V)
	elems := make([]node.Node, len(parts))
	for i, p := range parts {
		elems[i] = node.String{V: p}
	}
	return &node.List{Elems: elems}, nil
}

func join(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	elems := node.Children(args[0])
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = text(ev, e)
	}
	return node.String{V: strings.Join(parts, args[1].(node.String).V)}, nil
}

func repeat(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	s, n := args[0].(node.String).V, args[1].(node.Int)
	if n.Sign() < 0 {
		return nil, eval.Errorf(eval.Domain, "repeat count must not be negative, got %v", n)
	}
	if !n.IsInt64() || len(s)*int(n.Int64()) > maxRepeat {
		return nil, eval.Errorf(eval.Range, "repeating %d bytes %v times is too long", len(s), n)
	}
	return node.String{V: strings.Repeat(s, int(n.Int64()))}, nil
}

func replace(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	s, old, new := args[0].(node.String).V, args[1].(node.String).V, args[2].(node.String).V
	return node.String{V: strings.ReplaceAll(s, old, new)}, nil
}

// index returns the zero-based position in characters of the first
// occurrence of the second string, or -1.
func index(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	s, sub := args[0].(node.String).V, args[1].(node.String).V
	i := strings.Index(s, sub)
	if i >= 0 {
		i = utf8.RuneCountInString(s[:i])
	}
	return node.IntOf(int64(i)), nil
}

func contains(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.Bool{V: strings.Contains(args[0].(node.String).V, args[1].(node.String).V)}, nil
}

func compare(test func(int) bool) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		return node.Bool{V: test(strings.Compare(args[0].(node.String).V, args[1].(node.String).V))}, nil
	}
}

func mapString(f func(string) string) eval.Impl {
	return func(_ *eval.Evaler, args []node.Node) (node.Node, error) {
		return node.String{V: f(args[0].(node.String).V)}, nil
	}
}
