// Package re implements regular expression functions on strings.
package re

import (
	"regexp"

	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
)

var (
	str    = eval.One(eval.String)
	anyArg = eval.One(eval.Any)
)

// Module is the re module. Its operations are prefixed with re_ to stay
// clear of the plain string functions.
var Module = &eval.Module{
	Name: "re",
	Ops: []*eval.Operation{
		eval.Op("re_quote", quote, str),
		eval.Op("re_match", match, str, str),
		eval.Op("re_find", find, str, str),
		eval.Op("re_replace", replace, str, anyArg, str),
		eval.Op("re_split", split, str, str),
	},
}

func quote(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	return node.String{V: regexp.QuoteMeta(text(args[0]))}, nil
}

func match(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	pattern, err := regexp.Compile(text(args[0]))
	if err != nil {
		return nil, err
	}
	return node.Bool{V: pattern.MatchString(text(args[1]))}, nil
}

// find returns all the matches as a list of strings.
func find(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	pattern, err := regexp.Compile(text(args[0]))
	if err != nil {
		return nil, err
	}
	return strings(pattern.FindAllString(text(args[1]), -1)), nil
}

// replace substitutes every match. The replacement is either a template
// string, which may refer to groups as ${1}, or a closure called with the
// matched text.
func replace(ev *eval.Evaler, args []node.Node) (node.Node, error) {
	pattern, err := regexp.Compile(text(args[0]))
	if err != nil {
		return nil, err
	}
	source := text(args[2])
	switch repl := args[1].(type) {
	case node.String:
		return node.String{V: pattern.ReplaceAllString(source, repl.V)}, nil
	case *node.Closure:
		var errReplace error
		replFunc := func(s string) string {
			if errReplace != nil {
				return ""
			}
			out, err := ev.InvokeClosure(repl, node.String{V: s})
			if err != nil {
				errReplace = err
				return ""
			}
			output, ok := out.(node.String)
			if !ok {
				errReplace = eval.WrongType("a string from the replacement", out)
				return ""
			}
			return output.V
		}
		result := pattern.ReplaceAllStringFunc(source, replFunc)
		if errReplace != nil {
			return nil, errReplace
		}
		return node.String{V: result}, nil
	case node.Variable, *node.Call:
		return nil, nil
	default:
		return nil, eval.WrongType("a string or a closure", repl)
	}
}

func split(_ *eval.Evaler, args []node.Node) (node.Node, error) {
	pattern, err := regexp.Compile(text(args[0]))
	if err != nil {
		return nil, err
	}
	return strings(pattern.Split(text(args[1]), -1)), nil
}

func text(n node.Node) string { return n.(node.String).V }

func strings(ss []string) node.Node {
	elems := make([]node.Node, len(ss))
	for i, s := range ss {
		elems[i] = node.String{V: s}
	}
	return &node.List{Elems: elems}
}
