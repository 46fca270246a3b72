package eval_test

import (
	"math/big"
	"testing"

	. "src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/node"
)

// A module whose operations only accept two arguments, so that calls with
// more arguments can only be simplified by pairing them up.
var pairsModule = &Module{
	Name: "pairs",
	Ops: []*Operation{
		Op("add", addInts, One(Int), One(Int)),
		Op("add", wrapStrings, One(String), One(String)),
		Op("plus", addInts, One(Int), One(Int)),
	},
}

func addInts(_ *Evaler, args []node.Node) (node.Node, error) {
	a, b := args[0].(node.Int), args[1].(node.Int)
	return node.Int{V: new(big.Int).Add(a.V, b.V)}, nil
}

// Never simpler than the call it replaces.
func wrapStrings(_ *Evaler, args []node.Node) (node.Node, error) {
	return node.NewCall("wrapped", args...), nil
}

func v(name string) node.Node { return node.Variable{Name: name} }

func str(s string) node.Node { return node.String{V: s} }

var rewriteTests = []struct {
	name  string
	limit int
	in    *node.Call
	want  node.Node
}{
	{"numbers are combined",
		DefaultRewriteLimit,
		node.NewCall("add", node.IntOf(1), v("x"), node.IntOf(2), v("y"), node.IntOf(4)),
		node.NewCall("add", node.IntOf(7), v("x"), v("y"))},
	{"all arguments are combined",
		DefaultRewriteLimit,
		node.NewCall("add", node.IntOf(1), node.IntOf(2), node.IntOf(3)),
		node.IntOf(6)},
	{"no pairing simplifies",
		DefaultRewriteLimit,
		node.NewCall("add", v("x"), v("y"), v("z")),
		node.NewCall("add", v("x"), v("y"), v("z"))},
	{"more complex pairings are rejected",
		DefaultRewriteLimit,
		node.NewCall("add", str("a"), str("b"), v("x")),
		node.NewCall("add", str("a"), str("b"), v("x"))},
	{"zero limit disables rewriting",
		0,
		node.NewCall("add", node.IntOf(1), node.IntOf(2), node.IntOf(3)),
		node.NewCall("add", node.IntOf(1), node.IntOf(2), node.IntOf(3))},
	{"names without the flag are not rewritten",
		DefaultRewriteLimit,
		node.NewCall("plus", node.IntOf(1), node.IntOf(2), node.IntOf(3)),
		node.NewCall("plus", node.IntOf(1), node.IntOf(2), node.IntOf(3))},
}

func TestSimplify_CommutativeRewrite(t *testing.T) {
	for _, test := range rewriteTests {
		t.Run(test.name, func(t *testing.T) {
			ev := NewEvaler(pairsModule)
			ev.RewriteLimit = test.limit
			got, err := ev.Simplify(test.in)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(test.want) {
				t.Errorf("got %v, want %v", got, test.want)
			}
			if got.Complexity() > test.in.Complexity() {
				t.Errorf("complexity grew from %d to %d",
					test.in.Complexity(), got.Complexity())
			}
		})
	}
}

func TestSimplify_RewriteFlagFromModule(t *testing.T) {
	ev := NewEvaler(pairsModule, &Module{
		Name:  "flags",
		Flags: map[string]CallFlags{"plus": Commutative},
	})
	got, err := ev.Simplify(node.NewCall("plus", node.IntOf(1), node.IntOf(2), node.IntOf(3)))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(node.IntOf(6)) {
		t.Errorf("got %v, want 6", got)
	}
}
