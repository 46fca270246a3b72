package eval

import (
	"sort"
	"strings"

	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"

	"src.sigma.sh/pkg/node"
)

// Mult is the multiplicity of a parameter: how many consecutive arguments it
// consumes.
type Mult int

// ManyArgs is the multiplicity of parameters that consume any number of
// arguments.
const ManyArgs Mult = -1

// Parameter is one formal parameter of an operation.
type Parameter struct {
	Kind *Kind
	Mult Mult
}

// One returns a parameter that consumes exactly one argument.
func One(k *Kind) Parameter { return Parameter{k, 1} }

// Exactly returns a parameter that consumes exactly n arguments.
func Exactly(n int, k *Kind) Parameter { return Parameter{k, Mult(n)} }

// Many returns a parameter that consumes zero or more arguments.
func Many(k *Kind) Parameter { return Parameter{k, ManyArgs} }

// Impl implements an operation. Returning a nil node and a nil error means
// the operation does not apply to the arguments.
type Impl func(ev *Evaler, args []node.Node) (node.Node, error)

// Operation is one definition of a call name.
type Operation struct {
	Name   string
	Params []Parameter
	// Commutative binary operations are also registered with the parameters
	// swapped.
	Commutative bool
	Impl        Impl
}

// Op is a shorthand for building an Operation.
func Op(name string, impl Impl, params ...Parameter) *Operation {
	return &Operation{Name: name, Params: params, Impl: impl}
}

// Signature returns the name and parameter kinds, as in "add(number, any...)".
func (op *Operation) Signature() string {
	var params []string
	for _, p := range op.Params {
		switch {
		case p.Mult == ManyArgs:
			params = append(params, p.Kind.Name+"...")
		default:
			for i := 0; i < int(p.Mult); i++ {
				params = append(params, p.Kind.Name)
			}
		}
	}
	return op.Name + "(" + strings.Join(params, ", ") + ")"
}

// Weight returns the sum of the weights of the parameter kinds.
func (op *Operation) Weight() int {
	w := 0
	for _, p := range op.Params {
		w += p.Kind.Weight
	}
	return w
}

// Accepts reports whether the parameters consume exactly the arguments. Each
// parameter greedily consumes the leading arguments it matches.
func (op *Operation) Accepts(args []node.Node) bool {
	i := 0
	for _, p := range op.Params {
		switch {
		case p.Mult == ManyArgs:
			for i < len(args) && p.Kind.Match(args[i]) {
				i++
			}
		default:
			for j := 0; j < int(p.Mult); j++ {
				if i >= len(args) || !p.Kind.Match(args[i]) {
					return false
				}
				i++
			}
		}
	}
	return i == len(args)
}

func (op *Operation) sameSignature(params []Parameter) bool {
	if len(op.Params) != len(params) {
		return false
	}
	for i, p := range op.Params {
		if p != params[i] {
			return false
		}
	}
	return true
}

// conjugate returns the operation with its two parameters swapped.
func (op *Operation) conjugate() *Operation {
	impl := op.Impl
	return &Operation{
		Name:   op.Name,
		Params: []Parameter{op.Params[1], op.Params[0]},
		Impl: func(ev *Evaler, args []node.Node) (node.Node, error) {
			return impl(ev, []node.Node{args[1], args[0]})
		},
	}
}

// CallFlags modify how arguments of calls are simplified.
type CallFlags uint8

const (
	// PreserveArgs leaves all arguments unsimplified, for flow control and
	// definition primitives.
	PreserveArgs CallFlags = 1 << iota
	// PreserveFirstArg leaves the first argument unsimplified, for calls
	// whose first argument is a binding target.
	PreserveFirstArg
	// Commutative lets calls with more than two arguments that no operation
	// accepts be simplified pairwise.
	Commutative
)

// Registry maps call names to operations, ordered by ascending weight. It is
// immutable; methods that modify it return a new Registry sharing most of the
// structure of the old one, so that keeping a snapshot is cheap.
type Registry struct {
	ops   hashmap.Map
	flags hashmap.Map
}

func equalString(a, b any) bool { return a.(string) == b.(string) }
func hashString(a any) uint32   { return hash.String(a.(string)) }

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return Registry{hashmap.New(equalString, hashString), hashmap.New(equalString, hashString)}
}

func (r Registry) bucket(name string) []*Operation {
	if v, ok := r.ops.Index(name); ok {
		return v.([]*Operation)
	}
	return nil
}

// Register adds an operation. A binary commutative operation whose parameters
// differ is also added with the parameters swapped.
func (r Registry) Register(op *Operation) Registry {
	if op.Commutative && len(op.Params) == 2 && op.Params[0] != op.Params[1] {
		r = r.add(op.conjugate())
	}
	return r.add(op)
}

func (r Registry) add(op *Operation) Registry {
	old := r.bucket(op.Name)
	ops := make([]*Operation, len(old), len(old)+1)
	copy(ops, old)
	ops = append(ops, op)
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Weight() < ops[j].Weight() })
	r.ops = r.ops.Assoc(op.Name, ops)
	return r
}

// Remove removes the operations with the exact signature.
func (r Registry) Remove(name string, params []Parameter) Registry {
	old := r.bucket(name)
	var ops []*Operation
	for _, op := range old {
		if !op.sameSignature(params) {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		r.ops = r.ops.Dissoc(name)
	} else {
		r.ops = r.ops.Assoc(name, ops)
	}
	return r
}

// RemoveAll removes all the operations of a name.
func (r Registry) RemoveAll(name string) Registry {
	r.ops = r.ops.Dissoc(name)
	return r
}

// Has reports whether there is any operation with the name.
func (r Registry) Has(name string) bool {
	return len(r.bucket(name)) > 0
}

// Lookup returns the operations of a name, ordered by ascending weight.
func (r Registry) Lookup(name string) []*Operation {
	return append([]*Operation(nil), r.bucket(name)...)
}

// Resolve returns the operations that accept the arguments of the call,
// ordered by ascending weight.
func (r Registry) Resolve(c *node.Call) []*Operation {
	var candidates []*Operation
	for _, op := range r.bucket(c.Name) {
		if op.Accepts(c.Args) {
			candidates = append(candidates, op)
		}
	}
	return candidates
}

// Names returns the sorted names that have operations.
func (r Registry) Names() []string {
	var names []string
	for it := r.ops.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		names = append(names, k.(string))
	}
	sort.Strings(names)
	return names
}

// SetFlags sets the call flags of a name.
func (r Registry) SetFlags(name string, f CallFlags) Registry {
	r.flags = r.flags.Assoc(name, f)
	return r
}

// Flags returns the call flags of a name.
func (r Registry) Flags(name string) CallFlags {
	if v, ok := r.flags.Index(name); ok {
		return v.(CallFlags)
	}
	return 0
}
