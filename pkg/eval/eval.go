// Package eval implements the simplification engine of sigma: the operation
// registry, scopes, user defined functions and the execution of programs.
package eval

import (
	"context"
	"io"
	"os"

	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/logutil"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

var logger = logutil.GetLogger("[eval] ")

// Default limits of the engine.
const (
	DefaultMaxDepth     = 512
	DefaultRewriteLimit = 4096
)

// Module is a batch of operations registered together, the way libraries of
// mathematics plug into the engine.
type Module struct {
	Name string
	Ops  []*Operation
	// Call flags of names defined by the module.
	Flags map[string]CallFlags
}

// Evaler is the evaluation context: operator table, compiler, scope and
// limits. An Evaler is not safe for concurrent use.
type Evaler struct {
	Table    *optable.Table
	Compiler *compile.Compiler
	Scope    *Scope
	// Calls nested deeper than this fail with a StackLimit error.
	MaxDepth int
	// Maximum number of pairings tried by one commutative rewrite.
	RewriteLimit int
	// Output of print.
	Out io.Writer
	// If not nil, called by Run with each result as soon as its statement
	// finishes.
	OnResult func(Result)

	depth int
	ctx   context.Context
}

// NewEvaler creates an Evaler with the core operations and the given
// modules. The resulting registry is what RestoreDefault returns to.
func NewEvaler(mods ...*Module) *Evaler {
	table := optable.Default()
	ev := &Evaler{
		Table:        table,
		Compiler:     compile.New(table),
		Scope:        NewScope(NewRegistry()),
		MaxDepth:     DefaultMaxDepth,
		RewriteLimit: DefaultRewriteLimit,
		Out:          os.Stdout,
		ctx:          context.Background(),
	}
	ev.AddModule(coreModule)
	for _, mod := range mods {
		ev.AddModule(mod)
	}
	ev.Scope.SetDefaults()
	return ev
}

// AddModule registers the operations and flags of a module.
func (ev *Evaler) AddModule(mod *Module) {
	reg := ev.Scope.Registry()
	for _, op := range mod.Ops {
		reg = reg.Register(op)
	}
	for name, f := range mod.Flags {
		reg = reg.SetFlags(name, f)
	}
	ev.Scope.SetRegistry(reg)
}

// Register registers an operation in the live registry.
func (ev *Evaler) Register(op *Operation) {
	ev.Scope.SetRegistry(ev.Scope.Registry().Register(op))
}

// Lookup returns the value bound to a variable.
func (ev *Evaler) Lookup(name string) (node.Node, bool) { return ev.Scope.Lookup(name) }

// Define binds a variable.
func (ev *Evaler) Define(name string, v node.Node) { ev.Scope.Define(name, v) }

// Context returns the context of the running program. Long-running
// operations like loops check it.
func (ev *Evaler) Context() context.Context { return ev.ctx }

// Render returns the infix form of n using the operator table of the Evaler.
func (ev *Evaler) Render(n node.Node) string { return compile.Render(n, ev.Table) }

// Eval compiles and runs a document.
func (ev *Evaler) Eval(ctx context.Context, name, src string, policy Policy) ([]Result, error) {
	prog, err := ev.Compiler.Document(ctx, name, src)
	if err != nil {
		return nil, err
	}
	return ev.Run(ctx, prog, policy)
}
