package eval

import (
	"context"
	"errors"
	"fmt"

	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/node"
)

// Policy decides what happens to the definitions made by a program when it
// finishes.
type Policy uint8

// Possible values of Policy.
const (
	// RestorePrior discards everything the program defined.
	RestorePrior Policy = iota
	// RestoreDefaults leaves only the built-in operations.
	RestoreDefaults
	// KeepAll keeps everything the program defined.
	KeepAll
)

var policyNames = [...]string{"restore", "default", "keep"}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("!(BAD POLICY: %d)", p)
}

// ParsePolicy parses the name of a policy.
func ParsePolicy(s string) (Policy, error) {
	for i, name := range policyNames {
		if s == name {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown retention policy %q, should be one of restore, default, keep", s)
}

// Result is the value of one statement.
type Result struct {
	Line  int
	Value node.Node
}

// Run runs the statements of a program in order and returns their values.
// It stops at the first error, which is returned as an Exception whose last
// frame is the line of the statement. A return at the top level stops the
// program normally. The context is checked before each statement.
func (ev *Evaler) Run(ctx context.Context, p *compile.Program, policy Policy) ([]Result, error) {
	ev.Scope.Save()
	defer ev.retain(policy)
	ev.ctx = ctx
	defer func() { ev.ctx = context.Background() }()

	var results []Result
	for _, stmt := range p.Statements {
		if err := ctx.Err(); err != nil {
			return results, lineException(p.Name, stmt, err)
		}
		v, err := ev.Simplify(stmt.Node)
		var ret ReturnValue
		if errors.As(err, &ret) {
			results = ev.emit(results, Result{stmt.Line, ret.Value})
			break
		}
		if err != nil {
			return results, lineException(p.Name, stmt, err)
		}
		results = ev.emit(results, Result{stmt.Line, v})
	}
	return results, nil
}

func (ev *Evaler) emit(results []Result, r Result) []Result {
	if ev.OnResult != nil {
		ev.OnResult(r)
	}
	return append(results, r)
}

func (ev *Evaler) retain(policy Policy) {
	switch policy {
	case RestorePrior:
		ev.Scope.Restore()
	case RestoreDefaults:
		ev.Scope.PopLast()
		ev.Scope.RestoreDefault()
	default:
		ev.Scope.PopLast()
	}
}

func lineException(name string, stmt compile.Statement, err error) error {
	exc, ok := err.(*exception)
	if !ok {
		exc = &exception{reason: err}
	}
	exc.addFrame(&diag.Context{
		Name: name, Source: stmt.Source,
		Ranging: diag.Ranging{From: 0, To: len(stmt.Source)}, LineOffset: stmt.Line - 1})
	return exc
}

// ErrorLine returns the source line an error from Run or from compilation
// happened on, or 0 if unknown.
func ErrorLine(err error) int {
	if exc, ok := err.(*exception); ok {
		for tb := exc.stackTrace; tb != nil; tb = tb.Next {
			if tb.Head.Name != nodeFrameName {
				return tb.Head.Begin().Line
			}
		}
		return 0
	}
	if errs := diag.UnpackErrors[compile.ErrorTag](err); len(errs) > 0 {
		return errs[0].Line()
	}
	return 0
}
