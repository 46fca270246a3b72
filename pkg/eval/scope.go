package eval

import (
	"sort"

	"github.com/xiaq/persistent/hashmap"

	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

// Scope holds the variable bindings and the operation registry, with a stack
// of snapshots of both. Both tables are persistent maps, so taking a snapshot
// is O(1).
type Scope struct {
	vars     hashmap.Map
	reg      Registry
	defaults Registry
	stack    []snapshot
	// Bindings removed by WithholdAccess, one frame per call.
	withheld [][]binding
}

type snapshot struct {
	vars hashmap.Map
	reg  Registry
}

type binding struct {
	name  string
	value node.Node
}

func emptyVars() hashmap.Map { return hashmap.New(equalString, hashString) }

// NewScope creates a scope with no variables and the given registry, which
// also becomes the default registry.
func NewScope(reg Registry) *Scope {
	return &Scope{vars: emptyVars(), reg: reg, defaults: reg}
}

// Registry returns the live registry.
func (s *Scope) Registry() Registry { return s.reg }

// SetRegistry replaces the live registry.
func (s *Scope) SetRegistry(r Registry) { s.reg = r }

// SetDefaults makes the live registry the one RestoreDefault returns to.
func (s *Scope) SetDefaults() { s.defaults = s.reg }

// Save pushes a snapshot of the variables and the registry.
func (s *Scope) Save() {
	s.stack = append(s.stack, snapshot{s.vars, s.reg})
}

// Restore pops the last snapshot and makes it live, discarding everything
// defined since the matching Save. It returns false if there is no snapshot.
func (s *Scope) Restore() bool {
	if len(s.stack) == 0 {
		return false
	}
	last := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.vars, s.reg = last.vars, last.reg
	return true
}

// PopLast discards the last snapshot without restoring it.
func (s *Scope) PopLast() bool {
	if len(s.stack) == 0 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

// Depth returns the number of snapshots.
func (s *Scope) Depth() int { return len(s.stack) }

// RestoreDefault removes all variables and returns the registry to the
// built-in operations.
func (s *Scope) RestoreDefault() {
	s.vars = emptyVars()
	s.reg = s.defaults
	s.withheld = nil
}

// WithholdAccess removes the bindings of the given names until the matching
// ReleaseRestrictions.
func (s *Scope) WithholdAccess(names ...string) {
	var frame []binding
	for _, name := range names {
		if v, ok := s.vars.Index(name); ok {
			frame = append(frame, binding{name, v.(node.Node)})
			s.vars = s.vars.Dissoc(name)
		}
	}
	s.withheld = append(s.withheld, frame)
}

// ReleaseRestrictions restores the bindings removed by the last
// WithholdAccess.
func (s *Scope) ReleaseRestrictions() {
	if len(s.withheld) == 0 {
		return
	}
	frame := s.withheld[len(s.withheld)-1]
	s.withheld = s.withheld[:len(s.withheld)-1]
	for _, b := range frame {
		s.vars = s.vars.Assoc(b.name, b.value)
	}
}

// Define binds a variable.
func (s *Scope) Define(name string, v node.Node) {
	s.vars = s.vars.Assoc(name, v)
}

// Delete removes a variable binding and reports whether it existed.
func (s *Scope) Delete(name string) bool {
	if _, ok := s.vars.Index(name); !ok {
		return false
	}
	s.vars = s.vars.Dissoc(name)
	return true
}

// Lookup returns the value bound to a variable.
func (s *Scope) Lookup(name string) (node.Node, bool) {
	if v, ok := s.vars.Index(name); ok {
		return v.(node.Node), true
	}
	return nil, false
}

// Names returns the sorted names of the bound variables, leaving out the
// internal names of function parameters.
func (s *Scope) Names() []string {
	var names []string
	for it := s.vars.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		if name := k.(string); !optable.IsFresh(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
