// Package mods collects the standard modules.
package mods

import (
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/mods/arith"
	"src.sigma.sh/pkg/mods/calc"
	"src.sigma.sh/pkg/mods/coll"
	"src.sigma.sh/pkg/mods/linalg"
	"src.sigma.sh/pkg/mods/logic"
	"src.sigma.sh/pkg/mods/re"
	"src.sigma.sh/pkg/mods/str"
)

// All lists the standard modules in the order they are added to an Evaler.
var All = []*eval.Module{
	arith.Module,
	logic.Module,
	coll.Module,
	linalg.Module,
	calc.Module,
	str.Module,
	re.Module,
}
