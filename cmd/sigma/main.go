// Sigma is a symbolic computer-algebra language. Programs are documents of
// statements that are simplified one by one; the REPL keeps definitions
// across inputs, and the language server reports compilation errors to
// editors.
package main

import (
	"os"

	"src.sigma.sh/pkg/buildinfo"
	"src.sigma.sh/pkg/lsp"
	"src.sigma.sh/pkg/pprof"
	"src.sigma.sh/pkg/prog"
	"src.sigma.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		pprof.Wrap(prog.Composite(
			buildinfo.Program, lsp.Program, shell.Program{}))))
}
