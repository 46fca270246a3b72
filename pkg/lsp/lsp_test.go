package lsp

import (
	"testing"

	. "src.sigma.sh/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	Test(t, Program,
		ThatSigma().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
		// The server stops when the input is closed.
		ThatSigma("-lsp").DoesNothing(),
	)
}
