package shell

import (
	"testing"

	"src.sigma.sh/pkg/must"
	. "src.sigma.sh/pkg/prog/progtest"
)

func TestScript(t *testing.T) {
	setupCleanHome(t)
	must.WriteFile("hello.sig", "# greet\nprint(\"hello\")\n1 + 1\n")
	must.WriteFile("multiline.sig", "f(x) := {\n  y := x * 2;\n  y + 1\n}\nf(3)\n")
	must.WriteFile("invalid-utf8.sig", "\xff")

	Test(t, Program{},
		ThatSigma("hello.sig").WritesStdout("hello\n2\n"),
		ThatSigma("multiline.sig").WritesStdout("7\n"),
		ThatSigma("-c", "x := 3\nx * 2").WritesStdout("3\n6\n"),
		ThatSigma("-c", "print(1, \"a\")\n()").WritesStdout("1 a\n"),
		// Results and print output are interleaved in statement order.
		ThatSigma("-c", "1\nprint(2)\n3").WritesStdout("1\n2\n3\n"),

		ThatSigma("invalid-utf8.sig").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		ThatSigma("non-existent.sig").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),

		// compilation error
		ThatSigma("-c", "1+").
			ExitsWith(2).
			WritesStderrContaining("Compilation error"),
		// compilation error with -compileonly
		ThatSigma("-compileonly", "-c", "1+").
			ExitsWith(2).
			WritesStderrContaining("should be an operand"),
		// compilation error with -compileonly -json
		ThatSigma("-compileonly", "-json", "-c", "f(").
			ExitsWith(2).
			WritesStdout(`[{"fileName":"code from -c","line":1,"start":2,"end":2,"message":"unclosed bracket at end of document"}]`+"\n"),
		ThatSigma("-compileonly", "-json", "-c", "1\n1+").
			ExitsWith(2).
			WritesStdoutContaining(`"line":2,`),
		// no errors with -compileonly -json
		ThatSigma("-compileonly", "-json", "-c", "1/0").WritesStdout("[]\n"),

		// exception
		ThatSigma("-c", "1/0").
			ExitsWith(2).
			WritesStderrContaining("domain error"),
		// values before the exception are still shown
		ThatSigma("-c", "5\n1/0\n6").
			ExitsWith(2).
			WritesStdout("5\n").
			WritesStderrContaining("code from -c:2"),
		// exception with -compileonly
		ThatSigma("-compileonly", "-c", "1/0").ExitsWith(0),
	)
}
