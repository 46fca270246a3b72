package shell

import (
	"os"
	"testing"

	"src.sigma.sh/pkg/env"
	"src.sigma.sh/pkg/must"
	. "src.sigma.sh/pkg/prog/progtest"
	"src.sigma.sh/pkg/testutil"
)

// Points the configuration and state directories at a fresh temporary
// directory, and changes into it.
func setupCleanHome(t *testing.T) string {
	dir := testutil.InTempDir(t)
	t.Setenv(env.HOME, dir)
	t.Setenv(env.XDG_CONFIG_HOME, dir+"/config")
	t.Setenv(env.XDG_STATE_HOME, dir+"/state")
	return dir
}

func TestConfig(t *testing.T) {
	setupCleanHome(t)
	must.WriteFile("shallow.yaml", "engine:\n  max_depth: 5\n")
	must.WriteFile("bad.yaml", "engine:\n  max_depth: 0\n")
	must.WriteFile("unknown.yaml", "colour: never\n")
	const recursive = "f(x) := if(x < 1) {0} else {1 + f(x - 1)}\nf(10)"

	Test(t, Program{},
		ThatSigma("-c", recursive).WritesStdout("10\n"),
		ThatSigma("-config", "shallow.yaml", "-c", recursive).
			ExitsWith(2).
			WritesStderrContaining("stack limit exceeded"),
		ThatSigma("-config", "bad.yaml", "-c", "1").
			ExitsWith(2).
			WritesStderrContaining("engine.max_depth must be positive"),
		ThatSigma("-config", "unknown.yaml", "-c", "1").
			ExitsWith(2).
			WritesStderrContaining("unknown.yaml"),
		ThatSigma("-config", "nonexistent.yaml", "-c", "1").WritesStdout("1\n"),
	)
}

func TestConfig_DefaultPath(t *testing.T) {
	setupCleanHome(t)
	must.OK(os.MkdirAll("config/sigma", 0700))
	must.WriteFile("config/sigma/config.yaml", "engine:\n  max_depth: 0\n")

	Test(t, Program{},
		ThatSigma("-c", "1").
			ExitsWith(2).
			WritesStderrContaining("engine.max_depth must be positive"),
	)
}

func TestRetentionFlag(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatSigma("-retention", "restore", "-c", "x := 2\nx").WritesStdout("2\n2\n"),
		ThatSigma("-retention", "bogus", "-c", "1").
			ExitsWith(2).
			WritesStderrContaining("unknown retention policy"),
	)
}

func TestBadUsage(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatSigma("-c").
			ExitsWith(2).
			WritesStderrContaining("-c and -compileonly need a script argument"),
	)
}
