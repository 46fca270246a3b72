package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "src.sigma.sh/pkg/config"
	"src.sigma.sh/pkg/env"
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/must"
	"src.sigma.sh/pkg/testutil"
	"src.sigma.sh/pkg/tt"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(testutil.TempDir(t), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("got config (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(testutil.TempDir(t), "config.yaml")
	must.WriteFile(path, testutil.Dedent(`
		engine:
		  max_depth: 64
		program:
		  retention: restore
		history:
		  db: /tmp/h.db
		color: never
		`))
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Engine.MaxDepth = 64
	want.Program.Retention = "restore"
	want.History.DB = "/tmp/h.db"
	want.Color = "never"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("got config (-want +got):\n%s", diff)
	}
	if cfg.Policy() != eval.RestorePrior {
		t.Errorf("Policy() = %v, want restore", cfg.Policy())
	}

	ev := eval.NewEvaler()
	cfg.Apply(ev)
	if ev.MaxDepth != 64 || ev.RewriteLimit != eval.DefaultRewriteLimit {
		t.Errorf("Apply set limits %d, %d", ev.MaxDepth, ev.RewriteLimit)
	}
}

func TestLoad_Error(t *testing.T) {
	path := filepath.Join(testutil.TempDir(t), "config.yaml")
	must.WriteFile(path, "color: [")
	_, err := Load(path)
	if err == nil || !strings.HasPrefix(err.Error(), path+": ") {
		t.Errorf("got error %v, want one prefixed with the path", err)
	}
}

func parseString(s string) (*Config, error) { return Parse(strings.NewReader(s)) }

func TestParse_Errors(t *testing.T) {
	tt.Test(t, parseString,
		tt.Args("").Rets(Default(), nil),
		tt.Args("bogus: 1").Rets(tt.Any, tt.ErrorWithMessage("field bogus not found")),
		tt.Args("engine:\n  max_depth: 0").
			Rets(tt.Any, tt.ErrorWithMessage("engine.max_depth must be positive")),
		tt.Args("engine:\n  rewrite_limit: -1").
			Rets(tt.Any, tt.ErrorWithMessage("engine.rewrite_limit must not be negative")),
		tt.Args("program:\n  retention: forever").
			Rets(tt.Any, tt.ErrorWithMessage("program.retention: unknown retention policy")),
		tt.Args("history:\n  size: -2").
			Rets(tt.Any, tt.ErrorWithMessage("history.size must not be negative")),
		tt.Args("color: sometimes").
			Rets(tt.Any, tt.ErrorWithMessage("color must be one of")),
	)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv(env.XDG_CONFIG_HOME, "/xdg/config")
	t.Setenv(env.XDG_STATE_HOME, "/xdg/state")
	tt.Test(t, DefaultPath, tt.Args().Rets(filepath.Join("/xdg/config", "sigma", "config.yaml"), nil))
	tt.Test(t, DefaultHistoryPath, tt.Args().Rets(filepath.Join("/xdg/state", "sigma", "history.db"), nil))

	t.Setenv(env.XDG_CONFIG_HOME, "")
	t.Setenv(env.HOME, "/home/u")
	tt.Test(t, DefaultPath, tt.Args().Rets(filepath.Join("/home/u", ".config", "sigma", "config.yaml"), nil))
}

func TestUseColor(t *testing.T) {
	t.Setenv(env.NO_COLOR, "")
	c := Default()
	tt.Test(t, (*Config).UseColor,
		tt.Args(c, true).Rets(true),
		tt.Args(c, false).Rets(false),
		tt.Args(&Config{Color: "always"}, false).Rets(true),
		tt.Args(&Config{Color: "never"}, true).Rets(false),
	)
	t.Setenv(env.NO_COLOR, "1")
	if c.UseColor(true) {
		t.Errorf("UseColor ignored NO_COLOR")
	}
}
