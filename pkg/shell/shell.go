// Package shell is the entry point for the terminal interface of sigma: the
// script runner and the interactive REPL.
package shell

import (
	"io"
	"os"

	"src.sigma.sh/pkg/config"
	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/logutil"
	"src.sigma.sh/pkg/mods"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/prog"
	"src.sigma.sh/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It always runs.
type Program struct{}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	diag.SetColor(cfg.UseColor(sys.IsATTY(fds[2].Fd())))
	ev := InitEvaler(cfg, fds[1])
	cleanup := initSignal(fds[2])
	defer cleanup()

	if len(args) > 0 {
		exit := script(ev, fds, args, &scriptCfg{
			Cmd: f.CodeInArg, CompileOnly: f.CompileOnly, JSON: f.JSON,
			Policy: cfg.Policy()})
		return prog.Exit(exit)
	}
	if f.CodeInArg || f.CompileOnly {
		return prog.BadUsage("-c and -compileonly need a script argument")
	}

	icfg := &interactCfg{HistorySize: cfg.History.Size}
	if !f.NoHistory {
		icfg.HistoryDB = cfg.History.DB
		if icfg.HistoryDB == "" {
			icfg.HistoryDB, err = config.DefaultHistoryPath()
			if err != nil {
				logger.Println("no history:", err)
			}
		}
	}
	interact(ev, fds, icfg)
	return nil
}

// Loads the configuration file named by -config, or the default one, and
// applies -retention on top of it.
func loadConfig(f *prog.Flags) (*config.Config, error) {
	path := f.Config
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			logger.Println("using default config:", err)
		}
	}
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if f.Retention != "" {
		cfg.Program.Retention = f.Retention
		if _, err := eval.ParsePolicy(f.Retention); err != nil {
			return nil, prog.BadUsage(err.Error())
		}
	}
	return cfg, nil
}

// InitEvaler creates an Evaler with all the standard modules, the engine
// limits from cfg, and print writing to out.
func InitEvaler(cfg *config.Config, out io.Writer) *eval.Evaler {
	ev := eval.NewEvaler(mods.All...)
	cfg.Apply(ev)
	ev.Out = out
	return ev
}

// Writes the rendered value of a result, skipping the unit value.
func showResult(ev *eval.Evaler, w io.Writer, r eval.Result) {
	if r.Value == nil || r.Value.Kind() == node.KindVoid {
		return
	}
	io.WriteString(w, ev.Render(r.Value)+"\n")
}
