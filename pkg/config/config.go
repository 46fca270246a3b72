// Package config loads the YAML configuration file.
//
// A missing file is not an error: every setting has a default, and a file only
// needs to mention the settings it changes:
//
//	engine:
//	  max_depth: 1024
//	program:
//	  retention: keep
//	color: never
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"src.sigma.sh/pkg/env"
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[config] ")

// Config keeps all settings.
type Config struct {
	Engine  Engine  `yaml:"engine"`
	Program Program `yaml:"program"`
	History History `yaml:"history"`
	// One of "auto", "always" and "never".
	Color string `yaml:"color"`
}

// Engine keeps the limits of the simplification engine.
type Engine struct {
	MaxDepth     int `yaml:"max_depth"`
	RewriteLimit int `yaml:"rewrite_limit"`
}

// Program keeps settings of running documents.
type Program struct {
	// Name of the retention policy, as accepted by eval.ParsePolicy.
	Retention string `yaml:"retention"`
}

// History keeps settings of the REPL history.
type History struct {
	// Path of the database. An empty path uses DefaultHistoryPath.
	DB string `yaml:"db"`
	// Number of entries loaded into the line editor.
	Size int `yaml:"size"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine:  Engine{MaxDepth: eval.DefaultMaxDepth, RewriteLimit: eval.DefaultRewriteLimit},
		Program: Program{Retention: eval.KeepAll.String()},
		History: History{Size: 1000},
		Color:   "auto",
	}
}

// DefaultPath returns the path of the configuration file:
// $XDG_CONFIG_HOME/sigma/config.yaml, with XDG_CONFIG_HOME defaulting to
// ~/.config.
func DefaultPath() (string, error) {
	return xdgPath(env.XDG_CONFIG_HOME, ".config", "config.yaml")
}

// DefaultHistoryPath returns the default path of the history database:
// $XDG_STATE_HOME/sigma/history.db, with XDG_STATE_HOME defaulting to
// ~/.local/state.
func DefaultHistoryPath() (string, error) {
	return xdgPath(env.XDG_STATE_HOME, filepath.Join(".local", "state"), "history.db")
}

func xdgPath(envName, homeRel, name string) (string, error) {
	dir := os.Getenv(envName)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, homeRel)
	}
	return filepath.Join(dir, "sigma", name), nil
}

// Load reads the configuration file at path. Settings absent from the file
// keep their defaults. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Printf("%s does not exist, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Printf("loaded %s", path)
	return cfg, nil
}

// Parse decodes a configuration from YAML. Unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values of all settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_depth must be positive, got %d", c.Engine.MaxDepth))
	}
	if c.Engine.RewriteLimit < 0 {
		errs = append(errs, fmt.Errorf("engine.rewrite_limit must not be negative, got %d", c.Engine.RewriteLimit))
	}
	if _, err := eval.ParsePolicy(c.Program.Retention); err != nil {
		errs = append(errs, fmt.Errorf("program.retention: %w", err))
	}
	if c.History.Size < 0 {
		errs = append(errs, fmt.Errorf("history.size must not be negative, got %d", c.History.Size))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("color must be one of auto, always, never, got %q", c.Color))
	}
	return errors.Join(errs...)
}

// Policy returns the retention policy. It must only be called on a validated
// Config.
func (c *Config) Policy() eval.Policy {
	p, _ := eval.ParsePolicy(c.Program.Retention)
	return p
}

// Apply sets the engine limits of an Evaler.
func (c *Config) Apply(ev *eval.Evaler) {
	ev.MaxDepth = c.Engine.MaxDepth
	ev.RewriteLimit = c.Engine.RewriteLimit
}

// UseColor decides whether to use colors on a terminal. The NO_COLOR
// environment variable turns "auto" off.
func (c *Config) UseColor(isTTY bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return isTTY && os.Getenv(env.NO_COLOR) == ""
}
