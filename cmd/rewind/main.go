// Package main is the entry point for the rewind command-line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(&options{
		env:       os.LookupEnv,
		newScreen: tcell.NewScreen,
	})
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// options holds the global flags and the process dependencies tests swap.
type options struct {
	configPath string
	logLevel   string

	env       func(string) (string, bool)
	newScreen func() (tcell.Screen, error)
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "rewind",
		Short: "Scriptable undo/redo history for an outline document",
		Long: `rewind edits an outline document through a linear undo/redo history.

Edits come from Lua scripts; the history can be printed as a table or
explored in an interactive terminal browser.

Configuration is read from a TOML file (--config) and REWIND_* environment
variables.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newReplayCmd(opts))
	root.AddCommand(newBrowseCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// loadConfig reads the configuration file, then the environment, then the
// command-line overrides.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(o.env); err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
