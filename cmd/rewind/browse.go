package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/browser"
	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/script"
)

func newBrowseCmd(opts *options) *cobra.Command {
	var (
		watch   bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "browse [script.lua]...",
		Short: "Explore the history in a terminal browser",
		Long: `Run optional Lua scripts, then open an interactive history browser.

Keys: up/down select, enter jump, u undo, r redo, c clear, q quit.

Examples:
  # Browse the history left by a script
  rewind browse edits.lua

  # Reload the configuration when the file changes
  rewind browse --config rewind.toml --watch edits.lua`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && opts.configPath == "" {
				return errors.New("--watch needs --config")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			// The terminal belongs to the browser, so logs only go to a file.
			var logOutput io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				logOutput = f
			}

			session, err := app.NewSession(app.Options{Config: cfg, LogOutput: logOutput})
			if err != nil {
				return err
			}
			defer session.Close()
			logger := session.Logger()

			engine := script.New(session,
				script.WithConfig(cfg.Script),
				script.WithLogger(logger.Named("script")),
				script.WithOutput(cmd.OutOrStdout()),
			)
			defer engine.Close()
			for _, path := range args {
				if err := engine.DoFile(cmd.Context(), path); err != nil {
					return fmt.Errorf("running %s: %w", path, err)
				}
			}

			screen, err := opts.newScreen()
			if err != nil {
				return fmt.Errorf("creating terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal: %w", err)
			}
			defer screen.Fini()

			b, err := browser.New(screen, session)
			if err != nil {
				return err
			}
			defer b.Close()

			if watch {
				w, err := config.NewWatcher(opts.configPath, b.Reload,
					config.WithEnv(opts.env),
					config.WithWatcherLogger(logger.Named("config")),
					config.WithErrorHandler(func(err error) {
						logger.Warn("configuration reload failed", zap.Error(err))
					}),
				)
				if err != nil {
					return fmt.Errorf("watching %s: %w", opts.configPath, err)
				}
				defer w.Close()
			}

			err = b.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the configuration file when it changes")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}
