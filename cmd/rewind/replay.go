package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/script"
)

func newReplayCmd(opts *options) *cobra.Command {
	var (
		metrics bool
		outline bool
		ids     bool
		times   bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "replay <script.lua>...",
		Short: "Run scripts and print the resulting history",
		Long: `Run Lua scripts against an empty document and print the history.

Examples:
  # Print the history left by a script
  rewind replay edits.lua

  # Include the document outline and the metrics
  rewind replay --outline --metrics edits.lua

  # Export the history and the outline as JSON
  rewind replay --format json edits.lua`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (must be table or json)", format)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if metrics {
				cfg.Metrics.Enabled = true
			}

			session, err := app.NewSession(app.Options{Config: cfg, LogOutput: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer session.Close()

			engine := script.New(session,
				script.WithConfig(cfg.Script),
				script.WithLogger(session.Logger().Named("script")),
				script.WithOutput(cmd.OutOrStdout()),
			)
			defer engine.Close()

			for _, path := range args {
				if err := engine.DoFile(cmd.Context(), path); err != nil {
					return fmt.Errorf("running %s: %w", path, err)
				}
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				data, err := app.ExportJSON(session.History(), session.Document())
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			app.RenderHistory(out, session.History(), app.TableOptions{
				ShowIDs:   ids || cfg.Browser.ShowIDs,
				ShowTimes: times || cfg.Browser.ShowTimes,
			})
			if outline {
				fmt.Fprintln(out)
				app.RenderDocument(out, session.Document())
			}
			if metrics {
				fmt.Fprintln(out)
				return session.Metrics().WriteText(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "print metrics in the Prometheus text format")
	cmd.Flags().BoolVar(&outline, "outline", false, "print the document outline")
	cmd.Flags().BoolVar(&ids, "ids", false, "show descriptor ids")
	cmd.Flags().BoolVar(&times, "times", false, "show execution times")
	return cmd
}
