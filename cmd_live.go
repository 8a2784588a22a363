package main

import (
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/state"
	"github.com/sheikhrachel/cgol/tui"
	"github.com/sheikhrachel/cgol/utils"
)

func newLiveCmd(a *app) *cobra.Command {
	var f simFlags

	cmd := &cobra.Command{
		Use:   "live <state-file>",
		Short: "Watch a state file evolve interactively",
		Long: `live opens a full-screen view that advances one generation per frame.

Keys: space pauses and resumes, n steps once while paused, q quits.
Unless --generations is given the view runs until you quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &f)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("generations") {
				cfg.Generations = 0
			}
			a.logger = utils.NewLogger(cfg.LogLevel, a.stderr)

			source := args[0]
			grid, err := state.FromFile(source, nil)
			if err != nil {
				return err
			}

			// the alt screen owns the terminal; keep per-generation logs out of it
			s, err := newSimulation(grid, cfg, nil)
			if err != nil {
				return err
			}

			renderer := model.NewTerminalRenderer(cfg.AliveGlyph, cfg.DeadGlyph, f.plain)
			m := tui.NewModel(s, renderer, tui.Options{
				Title:          source,
				FrameRate:      cfg.FrameRate,
				MaxGenerations: cfg.Generations,
				StopWhenStable: cfg.StopWhenStable,
			})

			a.logger.Debug("live view starting", "source", source)
			return tui.Run(m)
		},
	}

	addSimFlags(cmd, &f)
	return cmd
}
