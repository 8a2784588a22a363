package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/sim"
	"github.com/sheikhrachel/cgol/state"
	"github.com/sheikhrachel/cgol/store"
	"github.com/sheikhrachel/cgol/utils"
)

// simFlags are the flags shared by run and live. Each one overrides the config
// file only when set explicitly.
type simFlags struct {
	configPath     string
	generations    int
	workers        int
	delay          time.Duration
	stopWhenStable bool
	plain          bool
}

func addSimFlags(cmd *cobra.Command, f *simFlags) {
	defaults := utils.DefaultConfig()
	cmd.Flags().StringVar(&f.configPath, "config", "", "Config file path (yaml or json)")
	cmd.Flags().IntVarP(&f.generations, "generations", "n", defaults.Generations, "Generations to run (0 = until stopped)")
	cmd.Flags().IntVar(&f.workers, "workers", defaults.Workers, "Goroutines evaluating rows per step")
	cmd.Flags().DurationVar(&f.delay, "delay", defaults.FrameRate, "Pause between generations")
	cmd.Flags().BoolVar(&f.stopWhenStable, "stop-when-stable", false, "Stop on extinction or a repeating pattern")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "Render without colors or border")
}

// resolveConfig layers explicitly set flags over the config file over defaults
func resolveConfig(cmd *cobra.Command, f *simFlags) (utils.Config, error) {
	cfg := utils.DefaultConfig()
	if f.configPath != "" {
		loaded, err := utils.LoadConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("generations") {
		cfg.Generations = f.generations
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("delay") {
		cfg.FrameRate = f.delay
	}
	if flags.Changed("stop-when-stable") {
		cfg.StopWhenStable = f.stopWhenStable
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "[resolveConfig] invalid settings")
	}
	return cfg, nil
}

func newSimulation(grid *model.Grid, cfg utils.Config, logger *slog.Logger) (*sim.Simulation, error) {
	opts := []sim.Option{
		sim.WithWorkers(cfg.Workers),
		sim.WithHistory(cfg.HistorySize),
		sim.WithLogger(logger),
	}
	if cfg.UseMemoryPool {
		opts = append(opts, sim.WithPool(model.NewGridPool()))
	}
	return sim.New(grid, opts...)
}

func newRunCmd(a *app) *cobra.Command {
	var (
		f          simFlags
		quiet      bool
		chart      bool
		outPath    string
		recordPath string
	)

	cmd := &cobra.Command{
		Use:   "run <state-file>",
		Short: "Evolve a state file for a number of generations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &f)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("record") {
				cfg.RecordPath = recordPath
			}
			a.logger = utils.NewLogger(cfg.LogLevel, a.stderr)

			source := args[0]
			grid, err := state.FromFile(source, nil)
			if err != nil {
				return err
			}

			s, err := newSimulation(grid, cfg, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// bookkeeping writes outlive Ctrl-C so a cancelled run is still stamped
			storeCtx := context.WithoutCancel(ctx)
			rec, err := openRecorder(storeCtx, cfg.RecordPath, source, grid)
			if err != nil {
				return err
			}
			defer rec.Close()

			width, height := grid.Dimensions()
			a.logger.Info("run started", "source", source, "width", width, "height", height,
				"generations", cfg.Generations, "workers", cfg.Workers)

			renderer := model.NewTerminalRenderer(cfg.AliveGlyph, cfg.DeadGlyph, f.plain)
			stats := utils.NewStats()
			animate := !quiet && cfg.FrameRate > 0
			if !quiet {
				displayGameInfo(a.stdout, source, cfg, s.CurrentGrid())
			}

			var (
				outcome       = store.OutcomeCancelled
				livingCells   int
				lastFrameTime = time.Now()
			)
			for {
				frameStart := time.Now()

				var (
					density float64
					status  string
				)
				livingCells, density, status = updateGameState(s, lastFrameTime, stats)
				lastFrameTime = frameStart

				if err := rec.record(ctx, s.CurrentGeneration(), livingCells, s.CurrentGrid().Hash()); err != nil {
					if ctx.Err() == nil {
						return err
					}
					break
				}

				if !quiet {
					if animate {
						if err := renderer.Clear(a.stdout); err != nil {
							a.logger.Debug("clear failed", "error", err)
						}
					}
					displayGameStatus(a.stdout, s.CurrentGeneration(), livingCells, density, status, stats)
					renderer.Display(a.stdout, s.CurrentGrid())
				}

				if done, why := checkStopConditions(s, cfg); done {
					outcome = why
					break
				}

				if animate {
					select {
					case <-ctx.Done():
					case <-time.After(cfg.FrameRate):
					}
				}
				if ctx.Err() != nil {
					break
				}

				s.Step()
			}

			a.logger.Info("run finished", "generation", s.CurrentGeneration(), "outcome", outcome,
				"living", livingCells, "elapsed", stats.Elapsed())

			if err := rec.finish(storeCtx, s.CurrentGeneration(), livingCells, outcome); err != nil {
				return err
			}

			if quiet {
				renderer.Display(a.stdout, s.CurrentGrid())
			}
			fmt.Fprintf(a.stdout, "Finished at generation %d (%s) with %d living cells\n",
				s.CurrentGeneration(), outcome, livingCells)

			if chart {
				fmt.Fprintln(a.stdout, renderPopulationChart(stats.Population, "population per generation"))
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(state.Format(s.CurrentGrid())), 0o644); err != nil {
					return errors.Wrapf(err, "[run] failed to write snapshot: %s", outPath)
				}
				a.logger.Info("snapshot written", "path", outPath)
			}
			return nil
		},
	}

	addSimFlags(cmd, &f)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the final generation")
	cmd.Flags().BoolVar(&chart, "chart", false, "Plot population per generation when done")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the final generation as a state file")
	cmd.Flags().StringVar(&recordPath, "record", "", "SQLite database to record the run in")

	return cmd
}

// recorder writes a run to the store; a nil recorder records nothing
type recorder struct {
	runs  *store.RunStore
	runID int64
}

func openRecorder(ctx context.Context, dbPath, source string, grid *model.Grid) (*recorder, error) {
	if dbPath == "" {
		return nil, nil
	}
	runs, err := store.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	width, height := grid.Dimensions()
	id, err := runs.StartRun(ctx, source, width, height)
	if err != nil {
		runs.Close()
		return nil, err
	}
	return &recorder{runs: runs, runID: id}, nil
}

func (r *recorder) record(ctx context.Context, generation, population int, hash string) error {
	if r == nil {
		return nil
	}
	return r.runs.RecordGeneration(ctx, r.runID, generation, population, hash)
}

func (r *recorder) finish(ctx context.Context, generations, population int, outcome string) error {
	if r == nil {
		return nil
	}
	return r.runs.FinishRun(ctx, r.runID, generations, population, outcome)
}

func (r *recorder) Close() {
	if r == nil {
		return
	}
	r.runs.Close()
}
