package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/cgol/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		recordPath string
		limit      int
		runID      int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, or chart one with --run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if recordPath == "" {
				return errors.New("[history] --record is required")
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			runs, err := store.Open(cmd.Context(), recordPath)
			if err != nil {
				return err
			}
			defer runs.Close()

			if runID > 0 {
				pops, err := runs.Populations(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(pops) == 0 {
					return errors.Wrapf(store.ErrRunNotFound, "[history] run %d has no generations", runID)
				}
				if jsonOut {
					return json.NewEncoder(a.stdout).Encode(map[string]any{"run": runID, "population": pops})
				}
				series := make([]float64, len(pops))
				for i, p := range pops {
					series[i] = float64(p)
				}
				fmt.Fprintln(a.stdout, renderPopulationChart(series, fmt.Sprintf("run %d population", runID)))
				return nil
			}

			list, err := runs.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				if list == nil {
					list = []store.Run{}
				}
				return json.NewEncoder(a.stdout).Encode(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.stdout, "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tSIZE\tGENERATIONS\tFINAL POP\tOUTCOME\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%d\t%s\t%dx%d\t%d\t%d\t%s\t%s\n",
					r.ID, r.Source, r.Width, r.Height, r.Generations, r.FinalPopulation, r.Outcome,
					r.StartedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&recordPath, "record", "", "SQLite database runs were recorded in")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 = all)")
	cmd.Flags().Int64Var(&runID, "run", 0, "Chart the population of one run")

	return cmd
}
