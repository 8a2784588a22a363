package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/state"
)

type validateResult struct {
	Path   string `json:"path"`
	Valid  bool   `json:"valid"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Live   int    `json:"live"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <state-file>",
		Short: "Check that a state file loads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			path := args[0]

			res := validateResult{Path: path}
			grid, err := state.FromFile(path, nil)
			if err != nil {
				res.Kind = model.KindOf(err).String()
				res.Error = err.Error()
			} else {
				res.Valid = true
				res.Width, res.Height = grid.Dimensions()
				res.Live = grid.CountLivingCells()
			}

			if jsonOut {
				if encErr := json.NewEncoder(a.stdout).Encode(res); encErr != nil {
					return encErr
				}
			} else if res.Valid {
				fmt.Fprintf(a.stdout, "%s: ok (%dx%d, %d live)\n", path, res.Width, res.Height, res.Live)
			} else {
				fmt.Fprintf(a.stdout, "%s: %s\n", path, res.Kind)
			}
			return err
		},
	}
}
