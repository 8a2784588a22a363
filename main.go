package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/utils"
)

var version = "0.1.0-dev"

// app carries the writers and logger shared by every subcommand
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status
func execute(args []string, stdout, stderr io.Writer) int {
	return executeContext(context.Background(), args, stdout, stderr)
}

func executeContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: utils.NewLogger("info", stderr),
	}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		a.logger.Error("command failed", "kind", model.KindOf(err).String(), "error", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cgol",
		Short: "Conway's Game of Life on a finite board",
		Long: `cgol loads an initial state file and evolves it under Conway's rules.

A state file is one "x,y" pair per line. The first line is the board's
"width,height"; each following line marks one live cell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			a.logger = utils.NewLogger(level, a.stderr)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity: info, debug or trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(a),
		newRunCmd(a),
		newLiveCmd(a),
		newValidateCmd(a),
		newHistoryCmd(a),
	)

	return rootCmd
}
