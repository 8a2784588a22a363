package main

import (
	"fmt"
	"io"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/sim"
	"github.com/sheikhrachel/cgol/store"
	"github.com/sheikhrachel/cgol/utils"
)

// displayGameInfo shows the initial game information
func displayGameInfo(w io.Writer, source string, config utils.Config, grid model.GridView) {
	width, height := grid.Dimensions()
	fmt.Fprintf(w, "Source: %s | Workers: %d | Memory Pool: %v\n",
		source, config.Workers, config.UseMemoryPool)
	fmt.Fprintf(w, "Grid: %dx%d | Initial living cells: %d\n",
		width, height, grid.CountLivingCells())
	fmt.Fprintln(w)
}

// updateGameState records the current generation in stats and returns status information
func updateGameState(
	s *sim.Simulation,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (int, float64, string) {
	grid := s.CurrentGrid()
	width, height := grid.Dimensions()
	livingCells := grid.CountLivingCells()
	density := float64(livingCells) / float64(width*height) * 100

	stats.Update(s.CurrentGeneration(), livingCells, time.Since(lastFrameTime))

	status := "Active"
	switch {
	case livingCells == 0:
		status = "Extinct"
	case s.IsStagnant():
		status = "Stagnant"
	}

	return livingCells, density, status
}

// displayGameStatus shows the current game status
func displayGameStatus(
	w io.Writer,
	generation, livingCells int,
	density float64,
	status string,
	stats *utils.Stats,
) {
	fmt.Fprintf(w, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		generation, livingCells, density, status)
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Elapsed().Seconds())
}

// checkStopConditions determines if the run should end and with which outcome
func checkStopConditions(s *sim.Simulation, config utils.Config) (bool, string) {
	if config.Generations > 0 && s.CurrentGeneration() >= config.Generations {
		return true, store.OutcomeCompleted
	}
	if !config.StopWhenStable {
		return false, ""
	}
	if s.IsExtinct() {
		return true, store.OutcomeExtinct
	}
	if s.IsStagnant() {
		return true, store.OutcomeStagnant
	}
	return false, ""
}

// renderPopulationChart plots population per generation
func renderPopulationChart(population []float64, caption string) string {
	if len(population) == 0 {
		return ""
	}
	if len(population) == 1 {
		population = []float64{population[0], population[0]}
	}
	return asciigraph.Plot(population,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
