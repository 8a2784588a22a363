package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

  - live cell with fewer than 2 or more than 3 live neighbors dies
  - live cell with 2 or 3 live neighbors survives
  - dead cell with exactly 3 live neighbors becomes live
  - any other dead cell stays dead
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}
