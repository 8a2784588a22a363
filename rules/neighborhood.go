package rules

// Offset is a relative (dx, dy) step from a cell to one of its neighbors
type Offset struct {
	DX, DY int
}

// MooreNeighborhood lists the 8 offsets {-1,0,1}² without (0,0), row by row.
var MooreNeighborhood = [8]Offset{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
