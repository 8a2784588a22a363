package model

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/cgol/rules"
)

// Point addresses a cell: X is the column, Y is the row
type Point struct {
	X, Y int
}

// GridView is the read-only surface of a Grid handed out to renderers and callers
// outside the engine.
type GridView interface {
	Get(x, y int) bool
	Dimensions() (width, height int)
	CountLivingCells() int
	LiveCells() []Point
	Hash() string
}

// Grid represents the game board. Cells are stored row-major as cells[y][x] and the
// array is always exactly height rows of width cells.
type Grid struct {
	width  int
	height int
	cells  [][]bool
}

var _ GridView = (*Grid)(nil)

// MaxCells caps width*height so a declared board size can never exhaust memory
// before a single cell is read.
const MaxCells = 1 << 26

// CheckDimensions reports whether a width x height board can be allocated: both
// sides at least 1 and at most MaxCells cells in total.
func CheckDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return errors.Wrapf(ErrInvalidDimensions, "width and height must be >= 1, got %dx%d", width, height)
	}
	if width > MaxCells/height {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d exceeds the %d cell limit", width, height, MaxCells)
	}
	return nil
}

// NewGrid creates a new all-dead grid with the specified dimensions
func NewGrid(width, height int) (*Grid, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, errors.WithMessage(err, "[NewGrid]")
	}
	return newGrid(width, height), nil
}

func newGrid(width, height int) *Grid {
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Width returns the width of the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the height of the grid
func (g *Grid) Height() int {
	return g.height
}

// Dimensions returns (width, height)
func (g *Grid) Dimensions() (int, int) {
	return g.width, g.height
}

// Clear kills all cells
func (g *Grid) Clear() {
	for y := range g.height {
		clear(g.cells[y])
	}
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Set sets a cell to alive (true) or dead (false). An out-of-bounds coordinate
// returns an *OutOfBoundsError and leaves the grid untouched.
func (g *Grid) Set(x, y int, alive bool) error {
	if !g.inBounds(x, y) {
		return &OutOfBoundsError{X: x, Y: y, Width: g.width, Height: g.height}
	}
	g.cells[y][x] = alive
	return nil
}

// Get returns the state of a cell. Reading outside the grid is a programming error
// and panics.
func (g *Grid) Get(x, y int) bool {
	if !g.inBounds(x, y) {
		panic(&OutOfBoundsError{X: x, Y: y, Width: g.width, Height: g.height})
	}
	return g.cells[y][x]
}

// CountNeighbors counts living cells in the Moore neighborhood of (x, y). Offsets
// that fall off the board are skipped; the board does not wrap.
func (g *Grid) CountNeighbors(x, y int) int {
	count := 0
	for _, o := range rules.MooreNeighborhood {
		nx, ny := x+o.DX, y+o.DY
		if !g.inBounds(nx, ny) {
			continue
		}
		if g.cells[ny][nx] {
			count++
		}
	}
	return count
}

// CandidateNeighbors returns how many Moore offsets of (x, y) land on the board:
// 3 for a corner, 5 for an edge, 8 for an interior cell on boards at least 3 wide.
func (g *Grid) CandidateNeighbors(x, y int) int {
	count := 0
	for _, o := range rules.MooreNeighborhood {
		if g.inBounds(x+o.DX, y+o.DY) {
			count++
		}
	}
	return count
}

// NextGeneration writes the generation following g into next. g is only read and
// next is only written; rows are split across workers and all of them finish
// before this returns.
func (g *Grid) NextGeneration(next *Grid, workers int) error {
	if next == nil || next.width != g.width || next.height != g.height {
		return errors.Wrapf(ErrInvalidDimensions, "[NextGeneration] next buffer must be %dx%d", g.width, g.height)
	}
	if next == g {
		return errors.New("[NextGeneration] next buffer aliases the current grid")
	}

	workers = max(1, min(workers, g.height))
	var (
		eg            errgroup.Group
		rowsPerWorker = (g.height + workers - 1) / workers // Ceiling division
	)

	for i := range workers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.height)
		)
		if startRow >= g.height {
			break
		}

		eg.Go(func() error {
			for y := startRow; y < endRow; y++ {
				for x := range g.width {
					next.cells[y][x] = rules.ApplyConwayRules(g.CountNeighbors(x, y), g.cells[y][x])
				}
			}
			return nil
		})
	}

	return eg.Wait()
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}

// LiveCells returns the coordinates of every living cell in row-major order
func (g *Grid) LiveCells() []Point {
	var points []Point
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return points
}

// BoundingBoxSize returns the area of the smallest rectangle holding every living
// cell, or 0 for an empty board.
func (g *Grid) BoundingBoxSize() int {
	minX, minY := g.width, g.height
	maxX, maxY := -1, -1
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	if maxX < 0 {
		return 0
	}
	return (maxX - minX + 1) * (maxY - minY + 1)
}

// Hash returns an MD5 digest of the cell bitmap and dimensions
func (g *Grid) Hash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.width, g.height)
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Clone returns a deep copy that shares no storage with g
func (g *Grid) Clone() *Grid {
	c := newGrid(g.width, g.height)
	for y := range g.height {
		copy(c.cells[y], g.cells[y])
	}
	return c
}

// Equal reports whether both grids have the same dimensions and cell states
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] != other.cells[y][x] {
				return false
			}
		}
	}
	return true
}
