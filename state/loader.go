// Package state turns the textual initial-state format into a validated grid.
//
// The format is line oriented. The first record is "width,height"; every following
// record is "x,y" naming one initially live cell:
//
//	3,3
//	0,0
//	1,2
//
// Empty lines (a lone "\r" counts as empty) are ignored, so a trailing newline is
// fine. Every other line must be exactly two comma-separated decimal integers with
// no whitespace and no "+" sign. The board may hold at most model.MaxCells cells.
package state

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/cgol/model"
)

// Layout is a parsed initial state: board dimensions plus live cells in file order
type Layout struct {
	Width  int
	Height int
	Live   []model.Point
}

// FromText parses text and builds the grid it describes. On any error the grid is
// nil.
func FromText(text string) (*model.Grid, error) {
	layout, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return layout.Build()
}

// Parse validates text without allocating a board. Dimensions are checked before
// any cell record is read, and the first bad record aborts the parse.
func Parse(text string) (*Layout, error) {
	if !utf8.ValidString(text) {
		return nil, errors.Wrap(model.ErrInvalidFormat, "[Parse] input is not valid UTF-8")
	}

	var (
		layout   *Layout
		lines    = strings.Split(text, "\n")
		seenDims bool
	)
	for i, line := range lines {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		a, b, err := parsePair(line)
		if err != nil {
			return nil, errors.Wrapf(err, "[Parse] line %d", lineNo)
		}

		if !seenDims {
			if err := model.CheckDimensions(a, b); err != nil {
				return nil, errors.WithMessagef(err, "[Parse] line %d", lineNo)
			}
			layout = &Layout{Width: a, Height: b}
			seenDims = true
			continue
		}

		if a < 0 || a >= layout.Width || b < 0 || b >= layout.Height {
			oob := &model.OutOfBoundsError{X: a, Y: b, Width: layout.Width, Height: layout.Height}
			return nil, errors.Wrapf(oob, "[Parse] line %d", lineNo)
		}
		layout.Live = append(layout.Live, model.Point{X: a, Y: b})
	}

	if !seenDims {
		return nil, errors.WithStack(model.ErrEmptyInput)
	}
	return layout, nil
}

func parsePair(line string) (int, int, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return 0, 0, errors.Wrapf(model.ErrInvalidFormat, "expected 2 comma-separated fields, got %d in %q", len(fields), line)
	}

	a, err := parseInt(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseInt(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// parseInt accepts an optional leading "-" and decimal digits, nothing else
func parseInt(field string) (int, error) {
	if strings.HasPrefix(field, "+") {
		return 0, errors.Wrapf(model.ErrInvalidFormat, "bad integer %q", field)
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, errors.Wrapf(model.ErrInvalidFormat, "bad integer %q", field)
	}
	return n, nil
}

// Build allocates the grid and marks every live cell. Duplicate cells are harmless.
func (s *Layout) Build() (*model.Grid, error) {
	g, err := model.NewGrid(s.Width, s.Height)
	if err != nil {
		return nil, errors.Wrap(err, "[Build] failed to allocate grid")
	}
	for i, p := range s.Live {
		if err := g.Set(p.X, p.Y, true); err != nil {
			return nil, errors.Wrapf(err, "[Build] live cell %d", i+1)
		}
	}
	return g, nil
}
