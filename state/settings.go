package state

import (
	"github.com/sheikhrachel/cgol/model"
)

// Settings builds an initial state in code instead of text:
//
//	grid, err := state.NewSettings().
//		SetDimensions(50, 50).
//		SetLiveCell(1, 0).
//		SetLiveCell(2, 1).
//		Build()
//
// Build applies the same validation as the text loader.
type Settings struct {
	layout Layout
}

func NewSettings() *Settings {
	return &Settings{}
}

func (s *Settings) SetDimensions(width, height int) *Settings {
	s.layout.Width = width
	s.layout.Height = height
	return s
}

func (s *Settings) SetLiveCell(x, y int) *Settings {
	s.layout.Live = append(s.layout.Live, model.Point{X: x, Y: y})
	return s
}

// Build returns the grid, or the first dimension or bounds error
func (s *Settings) Build() (*model.Grid, error) {
	return s.layout.Build()
}
