package model

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultAliveGlyph = "██"
	DefaultDeadGlyph  = "  "

	macosClearCmd = "clear"
)

var (
	aliveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466"))
)

// TerminalRenderer draws a grid as text, one row per line
type TerminalRenderer struct {
	AliveGlyph string
	DeadGlyph  string
	// Plain disables colors and the border
	Plain bool
}

// NewTerminalRenderer returns a renderer using the given glyphs, falling back to
// the defaults for empty ones.
func NewTerminalRenderer(alive, dead string, plain bool) *TerminalRenderer {
	if alive == "" {
		alive = DefaultAliveGlyph
	}
	if dead == "" {
		dead = DefaultDeadGlyph
	}
	return &TerminalRenderer{AliveGlyph: alive, DeadGlyph: dead, Plain: plain}
}

// Render returns the grid as a string
func (r *TerminalRenderer) Render(g GridView) string {
	alive := r.AliveGlyph
	if !r.Plain {
		alive = aliveStyle.Render(alive)
	}

	width, height := g.Dimensions()
	var sb strings.Builder
	for y := range height {
		for x := range width {
			if g.Get(x, y) {
				sb.WriteString(alive)
			} else {
				sb.WriteString(r.DeadGlyph)
			}
		}
		if y < height-1 {
			sb.WriteByte('\n')
		}
	}

	if r.Plain {
		return sb.String()
	}
	return boardStyle.Render(sb.String())
}

// Display renders the grid to w
func (r *TerminalRenderer) Display(w io.Writer, g GridView) {
	fmt.Fprintln(w, r.Render(g))
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear(w io.Writer) error {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = w
	return cmd.Run()
}
