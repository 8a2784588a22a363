package state

import (
	"strconv"
	"strings"

	"github.com/sheikhrachel/cgol/model"
)

// Format writes g in the initial-state text format: the dimension line followed
// by one line per live cell in row-major order. FromText(Format(g)) rebuilds g.
func Format(g model.GridView) string {
	var sb strings.Builder
	width, height := g.Dimensions()
	writePair(&sb, width, height)
	for _, p := range g.LiveCells() {
		writePair(&sb, p.X, p.Y)
	}
	return sb.String()
}

func writePair(sb *strings.Builder, a, b int) {
	sb.WriteString(strconv.Itoa(a))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(b))
	sb.WriteByte('\n')
}
