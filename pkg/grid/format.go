package grid

import (
	"strconv"
	"strings"
)

// String renders the occupancy one row per line, e.g.
//
//	 0 -1  1
//	-1 -1 -2
//
// Origins are right-aligned to the widest value so columns line up.
func (g *Grid) String() string {
	width := 2
	for _, row := range g.cells {
		for _, cell := range row {
			if n := len(strconv.Itoa(int(cell))); n > width {
				width = n
			}
		}
	}

	var b strings.Builder
	for _, row := range g.cells {
		for c, cell := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			s := strconv.Itoa(int(cell))
			b.WriteString(strings.Repeat(" ", width-len(s)))
			b.WriteString(s)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
