package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// TextCellWidth is the number of terminal columns one grid cell occupies in
// [RenderText].
const TextCellWidth = 4

var (
	freeCellStyle = lipgloss.NewStyle().Width(TextCellWidth).Foreground(lipgloss.Color("240"))
	itemCellStyle = lipgloss.NewStyle().Width(TextCellWidth).Foreground(lipgloss.Color("#ffffff")).Bold(true)
)

// RenderText draws the occupancy grid for a terminal, one line per row and
// four characters per column. The origin cell of each item shows its id and
// the rest of the footprint is filled with the item color. An empty layout
// renders as an empty string.
func RenderText(l masonry.Layout, opts ...Option) string {
	o := newOptions(opts)
	owners := o.owners(l)

	origins := make(map[[2]int]int, len(l.Positions))
	for _, p := range l.Positions {
		row, col := o.visual(l, p)
		origins[[2]int{row, col}] = p.ID
	}

	var b strings.Builder
	for r, row := range owners {
		for c, id := range row {
			if id < 0 {
				b.WriteString(freeCellStyle.Render(" ·"))
				continue
			}
			text := ""
			if origin, ok := origins[[2]int{r, c}]; ok {
				text = strconv.Itoa(origin)
				if len(text) > TextCellWidth-1 {
					text = text[:TextCellWidth-1]
				}
				text = " " + text
			}
			b.WriteString(itemCellStyle.Background(lipgloss.Color(o.color(id))).Render(text))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
