package masonry

import "github.com/matzehuels/masonry/pkg/grid"

// Layout is the outcome of one pass.
type Layout struct {
	Columns   int        `json:"columns"`
	Rows      int        `json:"rows"`
	ColWidth  float64    `json:"col_width"`
	RowHeight float64    `json:"row_height"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Skipped   []int      `json:"skipped,omitempty"`
	Positions []Position `json:"positions"`
}

// Position is one placed item in cells and pixels. X and Y are offsets
// along the configured horizontal and vertical properties.
type Position struct {
	ID     int     `json:"id"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Position returns the placement for id, if it was placed.
func (l Layout) Position(id int) (Position, bool) {
	for _, p := range l.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

func newLayout(g *grid.Grid, colWidth, rowHeight float64, skipped []int) Layout {
	placements := g.Placements()
	l := Layout{
		Columns:   g.Columns(),
		Rows:      g.Rows(),
		ColWidth:  colWidth,
		RowHeight: rowHeight,
		Width:     float64(g.Columns()) * colWidth,
		Height:    float64(g.Rows()) * rowHeight,
		Skipped:   skipped,
		Positions: make([]Position, len(placements)),
	}
	for i, p := range placements {
		l.Positions[i] = Position{
			ID:     p.ID,
			Row:    p.Row,
			Col:    p.Col,
			Width:  p.Width,
			Height: p.Height,
			X:      float64(p.Col) * colWidth,
			Y:      float64(p.Row) * rowHeight,
		}
	}
	return l
}
