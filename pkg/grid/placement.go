package grid

// Placement is the committed position of one item, in cells.
type Placement struct {
	ID     int
	Row    int
	Col    int
	Width  int
	Height int
}

// Bottom returns the first row below the placement.
func (p Placement) Bottom() int { return p.Row + p.Height }

// Right returns the first column right of the placement.
func (p Placement) Right() int { return p.Col + p.Width }

// Overlaps reports whether two placements share at least one cell.
func (p Placement) Overlaps(o Placement) bool {
	return p.Col < o.Right() && o.Col < p.Right() && p.Row < o.Bottom() && o.Row < p.Bottom()
}

// Placements scans the grid for origin cells and returns one placement per
// item in row-major order.
func (g *Grid) Placements() []Placement {
	out := make([]Placement, 0, len(g.items))
	for r, row := range g.cells {
		for c, cell := range row {
			if !cell.IsOrigin() {
				continue
			}
			it := g.items[int(cell)]
			out = append(out, Placement{
				ID:     int(cell),
				Row:    r,
				Col:    c,
				Width:  it.Width,
				Height: it.Height,
			})
		}
	}
	return out
}
