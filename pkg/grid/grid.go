package grid

import (
	errs "github.com/matzehuels/masonry/pkg/errors"
)

// Cell is the occupancy state of a single grid cell.
// Non-negative values are item IDs marking an origin cell.
type Cell int

const (
	// Free marks an unoccupied cell.
	Free Cell = -2
	// Blocked marks a cell covered by an item's footprint outside its origin.
	Blocked Cell = -1
)

// Size limits. A grid never allocates more than MaxCells cells, so a single
// oversized container or item cannot exhaust memory.
const (
	MaxColumns = 10_000
	MaxRows    = 100_000
	MaxCells   = 1 << 22
)

// IsOrigin reports whether the cell holds an item ID.
func (c Cell) IsOrigin() bool { return c > Blocked }

// Item is one layout unit measured in grid cells.
type Item struct {
	ID     int
	Width  int
	Height int
}

// Degenerate reports whether the item has no visible footprint.
func (it Item) Degenerate() bool { return it.Width < 1 || it.Height < 1 }

// Grid is a first-fit occupancy map with a fixed column count.
type Grid struct {
	columns int
	cells   [][]Cell
	items   map[int]Item
}

// New creates an empty grid with the given column count.
// A non-positive count yields a grid on which every item is too wide.
func New(columns int) *Grid {
	if columns < 0 {
		columns = 0
	}
	return &Grid{
		columns: columns,
		items:   make(map[int]Item),
	}
}

// Columns returns the fixed column count.
func (g *Grid) Columns() int { return g.columns }

// Rows returns the current number of allocated rows.
func (g *Grid) Rows() int { return len(g.cells) }

// Len returns the number of items placed so far.
func (g *Grid) Len() int { return len(g.items) }

// At returns the cell at (row, col). Cells outside the allocated area read
// as Free.
func (g *Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= g.columns {
		return Free
	}
	return g.cells[row][col]
}

// Cells returns the occupancy rows. The slice aliases the grid's storage
// and must be treated as read-only.
func (g *Grid) Cells() [][]Cell { return g.cells }

// FitElement commits item to the first position where its footprint fits,
// appending rows as needed. Degenerate items are ignored.
func (g *Grid) FitElement(item Item) error {
	if item.Degenerate() {
		return nil
	}
	if item.ID < 0 {
		return errs.New(errs.ErrCodeInvalidItem, "item id must be non-negative, got %d", item.ID)
	}
	if _, dup := g.items[item.ID]; dup {
		return errs.New(errs.ErrCodeInvalidItem, "item %d is already placed", item.ID)
	}
	if g.columns > MaxColumns {
		return errs.New(errs.ErrCodeInvalidConfig, "grid has %d columns (max %d)", g.columns, MaxColumns)
	}
	if item.Width > g.columns {
		return errs.TooWide(item.ID, item.Width, g.columns)
	}
	if item.Height > MaxRows {
		return errs.New(errs.ErrCodeInvalidItem, "item %d is %d cells tall (max %d)", item.ID, item.Height, MaxRows)
	}

	row, col := g.search(item)
	if end := row + item.Height; end > MaxRows || end*g.columns > MaxCells {
		return errs.New(errs.ErrCodeInvalidItem,
			"item %d would grow the grid to %d rows of %d columns (max %d rows, %d cells)",
			item.ID, end, g.columns, MaxRows, MaxCells)
	}
	if need := row + item.Height - len(g.cells); need > 0 {
		g.addRows(need)
	}
	g.place(item, row, col)
	return nil
}

// search scans rows [0, Rows()] and returns the first feasible origin.
// The row one past the end is always feasible at column 0, so the scan
// terminates for any item no wider than the grid.
func (g *Grid) search(item Item) (row, col int) {
	for row = 0; row <= len(g.cells); row++ {
		if col = g.fitsInRow(item, row); col >= 0 {
			return row, col
		}
	}
	// unreachable: the appended row always fits
	return len(g.cells), 0
}

// fitsInRow returns the leftmost column in row where item fits, or -1.
func (g *Grid) fitsInRow(item Item, row int) int {
	if row >= len(g.cells) {
		return 0
	}
	for col := 0; col+item.Width <= g.columns; col++ {
		if g.fitsAt(item, row, col) {
			return col
		}
	}
	return -1
}

// fitsAt reports whether item's footprint anchored at (row, col) touches
// only Free cells. Rows below the allocated area count as free.
func (g *Grid) fitsAt(item Item, row, col int) bool {
	for r := row; r < row+item.Height && r < len(g.cells); r++ {
		for c := col; c < col+item.Width; c++ {
			if g.cells[r][c] != Free {
				return false
			}
		}
	}
	return true
}

func (g *Grid) place(item Item, row, col int) {
	for r := row; r < row+item.Height; r++ {
		for c := col; c < col+item.Width; c++ {
			g.cells[r][c] = Blocked
		}
	}
	g.cells[row][col] = Cell(item.ID)
	g.items[item.ID] = item
}

func (g *Grid) addRows(count int) {
	for i := 0; i < count; i++ {
		row := make([]Cell, g.columns)
		for c := range row {
			row[c] = Free
		}
		g.cells = append(g.cells, row)
	}
}
