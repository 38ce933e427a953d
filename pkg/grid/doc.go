// Package grid implements the first-fit packing grid behind masonry layouts.
//
// # Overview
//
// A [Grid] is a mutable occupancy map with a fixed number of columns and a
// row count that grows on demand. Items are committed one at a time with
// [Grid.FitElement]; each item lands on the first top-left cell, scanning
// rows top to bottom and columns left to right, where its whole
// width×height footprint is free. Placements are never revisited.
//
// # Cell Values
//
// Every cell holds one of:
//
//   - [Free]: unoccupied
//   - [Blocked]: covered by some item, but not its origin
//   - an item ID (≥ 0): the origin (top-left) cell of that item
//
// The origin is the only cell that records the ID, so the layout can be
// recovered by scanning for non-negative cells; [Grid.Placements] does
// exactly that.
//
// # Usage
//
//	g := grid.New(3)
//	for i, it := range items {
//	    if err := g.FitElement(grid.Item{ID: i, Width: it.W, Height: it.H}); err != nil {
//	        return err // item wider than the grid
//	    }
//	}
//	for _, p := range g.Placements() {
//	    fmt.Println(p.ID, p.Row, p.Col)
//	}
//
// # Degenerate and Oversized Items
//
// Items with a zero (or negative) width or height are skipped without error.
// Items wider than the column count can never fit and are rejected with an
// ITEM_TOO_WIDE error instead of growing the grid forever.
//
// # Limits
//
// A grid refuses to exceed [MaxColumns] columns, [MaxRows] rows or
// [MaxCells] cells in total. Placements that would cross a limit fail with
// INVALID_ITEM (or INVALID_CONFIG for the column count) and leave the grid
// unchanged.
//
// Grids are not safe for concurrent use; a layout pass owns its grid.
package grid
