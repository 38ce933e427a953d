package grid

import (
	"math/rand/v2"
	"reflect"
	"testing"

	errs "github.com/matzehuels/masonry/pkg/errors"
)

func fitAll(t *testing.T, g *Grid, items []Item) {
	t.Helper()
	for _, it := range items {
		if err := g.FitElement(it); err != nil {
			t.Fatalf("FitElement(%+v): %v", it, err)
		}
	}
}

func positions(g *Grid) map[int][2]int {
	out := make(map[int][2]int)
	for _, p := range g.Placements() {
		out[p.ID] = [2]int{p.Row, p.Col}
	}
	return out
}

func TestFitElementScenarios(t *testing.T) {
	tests := []struct {
		name    string
		columns int
		items   []Item
		want    map[int][2]int
		rows    int
	}{
		{
			name:    "full-width item drops to next row",
			columns: 3,
			items: []Item{
				{ID: 0, Width: 1, Height: 1},
				{ID: 1, Width: 1, Height: 1},
				{ID: 2, Width: 1, Height: 1},
				{ID: 3, Width: 3, Height: 1},
			},
			want: map[int][2]int{0: {0, 0}, 1: {0, 1}, 2: {0, 2}, 3: {1, 0}},
			rows: 2,
		},
		{
			name:    "square blocks both rows",
			columns: 2,
			items: []Item{
				{ID: 0, Width: 2, Height: 2},
				{ID: 1, Width: 1, Height: 1},
			},
			want: map[int][2]int{0: {0, 0}, 1: {2, 0}},
			rows: 3,
		},
		{
			name:    "small item backfills a gap",
			columns: 3,
			items: []Item{
				{ID: 0, Width: 2, Height: 1},
				{ID: 1, Width: 2, Height: 1},
				{ID: 2, Width: 1, Height: 1},
			},
			want: map[int][2]int{0: {0, 0}, 1: {1, 0}, 2: {0, 2}},
			rows: 2,
		},
		{
			name:    "tall item extends past current rows",
			columns: 2,
			items: []Item{
				{ID: 0, Width: 1, Height: 1},
				{ID: 1, Width: 1, Height: 3},
				{ID: 2, Width: 1, Height: 1},
			},
			want: map[int][2]int{0: {0, 0}, 1: {0, 1}, 2: {1, 0}},
			rows: 3,
		},
		{
			name:    "degenerate items are skipped",
			columns: 2,
			items: []Item{
				{ID: 0, Width: 0, Height: 2},
				{ID: 1, Width: 1, Height: 1},
				{ID: 2, Width: 2, Height: 0},
			},
			want: map[int][2]int{1: {0, 0}},
			rows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.columns)
			fitAll(t, g, tt.items)

			if got := positions(g); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("positions = %v, want %v", got, tt.want)
			}
			if g.Rows() != tt.rows {
				t.Errorf("Rows() = %d, want %d", g.Rows(), tt.rows)
			}
		})
	}
}

func TestFitElementTooWide(t *testing.T) {
	g := New(2)
	fitAll(t, g, []Item{{ID: 0, Width: 1, Height: 1}})

	err := g.FitElement(Item{ID: 1, Width: 3, Height: 1})
	if !errs.Is(err, errs.ErrCodeItemTooWide) {
		t.Fatalf("FitElement() error = %v, want %s", err, errs.ErrCodeItemTooWide)
	}
	if g.Rows() != 1 || g.Len() != 1 {
		t.Errorf("grid mutated by rejected item: rows=%d len=%d", g.Rows(), g.Len())
	}
}

func TestFitElementZeroColumns(t *testing.T) {
	g := New(0)
	if err := g.FitElement(Item{ID: 0, Width: 1, Height: 1}); !errs.Is(err, errs.ErrCodeItemTooWide) {
		t.Errorf("FitElement() error = %v, want %s", err, errs.ErrCodeItemTooWide)
	}
	if err := g.FitElement(Item{ID: 1, Width: 0, Height: 1}); err != nil {
		t.Errorf("degenerate item should be ignored, got %v", err)
	}
}

func TestFitElementLimits(t *testing.T) {
	tests := []struct {
		name    string
		columns int
		items   []Item
		code    errs.Code
	}{
		{"too many columns", MaxColumns + 1, []Item{{ID: 0, Width: 1, Height: 1}}, errs.ErrCodeInvalidConfig},
		{"item too tall", 2, []Item{{ID: 0, Width: 1, Height: MaxRows + 1}}, errs.ErrCodeInvalidItem},
		{"too many cells", 1000, []Item{{ID: 0, Width: 1, Height: MaxCells/1000 + 1}}, errs.ErrCodeInvalidItem},
		{"rows exhausted", 1, []Item{{ID: 0, Width: 1, Height: MaxRows}, {ID: 1, Width: 1, Height: 1}}, errs.ErrCodeInvalidItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.columns)
			last := len(tt.items) - 1
			fitAll(t, g, tt.items[:last])
			rows := g.Rows()

			err := g.FitElement(tt.items[last])
			if !errs.Is(err, tt.code) {
				t.Fatalf("FitElement() error = %v, want %s", err, tt.code)
			}
			if g.Rows() != rows || g.Len() != last {
				t.Errorf("grid grew on a rejected item: rows=%d len=%d", g.Rows(), g.Len())
			}
		})
	}
}

func TestFitElementInvalidID(t *testing.T) {
	g := New(3)
	if err := g.FitElement(Item{ID: -1, Width: 1, Height: 1}); !errs.Is(err, errs.ErrCodeInvalidItem) {
		t.Errorf("negative id: error = %v, want %s", err, errs.ErrCodeInvalidItem)
	}

	fitAll(t, g, []Item{{ID: 4, Width: 1, Height: 1}})
	if err := g.FitElement(Item{ID: 4, Width: 1, Height: 1}); !errs.Is(err, errs.ErrCodeInvalidItem) {
		t.Errorf("duplicate id: error = %v, want %s", err, errs.ErrCodeInvalidItem)
	}
}

func TestFullWidthAlwaysColumnZero(t *testing.T) {
	const columns = 4
	g := New(columns)
	items := []Item{
		{ID: 0, Width: 1, Height: 2},
		{ID: 1, Width: columns, Height: 1},
		{ID: 2, Width: 3, Height: 1},
		{ID: 3, Width: columns, Height: 2},
		{ID: 4, Width: 1, Height: 1},
		{ID: 5, Width: columns, Height: 1},
	}
	fitAll(t, g, items)

	for _, p := range g.Placements() {
		if p.Width == columns && p.Col != 0 {
			t.Errorf("full-width item %d placed at column %d", p.ID, p.Col)
		}
	}
}

func randomItems(r *rand.Rand, n, columns int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:     i,
			Width:  r.IntN(columns + 1), // includes degenerate 0
			Height: r.IntN(4),
		}
	}
	return items
}

func TestPackingInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*31))
		columns := 1 + r.IntN(6)
		items := randomItems(r, 1+r.IntN(40), columns)

		g := New(columns)
		fitAll(t, g, items)
		placements := g.Placements()

		// Non-overlap.
		for i := range placements {
			for j := i + 1; j < len(placements); j++ {
				if placements[i].Overlaps(placements[j]) {
					t.Fatalf("seed %d: %+v overlaps %+v", seed, placements[i], placements[j])
				}
			}
		}

		// Origin holds the id, the rest of the footprint is Blocked.
		occupied := 0
		for _, p := range placements {
			for row := p.Row; row < p.Bottom(); row++ {
				for col := p.Col; col < p.Right(); col++ {
					want := Blocked
					if row == p.Row && col == p.Col {
						want = Cell(p.ID)
					}
					if got := g.At(row, col); got != want {
						t.Fatalf("seed %d: cell (%d,%d) = %d, want %d", seed, row, col, got, want)
					}
				}
			}
			occupied += p.Width * p.Height
		}

		// No stray occupied cells and a rectangular grid.
		nonFree := 0
		for _, row := range g.Cells() {
			if len(row) != columns {
				t.Fatalf("seed %d: row width %d, want %d", seed, len(row), columns)
			}
			for _, cell := range row {
				if cell != Free {
					nonFree++
				}
			}
		}
		if nonFree != occupied {
			t.Fatalf("seed %d: %d occupied cells, footprints cover %d", seed, nonFree, occupied)
		}

		// Every non-degenerate item was placed.
		placed := 0
		for _, it := range items {
			if !it.Degenerate() {
				placed++
			}
		}
		if len(placements) != placed {
			t.Fatalf("seed %d: %d placements, want %d", seed, len(placements), placed)
		}
	}
}

func TestDeterminism(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	items := randomItems(r, 60, 5)

	a, b := New(5), New(5)
	fitAll(t, a, items)
	fitAll(t, b, items)

	if !reflect.DeepEqual(a.Cells(), b.Cells()) {
		t.Error("same input produced different grids")
	}
	if a.String() != b.String() {
		t.Error("same input produced different dumps")
	}
}

func TestAt(t *testing.T) {
	g := New(2)
	fitAll(t, g, []Item{{ID: 0, Width: 2, Height: 1}})

	tests := []struct {
		row, col int
		want     Cell
	}{
		{0, 0, 0},
		{0, 1, Blocked},
		{1, 0, Free},
		{-1, 0, Free},
		{0, 5, Free},
	}
	for _, tt := range tests {
		if got := g.At(tt.row, tt.col); got != tt.want {
			t.Errorf("At(%d, %d) = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	g := New(3)
	fitAll(t, g, []Item{
		{ID: 0, Width: 1, Height: 1},
		{ID: 1, Width: 1, Height: 1},
		{ID: 2, Width: 1, Height: 1},
		{ID: 3, Width: 2, Height: 1},
	})

	want := " 0  1  2\n 3 -1 -2\n"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := New(3).String(); got != "" {
		t.Errorf("empty grid String() = %q, want empty", got)
	}
}

func TestPlacementOverlaps(t *testing.T) {
	a := Placement{Row: 0, Col: 0, Width: 2, Height: 2}
	tests := []struct {
		name string
		b    Placement
		want bool
	}{
		{"identical", a, true},
		{"shares corner cell", Placement{Row: 1, Col: 1, Width: 1, Height: 1}, true},
		{"adjacent right", Placement{Row: 0, Col: 2, Width: 1, Height: 2}, false},
		{"adjacent below", Placement{Row: 2, Col: 0, Width: 2, Height: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
