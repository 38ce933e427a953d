package render

import (
	"encoding/json"

	"github.com/matzehuels/masonry/pkg/masonry"
)

type jsonOutput struct {
	Columns   int        `json:"columns"`
	Rows      int        `json:"rows"`
	ColWidth  float64    `json:"col_width"`
	RowHeight float64    `json:"row_height"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	InvertX   bool       `json:"invert_x,omitempty"`
	InvertY   bool       `json:"invert_y,omitempty"`
	Skipped   []int      `json:"skipped,omitempty"`
	Items     []jsonItem `json:"items"`
}

type jsonItem struct {
	ID     int     `json:"id"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// RenderJSON exports the layout with item labels and colors.
func RenderJSON(l masonry.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	out := jsonOutput{
		Columns:   l.Columns,
		Rows:      l.Rows,
		ColWidth:  l.ColWidth,
		RowHeight: l.RowHeight,
		Width:     l.Width,
		Height:    l.Height,
		InvertX:   o.invertX,
		InvertY:   o.invertY,
		Skipped:   l.Skipped,
		Items:     make([]jsonItem, 0, len(l.Positions)),
	}
	for _, p := range l.Positions {
		out.Items = append(out.Items, jsonItem{
			ID:     p.ID,
			Label:  o.label(p.ID),
			Color:  o.color(p.ID),
			Row:    p.Row,
			Col:    p.Col,
			Width:  p.Width,
			Height: p.Height,
			X:      p.X,
			Y:      p.Y,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
