package render

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// mmPerPx converts CSS pixels (1/96 in) to millimetres.
const mmPerPx = 25.4 / 96

// RenderPDF draws the layout as a single page the size of the container.
// Free cells are outlined, items are filled with their color.
func RenderPDF(l masonry.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	scale := mmPerPx * o.scale
	width := max(l.Width*scale, 1)
	height := max(l.Height*scale, 1)

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo("masonry layout", fmt.Sprintf("%d columns x %d rows", l.Columns, l.Rows), "", "", "masonry")

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	cw, rh := l.ColWidth*scale, l.RowHeight*scale
	ctx.SetStrokeColor(canvas.Hex(borderColor))
	ctx.SetStrokeWidth(0.2)

	owners := o.owners(l)
	ctx.SetFillColor(canvas.Hex(freeColor))
	for r := range owners {
		for col, id := range owners[r] {
			if id < 0 {
				ctx.DrawPath(float64(col)*cw, float64(r)*rh, canvas.Rectangle(cw, rh))
			}
		}
	}
	for _, p := range l.Positions {
		row, col := o.visual(l, p)
		ctx.SetFillColor(canvas.Hex(o.color(p.ID)))
		ctx.DrawPath(float64(col)*cw, float64(row)*rh, canvas.Rectangle(float64(p.Width)*cw, float64(p.Height)*rh))
	}

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
