package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/masonry/pkg/masonry"
)

const (
	freeColor   = "#f4f4f4"
	borderColor = "#9a9a9a"
)

// ToDOT converts a layout to a Graphviz graph holding a single HTML-like
// table. Each placed item is one cell spanning its footprint; free cells are
// drawn empty. A one-point spacer column keeps rows that are entirely covered
// from above valid.
func ToDOT(l masonry.Layout, opts ...Option) string {
	o := newOptions(opts)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext, margin=0];\n")
	buf.WriteString("\n")

	if l.Rows == 0 || l.Columns == 0 {
		buf.WriteString("  grid [label=\"empty\"];\n")
		buf.WriteString("}\n")
		return buf.String()
	}

	cw := points(l.ColWidth, o.scale)
	rh := points(l.RowHeight, o.scale)
	origins := make(map[[2]int]masonry.Position, len(l.Positions))
	for _, p := range l.Positions {
		row, col := o.visual(l, p)
		origins[[2]int{row, col}] = p
	}
	owners := o.owners(l)

	buf.WriteString("  grid [label=<\n")
	fmt.Fprintf(&buf, "    <TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\" CELLPADDING=\"0\" COLOR=%q>\n", borderColor)
	for r := 0; r < l.Rows; r++ {
		buf.WriteString("      <TR>")
		fmt.Fprintf(&buf, "<TD BORDER=\"0\" WIDTH=\"1\" HEIGHT=\"%d\" FIXEDSIZE=\"TRUE\"></TD>", rh)
		for c := 0; c < l.Columns; c++ {
			if p, ok := origins[[2]int{r, c}]; ok {
				fmt.Fprintf(&buf,
					"<TD COLSPAN=\"%d\" ROWSPAN=\"%d\" WIDTH=\"%d\" HEIGHT=\"%d\" FIXEDSIZE=\"TRUE\" BGCOLOR=%q>%s</TD>",
					p.Width, p.Height, cw*p.Width, rh*p.Height, o.color(p.ID), html.EscapeString(o.label(p.ID)))
				continue
			}
			if owners[r][c] >= 0 {
				continue
			}
			fmt.Fprintf(&buf, "<TD WIDTH=\"%d\" HEIGHT=\"%d\" FIXEDSIZE=\"TRUE\" BGCOLOR=%q></TD>", cw, rh, freeColor)
		}
		buf.WriteString("</TR>\n")
	}
	buf.WriteString("    </TABLE>\n")
	buf.WriteString("  >];\n")
	buf.WriteString("}\n")
	return buf.String()
}

func points(px, scale float64) int {
	return max(1, int(math.Round(px*scale)))
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := renderDOT(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using the embedded Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the view box, so browsers scale it one to one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
