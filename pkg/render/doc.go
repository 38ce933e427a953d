// Package render turns a packed [masonry.Layout] into output artifacts.
//
// # Formats
//
//   - json: the layout with item labels and colors, for other tools
//   - dot: a Graphviz HTML-table graph with one cell per grid cell
//   - svg, png: the dot graph rendered with the embedded Graphviz
//   - pdf: filled rectangles drawn with tdewolff/canvas, one pixel per CSS px
//   - txt: a colored terminal picture of the occupancy grid (lipgloss)
//
// Every renderer takes the same [Option] values:
//
//	out, err := render.Render(render.FormatSVG, layout,
//	    render.WithLabels(names),
//	    render.WithColors(colors),
//	)
//
// Items are identified by their layout id. Labels and colors are indexed by
// that id; missing entries fall back to the id itself and to [Palette].
//
// [masonry.Layout]: github.com/matzehuels/masonry/pkg/masonry.Layout
package render
