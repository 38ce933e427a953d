package render

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// Formats lists every supported format in a stable order.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatPDF, FormatText}

// Palette is the default item fill, cycled by item id.
var Palette = []string{
	"#3d5a80", "#98c1d9", "#e0fbfc", "#ee6c4d", "#293241",
	"#81b29a", "#f2cc8f", "#e07a5f", "#6d597a", "#b56576",
}

// Option configures a renderer.
type Option func(*options)

type options struct {
	labels  []string
	colors  []string
	invertX bool
	invertY bool
	scale   float64
}

// WithLabels names items by id.
func WithLabels(labels []string) Option { return func(o *options) { o.labels = labels } }

// WithColors sets item fills by id, as #rrggbb strings.
func WithColors(colors []string) Option { return func(o *options) { o.colors = colors } }

// WithInvert mirrors the picture to match a container laid out with
// right and/or bottom offsets.
func WithInvert(x, y bool) Option {
	return func(o *options) { o.invertX, o.invertY = x, y }
}

// WithScale multiplies the pixel size of raster and vector output. The
// default is 1.
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

func newOptions(opts []Option) options {
	o := options{scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

func (o options) label(id int) string {
	if id < len(o.labels) && o.labels[id] != "" {
		return o.labels[id]
	}
	return strconv.Itoa(id)
}

// color returns the fill for id. Anything but #rgb or #rrggbb falls back to
// the palette, since the value is written verbatim into DOT and PDF output.
func (o options) color(id int) string {
	if id < len(o.colors) && hexColor.MatchString(o.colors[id]) {
		return o.colors[id]
	}
	return Palette[id%len(Palette)]
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// visual returns the top-left cell of p as it appears on screen.
func (o options) visual(l masonry.Layout, p masonry.Position) (row, col int) {
	row, col = p.Row, p.Col
	if o.invertX {
		col = l.Columns - p.Col - p.Width
	}
	if o.invertY {
		row = l.Rows - p.Row - p.Height
	}
	return row, col
}

// owners maps every covered cell to the id of the item covering it, in
// visual coordinates. Free cells hold -1.
func (o options) owners(l masonry.Layout) [][]int {
	cells := make([][]int, l.Rows)
	for r := range cells {
		cells[r] = slices.Repeat([]int{-1}, l.Columns)
	}
	for _, p := range l.Positions {
		row, col := o.visual(l, p)
		for r := row; r < row+p.Height && r < l.Rows; r++ {
			for c := col; c < col+p.Width && c < l.Columns; c++ {
				if r >= 0 && c >= 0 {
					cells[r][c] = p.ID
				}
			}
		}
	}
	return cells
}

// ParseFormats splits a comma-separated list and rejects unknown names.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if f == "text" {
			f = FormatText
		}
		if !slices.Contains(Formats, f) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", f, strings.Join(Formats, ", "))
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// Render produces one artifact.
func Render(format string, l masonry.Layout, opts ...Option) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = RenderJSON(l, opts...)
	case FormatDOT:
		out = []byte(ToDOT(l, opts...))
	case FormatSVG:
		out, err = RenderSVG(ToDOT(l, opts...))
	case FormatPNG:
		out, err = RenderPNG(ToDOT(l, opts...))
	case FormatPDF:
		out, err = RenderPDF(l, opts...)
	case FormatText:
		out = []byte(RenderText(l, opts...))
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", format)
	}
	return out, nil
}

// Extension returns the file extension, with dot, for a format.
func Extension(format string) string {
	return fmt.Sprintf(".%s", format)
}
