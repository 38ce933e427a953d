// Package host defines the presentation-tree boundary masonry lays out against.
//
// A host is whatever owns the real elements: a browser bridge, a terminal
// renderer, or the in-memory tree in [memory]. The coordinator only needs to
// look up a container, measure elements, write pixel-valued positional
// styles, and optionally hear about viewport resizes.
//
// [memory]: github.com/matzehuels/masonry/pkg/host/memory
package host

import (
	"strconv"
	"strings"
)

// Property names a positional or sizing style on an element.
type Property string

// Style properties written by the coordinator.
const (
	Top    Property = "top"
	Bottom Property = "bottom"
	Left   Property = "left"
	Right  Property = "right"
	Width  Property = "width"
	Height Property = "height"
)

// Element is a measurable, styleable node in the host tree.
type Element interface {
	// OffsetSize returns the rendered outer width and height in pixels.
	OffsetSize() (width, height float64)
	// ClientWidth returns the content width in pixels, honouring any width
	// style currently applied.
	ClientWidth() float64
	// Children returns the element's children in document order.
	Children() []Element
	// Style returns the current value of prop, or "" if unset.
	Style(prop Property) string
	// SetStyle sets prop to value; an empty value clears it.
	SetStyle(prop Property, value string)
}

// Document resolves element identifiers.
type Document interface {
	// Query returns the elements matching id; zero or one is expected.
	Query(id string) []Element
}

// Viewport exposes the visible area and its resize signal.
type Viewport interface {
	Height() float64
	// OnResize registers fn to run after every resize and returns a function
	// that removes the registration.
	OnResize(fn func()) (cancel func())
}

// Px formats v as a pixel string, e.g. "300px".
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// ParsePx parses a pixel string produced by Px. A bare number is accepted.
func ParsePx(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
