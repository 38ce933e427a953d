// Package memory provides an in-process host tree for masonry.
//
// It backs the CLI (scene files are loaded into a memory document), the HTTP
// server, and tests. Elements have an intrinsic size; width and height styles
// override it the way a browser's box model would.
package memory

import (
	"slices"
	"sync"

	"github.com/matzehuels/masonry/pkg/host"
)

// Element is a host element with an intrinsic size and a style map.
// It is safe for concurrent use.
type Element struct {
	name string

	mu       sync.RWMutex
	width    float64
	height   float64
	children []*Element
	styles   map[host.Property]string
}

// NewElement creates an element with the given intrinsic pixel size.
func NewElement(name string, width, height float64) *Element {
	return &Element{
		name:   name,
		width:  width,
		height: height,
		styles: make(map[host.Property]string),
	}
}

// Name returns the element's label.
func (e *Element) Name() string { return e.name }

// Append adds children in order.
func (e *Element) Append(children ...*Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children = append(e.children, children...)
}

// SetChildren replaces all children.
func (e *Element) SetChildren(children []*Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children = slices.Clone(children)
}

// Items returns the children with their concrete type.
func (e *Element) Items() []*Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.children)
}

// Resize changes the intrinsic size. Styles still take precedence.
func (e *Element) Resize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width, e.height = width, height
}

// IntrinsicSize returns the size ignoring any width/height styles.
func (e *Element) IntrinsicSize() (width, height float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.width, e.height
}

// OffsetSize implements [host.Element].
func (e *Element) OffsetSize() (width, height float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.styled(host.Width, e.width), e.styled(host.Height, e.height)
}

// ClientWidth implements [host.Element].
func (e *Element) ClientWidth() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.styled(host.Width, e.width)
}

// Children implements [host.Element].
func (e *Element) Children() []host.Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]host.Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Style implements [host.Element].
func (e *Element) Style(prop host.Property) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.styles[prop]
}

// SetStyle implements [host.Element].
func (e *Element) SetStyle(prop host.Property, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if value == "" {
		delete(e.styles, prop)
		return
	}
	e.styles[prop] = value
}

// Styles returns a copy of all set styles.
func (e *Element) Styles() map[host.Property]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[host.Property]string, len(e.styles))
	for k, v := range e.styles {
		out[k] = v
	}
	return out
}

func (e *Element) styled(prop host.Property, fallback float64) float64 {
	if v, ok := host.ParsePx(e.styles[prop]); ok {
		return v
	}
	return fallback
}

// Document maps identifiers to elements.
type Document struct {
	mu   sync.RWMutex
	byID map[string]*Element
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{byID: make(map[string]*Element)}
}

// Register makes el reachable under id, replacing any previous element.
func (d *Document) Register(id string, el *Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[id] = el
}

// Element returns the concrete element registered under id.
func (d *Document) Element(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.byID[id]
	return el, ok
}

// Query implements [host.Document].
func (d *Document) Query(id string) []host.Element {
	if el, ok := d.Element(id); ok {
		return []host.Element{el}
	}
	return nil
}

// Viewport is a resizable viewport that notifies subscribers synchronously.
type Viewport struct {
	mu     sync.Mutex
	width  float64
	height float64
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func()
}

// NewViewport creates a viewport of the given size.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{width: width, height: height}
}

// Width returns the viewport width.
func (v *Viewport) Width() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Height implements [host.Viewport].
func (v *Viewport) Height() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// OnResize implements [host.Viewport].
func (v *Viewport) OnResize(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscription{id: id, fn: fn})

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.subs = slices.DeleteFunc(v.subs, func(s subscription) bool { return s.id == id })
	}
}

// Resize updates the size and runs every subscriber in registration order.
// Subscribers run on the caller's goroutine after the lock is released.
func (v *Viewport) Resize(width, height float64) {
	v.mu.Lock()
	v.width, v.height = width, height
	subs := slices.Clone(v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

// Subscribers returns the number of registered resize callbacks.
func (v *Viewport) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

var (
	_ host.Element  = (*Element)(nil)
	_ host.Document = (*Document)(nil)
	_ host.Viewport = (*Viewport)(nil)
)
