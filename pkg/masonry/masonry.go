// Package masonry arranges the children of a container into a gap-minimizing
// grid and positions them absolutely.
//
// # Overview
//
// A [Masonry] coordinator binds a container element in a [host.Document] to a
// cell size. Each pass ([Masonry.Update]) measures the container, snaps its
// width to a whole number of columns, converts every child's pixel size to
// cells, packs the children first-fit with a fresh [grid.Grid], and writes
// pixel offsets back to the children. The container's height is set so it
// exactly bounds the packed content.
//
// Passes are short-circuited when neither the snapped width nor the number of
// children changed since the last pass, unless forced.
//
// # Usage
//
//	m, err := masonry.New(doc, masonry.Config{
//	    ContainerID: "gallery",
//	    ColWidth:    100,
//	    RowHeight:   100,
//	    AutoResize:  true,
//	}, masonry.WithViewport(viewport), masonry.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	// after adding children:
//	changed, err := m.Update(false)
//
// [host.Document]: github.com/matzehuels/masonry/pkg/host.Document
// [grid.Grid]: github.com/matzehuels/masonry/pkg/grid.Grid
package masonry

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/host"
	"github.com/matzehuels/masonry/pkg/observability"
)

// Option configures a [Masonry] at construction.
type Option func(*Masonry)

// WithViewport supplies the viewport used by Animate and AutoResize.
func WithViewport(v host.Viewport) Option { return func(m *Masonry) { m.viewport = v } }

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(m *Masonry) { m.logger = l } }

// Masonry lays out one container. Passes are serialized; it is safe to call
// Update from a resize callback running on another goroutine.
type Masonry struct {
	cfg       Config
	container host.Element
	viewport  host.Viewport
	logger    *log.Logger
	hProp     host.Property
	vProp     host.Property

	mu        sync.Mutex
	last      passKey
	itemCount int
	layout    Layout
	unsub     func()
}

// passKey is what a pass is cached on.
type passKey struct {
	valid     bool
	width     float64
	itemCount int
}

// New binds a coordinator to the container named by cfg.ContainerID and runs
// the first pass.
//
// It fails with INVALID_CONFIG for a bad config or when Animate/AutoResize is
// set without a viewport, with CONTAINER_NOT_FOUND when the document has no
// matching element, and with the first pass's error otherwise.
func New(doc host.Document, cfg Config, opts ...Option) (*Masonry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "host document is required")
	}

	m := &Masonry{
		cfg:   cfg,
		hProp: cfg.HorizontalProperty(),
		vProp: cfg.VerticalProperty(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if (cfg.Animate || cfg.AutoResize) && m.viewport == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "animate and auto resize require a viewport")
	}

	matches := doc.Query(cfg.ContainerID)
	if len(matches) == 0 || matches[0] == nil {
		return nil, errs.New(errs.ErrCodeContainerNotFound, "no element matches container id %q", cfg.ContainerID)
	}
	m.container = matches[0]

	if cfg.Animate {
		offset := host.Px(m.viewport.Height())
		for _, child := range m.container.Children() {
			child.SetStyle(m.vProp, offset)
		}
	}

	if _, err := m.Update(false); err != nil {
		return nil, fmt.Errorf("initial layout: %w", err)
	}

	if cfg.AutoResize {
		m.unsub = m.viewport.OnResize(m.onResize)
	}
	return m, nil
}

// Config returns the configuration the coordinator was built with.
func (m *Masonry) Config() Config { return m.cfg }

// ItemCount returns the number of children seen by the last completed pass.
func (m *Masonry) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemCount
}

// Layout returns the result of the last completed pass.
func (m *Masonry) Layout() Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout
}

// Close stops listening for viewport resizes.
func (m *Masonry) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// Update runs one layout pass and reports whether it recomputed the layout.
//
// Without force, a pass whose snapped container width and child count match
// the previous pass returns false and touches nothing. If an item cannot be
// placed the container's previous width is restored, no positions are
// written, and the error is returned.
func (m *Masonry) Update(force bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.cfg.ContainerID
	prevWidth := m.container.Style(host.Width)
	m.container.SetStyle(host.Width, "")

	ratio := m.container.ClientWidth() / m.cfg.ColWidth
	if !(ratio <= grid.MaxColumns) {
		m.container.SetStyle(host.Width, prevWidth)
		err := errs.New(errs.ErrCodeInvalidConfig,
			"container %q is %v px wide, more than %d columns of %v px", id, m.container.ClientWidth(), grid.MaxColumns, m.cfg.ColWidth)
		observability.Layout().OnPassComplete(id, 0, 0, 0, 0, err)
		return false, err
	}
	columns := max(int(math.Floor(ratio)), 0)
	width := float64(columns) * m.cfg.ColWidth
	items := m.container.Children()

	key := passKey{valid: true, width: width, itemCount: len(items)}
	if !force && m.last == key {
		m.container.SetStyle(host.Width, prevWidth)
		observability.Layout().OnPassSkipped(id)
		m.logger.Debug("layout unchanged", "container", id, "width", width, "items", len(items))
		return false, nil
	}

	start := time.Now()
	observability.Layout().OnPassStart(id, len(items))

	g, skipped, err := m.pack(columns, items)
	if err != nil {
		m.container.SetStyle(host.Width, prevWidth)
		observability.Layout().OnPassComplete(id, columns, 0, 0, time.Since(start), err)
		return false, err
	}

	layout := newLayout(g, m.cfg.ColWidth, m.cfg.RowHeight, skipped)
	m.apply(items, layout)

	m.last = key
	m.itemCount = len(items)
	m.layout = layout

	observability.Layout().OnPassComplete(id, columns, layout.Rows, len(layout.Positions), time.Since(start), nil)
	m.logger.Debug("layout pass",
		"container", id,
		"columns", columns,
		"rows", layout.Rows,
		"items", len(items),
		"skipped", len(skipped),
		"duration", time.Since(start))
	if layout.Rows > 0 {
		m.logger.Debugf("occupancy:\n%s", g)
	}
	return true, nil
}

// pack feeds every child, in document order, to a fresh grid. Children whose
// cell footprint is empty are returned as skipped.
func (m *Masonry) pack(columns int, items []host.Element) (*grid.Grid, []int, error) {
	g := grid.New(columns)
	var skipped []int
	for i, el := range items {
		w, h := el.OffsetSize()
		it := grid.Item{
			ID:     i,
			Width:  span(w, m.cfg.ColWidth, grid.MaxColumns),
			Height: span(h, m.cfg.RowHeight, grid.MaxRows),
		}
		if it.Degenerate() {
			skipped = append(skipped, i)
			continue
		}
		if err := g.FitElement(it); err != nil {
			return nil, nil, fmt.Errorf("place item %d: %w", i, err)
		}
	}
	return g, skipped, nil
}

// span converts a pixel length to whole cells. Lengths past limit cells
// report limit+1 so the grid rejects them; NaN counts as empty.
func span(px, size float64, limit int) int {
	n := math.Floor(px / size)
	switch {
	case n != n || n < 0:
		return 0
	case n > float64(limit):
		return limit + 1
	}
	return int(n)
}

func (m *Masonry) apply(items []host.Element, l Layout) {
	for _, p := range l.Positions {
		el := items[p.ID]
		el.SetStyle(m.vProp, host.Px(p.Y))
		el.SetStyle(m.hProp, host.Px(p.X))
	}
	m.container.SetStyle(host.Width, host.Px(l.Width))
	m.container.SetStyle(host.Height, host.Px(l.Height))
}

func (m *Masonry) onResize() {
	if _, err := m.Update(false); err != nil {
		m.logger.Error("layout after resize failed", "container", m.cfg.ContainerID, "err", err)
	}
}
