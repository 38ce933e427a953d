// Package scene loads offline descriptions of a masonry container.
//
// A scene names a container, its intrinsic width, the cell size, the layout
// options and the pixel size of every item. Scenes are read from TOML, YAML
// or JSON and turned into an in-memory host tree with [Scene.Build], so the
// same coordinator that drives a live host can be run from the command line.
//
// Example TOML:
//
//	[container]
//	id = "gallery"
//	width = 310
//
//	[cell]
//	width = 100
//	height = 100
//
//	[options]
//	invert_x = false
//
//	[[items]]
//	name = "hero"
//	width = 200
//	height = 200
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/masonry/pkg/cache"
	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/host/memory"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// DefaultViewportHeight is used when a scene does not specify a viewport.
const DefaultViewportHeight = 800.0

// Format is a scene file encoding.
type Format string

// Supported scene encodings.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Scene describes one container and its items.
type Scene struct {
	Container Container `toml:"container" yaml:"container" json:"container"`
	Cell      Cell      `toml:"cell" yaml:"cell" json:"cell"`
	Options   Options   `toml:"options" yaml:"options" json:"options"`
	Viewport  Viewport  `toml:"viewport" yaml:"viewport" json:"viewport"`
	Items     []Item    `toml:"items" yaml:"items" json:"items"`
}

// Container is the element being laid out.
type Container struct {
	ID    string  `toml:"id" yaml:"id" json:"id"`
	Width float64 `toml:"width" yaml:"width" json:"width"`
}

// Cell is the grid cell size in pixels.
type Cell struct {
	Width  float64 `toml:"width" yaml:"width" json:"width"`
	Height float64 `toml:"height" yaml:"height" json:"height"`
}

// Options mirrors the optional flags of [masonry.Config].
type Options struct {
	InvertX    bool `toml:"invert_x" yaml:"invert_x" json:"invert_x,omitempty"`
	InvertY    bool `toml:"invert_y" yaml:"invert_y" json:"invert_y,omitempty"`
	Animate    bool `toml:"animate" yaml:"animate" json:"animate,omitempty"`
	AutoResize bool `toml:"auto_resize" yaml:"auto_resize" json:"auto_resize,omitempty"`
}

// Viewport is the visible area used for reveal offsets.
type Viewport struct {
	Width  float64 `toml:"width" yaml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" yaml:"height" json:"height,omitempty"`
}

// Item is one child of the container, sized in pixels.
type Item struct {
	Name   string  `toml:"name" yaml:"name" json:"name,omitempty"`
	Width  float64 `toml:"width" yaml:"width" json:"width"`
	Height float64 `toml:"height" yaml:"height" json:"height"`
	Color  string  `toml:"color" yaml:"color" json:"color,omitempty"`
}

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported scene extension %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "scene %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode %s scene", format)
	}

	s.setDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) setDefaults() {
	if s.Viewport.Width == 0 {
		s.Viewport.Width = s.Container.Width
	}
	if s.Viewport.Height == 0 {
		s.Viewport.Height = DefaultViewportHeight
	}
	for i := range s.Items {
		if s.Items[i].Name == "" {
			s.Items[i].Name = fmt.Sprintf("item-%d", i)
		}
	}
}

// Validate checks the scene for values the coordinator would reject, and
// for sizes past the grid limits.
func (s *Scene) Validate() error {
	if err := s.Config().Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidScene, err, "invalid container or cell")
	}
	if !finite(s.Container.Width) || s.Container.Width < 0 {
		return errs.New(errs.ErrCodeInvalidScene, "container width must be a non-negative number, got %v", s.Container.Width)
	}
	if cols := s.Container.Width / s.Cell.Width; cols > grid.MaxColumns {
		return errs.New(errs.ErrCodeInvalidScene, "container width %v gives %.0f columns (max %d)", s.Container.Width, cols, grid.MaxColumns)
	}
	if !finite(s.Viewport.Width) || !finite(s.Viewport.Height) || s.Viewport.Width < 0 || s.Viewport.Height < 0 {
		return errs.New(errs.ErrCodeInvalidScene, "viewport size must be non-negative")
	}
	for i, it := range s.Items {
		if !finite(it.Width) || !finite(it.Height) || it.Width < 0 || it.Height < 0 {
			return errs.New(errs.ErrCodeInvalidScene, "item %d (%s) has a negative or non-finite size", i, it.Name)
		}
		if rows := it.Height / s.Cell.Height; rows > grid.MaxRows {
			return errs.New(errs.ErrCodeInvalidScene, "item %d (%s) spans %.0f rows (max %d)", i, it.Name, rows, grid.MaxRows)
		}
		if it.Color != "" && !hexColor.MatchString(it.Color) {
			return errs.New(errs.ErrCodeInvalidScene, "item %d (%s) color %q is not #rgb or #rrggbb", i, it.Name, it.Color)
		}
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Config returns the coordinator configuration described by the scene.
func (s *Scene) Config() masonry.Config {
	return masonry.Config{
		ContainerID: s.Container.ID,
		ColWidth:    s.Cell.Width,
		RowHeight:   s.Cell.Height,
		InvertX:     s.Options.InvertX,
		InvertY:     s.Options.InvertY,
		Animate:     s.Options.Animate,
		AutoResize:  s.Options.AutoResize,
	}
}

// Host is a memory host tree built from a scene.
type Host struct {
	Document  *memory.Document
	Container *memory.Element
	Viewport  *memory.Viewport
}

// Build creates a fresh memory host for the scene.
func (s *Scene) Build() *Host {
	h := &Host{
		Document:  memory.NewDocument(),
		Container: memory.NewElement(s.Container.ID, s.Container.Width, 0),
		Viewport:  memory.NewViewport(s.Viewport.Width, s.Viewport.Height),
	}
	h.Container.SetChildren(s.elements())
	h.Document.Register(s.Container.ID, h.Container)
	return h
}

// Sync replaces the container's intrinsic width and children with the
// scene's, keeping the host's identity so a bound coordinator sees the change
// on its next pass.
func (s *Scene) Sync(h *Host) {
	_, height := h.Container.IntrinsicSize()
	h.Container.Resize(s.Container.Width, height)
	h.Container.SetChildren(s.elements())
}

func (s *Scene) elements() []*memory.Element {
	out := make([]*memory.Element, len(s.Items))
	for i, it := range s.Items {
		out[i] = memory.NewElement(it.Name, it.Width, it.Height)
	}
	return out
}

// Hash returns a content hash of the scene, stable across encodings.
func (s *Scene) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}

// WithOverrides returns a copy of the scene with non-zero overrides applied.
func (s *Scene) WithOverrides(o Overrides) *Scene {
	c := *s
	c.Items = append([]Item(nil), s.Items...)
	if o.Width > 0 {
		c.Container.Width = o.Width
	}
	if o.ColWidth > 0 {
		c.Cell.Width = o.ColWidth
	}
	if o.RowHeight > 0 {
		c.Cell.Height = o.RowHeight
	}
	if o.InvertX {
		c.Options.InvertX = true
	}
	if o.InvertY {
		c.Options.InvertY = true
	}
	return &c
}

// Overrides are command-line or request-level adjustments to a scene.
type Overrides struct {
	Width     float64 `json:"width,omitempty"`
	ColWidth  float64 `json:"col_width,omitempty"`
	RowHeight float64 `json:"row_height,omitempty"`
	InvertX   bool    `json:"invert_x,omitempty"`
	InvertY   bool    `json:"invert_y,omitempty"`
}
