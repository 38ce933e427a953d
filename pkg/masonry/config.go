package masonry

import (
	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/host"
)

// Config describes one masonry container.
type Config struct {
	// ContainerID identifies the container element in the host document.
	ContainerID string `toml:"container_id" yaml:"container_id" json:"container_id"`

	// ColWidth is the cell width in pixels.
	ColWidth float64 `toml:"col_width" yaml:"col_width" json:"col_width"`

	// RowHeight is the cell height in pixels.
	RowHeight float64 `toml:"row_height" yaml:"row_height" json:"row_height"`

	// InvertX positions items with "right" instead of "left".
	InvertX bool `toml:"invert_x" yaml:"invert_x" json:"invert_x,omitempty"`

	// InvertY positions items with "bottom" instead of "top".
	InvertY bool `toml:"invert_y" yaml:"invert_y" json:"invert_y,omitempty"`

	// Animate pushes every item one viewport height down before the first
	// pass so a CSS transition can reveal it.
	Animate bool `toml:"animate" yaml:"animate" json:"animate,omitempty"`

	// AutoResize re-runs the layout whenever the viewport resizes.
	AutoResize bool `toml:"auto_resize" yaml:"auto_resize" json:"auto_resize,omitempty"`
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if err := errs.ValidateContainerID(c.ContainerID); err != nil {
		return err
	}
	if err := errs.ValidateCellSize("col width", c.ColWidth); err != nil {
		return err
	}
	return errs.ValidateCellSize("row height", c.RowHeight)
}

// HorizontalProperty returns the style used for the horizontal offset.
func (c Config) HorizontalProperty() host.Property {
	if c.InvertX {
		return host.Right
	}
	return host.Left
}

// VerticalProperty returns the style used for the vertical offset.
func (c Config) VerticalProperty() host.Property {
	if c.InvertY {
		return host.Bottom
	}
	return host.Top
}
