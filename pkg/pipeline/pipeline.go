// Package pipeline runs scenes through the layout coordinator and the
// renderers.
//
// The same [Runner] serves the CLI and the HTTP service, so both cache and log
// in the same way.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: build an in-memory host for the scene, bind a coordinator and
//     run one forced pass
//  2. Render: turn the resulting layout into the requested formats
//
// Both stages are cached. Layouts are keyed by the scene hash and the
// overrides, artifacts by the layout hash and the format.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, s, pipeline.Options{
//	    Formats: []string{"svg", "txt"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatSVG

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It is also the request body of the
// HTTP service, so it carries JSON tags.
type Options struct {
	// Overrides adjust the scene before layout.
	scene.Overrides

	// Formats lists the artifacts to render.
	Formats []string `json:"formats,omitempty"`

	// Refresh ignores cached results (they are still rewritten).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of a run.
type Result struct {
	Scene     *scene.Scene
	SceneHash string
	Layout    masonry.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Items      int
	Placed     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormats checks every requested format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !isFormat(f) {
			return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q", f)
		}
	}
	return nil
}

func isFormat(f string) bool {
	for _, known := range render.Formats {
		if f == known {
			return true
		}
	}
	return false
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns the layout cache key inputs.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		ColWidth:  o.ColWidth,
		RowHeight: o.RowHeight,
		InvertX:   o.InvertX,
		InvertY:   o.InvertY,
	}
}

// ArtifactKeyOpts returns the artifact cache key inputs for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}
