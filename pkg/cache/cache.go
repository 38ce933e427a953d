// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a plain byte store with optional expiry. Three backends are
// provided:
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: never stores anything, for --no-cache and tests
//
// Keys are built by a [Keyer] so every caller derives the same key for the
// same scene and options. [ScopedKeyer] prefixes keys when several tenants
// share one backend.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte store keyed by strings.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the inputs, beyond the scene itself, that change a layout.
type LayoutKeyOpts struct {
	Width     float64 `json:"width,omitempty"`
	ColWidth  float64 `json:"col_width,omitempty"`
	RowHeight float64 `json:"row_height,omitempty"`
	InvertX   bool    `json:"invert_x,omitempty"`
	InvertY   bool    `json:"invert_y,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Theme  string `json:"theme,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds keys of the form "kind:sha256(inputs)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns the key of a packed layout.
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

// ArtifactKey returns the key of one rendered format of a layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), layoutHash, opts)
}
