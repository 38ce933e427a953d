package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/scene"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer means
// the default keyer and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout and render for a scene.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	work := s.WithOverrides(opts.Overrides)
	result := &Result{
		Scene:     work,
		SceneHash: s.Hash(),
	}

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Items = len(work.Items)
	result.Stats.Placed = len(l.Positions)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"columns", l.Columns,
		"rows", l.Rows,
		"placed", len(l.Positions),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, work, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out the scene with opts' overrides applied and
// reports whether the result came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (masonry.Layout, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.LayoutKey(s.Hash(), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached masonry.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err := ComputeLayout(s.WithOverrides(opts.Overrides), opts.Logger)
	if err != nil {
		return masonry.Layout{}, false, err
	}

	if data, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.LayoutTTL); err != nil {
			opts.Logger.Warn("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache flag.
func (r *Runner) Layout(ctx context.Context, s *scene.Scene, opts Options) (masonry.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, s, opts)
	return l, err
}

// RenderWithCacheInfo renders opts.Formats for a layout of s. The flag is
// true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l masonry.Layout, s *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	// Labels and colors come from the scene, so they are part of the key.
	labels, _ := json.Marshal(s.Items)
	layoutHash := cache.Hash(append(layoutData, labels...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, f := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f)))
			if err != nil || !hit {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := RenderFromLayout(l, s, opts.Formats)
	if err != nil {
		return nil, false, err
	}
	for f, data := range rendered {
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f)), data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", f, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache flag.
func (r *Runner) Render(ctx context.Context, l masonry.Layout, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, s, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
