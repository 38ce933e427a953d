package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/scene"
)

const galleryTOML = `
[container]
id = "gallery"
width = 310

[cell]
width = 100
height = 100

[[items]]
name = "a"
width = 100
height = 100

[[items]]
name = "b"
width = 100
height = 100

[[items]]
name = "c"
width = 100
height = 100

[[items]]
name = "banner"
width = 300
height = 100
`

func gallery(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.Parse([]byte(galleryTOML), scene.FormatTOML)
	if err != nil {
		t.Fatalf("parse scene: %v", err)
	}
	return s
}

func quiet() *log.Logger { return log.New(io.Discard) }

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quiet())
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "pdf", "txt"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	err := ValidateFormats([]string{"svg", "SVG"})
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormats(SVG) = %v, want %s", err, errs.ErrCodeInvalidFormat)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if len(o.Formats) != 1 || o.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Logger == nil {
		t.Error("Logger not set")
	}
}

func TestComputeLayout(t *testing.T) {
	l, err := ComputeLayout(gallery(t), quiet())
	if err != nil {
		t.Fatalf("ComputeLayout: %v", err)
	}
	if l.Columns != 3 || l.Rows != 2 || l.Width != 300 || l.Height != 200 {
		t.Errorf("layout = %d cols, %d rows, %vx%v", l.Columns, l.Rows, l.Width, l.Height)
	}
	banner, ok := l.Position(3)
	if !ok || banner.Row != 1 || banner.Col != 0 || banner.Y != 100 {
		t.Errorf("banner = %+v, %v", banner, ok)
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	s := gallery(t)
	opts := Options{Formats: []string{"json", "txt", "dot"}}

	first, err := r.Execute(ctx, s, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if len(first.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(first.Artifacts))
	}
	if first.Stats.Items != 4 || first.Stats.Placed != 4 {
		t.Errorf("Stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, s, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if string(second.Artifacts["txt"]) != string(first.Artifacts["txt"]) {
		t.Error("cached artifact differs from the rendered one")
	}

	refreshed, err := r.Execute(ctx, s, Options{Formats: opts.Formats, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("refresh hit the cache: %+v", refreshed.CacheInfo)
	}
}

func TestExecuteOverrides(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	s := gallery(t)

	narrow, err := r.Execute(ctx, s, Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	wide, err := r.Execute(ctx, s, Options{Formats: []string{"json"}, Overrides: scene.Overrides{Width: 410}})
	if err != nil {
		t.Fatal(err)
	}
	if wide.CacheInfo.LayoutHit {
		t.Error("a different width must not reuse the cached layout")
	}
	if narrow.Layout.Columns != 3 || wide.Layout.Columns != 4 {
		t.Errorf("columns = %d and %d, want 3 and 4", narrow.Layout.Columns, wide.Layout.Columns)
	}

	var out struct {
		Columns int `json:"columns"`
		Items   []struct {
			Label string `json:"label"`
		} `json:"items"`
	}
	if err := json.Unmarshal(wide.Artifacts["json"], &out); err != nil {
		t.Fatal(err)
	}
	if out.Columns != 4 || len(out.Items) != 4 || out.Items[3].Label != "banner" {
		t.Errorf("json artifact = %+v", out)
	}
}

func TestExecuteItemTooWide(t *testing.T) {
	r := NewRunner(nil, nil, quiet())
	_, err := r.Execute(context.Background(), gallery(t), Options{
		Formats:   []string{"json"},
		Overrides: scene.Overrides{Width: 210},
	})
	if !errs.Is(err, errs.ErrCodeItemTooWide) {
		t.Fatalf("Execute error = %v, want %s", err, errs.ErrCodeItemTooWide)
	}
	if !strings.Contains(err.Error(), "layout") {
		t.Errorf("error should name the stage: %v", err)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil, quiet())
	_, err := r.Execute(context.Background(), gallery(t), Options{Formats: []string{"gif"}})
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Execute error = %v, want %s", err, errs.ErrCodeInvalidFormat)
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	mu   sync.Mutex
	hits map[string]int
	sets map[string]int
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}

func (h *countingCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets[keyType]++
}

func TestCacheHooks(t *testing.T) {
	hooks := &countingCacheHooks{hits: map[string]int{}, sets: map[string]int{}}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := newFileRunner(t)
	s := gallery(t)
	opts := Options{Formats: []string{"txt"}}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, s, opts); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.sets["layout"] != 1 || hooks.sets["artifact"] != 1 {
		t.Errorf("sets = %v", hooks.sets)
	}
	if hooks.hits["layout"] != 1 || hooks.hits["artifact"] != 1 {
		t.Errorf("hits = %v", hooks.hits)
	}
}

func TestRenderOptionsFromScene(t *testing.T) {
	s := gallery(t)
	s.Items[0].Color = "#112233"
	out, err := RenderFromLayout(mustLayout(t, s), s, []string{"json"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out["json"]), "#112233") || !strings.Contains(string(out["json"]), `"label": "a"`) {
		t.Errorf("json artifact missing scene labels or colors:\n%s", out["json"])
	}
}

func mustLayout(t *testing.T, s *scene.Scene) masonry.Layout {
	t.Helper()
	l, err := ComputeLayout(s, quiet())
	if err != nil {
		t.Fatal(err)
	}
	return l
}
