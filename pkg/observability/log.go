package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. Failed passes
// and server errors are logged at warn. It implements all three hook
// interfaces and is what `masonry serve --trace` registers.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l.WithPrefix("trace")}
}

// Register installs h for layout, cache and HTTP events.
func (h *LogHooks) Register() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnPassStart(container string, items int) {
	h.Logger.Debug("pass start", "container", container, "items", items)
}

func (h *LogHooks) OnPassComplete(container string, columns, rows, placed int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("pass failed", "container", container, "columns", columns, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("pass complete", "container", container, "columns", columns, "rows", rows, "placed", placed, "duration", d)
}

func (h *LogHooks) OnPassSkipped(container string) {
	h.Logger.Debug("pass skipped", "container", container)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	lvl := log.DebugLevel
	if status >= 500 {
		lvl = log.WarnLevel
	}
	h.Logger.Log(lvl, "response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
