package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnPassStart("gallery", 4)
	h.OnPassComplete("gallery", 3, 2, 4, time.Millisecond, nil)
	h.OnPassComplete("gallery", 2, 0, 0, time.Millisecond, errors.New("item 3 is too wide"))
	h.OnPassSkipped("gallery")
	h.OnCacheHit(ctx, "layout")
	h.OnCacheSet(ctx, "artifact", 512)
	h.OnResponse(ctx, "POST", "/v1/layout", 500, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"pass start", "container=gallery", "placed=4",
		"WARN", "pass failed", "pass skipped",
		"cache hit", "bytes=512", "status=500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRegister(t *testing.T) {
	defer Reset()

	h := NewLogHooks(nil)
	h.Register()
	if Layout() != LayoutHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("Register did not install the hooks")
	}
}
