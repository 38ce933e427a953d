package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnPassStart("gallery", 12)
	l.OnPassComplete("gallery", 3, 5, 12, time.Millisecond, nil)
	l.OnPassSkipped("gallery")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)
	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should keep the previous hooks")
	}
}

func TestCustomLayoutHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testLayoutHooks{}
	SetLayoutHooks(h)

	Layout().OnPassStart("gallery", 4)
	Layout().OnPassComplete("gallery", 3, 2, 4, time.Millisecond, nil)
	Layout().OnPassSkipped("gallery")

	if h.starts != 1 || h.completes != 1 || h.skips != 1 {
		t.Errorf("events = %+v, want one of each", *h)
	}
	if h.lastRows != 2 {
		t.Errorf("lastRows = %d, want 2", h.lastRows)
	}
}

type testLayoutHooks struct {
	starts, completes, skips int
	lastRows                 int
}

func (h *testLayoutHooks) OnPassStart(string, int) { h.starts++ }
func (h *testLayoutHooks) OnPassComplete(_ string, _, rows, _ int, _ time.Duration, _ error) {
	h.completes++
	h.lastRows = rows
}
func (h *testLayoutHooks) OnPassSkipped(string) { h.skips++ }

type testCacheHooks struct{}

func (testCacheHooks) OnCacheHit(context.Context, string)      {}
func (testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testHTTPHooks struct{}

func (testHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (testHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
