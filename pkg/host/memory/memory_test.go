package memory

import (
	"testing"

	"github.com/matzehuels/masonry/pkg/host"
)

func TestElementStylesOverrideIntrinsicSize(t *testing.T) {
	el := NewElement("box", 310, 120)

	if got := el.ClientWidth(); got != 310 {
		t.Errorf("ClientWidth() = %v, want 310", got)
	}

	el.SetStyle(host.Width, "300px")
	el.SetStyle(host.Height, "200px")
	w, h := el.OffsetSize()
	if w != 300 || h != 200 {
		t.Errorf("OffsetSize() = (%v, %v), want (300, 200)", w, h)
	}
	if got := el.ClientWidth(); got != 300 {
		t.Errorf("ClientWidth() with override = %v, want 300", got)
	}

	el.SetStyle(host.Width, "")
	if got := el.ClientWidth(); got != 310 {
		t.Errorf("ClientWidth() after clearing = %v, want 310", got)
	}
	if _, ok := el.Styles()[host.Width]; ok {
		t.Error("clearing a style should remove it")
	}

	iw, ih := el.IntrinsicSize()
	if iw != 310 || ih != 120 {
		t.Errorf("IntrinsicSize() = (%v, %v), want (310, 120)", iw, ih)
	}
}

func TestElementChildrenOrder(t *testing.T) {
	root := NewElement("root", 100, 0)
	a, b, c := NewElement("a", 1, 1), NewElement("b", 1, 1), NewElement("c", 1, 1)
	root.Append(a, b)
	root.Append(c)

	children := root.Children()
	if len(children) != 3 {
		t.Fatalf("len(Children()) = %d, want 3", len(children))
	}
	for i, want := range []*Element{a, b, c} {
		if children[i] != host.Element(want) {
			t.Errorf("child %d = %v, want %s", i, children[i], want.Name())
		}
	}

	root.SetChildren([]*Element{c})
	if items := root.Items(); len(items) != 1 || items[0] != c {
		t.Errorf("Items() after SetChildren = %v", items)
	}
}

func TestDocumentQuery(t *testing.T) {
	doc := NewDocument()
	el := NewElement("grid", 100, 100)
	doc.Register("grid", el)

	if got := doc.Query("grid"); len(got) != 1 || got[0] != host.Element(el) {
		t.Errorf("Query(grid) = %v", got)
	}
	if got := doc.Query("missing"); len(got) != 0 {
		t.Errorf("Query(missing) = %v, want empty", got)
	}
}

func TestViewportResizeNotifiesInOrder(t *testing.T) {
	vp := NewViewport(800, 600)

	var calls []string
	cancelA := vp.OnResize(func() { calls = append(calls, "a") })
	vp.OnResize(func() { calls = append(calls, "b") })

	vp.Resize(1024, 768)
	if vp.Width() != 1024 || vp.Height() != 768 {
		t.Errorf("size = (%v, %v), want (1024, 768)", vp.Width(), vp.Height())
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}

	cancelA()
	calls = nil
	vp.Resize(640, 480)
	if len(calls) != 1 || calls[0] != "b" {
		t.Errorf("calls after cancel = %v, want [b]", calls)
	}
	if vp.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", vp.Subscribers())
	}
}

func TestViewportSubscriberMayResubscribe(t *testing.T) {
	vp := NewViewport(0, 0)
	count := 0
	vp.OnResize(func() {
		count++
		vp.OnResize(func() {})
	})

	vp.Resize(1, 1)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
