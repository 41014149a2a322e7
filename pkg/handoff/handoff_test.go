package handoff_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/store"
	"tableflip.dev/jview/pkg/tree"
	"tableflip.dev/jview/pkg/viewer"
)

type recordingOpener struct {
	urls []string
	err  error
}

func (r *recordingOpener) Open(_ context.Context, url string) error {
	r.urls = append(r.urls, url)
	return r.err
}

func fixedService(b store.Bridge, o handoff.Opener) *handoff.Service {
	return &handoff.Service{
		Bridge:  b,
		Opener:  o,
		BaseURL: "http://127.0.0.1:7483/",
		Now:     func() time.Time { return time.UnixMilli(36 * 36) },
		Intn:    func(int) int { return 35 },
	}
}

func TestNewToken(t *testing.T) {
	got := handoff.NewToken(time.UnixMilli(36*36), func(int) int { return 35 })
	if got != "100zzzzzz" {
		t.Fatalf("unexpected token %q", got)
	}
	i := 0
	got = handoff.NewToken(time.UnixMilli(35), func(int) int { i++; return i })
	if got != "z123456" {
		t.Fatalf("unexpected token %q", got)
	}
}

func TestKeys(t *testing.T) {
	if k := handoff.Key(format.JSON, "abc"); k != "json-view:abc" {
		t.Fatalf("unexpected key %q", k)
	}
	kind, token, ok := handoff.ParseKey("xml-view:t1")
	if !ok || kind != format.XML || token != "t1" {
		t.Fatalf("unexpected parse %v %q %v", kind, token, ok)
	}
	for _, bad := range []string{"t1", "-view:x", "html-view:x", "yaml-view:x"} {
		if _, _, ok := handoff.ParseKey(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestViewerURL(t *testing.T) {
	u, err := handoff.ViewerURL("http://127.0.0.1:7483/", format.XML, "a b&c")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if u != "http://127.0.0.1:7483/xml-viewer?k=a+b%26c" {
		t.Fatalf("unexpected url %q", u)
	}
	kind, token, err := handoff.ParseViewerURL(u)
	if err != nil || kind != format.XML || token != "a b&c" {
		t.Fatalf("round trip failed: %v %q %v", kind, token, err)
	}
	if _, err := handoff.ViewerURL("http://x", format.HTML, "t"); !errors.Is(err, handoff.ErrNotViewable) {
		t.Fatalf("expected html to have no viewer, got %v", err)
	}
	if _, _, err := handoff.ParseViewerURL("http://x/popup?k=1"); err == nil {
		t.Fatalf("expected unknown page to fail")
	}
	if _, token, err := handoff.ParseViewerURL("http://x/json-viewer"); err != nil || token != "" {
		t.Fatalf("missing token should parse as empty, got %q %v", token, err)
	}
}

func TestOpenViewerInvalidXML(t *testing.T) {
	mem := store.NewMemory()
	opener := &recordingOpener{}
	_, err := fixedService(mem, opener).OpenViewer(context.Background(), format.XML, "<a><b></a>")

	var fe *format.Error
	if !errors.As(err, &fe) || !strings.HasPrefix(err.Error(), "Invalid XML: ") {
		t.Fatalf("expected Invalid XML error, got %v", err)
	}
	keys, _ := mem.Keys(context.Background(), "")
	if len(keys) != 0 {
		t.Fatalf("invalid input wrote records %v", keys)
	}
	if len(opener.urls) != 0 {
		t.Fatalf("invalid input opened %v", opener.urls)
	}
}

func TestOpenViewerValidXML(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	opener := &recordingOpener{}
	src := `<root><a>1</a><b/><c x="y">two</c></root>`

	res, err := fixedService(mem, opener).OpenViewer(ctx, format.XML, src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	keys, _ := mem.Keys(ctx, "")
	if len(keys) != 1 || keys[0] != "xml-view:100zzzzzz" || res.Key != keys[0] {
		t.Fatalf("expected exactly one record, got %v", keys)
	}
	if raw, _, _ := mem.Get(ctx, res.Key); raw != src {
		t.Fatalf("record should hold the raw text, got %q", raw)
	}
	if len(opener.urls) != 1 || opener.urls[0] != "http://127.0.0.1:7483/xml-viewer?k=100zzzzzz" {
		t.Fatalf("unexpected opened urls %v", opener.urls)
	}

	kind, token, err := handoff.ParseViewerURL(opener.urls[0])
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	session := viewer.Mount(ctx)
	v := viewer.New(session, viewer.Config{Bridge: mem, Kind: kind, Token: token})
	defer v.Unmount()
	if err := v.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	// Leaves: the two text nodes and the empty element.
	if n := tree.LeafCount(v.Rows()); n != 3 {
		t.Fatalf("expected 3 leaves, got %d", n)
	}
}

func TestOpenViewerRejectsHTML(t *testing.T) {
	mem := store.NewMemory()
	opener := &recordingOpener{}
	_, err := fixedService(mem, opener).OpenViewer(context.Background(), format.HTML, "<html></html>")
	if !errors.Is(err, handoff.ErrNotViewable) {
		t.Fatalf("expected ErrNotViewable, got %v", err)
	}
	if len(opener.urls) != 0 {
		t.Fatalf("nothing should be opened")
	}
}

func TestOpenViewerOpenerFailure(t *testing.T) {
	mem := store.NewMemory()
	opener := &recordingOpener{err: errors.New("no display")}
	res, err := fixedService(mem, opener).OpenViewer(context.Background(), format.JSON, `{"a":1}`)
	if err == nil || res == nil {
		t.Fatalf("expected result and error, got %v %v", res, err)
	}
	if _, ok, _ := mem.Get(context.Background(), res.Key); !ok {
		t.Fatalf("record should be stored even when opening fails")
	}
}
