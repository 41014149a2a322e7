package web

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/store"
)

func newTestServer(t *testing.T, records map[string]string) *Server {
	t.Helper()
	mem := store.NewMemory()
	for k, v := range records {
		if err := mem.Set(context.Background(), k, v); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return New(Config{Bridge: mem})
}

func get(t *testing.T, s *Server, target string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	body, _ := io.ReadAll(rec.Body)
	return rec.Code, html.UnescapeString(string(body))
}

func TestHealthz(t *testing.T) {
	code, body := get(t, newTestServer(t, nil), "/healthz")
	if code != http.StatusOK || body != `{"status":"ok"}` {
		t.Fatalf("unexpected %d %q", code, body)
	}
}

func TestViewerRendersTree(t *testing.T) {
	s := newTestServer(t, map[string]string{
		handoff.Key(format.JSON, "tok"): `{"x":{"y":1},"s":"hi"}`,
	})
	code, body := get(t, s, "/json-viewer?k=tok")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	for _, want := range []string{"JSON viewer", "Object(2)", `<span class="label">y</span>: <span class="number">1</span>`, `"hi"`, "Expand all"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
}

func TestViewerToggleAndReset(t *testing.T) {
	s := newTestServer(t, map[string]string{
		handoff.Key(format.JSON, "tok"): `{"x":{"y":1}}`,
	})

	// Collapse x.
	_, body := get(t, s, "/json-viewer?k=tok&t=$.0")
	if strings.Contains(body, `<span class="label">y</span>`) {
		t.Fatalf("toggled node should hide its children")
	}

	// Collapsed default shows the root only; toggling the root reveals x
	// collapsed.
	_, body = get(t, s, "/json-viewer?k=tok&expanded=0&reset=1&t=$")
	if !strings.Contains(body, `<span class="label">x</span>`) || strings.Contains(body, `<span class="label">y</span>`) {
		t.Fatalf("unexpected collapsed render:\n%s", body)
	}
	if !strings.Contains(body, "/json-viewer?expanded=0&k=tok&reset=1&t=%24&t=%24.0") {
		t.Fatalf("expected x toggle link to append its path:\n%s", body)
	}
	if !strings.Contains(body, "/json-viewer?k=tok&reset=2") {
		t.Fatalf("expected expand-all link to bump reset and drop toggles:\n%s", body)
	}
}

func TestViewerReexpandRestoresDefaults(t *testing.T) {
	s := newTestServer(t, map[string]string{
		handoff.Key(format.JSON, "tok"): `{"x":{"y":1}}`,
	})

	// Collapse x, collapse the root, then expand the root again.
	st := viewState{token: "tok", expanded: true}
	for _, path := range []string{"$.0", "$", "$"} {
		st = st.withToggle(path)
	}
	if len(st.toggles) != 0 {
		t.Fatalf("re-expanding the root should drop the toggles below it, got %v", st.toggles)
	}
	_, body := get(t, s, "/json-viewer?"+st.query().Encode())
	if !strings.Contains(body, `<span class="label">y</span>`) {
		t.Fatalf("x should be expanded again:\n%s", body)
	}

	st = viewState{token: "tok", expanded: true, toggles: []string{"$.1", "$.10", "$.1.0"}}
	if got := st.withToggle("$.1").toggles; len(got) != 1 || got[0] != "$.10" {
		t.Fatalf("only $.1 and its descendants should be dropped, got %v", got)
	}
}

func TestViewerErrors(t *testing.T) {
	s := newTestServer(t, map[string]string{
		handoff.Key(format.XML, "bad"): `<a>`,
	})
	tests := []struct {
		target string
		code   int
		msg    string
	}{
		{"/xml-viewer", http.StatusBadRequest, "Missing token"},
		{"/xml-viewer?k=nope", http.StatusNotFound, "No data found for this token"},
		{"/xml-viewer?k=bad", http.StatusUnprocessableEntity, "Failed to parse XML: "},
		{"/popup?k=bad", http.StatusNotFound, ""},
	}
	for _, tc := range tests {
		code, body := get(t, s, tc.target)
		if code != tc.code || !strings.Contains(body, tc.msg) {
			t.Fatalf("%s: unexpected %d %q", tc.target, code, body)
		}
	}
}

func TestSerialized(t *testing.T) {
	s := newTestServer(t, map[string]string{
		handoff.Key(format.JSON, "j"): `{ "a" : [1, 2] }`,
		handoff.Key(format.XML, "x"):  "<root>\n  <item/>\n</root>",
	})
	if code, body := get(t, s, "/json-viewer/minified?k=j"); code != http.StatusOK || body != `{"a":[1,2]}` {
		t.Fatalf("unexpected minified JSON %d %q", code, body)
	}
	if _, body := get(t, s, "/xml-viewer/pretty?k=x"); body != "<root>\r\n  <item/>\r\n</root>" {
		t.Fatalf("unexpected pretty XML %q", body)
	}
	if code, _ := get(t, s, "/xml-viewer/pretty?k=missing"); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestIndexListsRecords(t *testing.T) {
	s := newTestServer(t, map[string]string{
		handoff.Key(format.JSON, "a1"): `{}`,
		handoff.Key(format.XML, "b2"):  `<a/>`,
	})
	_, body := get(t, s, "/")
	for _, want := range []string{`href="/json-viewer?k=a1"`, `href="/xml-viewer?k=b2"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in index:\n%s", want, body)
		}
	}
}
