package web

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/store"
	"tableflip.dev/jview/pkg/tree"
	"tableflip.dev/jview/pkg/viewer"
)

const (
	paramExpanded = "expanded"
	paramReset    = "reset"
	paramToggle   = "t"
)

// viewState is the expansion state carried in the query string. The tree
// is rebuilt per request from the default, then toggles are replayed.
type viewState struct {
	token    string
	expanded bool
	reset    int
	toggles  []string
}

func parseViewState(q url.Values) viewState {
	st := viewState{
		token:    q.Get(handoff.TokenParam),
		expanded: q.Get(paramExpanded) != "0",
		toggles:  q[paramToggle],
	}
	st.reset, _ = strconv.Atoi(q.Get(paramReset))
	return st
}

func (st viewState) query() url.Values {
	q := url.Values{}
	q.Set(handoff.TokenParam, st.token)
	if !st.expanded {
		q.Set(paramExpanded, "0")
	}
	if st.reset > 0 {
		q.Set(paramReset, strconv.Itoa(st.reset))
	}
	for _, t := range st.toggles {
		q.Add(paramToggle, t)
	}
	return q
}

// withToggle flips path. A second toggle of the same node cancels the
// first and drops the toggles below it, since the node's children were
// released and come back in their default state.
func (st viewState) withToggle(path string) viewState {
	next := st
	if !slices.Contains(st.toggles, path) {
		next.toggles = append(slices.Clone(st.toggles), path)
		return next
	}
	next.toggles = nil
	for _, t := range st.toggles {
		if t == path || strings.HasPrefix(t, path+".") {
			continue
		}
		next.toggles = append(next.toggles, t)
	}
	return next
}

// withReset is expand-all or collapse-all: the default changes, the reset
// counter advances and individual toggles are dropped.
func (st viewState) withReset(expanded bool) viewState {
	return viewState{token: st.token, expanded: expanded, reset: st.reset + 1}
}

type rowView struct {
	tree.Row
	Href string
}

type viewerPage struct {
	Kind        string
	Token       string
	Error       string
	Rows        []rowView
	ExpandAll   string
	CollapseAll string
	Pretty      string
	Minified    string
	Reset       int
}

func (s *Server) load(r *http.Request, kind format.Kind, st viewState) (*viewer.Viewer, error) {
	session := viewer.Mount(r.Context())
	v := viewer.New(session, viewer.Config{
		Bridge:    s.cfg.Bridge,
		Kind:      kind,
		Token:     st.token,
		Collapsed: !st.expanded,
		Log:       s.log,
	})
	return v, v.Load()
}

func pageKind(r *http.Request) (format.Kind, string, bool) {
	page := chi.URLParam(r, "page")
	kind, ok := handoff.KindForPage(page)
	return kind, page, ok
}

func statusFor(err error) int {
	var le *viewer.LoadError
	if !errors.As(err, &le) {
		return http.StatusInternalServerError
	}
	switch le.Code {
	case viewer.MissingToken:
		return http.StatusBadRequest
	case viewer.NotFound:
		return http.StatusNotFound
	case viewer.ParseFailed:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	kind, page, ok := pageKind(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	st := parseViewState(r.URL.Query())
	v, err := s.load(r, kind, st)
	defer v.Unmount()
	if errors.Is(err, viewer.ErrUnmounted) {
		// Client went away.
		return
	}

	data := viewerPage{
		Kind:  kind.Label(),
		Token: st.token,
		Reset: st.reset,
	}
	status := http.StatusOK
	if err != nil {
		data.Error = err.Error()
		status = statusFor(err)
	} else {
		for _, t := range st.toggles {
			v.Toggle(t)
		}
		base := "/" + page
		data.ExpandAll = base + "?" + st.withReset(true).query().Encode()
		data.CollapseAll = base + "?" + st.withReset(false).query().Encode()
		plain := url.Values{handoff.TokenParam: {st.token}}.Encode()
		data.Pretty = base + "/pretty?" + plain
		data.Minified = base + "/minified?" + plain
		for _, row := range v.Rows() {
			rv := rowView{Row: row}
			if row.Kind == tree.RowBranch {
				rv.Href = base + "?" + st.withToggle(row.Path).query().Encode() + "#" + row.Path
			}
			data.Rows = append(data.Rows, rv)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "viewer", data); err != nil {
		s.log.Warn("render viewer", zap.Error(err))
	}
}

func (s *Server) handleSerialized(minified bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, _, ok := pageKind(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		v, err := s.load(r, kind, parseViewState(r.URL.Query()))
		defer v.Unmount()
		if errors.Is(err, viewer.ErrUnmounted) {
			return
		}
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		doc := v.State().Doc
		body := doc.Pretty()
		if minified {
			body = doc.Minified()
		}
		contentType := "application/json; charset=utf-8"
		if kind == format.XML {
			contentType = "application/xml; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}
}

type recordLink struct {
	Key  string
	Kind string
	Href string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var links []recordLink
	if lister, ok := s.cfg.Bridge.(store.Lister); ok {
		keys, err := lister.Keys(r.Context(), "")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for _, key := range keys {
			kind, token, ok := handoff.ParseKey(key)
			if !ok {
				continue
			}
			href, err := handoff.ViewerURL("", kind, token)
			if err != nil {
				continue
			}
			links = append(links, recordLink{Key: key, Kind: kind.Label(), Href: href})
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, "index", links); err != nil {
		s.log.Warn("render index", zap.Error(err))
	}
}
