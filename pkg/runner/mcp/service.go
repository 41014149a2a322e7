// Package mcp provides the Model Context Protocol server integration for jview.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/store"
	"tableflip.dev/jview/pkg/tree"
	"tableflip.dev/jview/pkg/viewer"
)

// Service coordinates the formatting and record operations shared by the MCP server.
type Service struct {
	Bridge  store.Bridge
	Handoff *handoff.Service
}

// ErrRecordNotFound is returned when no record is stored under a reference.
var ErrRecordNotFound = errors.New("record not found")

// FormatResult is the output of beautify and minify.
type FormatResult struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// HandoffDTO describes a stored record and its viewer URL.
type HandoffDTO struct {
	Kind      string `json:"kind"`
	Token     string `json:"token"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	Opened    bool   `json:"opened"`
	OpenError string `json:"openError,omitempty"`
}

// RecordRef identifies a record by key, viewer URL, or kind and token.
type RecordRef struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Token string `json:"token"`
}

// RecordDTO is a transport-friendly projection of a stored record.
type RecordDTO struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Token string `json:"token"`
	URL   string `json:"url"`
	Bytes int    `json:"bytes,omitempty"`
	Text  string `json:"text,omitempty"`
}

// RowDTO is one rendered tree line.
type RowDTO struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Depth    int    `json:"depth"`
	Label    string `json:"label,omitempty"`
	Value    string `json:"value"`
	Class    string `json:"class,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
}

// TreeDTO is a rendered record.
type TreeDTO struct {
	Kind   string   `json:"kind"`
	Token  string   `json:"token"`
	Leaves int      `json:"leaves"`
	Text   string   `json:"text"`
	Rows   []RowDTO `json:"rows"`
}

// NewService constructs a service. The handoff service is built over the
// same bridge when h is nil.
func NewService(bridge store.Bridge, h *handoff.Service) *Service {
	if h == nil {
		h = &handoff.Service{Bridge: bridge, BaseURL: store.DefaultViewerBase}
	}
	return &Service{Bridge: bridge, Handoff: h}
}

// Beautify pretty-prints text.
func (s *Service) Beautify(kind, text string) (FormatResult, error) {
	return transform(kind, text, format.Beautify)
}

// Minify compacts text.
func (s *Service) Minify(kind, text string) (FormatResult, error) {
	return transform(kind, text, format.Minify)
}

func transform(kind, text string, fn func(format.Kind, string) (string, error)) (FormatResult, error) {
	k, err := format.Resolve(kind, text)
	if err != nil {
		return FormatResult{}, err
	}
	out, err := fn(k, text)
	if err != nil {
		return FormatResult{}, err
	}
	return FormatResult{Kind: string(k), Text: out}, nil
}

// OpenViewer hands text to a viewer. An opener failure is reported in the
// result since the record is already stored.
func (s *Service) OpenViewer(ctx context.Context, kind, text string) (HandoffDTO, error) {
	k, err := format.Resolve(kind, text)
	if err != nil {
		return HandoffDTO{}, err
	}
	res, err := s.Handoff.OpenViewer(ctx, k, text)
	if res == nil {
		return HandoffDTO{}, err
	}
	dto := HandoffDTO{
		Kind:   string(res.Kind),
		Token:  res.Token,
		Key:    res.Key,
		URL:    res.URL,
		Opened: err == nil && s.Handoff.Opener != nil,
	}
	if err != nil {
		dto.OpenError = err.Error()
	}
	return dto, nil
}

func (s *Service) resolve(ref RecordRef) (format.Kind, string, error) {
	switch {
	case ref.Key != "":
		kind, token, ok := handoff.ParseKey(ref.Key)
		if !ok {
			return "", "", fmt.Errorf("%q is not a record key", ref.Key)
		}
		return kind, token, nil
	case ref.URL != "":
		return handoff.ParseViewerURL(ref.URL)
	case ref.Kind != "" && ref.Token != "":
		kind, err := format.ParseKind(ref.Kind)
		if err != nil {
			return "", "", err
		}
		if !handoff.Viewable(kind) {
			return "", "", fmt.Errorf("%w: %s", handoff.ErrNotViewable, kind)
		}
		return kind, ref.Token, nil
	}
	return "", "", errors.New("provide key, url, or kind and token")
}

// ReadRecord returns the raw text of a record.
func (s *Service) ReadRecord(ctx context.Context, ref RecordRef) (RecordDTO, error) {
	kind, token, err := s.resolve(ref)
	if err != nil {
		return RecordDTO{}, err
	}
	key := handoff.Key(kind, token)
	text, ok, err := s.Bridge.Get(ctx, key)
	if err != nil {
		return RecordDTO{}, err
	}
	if !ok {
		return RecordDTO{}, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}
	dto := s.recordDTO(kind, token)
	dto.Bytes = len(text)
	dto.Text = text
	return dto, nil
}

func (s *Service) recordDTO(kind format.Kind, token string) RecordDTO {
	url, _ := handoff.ViewerURL(s.Handoff.BaseURL, kind, token)
	return RecordDTO{Key: handoff.Key(kind, token), Kind: string(kind), Token: token, URL: url}
}

// RenderTree loads a record the way a viewer does and renders its rows.
// toggles are replayed in order after the default expansion is applied.
func (s *Service) RenderTree(ctx context.Context, ref RecordRef, collapsed bool, toggles []string) (TreeDTO, error) {
	kind, token, err := s.resolve(ref)
	if err != nil {
		return TreeDTO{}, err
	}
	v := viewer.New(viewer.Mount(ctx), viewer.Config{
		Bridge:    s.Bridge,
		Kind:      kind,
		Token:     token,
		Collapsed: collapsed,
	})
	defer v.Unmount()
	if err := v.Load(); err != nil {
		return TreeDTO{}, err
	}
	for _, p := range toggles {
		v.Toggle(p)
	}

	rows := v.Rows()
	out := TreeDTO{
		Kind:   string(kind),
		Token:  token,
		Leaves: tree.LeafCount(rows),
		Text:   tree.Render(rows),
		Rows:   make([]RowDTO, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, RowDTO{
			Kind:     rowKind(r.Kind),
			Path:     r.Path,
			Depth:    r.Depth,
			Label:    r.Label,
			Value:    r.Value,
			Class:    string(r.Class),
			Expanded: r.Expanded,
		})
	}
	return out, nil
}

func rowKind(k tree.RowKind) string {
	switch k {
	case tree.RowBranch:
		return "branch"
	case tree.RowClose:
		return "close"
	}
	return "leaf"
}

// ListRecords returns every stored record without its text, sorted by key.
func (s *Service) ListRecords(ctx context.Context) ([]RecordDTO, error) {
	lister, ok := s.Bridge.(store.Lister)
	if !ok {
		return nil, errors.New("the configured store cannot list records")
	}
	keys, err := lister.Keys(ctx, "")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	out := make([]RecordDTO, 0, len(keys))
	for _, key := range keys {
		kind, token, ok := handoff.ParseKey(key)
		if !ok {
			continue
		}
		out = append(out, s.recordDTO(kind, token))
	}
	return out, nil
}
