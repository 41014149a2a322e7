// Package handoff stores entered text under a fresh token and points a
// viewer at it.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/logging"
	"tableflip.dev/jview/pkg/store"
)

const (
	JSONPage = "json-viewer"
	XMLPage  = "xml-viewer"

	// TokenParam is the viewer URL query parameter carrying the token.
	TokenParam = "k"

	keySuffix    = "-view:"
	suffixLength = 6
)

// ErrNotViewable is returned for kinds that have no viewer page.
var ErrNotViewable = errors.New("handoff: kind has no viewer")

// Key is the storage key of a record: "<kind>-view:<token>".
func Key(kind format.Kind, token string) string {
	return KeyPrefix(kind) + token
}

// KeyPrefix is the namespace shared by every record of kind.
func KeyPrefix(kind format.Kind) string {
	return string(kind) + keySuffix
}

// ParseKey splits a storage key into kind and token.
func ParseKey(key string) (format.Kind, string, bool) {
	i := strings.Index(key, keySuffix)
	if i <= 0 {
		return "", "", false
	}
	kind, err := format.ParseKind(key[:i])
	if err != nil || !Viewable(kind) {
		return "", "", false
	}
	return kind, key[i+len(keySuffix):], true
}

// Viewable reports whether kind can be handed to a viewer.
func Viewable(kind format.Kind) bool {
	return kind == format.JSON || kind == format.XML
}

// Page is the viewer page for kind.
func Page(kind format.Kind) (string, error) {
	switch kind {
	case format.JSON:
		return JSONPage, nil
	case format.XML:
		return XMLPage, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotViewable, kind)
}

// KindForPage is the inverse of Page.
func KindForPage(page string) (format.Kind, bool) {
	switch page {
	case JSONPage:
		return format.JSON, true
	case XMLPage:
		return format.XML, true
	}
	return "", false
}

// NewToken returns a base-36 millisecond timestamp followed by six random
// base-36 characters. intn must return a value in [0, n).
func NewToken(now time.Time, intn func(n int) int) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	for i := 0; i < suffixLength; i++ {
		b.WriteString(strconv.FormatInt(int64(intn(36)), 36))
	}
	return b.String()
}

// ViewerURL builds "<base>/<page>?k=<token>".
func ViewerURL(base string, kind format.Kind, token string) (string, error) {
	page, err := Page(kind)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(base, "/") + "/" + page + "?" + TokenParam + "=" + url.QueryEscape(token), nil
}

// ParseViewerURL extracts the kind and token from a viewer URL. A missing
// token is not an error here; the viewer reports it.
func ParseViewerURL(raw string) (format.Kind, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("handoff: parse viewer url: %w", err)
	}
	kind, ok := KindForPage(path.Base(u.Path))
	if !ok {
		return "", "", fmt.Errorf("handoff: %q is not a viewer page", u.Path)
	}
	return kind, u.Query().Get(TokenParam), nil
}

// Opener displays a viewer URL. Implementations return once the viewer
// has been started; they do not wait for it.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Result describes a completed handoff.
type Result struct {
	Kind  format.Kind
	Token string
	Key   string
	URL   string
}

// Service performs handoffs.
type Service struct {
	Bridge  store.Bridge
	Opener  Opener
	BaseURL string

	// Now and Intn default to the wall clock and math/rand.
	Now  func() time.Time
	Intn func(n int) int
	Log  *logging.Logger
}

// OpenViewer validates text as kind, stores the raw text under a new
// token and opens the viewer for it. Invalid input is reported as
// *format.Error; nothing is stored or opened in that case.
//
// When the opener fails the record has already been written, so the
// result is returned together with the error.
func (s *Service) OpenViewer(ctx context.Context, kind format.Kind, text string) (*Result, error) {
	if !Viewable(kind) {
		return nil, fmt.Errorf("%w: %s", ErrNotViewable, kind)
	}
	if err := format.Validate(kind, text); err != nil {
		return nil, err
	}

	now, intn := s.Now, s.Intn
	if now == nil {
		now = time.Now
	}
	if intn == nil {
		intn = rand.IntN
	}
	token := NewToken(now(), intn)
	res := &Result{Kind: kind, Token: token, Key: Key(kind, token)}

	var err error
	if res.URL, err = ViewerURL(s.BaseURL, kind, token); err != nil {
		return nil, err
	}
	if err := s.Bridge.Set(ctx, res.Key, text); err != nil {
		return nil, fmt.Errorf("handoff: store record: %w", err)
	}

	log := s.Log.Named("handoff")
	log.Debug("record stored", zap.String("key", res.Key), zap.Int("bytes", len(text)))

	if s.Opener == nil {
		return res, nil
	}
	if err := s.Opener.Open(ctx, res.URL); err != nil {
		log.Warn("could not open viewer", zap.String("url", res.URL), zap.Error(err))
		return res, fmt.Errorf("handoff: open viewer: %w", err)
	}
	return res, nil
}
