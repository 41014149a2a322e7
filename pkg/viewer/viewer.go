// Package viewer loads a handed-off record and keeps the tree state of one
// viewer instance.
package viewer

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/jview/pkg/document"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/logging"
	"tableflip.dev/jview/pkg/store"
	"tableflip.dev/jview/pkg/tree"
)

// ErrUnmounted is returned by Load when the session ended before the
// result could be committed. Nothing was changed.
var ErrUnmounted = errors.New("viewer: unmounted")

// Code classifies a LoadError.
type Code int

const (
	MissingToken Code = iota
	NotFound
	ParseFailed
	LoadFailed
)

// LoadError is the error state shown in place of the tree.
type LoadError struct {
	Code Code
	Kind format.Kind
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Code {
	case MissingToken:
		return "Missing token"
	case NotFound:
		return "No data found for this token"
	case ParseFailed:
		return fmt.Sprintf("Failed to parse %s: %s", e.Kind.Label(), parseMessage(e.Err))
	default:
		return fmt.Sprintf("Failed to load %s: %v", e.Kind.Label(), e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// parseMessage strips the "Invalid <KIND>: " prefix so the parser's own
// message follows "Failed to parse <KIND>: ".
func parseMessage(err error) string {
	var fe *format.Error
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

// Document is a loaded record. It is never mutated after loading.
type Document struct {
	Kind format.Kind
	Raw  string
	JSON *document.Value
	XML  *document.XMLDocument
}

// Pretty re-serializes the document with two-space indentation.
func (d *Document) Pretty() string {
	if d.JSON != nil {
		return d.JSON.Pretty()
	}
	return format.PrettyXML(d.XML)
}

// Minified re-serializes the document without insignificant whitespace.
func (d *Document) Minified() string {
	if d.JSON != nil {
		return d.JSON.Compact()
	}
	return format.MinifyXML(d.XML)
}

// State is a snapshot of what the viewer should display.
type State struct {
	Loading bool
	Err     error
	Doc     *Document
}

type Config struct {
	Bridge store.Bridge
	Kind   format.Kind
	Token  string
	// Collapsed starts every branch collapsed.
	Collapsed bool
	Log       *logging.Logger
}

// Viewer is one mounted viewer.
type Viewer struct {
	bridge  store.Bridge
	kind    format.Kind
	token   string
	log     *logging.Logger
	session *Session

	mu    sync.Mutex
	state State
	view  *tree.View
	root  *tree.Node
}

// New creates a viewer bound to session. Call Load to fetch the record.
func New(session *Session, cfg Config) *Viewer {
	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}
	return &Viewer{
		bridge:  cfg.Bridge,
		kind:    cfg.Kind,
		token:   cfg.Token,
		log:     log.Named("viewer"),
		session: session,
		state:   State{Loading: true},
		view:    tree.NewView(!cfg.Collapsed),
	}
}

func (v *Viewer) Kind() format.Kind { return v.kind }
func (v *Viewer) Token() string     { return v.token }

// Load runs the load sequence: token check, fetch, parse, commit. It
// returns the committed error state, nil on success, or ErrUnmounted when
// the session ended first.
func (v *Viewer) Load() error {
	if v.token == "" {
		return v.fail(&LoadError{Code: MissingToken, Kind: v.kind})
	}

	ctx := v.session.Context()
	raw, ok, err := v.bridge.Get(ctx, handoff.Key(v.kind, v.token))
	if !v.session.Alive() {
		return ErrUnmounted
	}
	if err != nil {
		return v.fail(&LoadError{Code: LoadFailed, Kind: v.kind, Err: err})
	}
	if !ok {
		return v.fail(&LoadError{Code: NotFound, Kind: v.kind})
	}

	doc, err := parse(v.kind, raw)
	if err != nil {
		return v.fail(&LoadError{Code: ParseFailed, Kind: v.kind, Err: err})
	}

	committed := v.session.Commit(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.state = State{Doc: doc}
		if doc.JSON != nil {
			v.root = tree.NewJSON(v.view, doc.JSON)
		} else {
			v.root = tree.NewXML(v.view, doc.XML.Root)
		}
	})
	if !committed {
		return ErrUnmounted
	}
	v.log.Debug("record loaded", zap.String("kind", string(v.kind)), zap.String("token", v.token))
	return nil
}

func (v *Viewer) fail(err *LoadError) error {
	if !v.session.Commit(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.state = State{Err: err}
	}) {
		return ErrUnmounted
	}
	v.log.Debug("load failed", zap.String("token", v.token), zap.Error(err))
	return err
}

func parse(kind format.Kind, raw string) (*Document, error) {
	switch kind {
	case format.JSON:
		jv, err := format.ParseJSON(raw)
		if err != nil {
			return nil, err
		}
		return &Document{Kind: kind, Raw: raw, JSON: jv}, nil
	case format.XML:
		doc, err := format.ParseXML(raw)
		if err != nil {
			return nil, err
		}
		return &Document{Kind: kind, Raw: raw, XML: doc}, nil
	}
	return nil, fmt.Errorf("%w %q", format.ErrUnknownKind, kind)
}

// State returns the current display state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Rows flattens the visible tree. It is empty until a document loads.
func (v *Viewer) Rows() []tree.Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.root == nil {
		return nil
	}
	return v.root.Rows()
}

// Toggle flips the visible branch at path.
func (v *Viewer) Toggle(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.root == nil {
		return false
	}
	return tree.Toggle(v.root, path)
}

// SetExpanded expands or collapses the visible branch at path.
func (v *Viewer) SetExpanded(path string, expanded bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.root == nil {
		return false
	}
	n, ok := v.root.Find(path)
	if !ok || !n.Branch() {
		return false
	}
	n.SetExpanded(expanded)
	return true
}

func (v *Viewer) ExpandAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.ExpandAll()
}

func (v *Viewer) CollapseAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.CollapseAll()
}

// TreeView exposes the shared expansion context.
func (v *Viewer) TreeView() *tree.View {
	return v.view
}

// Unmount ends the session and releases the tree.
func (v *Viewer) Unmount() {
	v.session.Unmount()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.root != nil {
		v.root.Release()
		v.root = nil
	}
}
