// Package treeview hosts the Bubble Tea viewer for handed-off records.
package treeview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"tableflip.dev/jview/pkg/clip"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/logging"
	"tableflip.dev/jview/pkg/store"
	"tableflip.dev/jview/pkg/tree"
	"tableflip.dev/jview/pkg/tui/help"
	"tableflip.dev/jview/pkg/tui/theme"
	"tableflip.dev/jview/pkg/viewer"
)

const helpLine = "j/k move · enter toggle · E/C expand/collapse all · y/Y copy · ? help · q quit"

var helpSections = []help.Section{
	{Title: "Move", Bindings: []help.Binding{
		{Keys: "j / down", Action: "next row"},
		{Keys: "k / up", Action: "previous row"},
		{Keys: "g / home", Action: "first row"},
		{Keys: "G / end", Action: "last row"},
	}},
	{Title: "Tree", Bindings: []help.Binding{
		{Keys: "enter / space", Action: "toggle node"},
		{Keys: "l / right", Action: "expand node"},
		{Keys: "h / left", Action: "collapse node"},
		{Keys: "E", Action: "expand all"},
		{Keys: "C", Action: "collapse all"},
	}},
	{Title: "Record", Bindings: []help.Binding{
		{Keys: "y", Action: "copy pretty"},
		{Keys: "Y", Action: "copy minified"},
		{Keys: "?", Action: "toggle this help"},
		{Keys: "q / esc", Action: "quit"},
	}},
}

// Options configures the viewer model.
type Options struct {
	Bridge    store.Bridge
	Kind      format.Kind
	Token     string
	Collapsed bool
	Clipboard clip.Clipboard
	Log       *logging.Logger

	// Follow switches to every new record written to the bridge.
	Follow bool
}

// Model renders one record as a navigable tree.
type Model struct {
	ctx   context.Context
	opts  Options
	theme theme.Theme
	log   *logging.Logger

	viewer *viewer.Viewer
	rows   []tree.Row
	cursor int
	offset int

	width  int
	height int
	status string
	help   *help.Model

	watchCh     <-chan string
	watchCancel context.CancelFunc
}

type loadedMsg struct {
	v   *viewer.Viewer
	err error
}

type watchStartedMsg struct {
	ch     <-chan string
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct{ key string }

type watchStoppedMsg struct{}

// New constructs the model. The record is loaded by Init.
func New(ctx context.Context, opts Options) *Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clip.System{}
	}
	log := opts.Log.Named("tui")
	m := &Model{
		ctx:   ctx,
		opts:  opts,
		theme: theme.Default(),
		log:   log,
	}
	m.viewer = m.mount(opts.Kind, opts.Token)
	return m
}

func (m *Model) mount(kind format.Kind, token string) *viewer.Viewer {
	return viewer.New(viewer.Mount(m.ctx), viewer.Config{
		Bridge:    m.opts.Bridge,
		Kind:      kind,
		Token:     token,
		Collapsed: m.opts.Collapsed,
		Log:       m.log,
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd()}
	if m.opts.Follow {
		cmds = append(cmds, m.startWatchCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadCmd() tea.Cmd {
	v := m.viewer
	return func() tea.Msg {
		return loadedMsg{v: v, err: v.Load()}
	}
}

func (m *Model) startWatchCmd() tea.Cmd {
	w, ok := m.opts.Bridge.(store.Watcher)
	if !ok {
		return func() tea.Msg { return watchStartedMsg{err: store.ErrNoWatch} }
	}
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := w.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if key, ok := <-ch; ok {
			return watchEventMsg{key: key}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToCursor()
		if m.help != nil {
			m.help.SetSize(m.width, m.height)
		}
	case loadedMsg:
		if msg.v != m.viewer || errors.Is(msg.err, viewer.ErrUnmounted) {
			break
		}
		m.refreshRows()
	case watchStartedMsg:
		if msg.err != nil {
			m.status = "follow unavailable: " + msg.err.Error()
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		m.status = "Following new records"
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		if cmd := m.follow(msg.key); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyPressMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// follow replaces the mounted viewer with one for the record at key.
func (m *Model) follow(key string) tea.Cmd {
	kind, token, ok := handoff.ParseKey(key)
	if !ok || token == m.viewer.Token() {
		return nil
	}
	m.log.Debug("following record", zap.String("key", key))
	m.viewer.Unmount()
	m.viewer = m.mount(kind, token)
	m.rows = nil
	m.cursor, m.offset = 0, 0
	m.status = "Showing " + key
	return m.loadCmd()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.help != nil {
		switch msg.String() {
		case "?", "q", "esc":
			m.help = nil
			return nil
		case "ctrl+c":
		default:
			_, cmd := m.help.Update(msg)
			return cmd
		}
	}

	switch msg.String() {
	case "?":
		w, h := m.width, m.height
		if w <= 0 || h <= 0 {
			w, h = 60, 20
		}
		m.help = help.New(helpSections, w, h)
	case "q", "esc", "ctrl+c":
		m.stopWatch()
		m.viewer.Unmount()
		return tea.Quit
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.moveCursor(-len(m.rows))
	case "G", "end":
		m.moveCursor(len(m.rows))
	case "enter", "space", " ":
		if row, ok := m.current(); ok {
			m.viewer.Toggle(row.Path)
			m.refreshRows()
			m.focusPath(row.Path)
		}
	case "l", "right":
		if row, ok := m.current(); ok {
			m.viewer.SetExpanded(row.Path, true)
			m.refreshRows()
		}
	case "h", "left":
		if row, ok := m.current(); ok {
			m.viewer.SetExpanded(row.Path, false)
			m.refreshRows()
			m.focusPath(row.Path)
		}
	case "E":
		m.viewer.ExpandAll()
		m.refreshRows()
	case "C":
		m.viewer.CollapseAll()
		m.refreshRows()
	case "y":
		m.copy(false)
	case "Y":
		m.copy(true)
	}
	return nil
}

func (m *Model) copy(minified bool) {
	doc := m.viewer.State().Doc
	if doc == nil {
		return
	}
	text, what := doc.Pretty(), "pretty"
	if minified {
		text, what = doc.Minified(), "minified"
	}
	if clip.Copy(m.opts.Clipboard, text) {
		m.status = fmt.Sprintf("Copied %s %s", what, doc.Kind.Label())
		return
	}
	m.status = "Copy failed"
}

func (m *Model) current() (tree.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) refreshRows() {
	m.rows = m.viewer.Rows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

// focusPath moves the cursor to the opening row of path, which matters
// when collapsing from an element's closing row.
func (m *Model) focusPath(path string) {
	for i, r := range m.rows {
		if r.Path == path && r.Kind != tree.RowClose {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.scrollToCursor()
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	// Header and footer take one line each.
	return max(m.height-2, 1)
}

func (m *Model) scrollToCursor() {
	body := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if body > 0 && m.cursor >= m.offset+body {
		m.offset = m.cursor - body + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.help != nil {
		return m.help.View()
	}
	st := m.viewer.State()
	header := m.theme.Footer.Kind.Render(m.viewer.Kind().Label()) + " " +
		m.theme.Footer.Status.Render(m.viewer.Token())

	var body []string
	switch {
	case st.Err != nil:
		body = append(body, m.theme.Footer.Error.Render(st.Err.Error()))
	case st.Loading:
		body = append(body, m.theme.Footer.Status.Render("Loading…"))
	default:
		end := min(m.offset+m.bodyHeight(), len(m.rows))
		for i := m.offset; i < end; i++ {
			body = append(body, m.renderRow(m.rows[i], i == m.cursor))
		}
	}

	footer := m.theme.Footer.Help.Render(helpLine)
	if m.status != "" {
		footer = m.theme.Footer.Status.Render(m.status) + "  " + footer
	}
	lines := append([]string{header}, body...)
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r tree.Row, selected bool) string {
	t := m.theme.Tree
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))
	b.WriteString(t.Marker.Render(r.Marker()))
	if r.Labeled {
		b.WriteString(t.Label.Render(r.Label))
		b.WriteString(": ")
	}
	b.WriteString(t.Value(r.Class).Render(r.Value))
	line := b.String()
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(m.width), "…")
	}
	if selected {
		return t.Cursor.Render(line)
	}
	return line
}

// Run launches the viewer program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
