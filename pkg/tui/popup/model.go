// Package popup is the paste-and-format screen: beautify, minify, copy or
// hand the text off to a viewer.
package popup

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/jview/pkg/clip"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/tui/help"
	"tableflip.dev/jview/pkg/tui/theme"
)

const helpLine = "tab kind · ctrl+b beautify · ctrl+n minify · ctrl+y copy · ctrl+o open viewer · f1 help · esc quit"

var helpSections = []help.Section{
	{Title: "Format", Bindings: []help.Binding{
		{Keys: "tab", Action: "next format (JSON, XML, HTML)"},
		{Keys: "ctrl+b", Action: "beautify"},
		{Keys: "ctrl+n", Action: "minify"},
	}},
	{Title: "Output", Bindings: []help.Binding{
		{Keys: "ctrl+y", Action: "copy the text"},
		{Keys: "ctrl+o", Action: "open the tree viewer (JSON and XML)"},
	}},
	{Title: "Window", Bindings: []help.Binding{
		{Keys: "f1", Action: "toggle this help"},
		{Keys: "esc / ctrl+c", Action: "quit"},
	}},
}

type Options struct {
	Kind      format.Kind
	Text      string
	Handoff   *handoff.Service
	Clipboard clip.Clipboard
}

// Model holds the text area and the last action's outcome.
type Model struct {
	ctx       context.Context
	area      textarea.Model
	kind      format.Kind
	handoff   *handoff.Service
	clipboard clip.Clipboard
	theme     theme.Theme

	status string
	err    string

	width  int
	height int
	help   *help.Model
}

type openedMsg struct {
	res *handoff.Result
	err error
}

// New constructs the popup. When no kind is given it is detected from the
// initial text, falling back to JSON.
func New(ctx context.Context, opts Options) *Model {
	area := textarea.New()
	area.ShowLineNumbers = false
	area.Prompt = ""
	area.CharLimit = 0
	area.MaxHeight = 0
	area.Placeholder = "Paste JSON, XML or HTML"
	area.SetValue(opts.Text)
	area.Focus()

	kind := opts.Kind
	if kind == "" {
		if detected, ok := format.Detect(opts.Text); ok {
			kind = detected
		} else {
			kind = format.JSON
		}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clip.System{}
	}
	return &Model{
		ctx:       ctx,
		area:      area,
		kind:      kind,
		handoff:   opts.Handoff,
		clipboard: opts.Clipboard,
		theme:     theme.Default(),
	}
}

// Kind is the currently selected document kind.
func (m *Model) Kind() format.Kind { return m.kind }

// Value is the text area content.
func (m *Model) Value() string { return m.area.Value() }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.area.SetWidth(max(msg.Width-4, 10))
		// Title, kind line, status and help.
		m.area.SetHeight(max(msg.Height-8, 3))
		if m.help != nil {
			m.help.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case openedMsg:
		m.handleOpened(msg)
		return m, nil
	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	if m.help != nil {
		switch msg.String() {
		case "f1", "esc":
			m.help = nil
			return nil, true
		case "ctrl+c":
			return tea.Quit, true
		}
		_, cmd := m.help.Update(msg)
		return cmd, true
	}

	switch msg.String() {
	case "f1":
		w, h := m.width, m.height
		if w <= 0 || h <= 0 {
			w, h = 60, 20
		}
		m.help = help.New(helpSections, w, h)
		return nil, true
	case "esc", "ctrl+c":
		return tea.Quit, true
	case "tab":
		m.nextKind()
		return nil, true
	case "ctrl+b":
		m.transform(format.Beautify)
		return nil, true
	case "ctrl+n":
		m.transform(format.Minify)
		return nil, true
	case "ctrl+y":
		if clip.Copy(m.clipboard, m.area.Value()) {
			m.setStatus("Copied to clipboard")
		}
		return nil, true
	case "ctrl+o":
		return m.openViewer(), true
	}
	return nil, false
}

func (m *Model) nextKind() {
	for i, k := range format.Kinds {
		if k == m.kind {
			m.kind = format.Kinds[(i+1)%len(format.Kinds)]
			break
		}
	}
	m.setStatus("")
}

// transform replaces the text with fn's output. On failure the text is
// left as it was and the error is shown.
func (m *Model) transform(fn func(format.Kind, string) (string, error)) {
	out, err := fn(m.kind, m.area.Value())
	if err != nil {
		m.setError(err)
		return
	}
	m.area.SetValue(out)
	m.setStatus("")
}

func (m *Model) openViewer() tea.Cmd {
	if m.handoff == nil {
		m.setError(errors.New("viewer is not configured"))
		return nil
	}
	if !handoff.Viewable(m.kind) {
		m.setError(errors.New("the viewer supports JSON and XML only"))
		return nil
	}
	svc, ctx, kind, text := m.handoff, m.ctx, m.kind, m.area.Value()
	return func() tea.Msg {
		res, err := svc.OpenViewer(ctx, kind, text)
		return openedMsg{res: res, err: err}
	}
}

func (m *Model) handleOpened(msg openedMsg) {
	switch {
	case msg.err != nil && msg.res != nil:
		// Stored, but the browser did not start.
		m.setStatus("Viewer ready at " + msg.res.URL)
	case msg.err != nil:
		m.setError(msg.err)
	default:
		m.setStatus("Opened " + msg.res.URL)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.err = ""
}

func (m *Model) setError(err error) {
	m.status = ""
	m.err = err.Error()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.help != nil {
		return m.help.View()
	}
	kinds := make([]string, 0, len(format.Kinds))
	for _, k := range format.Kinds {
		if k == m.kind {
			kinds = append(kinds, m.theme.Footer.Kind.Render("["+k.Label()+"]"))
			continue
		}
		kinds = append(kinds, m.theme.Footer.Help.Render(" "+k.Label()+" "))
	}

	sections := []string{
		m.theme.Panel.Title.Render("jview"),
		strings.Join(kinds, " "),
		m.theme.Panel.Frame.Render(m.area.View()),
	}
	switch {
	case m.err != "":
		sections = append(sections, m.theme.Footer.Error.Render(m.err))
	case m.status != "":
		sections = append(sections, m.theme.Footer.Status.Render(m.status))
	}
	sections = append(sections, m.theme.Footer.Help.Render(helpLine))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run launches the popup program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
