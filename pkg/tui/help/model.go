// Package help renders the key binding overlay shared by the terminal UIs.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/jview/pkg/tui/theme"
)

// Binding is one key and what it does.
type Binding struct {
	Keys   string
	Action string
}

// Section groups bindings under a heading.
type Section struct {
	Title    string
	Bindings []Binding
}

// Model renders the bindings inside a framed, scrollable viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	sections []Section
	theme    theme.PanelTheme
}

// New constructs a help overlay model sized to the provided bounds.
func New(sections []Section, width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{
		viewport: vp,
		sections: sections,
		theme:    theme.Default().Panel,
	}
	m.SetSize(width, height)
	return m
}

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the help content inside a rounded frame.
func (m *Model) View() string {
	return m.theme.Frame.Width(m.width).Height(m.height).Render(m.viewport.View())
}

// SetSize configures the overlay dimensions and re-renders the content.
func (m *Model) SetSize(width, height int) {
	minWidth, minHeight := 32, 8
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	if m.width == width && m.height == height {
		return
	}

	m.width = width
	m.height = height

	frameX := m.theme.Frame.GetHorizontalFrameSize()
	frameY := m.theme.Frame.GetVerticalFrameSize()

	m.viewport.SetWidth(max(width-frameX, 1))
	m.viewport.SetHeight(max(height-frameY, 1))
	m.viewport.SetContent(m.render())
	m.viewport.SetYOffset(0)
}

func (m *Model) render() string {
	lines := make([]string, 0, 16)
	for i, s := range m.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, m.theme.Title.Render(s.Title))
		for _, line := range strings.Split(Render(s.Bindings), "\n") {
			lines = append(lines, m.theme.Body.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// Render lays bindings out as two aligned columns.
func Render(bindings []Binding) string {
	width := 0
	for _, b := range bindings {
		width = max(width, len(b.Keys))
	}
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		lines = append(lines, "  "+b.Keys+strings.Repeat(" ", width-len(b.Keys))+"  "+b.Action)
	}
	return strings.Join(lines, "\n")
}
