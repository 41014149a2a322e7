package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/jview/pkg/tree"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Tree   TreeTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Kind   lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// TreeTheme styles rendered tree rows.
type TreeTheme struct {
	Label   lipgloss.Style
	Marker  lipgloss.Style
	Cursor  lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Bool    lipgloss.Style
	Null    lipgloss.Style
	Summary lipgloss.Style
	Tag     lipgloss.Style
	CDATA   lipgloss.Style
	Comment lipgloss.Style
}

// Value returns the style for a row value of class c.
func (t TreeTheme) Value(c tree.Class) lipgloss.Style {
	switch c {
	case tree.ClassString:
		return t.String
	case tree.ClassNumber:
		return t.Number
	case tree.ClassBool:
		return t.Bool
	case tree.ClassNull:
		return t.Null
	case tree.ClassSummary:
		return t.Summary
	case tree.ClassTag:
		return t.Tag
	case tree.ClassCDATA:
		return t.CDATA
	case tree.ClassComment:
		return t.Comment
	}
	return lipgloss.NewStyle()
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			Kind:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Tree: TreeTheme{
			Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
			Marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Cursor:  lipgloss.NewStyle().Reverse(true),
			String:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			Number:  lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
			Bool:    lipgloss.NewStyle().Foreground(lipgloss.Color("177")),
			Null:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			Summary: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
			CDATA:   lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
			Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
		},
	}
}
