package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Toolbar    lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	LinkText   lipgloss.Style
	LinkTarget lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	Address    lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpPeach),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Toolbar:    lipgloss.NewStyle().Foreground(cpOverlay1),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		LinkText:   lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		LinkTarget: lipgloss.NewStyle().Foreground(cpBlue),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		Address:    lipgloss.NewStyle().Foreground(cpLavender),
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

// RenderLink formats a selected link as "text -> target".
func (t Theme) RenderLink(text, href string) string {
	if text == "" || text == href {
		return t.LinkTarget.Render(href)
	}
	return t.LinkText.Render(text) + " -> " + t.LinkTarget.Render(href)
}
