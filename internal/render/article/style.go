package article

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha accents.
var (
	cpMauve    = lipgloss.Color("#cba6f7")
	cpPeach    = lipgloss.Color("#fab387")
	cpYellow   = lipgloss.Color("#f9e2af")
	cpGreen    = lipgloss.Color("#a6e3a1")
	cpTeal     = lipgloss.Color("#94e2d5")
	cpBlue     = lipgloss.Color("#89b4fa")
	cpLavender = lipgloss.Color("#b4befe")
	cpSubtext0 = lipgloss.Color("#a6adc8")
	cpOverlay0 = lipgloss.Color("#6c7086")
	cpOverlay1 = lipgloss.Color("#7f849c")

	detailHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(cpLavender)
	detailHeadingBars  = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(cpBlue),
		lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		lipgloss.NewStyle().Bold(true).Foreground(cpGreen),
		lipgloss.NewStyle().Bold(true).Foreground(cpYellow),
		lipgloss.NewStyle().Bold(true).Foreground(cpPeach),
	}
	detailLinkURL       = lipgloss.NewStyle().Foreground(cpBlue).Faint(true)
	detailQuoteBar      = lipgloss.NewStyle().Foreground(cpOverlay1)
	detailQuoteText     = lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0)
	detailCodeStyle     = lipgloss.NewStyle().Foreground(cpPeach)
	detailStrongStyle   = lipgloss.NewStyle().Bold(true)
	detailEmphasisStyle = lipgloss.NewStyle().Italic(true)
	detailMetaStyle     = lipgloss.NewStyle().Foreground(cpOverlay0)
	detailEmptyStyle    = lipgloss.NewStyle().Italic(true).Foreground(cpOverlay1)
	detailReadMarker    = lipgloss.NewStyle().Bold(true).Foreground(cpGreen)
)
