package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorBG     = lipgloss.Color("#101016")
	colorAccent = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#464655")
	colorBright = lipgloss.Color("#dcdceb")
	colorLive   = lipgloss.Color("#22c55e")
	colorFrozen = lipgloss.Color("#eab308")
	colorSelf   = lipgloss.Color("#f97316")
	colorTotal  = lipgloss.Color("#eab308")
	colorSearch = lipgloss.Color("#f5a623")
	colorFiller = lipgloss.Color("#1e1e26")
	colorPicked = lipgloss.Color("#282d41")
)

type Styles struct {
	Footer,
	HelpKey,
	HelpDesc,
	Info,
	InfoTitle,
	Dim lipgloss.Style
}

func defaultStyles() Styles {
	s := Styles{}
	s.Footer = lipgloss.NewStyle().Padding(0, 1)
	s.HelpKey = lipgloss.NewStyle().Foreground(lipgloss.Color("#505064"))
	s.HelpDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#373741"))

	s.Info = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent)
	s.InfoTitle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	s.Dim = lipgloss.NewStyle().Foreground(colorDim)
	return s
}

// helpModel returns a help view using the footer colors.
func (s Styles) helpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpDesc
	h.Styles.ShortSeparator = s.HelpDesc
	h.Styles.FullKey = s.HelpKey.Foreground(colorBright)
	h.Styles.FullDesc = s.HelpDesc.Foreground(colorDim)
	return h
}
