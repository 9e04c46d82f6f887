package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
	"github.com/Oloruntobi1/flametop/internal/session"
)

var (
	textMuted   = lipgloss.Color("#828296")
	textCounter = lipgloss.Color("#6e6e82")
	textSep     = lipgloss.Color("#373741")
	textMatch   = lipgloss.Color("#b4b4c3")
	textRule    = lipgloss.Color("#3c3c4b")
	textCursor  = lipgloss.Color("#ffffff")
)

// artGlyphs spell the product name on the waiting screen.
var artGlyphs = [][5]string{
	{"█████", "█    ", "████ ", "█    ", "█    "},
	{"█    ", "█    ", "█    ", "█    ", "█████"},
	{"▄███▄", "█   █", "█████", "█   █", "█   █"},
	{"█▄ ▄█", "█ ▀ █", "█   █", "█   █", "█   █"},
	{"█████", "█    ", "████ ", "█    ", "█████"},
	{"█████", "  █  ", "  █  ", "  █  ", "  █  "},
	{"▄███▄", "█   █", "█   █", "█   █", "▀███▀"},
	{"████▄", "█   █", "████▀", "█    ", "█    "},
}

var artGradient = []lipgloss.Color{"#a832a0", "#c82850", "#dc3220", "#f06412", "#faaa1e"}

func artLines() []string {
	lines := make([]string, 5)
	for row := range lines {
		parts := make([]string, len(artGlyphs))
		for i, g := range artGlyphs {
			parts[i] = g[row]
		}
		lines[row] = strings.Join(parts, " ")
	}
	return lines
}

const (
	subtitle       = "OTLP Profile Flamegraph Viewer"
	waitingMessage = "Waiting for profiles..."
	emptyMessage   = "No profile data yet"
)

func (m Model) waitingCanvas() *canvas {
	cv := newCanvas(m.width, m.height)
	bg := cellStyle{bg: colorBG}
	for y := 0; y < cv.h; y++ {
		cv.fill(0, cv.w, y, ' ', bg)
	}

	art := artLines()
	artW := runewidth.StringWidth(art[0])
	totalH := len(art) + 5
	top := max(0, (cv.h-totalH)/2)

	if cv.w >= artW+2 && cv.h >= totalH {
		left := (cv.w - artW) / 2
		for i, line := range art {
			cv.text(left, top+i, line, cellStyle{fg: artGradient[i%len(artGradient)], bg: colorBG})
		}
	} else {
		cv.centerText(top+1, "◆ "+m.name, cellStyle{fg: "#faaa1e", bg: colorBG, bold: true})
	}

	base := top + len(art) + 1
	cv.centerText(base, subtitle, cellStyle{fg: colorBright, bg: colorBG, bold: true})
	cv.centerText(base+1, strings.Repeat("─", runewidth.StringWidth(subtitle)), cellStyle{fg: textSep, bg: colorBG})
	cv.centerText(base+2, "Listening on "+m.addr, cellStyle{fg: textMuted, bg: colorBG})
	cv.centerText(base+3, ansi.Strip(m.spinner.View())+" "+waitingMessage, cellStyle{fg: colorDim, bg: colorBG, italic: true})
	return cv
}

func (m Model) headerCanvas() *canvas {
	cv := newCanvas(m.width, 1)
	sep := cellStyle{fg: textSep}

	x := cv.text(0, 0, " ◆ ", cellStyle{fg: colorAccent})
	x = cv.text(x, 0, m.name, cellStyle{fg: colorBright, bold: true})
	x = cv.text(x, 0, " │ ", sep)
	x = cv.text(x, 0, m.addr, cellStyle{fg: textMuted})
	x = cv.text(x, 0, " │ ", sep)
	x = cv.text(x, 0, formatTotal(m.session.Profiles())+" profiles", cellStyle{fg: textCounter})
	x = cv.text(x, 0, " │ ", sep)
	cv.text(x, 0, formatCount(int64(m.session.Samples()))+" samples", cellStyle{fg: textCounter})

	indicator, color := " ▶ LIVE ", colorLive
	if m.session.Frozen() {
		indicator, color = " ⏸ FROZEN ", colorFrozen
	}
	cv.text(cv.w-runewidth.StringWidth(indicator), 0, indicator, cellStyle{fg: color, bold: true})
	return cv
}

func (m Model) detailCanvas() *canvas {
	cv := newCanvas(m.width, 1)
	sel := m.session.Selection()
	zoom := m.session.ZoomPath()
	if sel.Name == "" && len(zoom) == 0 {
		return cv
	}

	sep := cellStyle{fg: textSep}
	x := 0
	if len(zoom) > 0 {
		x = cv.text(x, 0, " zoomed: "+zoom[len(zoom)-1]+" ", cellStyle{fg: colorAccent, bold: true})
		if sel.Name != "" {
			x = cv.text(x, 0, " │ ", sep)
		}
	}
	if sel.Name == "" {
		return cv
	}

	total := m.frame.RootTotal
	x = cv.text(x, 0, " ▸ ", cellStyle{fg: colorAccent, bold: true})
	x = cv.text(x, 0, truncate(sel.Name, 40), cellStyle{fg: colorBright, bold: true})
	x = cv.text(x, 0, " │ ", sep)
	x = cv.text(x, 0, "self: ", cellStyle{fg: colorDim})
	x = cv.text(x, 0, fmt.Sprintf("%s (%.1f%%)", formatCount(sel.Self), percent(sel.Self, total)), cellStyle{fg: colorSelf})
	x = cv.text(x, 0, " │ ", sep)
	x = cv.text(x, 0, "total: ", cellStyle{fg: colorDim})
	x = cv.text(x, 0, fmt.Sprintf("%s (%.1f%%)", formatCount(sel.Total), percent(sel.Total, total)), cellStyle{fg: colorTotal})
	x = cv.text(x, 0, " │ ", sep)
	x = cv.text(x, 0, "depth: ", cellStyle{fg: colorDim})
	x = cv.text(x, 0, fmt.Sprint(sel.Depth), cellStyle{fg: textMuted})
	if e, ok := getExplanationForFrame(sel.Name); ok {
		x = cv.text(x, 0, " │ ", sep)
		cv.text(x, 0, e.Title, cellStyle{fg: colorDim, italic: true})
	}
	return cv
}

func (m Model) flameCanvas(width, height int) *canvas {
	cv := newCanvas(width, height)
	if width < 4 || height < 2 {
		return cv
	}
	if m.frame.Empty() {
		cv.centerText(height/2, emptyMessage, cellStyle{fg: "#5a5a6e", italic: true})
	} else {
		drawFlame(cv, m.frame)
	}

	if s := m.session.Search(); s != nil {
		drawSearch(cv, s.Input, matchNames(s), s.Cursor)
	}
	return cv
}

func drawFlame(cv *canvas, f session.Frame) {
	drawn := make([]bool, cv.h)
	for _, r := range f.Rects {
		row := r.Depth - f.Scroll
		if row < 0 || row >= cv.h {
			continue
		}
		drawn[row] = true
		cursor := f.HasCursor && r.Depth == f.Cursor.Depth && r.X == f.Cursor.X
		drawFrame(cv, r, row, cursor, f.RootTotal)
	}
	for row := range drawn {
		if !drawn[row] && row+f.Scroll <= f.MaxDepth {
			cv.fill(0, cv.w, row, '·', cellStyle{fg: colorFiller})
		}
	}
}

func drawFrame(cv *canvas, r flamegraph.Rect, y int, cursor bool, rootTotal int64) {
	heat := 0.0
	if r.Total > 0 {
		heat = float64(r.Self) / float64(r.Total)
	}
	bgc := flameColor(r.Name, heat, r.Palette)
	if cursor {
		bgc = lighten(bgc, 45)
	}
	fgc := contrastFG(bgc)
	bg, fg := termColor(bgc), termColor(fgc)

	x0, x1 := r.X, min(r.X+r.Width, cv.w)
	border := cellStyle{fg: termColor(darken(bgc, 55)), bg: bg}
	for x := x0; x < x1; x++ {
		if x == x0 || x == x1-1 {
			cv.set(x, y, '▏', border)
		} else {
			cv.set(x, y, ' ', cellStyle{bg: bg})
		}
	}

	if inner := r.Width - 2; inner >= 3 {
		name := truncate(r.Name, inner)
		pad := (inner - runewidth.StringWidth(name)) / 2
		cv.text(x0+1+pad, y, name, cellStyle{fg: fg, bg: bg, bold: cursor})
	}

	if r.Width >= 14 && rootTotal > 0 {
		if pct := percent(r.Total, rootTotal); pct >= 0.1 {
			label := fmt.Sprintf("%.1f%%", pct)
			if px := x0 + r.Width - len(label) - 2; px > x0+2 {
				cv.text(px, y, label, cellStyle{fg: termColor(blend(fgc, bgc, 0.45)), bg: bg})
			}
		}
	}

	if cursor && r.Width >= 3 {
		cv.set(x0+1, y, '▸', cellStyle{fg: textCursor, bg: bg, bold: true})
	}
}

// drawSearch paints the thread search popup over the bottom of cv. At most
// three matches are listed; the list scrolls to keep the cursor visible.
func drawSearch(cv *canvas, input string, matches []string, cursor int) {
	const maxVisible = 3

	w := min(50, cv.w-4)
	if w < 10 {
		return
	}
	h := min(max(1, min(len(matches), maxVisible))+4, cv.h-2)
	if h < 4 {
		return
	}
	x0, y0 := (cv.w-w)/2, cv.h-h
	x1, y1 := x0+w-1, y0+h-1

	border := cellStyle{fg: colorSearch}
	for y := y0; y <= y1; y++ {
		cv.fill(x0, x1+1, y, ' ', cellStyle{})
		cv.set(x0, y, '│', border)
		cv.set(x1, y, '│', border)
	}
	cv.fill(x0+1, x1, y0, '─', border)
	cv.fill(x0+1, x1, y1, '─', border)
	cv.set(x0, y0, '╭', border)
	cv.set(x1, y0, '╮', border)
	cv.set(x0, y1, '╰', border)
	cv.set(x1, y1, '╯', border)

	const title = " 🔍 thread.name "
	if runewidth.StringWidth(title)+3 <= w {
		cv.text(x0+2, y0, title, cellStyle{fg: colorBright, bold: true})
	}

	inner := w - 2
	prompt := " / " + truncate(input, inner-5) + "█"
	cv.text(x0+1, y0+1, truncate(prompt, inner), cellStyle{fg: colorBright})
	cv.fill(x0+1, x1, y0+2, '─', cellStyle{fg: textRule})

	rows := h - 4
	if rows <= 0 {
		return
	}
	listY := y0 + 3
	if len(matches) == 0 {
		msg := "no matches"
		if input == "" {
			msg = "type to filter threads..."
		}
		cv.text(x0+2, listY, truncate(msg, inner-1), cellStyle{fg: textCounter, italic: true})
		return
	}

	offset := 0
	if cursor >= rows {
		offset = cursor - rows + 1
	}
	for i := 0; i < rows && offset+i < len(matches); i++ {
		idx := offset + i
		y := listY + i
		if idx == cursor {
			st := cellStyle{fg: colorBright, bg: colorPicked, bold: true}
			cv.fill(x0+1, x1, y, ' ', st)
			cv.text(x0+1, y, " ▸ "+truncate(matches[idx], inner-3), st)
			continue
		}
		cv.text(x0+1, y, "   "+truncate(matches[idx], inner-3), cellStyle{fg: textMatch})
	}
}

func (m Model) infoView() string {
	var b strings.Builder

	sel := m.session.Selection()
	e, ok := getExplanationForFrame(sel.Name)
	switch {
	case sel.Name == "":
		e = Explanation{Title: "No frame selected", Description: "Move the cursor with j/k and h/l to inspect a frame."}
	case !ok:
		e = Explanation{Title: truncate(sel.Name, 60), Description: "This frame carries no frame type tag."}
	}
	b.WriteString(m.styles.InfoTitle.Render(e.Title))
	b.WriteString("\n")
	wrap := min(60, max(20, m.width-8))
	b.WriteString(lipgloss.NewStyle().Width(wrap).Render(e.Description))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Dim.Width(wrap).Render("Width is the share of samples. Color heat is self/total: hot frames do the work themselves."))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))

	box := m.styles.Info.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
