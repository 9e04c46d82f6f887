package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cellStyle is the comparable subset of styling a canvas cell carries.
// Empty colors leave the terminal default.
type cellStyle struct {
	fg, bg lipgloss.Color
	bold   bool
	italic bool
}

func (st cellStyle) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.fg != "" {
		s = s.Foreground(st.fg)
	}
	if st.bg != "" {
		s = s.Background(st.bg)
	}
	return s.Bold(st.bold).Italic(st.italic)
}

// A cell holds one grapheme. The right half of a double-width rune is a
// cell with an empty ch.
type cell struct {
	ch string
	st cellStyle
}

// canvas is a fixed grid the flame area and its overlays are painted on
// before being turned into styled lines.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(0, w), max(0, h)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = " "
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// clear blanks the cell at x,y along with the other half of any wide rune
// it belongs to.
func (c *canvas) clear(x, y int) {
	cur := c.at(x, y)
	if cur == nil {
		return
	}
	if cur.ch == "" {
		if left := c.at(x-1, y); left != nil {
			left.ch = " "
		}
	} else if runewidth.StringWidth(cur.ch) == 2 {
		if right := c.at(x+1, y); right != nil {
			right.ch = " "
		}
	}
	cur.ch = " "
}

// set paints r at x,y and returns the number of columns it occupies.
func (c *canvas) set(x, y int, r rune, st cellStyle) int {
	w := runewidth.RuneWidth(r)
	if w == 0 || c.at(x, y) == nil {
		return w
	}
	c.clear(x, y)
	if w == 2 {
		if c.at(x+1, y) == nil {
			*c.at(x, y) = cell{ch: " ", st: st}
			return w
		}
		c.clear(x+1, y)
		*c.at(x+1, y) = cell{ch: "", st: st}
	}
	*c.at(x, y) = cell{ch: string(r), st: st}
	return w
}

// text paints s starting at x and returns the column after it.
func (c *canvas) text(x, y int, s string, st cellStyle) int {
	for _, r := range s {
		x += c.set(x, y, r, st)
	}
	return x
}

// fill paints r across [x0, x1) of row y.
func (c *canvas) fill(x0, x1, y int, r rune, st cellStyle) {
	for x := max(0, x0); x < min(x1, c.w); x++ {
		c.set(x, y, r, st)
	}
}

// centerText paints s horizontally centered on row y.
func (c *canvas) centerText(y int, s string, st cellStyle) {
	c.text(max(0, (c.w-runewidth.StringWidth(s))/2), y, s, st)
}

// plain returns row y without styling.
func (c *canvas) plain(y int) string {
	var b strings.Builder
	for _, cl := range c.cells[y*c.w : (y+1)*c.w] {
		b.WriteString(cl.ch)
	}
	return b.String()
}

// line renders row y, styling each run of equally styled cells once.
func (c *canvas) line(y int) string {
	var (
		out strings.Builder
		run strings.Builder
		cur cellStyle
	)
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(cur.style().Render(run.String()))
			run.Reset()
		}
	}
	for i, cl := range c.cells[y*c.w : (y+1)*c.w] {
		if i == 0 || cl.st != cur {
			flush()
			cur = cl.st
		}
		run.WriteString(cl.ch)
	}
	flush()
	return out.String()
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for y := range lines {
		lines[y] = c.line(y)
	}
	return strings.Join(lines, "\n")
}
