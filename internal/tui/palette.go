package tui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type stop struct {
	at    float64
	color colorful.Color
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// palettes are cool-to-hot gradients, one per thread rank modulo 8.
var palettes = [][]stop{
	{{0, rgb(253, 224, 71)}, {0.25, rgb(251, 191, 36)}, {0.45, rgb(249, 115, 22)}, {0.65, rgb(234, 88, 12)}, {0.80, rgb(220, 38, 38)}, {1, rgb(185, 28, 28)}},
	{{0, rgb(252, 211, 77)}, {0.25, rgb(245, 158, 11)}, {0.45, rgb(217, 119, 6)}, {0.65, rgb(180, 83, 9)}, {0.80, rgb(146, 64, 14)}, {1, rgb(120, 53, 15)}},
	{{0, rgb(253, 164, 175)}, {0.25, rgb(251, 113, 133)}, {0.45, rgb(244, 63, 94)}, {0.65, rgb(225, 29, 72)}, {0.80, rgb(190, 18, 60)}, {1, rgb(136, 19, 55)}},
	{{0, rgb(190, 242, 100)}, {0.25, rgb(163, 230, 53)}, {0.45, rgb(132, 204, 22)}, {0.65, rgb(101, 163, 13)}, {0.80, rgb(77, 124, 15)}, {1, rgb(54, 83, 20)}},
	{{0, rgb(153, 246, 228)}, {0.25, rgb(94, 234, 212)}, {0.45, rgb(20, 184, 166)}, {0.65, rgb(13, 148, 136)}, {0.80, rgb(15, 118, 110)}, {1, rgb(19, 78, 74)}},
	{{0, rgb(147, 197, 253)}, {0.25, rgb(96, 165, 250)}, {0.45, rgb(59, 130, 246)}, {0.65, rgb(37, 99, 235)}, {0.80, rgb(29, 78, 216)}, {1, rgb(30, 58, 138)}},
	{{0, rgb(165, 180, 252)}, {0.25, rgb(129, 140, 248)}, {0.45, rgb(99, 102, 241)}, {0.65, rgb(79, 70, 229)}, {0.80, rgb(67, 56, 202)}, {1, rgb(55, 48, 163)}},
	{{0, rgb(216, 180, 254)}, {0.25, rgb(192, 132, 252)}, {0.45, rgb(168, 85, 247)}, {0.65, rgb(147, 51, 234)}, {0.80, rgb(126, 34, 206)}, {1, rgb(88, 28, 135)}},
}

// flameColor picks the background of a frame: the palette gradient at heat
// (self/total), with a small per-name jitter so neighbours stay apart.
func flameColor(name string, heat float64, palette int) colorful.Color {
	var hash uint64
	for i := 0; i < len(name); i++ {
		hash = hash*2654435761 + uint64(name[i])
	}

	if palette < 0 {
		palette = 0
	}
	r, g, b := gradient(heat, palettes[palette%len(palettes)]).RGB255()

	rv := int(hash%18) - 9
	gv := int((hash>>5)%14) - 7
	return rgb(clampByte(int(r)+rv, 25), clampByte(int(g)+gv, 20), b)
}

func gradient(t float64, stops []stop) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	for i := 0; i < len(stops)-1; i++ {
		s0, s1 := stops[i], stops[i+1]
		if t <= s1.at {
			f := 0.0
			if s1.at > s0.at {
				f = (t - s0.at) / (s1.at - s0.at)
			}
			return round255(s0.color.BlendRgb(s1.color, f))
		}
	}
	return stops[len(stops)-1].color
}

func round255(c colorful.Color) colorful.Color {
	r, g, b := c.RGB255()
	return rgb(r, g, b)
}

func clampByte(v, lo int) uint8 {
	return uint8(max(lo, min(255, v)))
}

func shift(c colorful.Color, amount int) colorful.Color {
	r, g, b := c.RGB255()
	return rgb(clampByte(int(r)+amount, 0), clampByte(int(g)+amount, 0), clampByte(int(b)+amount, 0))
}

func lighten(c colorful.Color, amount int) colorful.Color { return shift(c, amount) }
func darken(c colorful.Color, amount int) colorful.Color  { return shift(c, -amount) }

// blend moves t of the way from a to b.
func blend(a, b colorful.Color, t float64) colorful.Color {
	return round255(a.BlendRgb(b, t))
}

var (
	darkText  = rgb(20, 18, 15)
	lightText = rgb(250, 248, 245)
)

// contrastFG returns dark text on light backgrounds and light text otherwise.
func contrastFG(bg colorful.Color) colorful.Color {
	r, g, b := bg.RGB255()
	if 0.299*float64(r)+0.587*float64(g)+0.114*float64(b) > 160 {
		return darkText
	}
	return lightText
}

func termColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
