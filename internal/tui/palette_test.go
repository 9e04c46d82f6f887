package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rgbOf(t *testing.T, c interface{ RGB255() (uint8, uint8, uint8) }) [3]uint8 {
	t.Helper()
	r, g, b := c.RGB255()
	return [3]uint8{r, g, b}
}

func TestGradientEndpoints(t *testing.T) {
	for i, p := range palettes {
		assert.Equal(t, rgbOf(t, p[0].color), rgbOf(t, gradient(0, p)), "palette %d start", i)
		assert.Equal(t, rgbOf(t, p[0].color), rgbOf(t, gradient(-1, p)), "palette %d clamps below", i)
		assert.Equal(t, rgbOf(t, p[len(p)-1].color), rgbOf(t, gradient(1, p)), "palette %d end", i)
		assert.Equal(t, rgbOf(t, p[len(p)-1].color), rgbOf(t, gradient(2, p)), "palette %d clamps above", i)
	}
}

func TestFlameColor(t *testing.T) {
	// An empty name hashes to zero: red -9, green -7.
	assert.Equal(t, [3]uint8{244, 217, 71}, rgbOf(t, flameColor("", 0, 0)))

	a := flameColor("runtime.mallocgc", 0.3, 2)
	assert.Equal(t, a, flameColor("runtime.mallocgc", 0.3, 2), "deterministic")
	assert.NotEqual(t, rgbOf(t, a), rgbOf(t, flameColor("runtime.mallocgc", 0.3, 5)))
	assert.Equal(t, rgbOf(t, flameColor("x", 0.5, 1)), rgbOf(t, flameColor("x", 0.5, 9)), "palettes wrap modulo 8")
	assert.Equal(t, rgbOf(t, flameColor("x", 0.5, 0)), rgbOf(t, flameColor("x", 0.5, -1)), "no palette uses the first")
}

func TestShiftSaturates(t *testing.T) {
	assert.Equal(t, [3]uint8{255, 55, 45}, rgbOf(t, lighten(rgb(250, 10, 0), 45)))
	assert.Equal(t, [3]uint8{0, 45, 145}, rgbOf(t, darken(rgb(50, 100, 200), 55)))
	assert.Equal(t, [3]uint8{128, 128, 128}, rgbOf(t, blend(rgb(0, 0, 0), rgb(255, 255, 255), 0.5)))
}

func TestContrastFG(t *testing.T) {
	assert.Equal(t, darkText, contrastFG(rgb(253, 224, 71)))
	assert.Equal(t, lightText, contrastFG(rgb(30, 58, 138)))
	assert.Equal(t, lightText, contrastFG(rgb(150, 150, 150)))
}
