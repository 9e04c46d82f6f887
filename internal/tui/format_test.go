package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1.0K"},
		{1_500, "1.5K"},
		{2_500_000, "2.5M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCount(tt.n))
	}
	assert.Equal(t, "1,234,567", formatTotal(1234567))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"ellipsis", "hello world", 6, "hello…"},
		{"wide runes", "日本語", 3, "日…"},
		{"one column", "hello", 1, "h"},
		{"zero", "hello", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, runewidth.StringWidth(got), max(0, tt.width))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 50.0, percent(1, 2), 1e-9)
	assert.Zero(t, percent(1, 0))
}
