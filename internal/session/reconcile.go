package session

import "github.com/Oloruntobi1/flametop/internal/flamegraph"

// Frame is everything the renderer needs for one draw.
type Frame struct {
	Root      *flamegraph.Node
	Rects     []flamegraph.Rect
	Cursor    flamegraph.Rect
	HasCursor bool
	MaxDepth  int
	Scroll    int
	RootTotal int64
	Palette   int
}

// Empty reports whether there is nothing to draw under the zoom root.
func (f Frame) Empty() bool {
	return f.Root == nil || f.RootTotal <= 0
}

// Reconcile lays out the zoomed subtree for a width x height flame area and
// brings scroll and selection in line with the current tree shape. It must
// run before every draw since merges reorder children under the cursor.
func (s *Session) Reconcile(width, height int) Frame {
	zr := s.ZoomRoot()
	if zr == nil || zr.Total <= 0 || width <= 0 || height <= 0 {
		return Frame{Root: zr, Scroll: s.scroll, Palette: flamegraph.NoPalette}
	}

	palette := flamegraph.NoPalette
	if len(s.zoomPath) > 0 {
		palette = s.tree.Root.ThreadRank(s.zoomPath[0])
	}

	rects := flamegraph.Layout(zr, width, palette)
	maxDepth := flamegraph.MaxRectDepth(rects)

	cursorDepth := len(s.cursorPath)
	if cursorDepth < s.scroll {
		s.scroll = cursorDepth
	}
	if cursorDepth >= s.scroll+height {
		s.scroll = cursorDepth - height + 1
	}
	s.scroll = max(0, min(s.scroll, max(0, maxDepth-height+1)))

	frame := Frame{
		Root:      zr,
		Rects:     rects,
		MaxDepth:  maxDepth,
		RootTotal: zr.Total,
		Palette:   palette,
	}

	if cr, ok := flamegraph.CursorRect(zr, s.cursorPath, width, palette); ok {
		s.selection = Selection{
			Name:    cr.Name,
			Self:    cr.Self,
			Total:   cr.Total,
			Percent: float64(cr.Total) / float64(zr.Total) * 100,
			Depth:   cr.Depth,
		}
		frame.Cursor = cr
		frame.HasCursor = true
	} else {
		// Keep the last selection on screen and clamp the path so the
		// next frame resolves.
		s.cursorPath = zr.ValidPrefix(s.cursorPath)
	}

	frame.Scroll = s.scroll
	return frame
}
