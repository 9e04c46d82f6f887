package flamegraph

import "math"

// NoPalette lets Layout derive palettes from the top-level children.
const NoPalette = -1

// Rect is the calculated position and size of one node on screen.
type Rect struct {
	X       int
	Width   int
	Depth   int
	Name    string
	Self    int64
	Total   int64
	Palette int
}

// Layout lays out the subtree under root across width columns. Left edges
// accumulate as floats and are rounded per rectangle, so siblings tile
// without gaps or overlaps. Nodes rounding to zero width are dropped with
// their whole subtree.
func Layout(root *Node, width int, forced int) []Rect {
	if root == nil || root.Total <= 0 || width <= 0 {
		return nil
	}
	scale := float64(width) / float64(root.Total)
	var rects []Rect

	var visit func(n *Node, left float64, depth, palette int)
	visit = func(n *Node, left float64, depth, palette int) {
		right := left + float64(n.Total)*scale
		x := int(math.Round(left))
		w := int(math.Round(right)) - x
		if w <= 0 {
			return
		}
		rects = append(rects, Rect{
			X:       x,
			Width:   w,
			Depth:   depth,
			Name:    n.Name,
			Self:    n.Self,
			Total:   n.Total,
			Palette: palette,
		})

		childLeft := left
		for i, child := range n.Children {
			childPalette := palette
			if depth == 0 && forced == NoPalette {
				childPalette = i
			}
			visit(child, childLeft, depth+1, childPalette)
			childLeft += float64(child.Total) * scale
		}
	}

	rootPalette := 0
	if forced != NoPalette {
		rootPalette = forced
	}
	visit(root, 0, 0, rootPalette)
	return rects
}

// CursorRect computes the rectangle of the node addressed by path without
// laying out the rest of the tree. ok is false when an index is out of
// range for the current tree; callers clamp the path rather than fail.
func CursorRect(root *Node, path []int, width int, forced int) (Rect, bool) {
	if root == nil || root.Total <= 0 || width <= 0 {
		return Rect{}, false
	}
	scale := float64(width) / float64(root.Total)
	node := root
	left := 0.0
	palette := 0
	if forced != NoPalette {
		palette = forced
	}

	for step, idx := range path {
		if idx < 0 || idx >= len(node.Children) {
			return Rect{}, false
		}
		for _, sibling := range node.Children[:idx] {
			left += float64(sibling.Total) * scale
		}
		if step == 0 && forced == NoPalette {
			palette = idx
		}
		node = node.Children[idx]
	}

	x := int(math.Round(left))
	w := int(math.Round(left+float64(node.Total)*scale)) - x
	if w < 1 {
		w = 1
	}
	return Rect{
		X:       x,
		Width:   w,
		Depth:   len(path),
		Name:    node.Name,
		Self:    node.Self,
		Total:   node.Total,
		Palette: palette,
	}, true
}

// MaxRectDepth returns the deepest row in rects.
func MaxRectDepth(rects []Rect) int {
	depth := 0
	for _, r := range rects {
		if r.Depth > depth {
			depth = r.Depth
		}
	}
	return depth
}
