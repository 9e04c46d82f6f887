package flamegraph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutTree() *Tree {
	tree := buildTree(map[string]int64{
		"t1;main;work":  7,
		"t1;main;idle":  3,
		"t1;gc":         1,
		"t2;loop":       5,
		"t2;loop;inner": 2,
		"t3;tiny":       1,
	})
	tree.SortRecursive()
	return tree
}

func TestLayoutEmpty(t *testing.T) {
	assert.Empty(t, Layout(NewTree().Root, 80, NoPalette))
	assert.Empty(t, Layout(nil, 80, NoPalette))
	assert.Empty(t, Layout(layoutTree().Root, 0, NoPalette))
}

func TestLayoutTiling(t *testing.T) {
	tree := layoutTree()
	for _, width := range []int{1, 7, 13, 40, 79, 80, 211} {
		rects := Layout(tree.Root, width, NoPalette)
		require.NotEmpty(t, rects)

		byDepth := map[int][]Rect{}
		for _, r := range rects {
			assert.GreaterOrEqual(t, r.Width, 1)
			byDepth[r.Depth] = append(byDepth[r.Depth], r)
		}
		for depth, row := range byDepth {
			sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
			for i := 1; i < len(row); i++ {
				assert.GreaterOrEqualf(t, row[i].X, row[i-1].X+row[i-1].Width,
					"width %d depth %d: %q overlaps %q", width, depth, row[i].Name, row[i-1].Name)
			}
		}

		assert.Equal(t, 0, rects[0].X)
		assert.Equal(t, width, rects[0].Width)
		sum := 0
		for _, r := range byDepth[1] {
			sum += r.Width
		}
		assert.InDeltaf(t, width, sum, 1, "width %d: top-level widths must tile the row", width)
	}
}

func TestLayoutOmitsZeroWidthSubtrees(t *testing.T) {
	tree := NewTree()
	tree.Insert(Stack{"big", "a"}, 1000)
	tree.Insert(Stack{"small", "deep", "deeper"}, 1)
	tree.SortRecursive()

	rects := Layout(tree.Root, 10, NoPalette)
	for _, r := range rects {
		assert.NotEqual(t, "small", r.Name)
		assert.NotEqual(t, "deep", r.Name)
		assert.NotEqual(t, "deeper", r.Name)
	}
}

func TestLayoutPalettes(t *testing.T) {
	tree := layoutTree()
	rects := Layout(tree.Root, 100, NoPalette)

	palettes := map[string]int{}
	for _, r := range rects {
		palettes[r.Name] = r.Palette
	}
	assert.Equal(t, 0, palettes[RootName])
	assert.Equal(t, 0, palettes["t1"])
	assert.Equal(t, 0, palettes["work"])
	assert.Equal(t, 1, palettes["t2"])
	assert.Equal(t, 1, palettes["inner"])
	assert.Equal(t, 2, palettes["t3"])

	zoomed := tree.Root.ZoomNode([]string{"t2"})
	for _, r := range Layout(zoomed, 100, 1) {
		assert.Equalf(t, 1, r.Palette, "forced palette must cover %q", r.Name)
	}
}

func TestLayoutDepthRelativeToRoot(t *testing.T) {
	tree := layoutTree()
	main := tree.Root.ZoomNode([]string{"t1", "main"})
	rects := Layout(main, 50, 0)
	require.NotEmpty(t, rects)
	assert.Equal(t, "main", rects[0].Name)
	assert.Equal(t, 0, rects[0].Depth)
	assert.Equal(t, 1, MaxRectDepth(rects))
}

func TestCursorRectMatchesLayout(t *testing.T) {
	tree := layoutTree()
	const width = 97
	rects := Layout(tree.Root, width, NoPalette)

	paths := [][]int{{}, {0}, {0, 0}, {0, 0, 1}, {1}, {1, 0, 0}, {2, 0}}
	for _, path := range paths {
		cr, ok := CursorRect(tree.Root, path, width, NoPalette)
		require.Truef(t, ok, "path %v", path)
		node, _ := tree.Root.NodeAt(path)
		assert.Equal(t, node.Name, cr.Name)
		assert.Equal(t, len(path), cr.Depth)

		found := false
		for _, r := range rects {
			if r.Depth == cr.Depth && r.X == cr.X {
				assert.Equal(t, cr.Name, r.Name)
				assert.Equal(t, cr.Width, r.Width)
				assert.Equal(t, cr.Palette, r.Palette)
				found = true
			}
		}
		assert.Truef(t, found, "cursor rect for %v not in layout", path)
	}
}

func TestCursorRectStalePath(t *testing.T) {
	tree := layoutTree()
	_, ok := CursorRect(tree.Root, []int{3}, 80, NoPalette)
	assert.False(t, ok)
	_, ok = CursorRect(tree.Root, []int{0, 0, 0, 0}, 80, NoPalette)
	assert.False(t, ok)
	_, ok = CursorRect(NewTree().Root, nil, 80, NoPalette)
	assert.False(t, ok)
}

func TestCursorRectMinimumWidth(t *testing.T) {
	tree := NewTree()
	tree.Insert(Stack{"big"}, 1000)
	tree.Insert(Stack{"small"}, 1)
	tree.SortRecursive()

	cr, ok := CursorRect(tree.Root, []int{1}, 10, NoPalette)
	require.True(t, ok)
	assert.Equal(t, 1, cr.Width)
	assert.Equal(t, 1, cr.Palette)
}
