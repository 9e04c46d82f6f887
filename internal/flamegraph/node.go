// Package flamegraph holds the aggregated call tree and the layout engine
// that turns it into proportional rectangles.
package flamegraph

import "sort"

// RootName is the name of the synthetic root of every Tree.
const RootName = "all"

// Node represents a single frame in the aggregated call tree.
//
// Total is the weight of every stack passing through the node, Self the
// weight of stacks ending exactly here. Total == Self + sum(child.Total)
// holds by construction; nothing recomputes it top-down.
type Node struct {
	Name     string
	Total    int64
	Self     int64
	Children []*Node
}

// Tree wraps the synthetic root whose children are per-thread roots.
type Tree struct {
	Root *Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{Root: &Node{Name: RootName}}
}

// Insert adds one weighted stack, coalescing frames with existing siblings
// of the same name at every level.
func (t *Tree) Insert(stack Stack, weight int64) {
	node := t.Root
	node.Total += weight
	for _, name := range stack {
		child := node.Child(name)
		if child == nil {
			child = &Node{Name: name}
			node.Children = append(node.Children, child)
		}
		child.Total += weight
		node = child
	}
	node.Self += weight
}

// Merge folds other into t. Totals are order independent; child order is
// only meaningful after SortRecursive.
func (t *Tree) Merge(other *Tree) {
	if other == nil || other.Root == nil {
		return
	}
	t.Root.Merge(other.Root)
}

// SortRecursive orders children by descending Total at every level.
func (t *Tree) SortRecursive() {
	t.Root.SortRecursive()
}

// Child returns the direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Merge adds other's values into n, recursing into children matched by
// name and grafting copies of the ones n does not have.
func (n *Node) Merge(other *Node) {
	n.Total += other.Total
	n.Self += other.Self
	for _, oc := range other.Children {
		if child := n.Child(oc.Name); child != nil {
			child.Merge(oc)
			continue
		}
		n.Children = append(n.Children, oc.Clone())
	}
}

// SortRecursive sorts children by descending Total, keeping insertion order
// for ties.
func (n *Node) SortRecursive() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Total > n.Children[j].Total
	})
	for _, child := range n.Children {
		child.SortRecursive()
	}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	c := &Node{Name: n.Name, Total: n.Total, Self: n.Self}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// MaxDepth is the number of edges on the longest path below n.
func (n *Node) MaxDepth() int {
	depth := 0
	for _, child := range n.Children {
		if d := child.MaxDepth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	var visit func(node *Node, depth int)
	visit = func(node *Node, depth int) {
		if !fn(node, depth) {
			return
		}
		for _, child := range node.Children {
			visit(child, depth+1)
		}
	}
	visit(n, 0)
}

// ZoomNode follows names from n downward. It returns nil when a name no
// longer exists, which callers render as an empty view.
func (n *Node) ZoomNode(names []string) *Node {
	node := n
	for _, name := range names {
		node = node.Child(name)
		if node == nil {
			return nil
		}
	}
	return node
}

// NodeAt follows sibling indices from n. ok is false when an index is out of
// range for the current shape of the tree.
func (n *Node) NodeAt(path []int) (node *Node, ok bool) {
	node = n
	for _, idx := range path {
		if idx < 0 || idx >= len(node.Children) {
			return nil, false
		}
		node = node.Children[idx]
	}
	return node, true
}

// PathNames resolves the names along an index path, stopping at the first
// index that is out of range.
func (n *Node) PathNames(path []int) []string {
	names := make([]string, 0, len(path))
	node := n
	for _, idx := range path {
		if idx < 0 || idx >= len(node.Children) {
			break
		}
		node = node.Children[idx]
		names = append(names, node.Name)
	}
	return names
}

// ValidPrefix returns the longest prefix of path that still addresses a node,
// with the first stale index clamped into range when the level has children.
func (n *Node) ValidPrefix(path []int) []int {
	valid := make([]int, 0, len(path))
	node := n
	for _, idx := range path {
		if len(node.Children) == 0 {
			break
		}
		if idx < 0 || idx >= len(node.Children) {
			valid = append(valid, clamp(idx, 0, len(node.Children)-1))
			break
		}
		valid = append(valid, idx)
		node = node.Children[idx]
	}
	return valid
}

// ThreadRank returns the sibling index of a top-level child, or 0 when the
// name is not present.
func (n *Node) ThreadRank(name string) int {
	for i, child := range n.Children {
		if child.Name == name {
			return i
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
