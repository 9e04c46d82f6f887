package flamegraph

import (
	"sort"
	"strings"
)

type values struct {
	Total, Self int64
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitStack(s string) Stack {
	return Stack(strings.Split(s, ";"))
}

// flatten maps every node path to its values, ignoring child order.
func flatten(root *Node) map[string]values {
	out := make(map[string]values)
	var visit func(n *Node, prefix string)
	visit = func(n *Node, prefix string) {
		path := prefix + "/" + n.Name
		out[path] = values{Total: n.Total, Self: n.Self}
		for _, c := range n.Children {
			visit(c, path)
		}
	}
	visit(root, "")
	return out
}

// flattenOrdered lists node names depth first, preserving child order.
func flattenOrdered(root *Node) []string {
	var out []string
	root.Walk(func(n *Node, depth int) bool {
		out = append(out, strings.Repeat(" ", depth)+n.Name)
		return true
	})
	return out
}
