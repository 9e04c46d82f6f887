package otlp

import "github.com/Oloruntobi1/flametop/internal/flamegraph"

// BuildFragment aggregates every resolvable sample of req into a sorted
// tree. The count excludes dropped samples.
func BuildFragment(req *ExportRequest) (*flamegraph.Tree, uint64) {
	tree := flamegraph.NewTree()
	var samples uint64
	for _, rs := range Resolve(req) {
		tree.Insert(rs.Stack, rs.Weight)
		samples++
	}
	tree.SortRecursive()
	return tree, samples
}
