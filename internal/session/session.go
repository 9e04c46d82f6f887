// Package session holds the aggregated tree together with the interactive
// navigation state: zoom, cursor, scroll and thread search.
//
// A Session is owned by a single goroutine, the UI loop. Only the freeze
// flag may be read or toggled from elsewhere.
package session

import (
	"sync/atomic"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
	"github.com/Oloruntobi1/flametop/internal/ingest"
)

// Mode routes key input either to browsing or to the search overlay.
type Mode int

const (
	Browsing Mode = iota
	Searching
)

func (m Mode) String() string {
	if m == Searching {
		return "searching"
	}
	return "browsing"
}

// Selection summarizes the node under the cursor for the detail bar.
type Selection struct {
	Name    string
	Self    int64
	Total   int64
	Percent float64
	Depth   int
}

type Session struct {
	tree   *flamegraph.Tree
	frozen atomic.Bool

	profiles uint64
	samples  uint64

	zoomPath   []string
	cursorPath []int
	scroll     int
	selection  Selection

	// search is non-nil only while Searching.
	search *Search
}

// New returns a session with an empty tree.
func New() *Session {
	return &Session{tree: flamegraph.NewTree()}
}

func (s *Session) Tree() *flamegraph.Tree { return s.tree }
func (s *Session) Profiles() uint64       { return s.profiles }
func (s *Session) Samples() uint64        { return s.samples }
func (s *Session) Scroll() int            { return s.scroll }
func (s *Session) Selection() Selection   { return s.selection }
func (s *Session) Frozen() bool           { return s.frozen.Load() }

// HasData reports whether anything has been merged since the last reset.
func (s *Session) HasData() bool {
	return s.profiles > 0
}

func (s *Session) ZoomPath() []string {
	return append([]string(nil), s.zoomPath...)
}

func (s *Session) CursorPath() []int {
	return append([]int(nil), s.cursorPath...)
}

func (s *Session) Mode() Mode {
	if s.search != nil {
		return Searching
	}
	return Browsing
}

// Search returns the active search, or nil while Browsing.
func (s *Session) Search() *Search {
	return s.search
}

// ToggleFreeze flips the freeze flag. It is safe to call from any goroutine.
func (s *Session) ToggleFreeze() {
	for {
		old := s.frozen.Load()
		if s.frozen.CompareAndSwap(old, !old) {
			return
		}
	}
}

// Merge folds an ingest event into the tree. While frozen the event is
// discarded and the counters are left alone. It reports whether the event
// was applied.
func (s *Session) Merge(ev ingest.Event) bool {
	if s.frozen.Load() {
		return false
	}
	s.tree.Merge(ev.Fragment)
	s.tree.SortRecursive()
	s.profiles++
	s.samples += ev.Samples
	return true
}

// Reset drops all aggregated data and navigation state.
func (s *Session) Reset() {
	s.tree = flamegraph.NewTree()
	s.profiles = 0
	s.samples = 0
	s.zoomPath = nil
	s.cursorPath = nil
	s.scroll = 0
	s.selection = Selection{}
}

// ZoomRoot is the node currently rendered as root, or nil when the zoom
// path names a node that no longer exists.
func (s *Session) ZoomRoot() *flamegraph.Node {
	return s.tree.Root.ZoomNode(s.zoomPath)
}

// Descend moves the cursor to the first child of the current node.
func (s *Session) Descend() {
	zr := s.ZoomRoot()
	if zr == nil {
		return
	}
	node, ok := zr.NodeAt(s.cursorPath)
	if !ok || len(node.Children) == 0 {
		return
	}
	s.cursorPath = append(s.cursorPath, 0)
}

// Ascend moves the cursor to the parent, stopping at the zoom root.
func (s *Session) Ascend() {
	if len(s.cursorPath) > 0 {
		s.cursorPath = s.cursorPath[:len(s.cursorPath)-1]
	}
}

// Prev moves the cursor to the previous sibling.
func (s *Session) Prev() {
	if n := len(s.cursorPath); n > 0 && s.cursorPath[n-1] > 0 {
		s.cursorPath[n-1]--
	}
}

// Next moves the cursor to the next sibling.
func (s *Session) Next() {
	n := len(s.cursorPath)
	if n == 0 {
		return
	}
	zr := s.ZoomRoot()
	if zr == nil {
		return
	}
	parent, ok := zr.NodeAt(s.cursorPath[:n-1])
	if !ok {
		return
	}
	if s.cursorPath[n-1]+1 < len(parent.Children) {
		s.cursorPath[n-1]++
	}
}

// ZoomIn makes the node under the cursor the new zoom root.
func (s *Session) ZoomIn() {
	if len(s.cursorPath) == 0 {
		return
	}
	if zr := s.ZoomRoot(); zr != nil {
		s.zoomPath = append(s.zoomPath, zr.PathNames(s.cursorPath)...)
	}
	s.cursorPath = nil
	s.scroll = 0
}

// ZoomOut pops one level of zoom.
func (s *Session) ZoomOut() {
	if len(s.zoomPath) == 0 {
		return
	}
	s.zoomPath = s.zoomPath[:len(s.zoomPath)-1]
	s.cursorPath = nil
	s.scroll = 0
}
