package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
)

func threads(t *testing.T) *Session {
	t.Helper()
	s := New()
	tree := flamegraph.NewTree()
	tree.Insert(flamegraph.Stack{"worker-1", "main"}, 5)
	tree.Insert(flamegraph.Stack{"worker-2", "main"}, 4)
	tree.Insert(flamegraph.Stack{"io-thread", "poll"}, 3)
	tree.SortRecursive()
	s.tree = tree
	return s
}

func TestSearchFilters(t *testing.T) {
	s := threads(t)
	s.OpenSearch()
	require.Equal(t, Searching, s.Mode())

	assert.Equal(t, []Match{
		{Name: "worker-1", Index: 0},
		{Name: "worker-2", Index: 1},
		{Name: "io-thread", Index: 2},
	}, s.Search().Matches)

	for _, r := range "WORK" {
		s.SearchType(r)
	}
	assert.Equal(t, "WORK", s.Search().Input)
	assert.Equal(t, []Match{
		{Name: "worker-1", Index: 0},
		{Name: "worker-2", Index: 1},
	}, s.Search().Matches)

	s.SearchType('x')
	assert.Empty(t, s.Search().Matches)
	s.SearchBackspace()
	assert.Len(t, s.Search().Matches, 2)
}

func TestSearchCursor(t *testing.T) {
	s := threads(t)
	s.OpenSearch()

	s.SearchUp()
	assert.Equal(t, 0, s.Search().Cursor)
	s.SearchDown()
	s.SearchDown()
	s.SearchDown()
	assert.Equal(t, 2, s.Search().Cursor, "clamped to the last match")

	s.SearchType('o')
	assert.Equal(t, 0, s.Search().Cursor, "typing resets the cursor")
	s.SearchDown()
	s.SearchBackspace()
	assert.Equal(t, 0, s.Search().Cursor, "backspace resets the cursor")

	s.SearchBackspace()
	assert.Equal(t, "", s.Search().Input)
}

func TestSearchBackspaceRemovesRune(t *testing.T) {
	s := threads(t)
	s.OpenSearch()
	s.SearchType('é')
	s.SearchType('ü')
	s.SearchBackspace()
	assert.Equal(t, "é", s.Search().Input)
}

func TestConfirmSearchReplacesZoom(t *testing.T) {
	s := threads(t)
	s.Descend()
	s.Descend()
	s.ZoomIn()
	require.Equal(t, []string{"worker-1", "main"}, s.ZoomPath())

	s.OpenSearch()
	s.SearchType('i')
	s.SearchType('o')
	s.ConfirmSearch()

	assert.Equal(t, Browsing, s.Mode())
	assert.Nil(t, s.Search())
	assert.Equal(t, []string{"io-thread"}, s.ZoomPath())
	assert.Empty(t, s.CursorPath())
	assert.Zero(t, s.Scroll())
}

func TestConfirmSearchWithoutMatches(t *testing.T) {
	s := threads(t)
	s.OpenSearch()
	s.SearchType('z')
	s.ConfirmSearch()
	assert.Equal(t, Browsing, s.Mode())
	assert.Empty(t, s.ZoomPath())
}

func TestCancelSearchKeepsNavigation(t *testing.T) {
	s := threads(t)
	s.Descend()
	s.Next()

	s.OpenSearch()
	s.SearchType('i')
	s.CancelSearch()

	assert.Equal(t, Browsing, s.Mode())
	assert.Equal(t, []int{1}, s.CursorPath())
	assert.Empty(t, s.ZoomPath())

	s.OpenSearch()
	assert.Equal(t, "", s.Search().Input, "a new search starts empty")
}

func TestSearchOnEmptyTree(t *testing.T) {
	s := New()
	s.OpenSearch()
	assert.Empty(t, s.Search().Matches)
	_, ok := s.Search().Selected()
	assert.False(t, ok)
	s.SearchDown()
	assert.Equal(t, 0, s.Search().Cursor)
}
