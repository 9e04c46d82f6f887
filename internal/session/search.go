package session

import "strings"

// Match is a top-level thread matching the search input. Index is its
// sibling index under the absolute root.
type Match struct {
	Name  string
	Index int
}

// Search is the state of an open search overlay.
type Search struct {
	Input   string
	Matches []Match
	Cursor  int
}

// Selected returns the match under the search cursor.
func (s *Search) Selected() (Match, bool) {
	if s == nil || s.Cursor < 0 || s.Cursor >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[s.Cursor], true
}

// OpenSearch switches to Searching with an empty query, which matches
// every thread.
func (s *Session) OpenSearch() {
	s.search = &Search{}
	s.refreshMatches()
}

// SearchType appends r to the query.
func (s *Session) SearchType(r rune) {
	if s.search == nil {
		return
	}
	s.search.Input += string(r)
	s.search.Cursor = 0
	s.refreshMatches()
}

// SearchBackspace removes the last rune of the query.
func (s *Session) SearchBackspace() {
	if s.search == nil {
		return
	}
	if in := []rune(s.search.Input); len(in) > 0 {
		s.search.Input = string(in[:len(in)-1])
	}
	s.search.Cursor = 0
	s.refreshMatches()
}

func (s *Session) SearchUp() {
	if s.search != nil && s.search.Cursor > 0 {
		s.search.Cursor--
	}
}

func (s *Session) SearchDown() {
	if s.search != nil && s.search.Cursor+1 < len(s.search.Matches) {
		s.search.Cursor++
	}
}

// ConfirmSearch zooms to the selected thread, replacing any zoom, and
// returns to Browsing. With no matches it only closes the overlay.
func (s *Session) ConfirmSearch() {
	if m, ok := s.search.Selected(); ok {
		s.zoomPath = []string{m.Name}
		s.cursorPath = nil
		s.scroll = 0
	}
	s.search = nil
}

// CancelSearch closes the overlay leaving zoom and cursor untouched.
func (s *Session) CancelSearch() {
	s.search = nil
}

func (s *Session) refreshMatches() {
	query := strings.ToLower(s.search.Input)
	s.search.Matches = s.search.Matches[:0]
	for i, child := range s.tree.Root.Children {
		if query == "" || strings.Contains(strings.ToLower(child.Name), query) {
			s.search.Matches = append(s.search.Matches, Match{Name: child.Name, Index: i})
		}
	}
}
