package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
	"github.com/Oloruntobi1/flametop/internal/ingest"
	"github.com/Oloruntobi1/flametop/internal/session"
)

func event(samples uint64, stacks map[string]int64) ingest.Event {
	tree := flamegraph.NewTree()
	for stack, w := range stacks {
		tree.Insert(flamegraph.Stack(strings.Split(stack, ";")), w)
	}
	tree.SortRecursive()
	return ingest.Event{Fragment: tree, Samples: samples, Source: ingest.SourceOTLP}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(context.Background(), Options{ListenAddr: "0.0.0.0:4317"})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
}

// seededModel has T1 (main -> a: 6, b [Native]: 4) and T2 (loop: 3).
func seededModel(t *testing.T) Model {
	t.Helper()
	return update(t, newTestModel(t), ingestMsg{ev: event(3, map[string]int64{
		"T1;main;a":          6,
		"T1;main;b [Native]": 4,
		"T2;loop":            3,
	})})
}

func view(m Model) string {
	return ansi.Strip(m.View())
}

// isQuit runs cmd and reports whether it asks the program to exit.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if isQuit(c) {
				return true
			}
		}
	}
	return false
}

func TestViewBeforeSize(t *testing.T) {
	m := New(context.Background(), Options{})
	assert.Equal(t, "Initializing...", m.View())
}

func TestWaitingScreen(t *testing.T) {
	out := view(newTestModel(t))
	assert.Contains(t, out, subtitle)
	assert.Contains(t, out, "Listening on 0.0.0.0:4317")
	assert.Contains(t, out, waitingMessage)
	assert.Len(t, strings.Split(out, "\n"), 20)
}

func TestWaitingScreenSmallTerminal(t *testing.T) {
	m := update(t, newTestModel(t), tea.WindowSizeMsg{Width: 40, Height: 12})
	assert.Contains(t, view(m), "◆ flametop")
}

func TestIngestMerges(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(ingestMsg{ev: event(3, map[string]int64{"T1;main": 5})})
	m = next.(Model)
	assert.NotNil(t, cmd, "waits for the next event")
	assert.EqualValues(t, 1, m.session.Profiles())

	out := view(m)
	assert.Contains(t, out, "1 profiles")
	assert.Contains(t, out, "3 samples")
	assert.Contains(t, out, "▶ LIVE")
	assert.Contains(t, out, "T1")
	assert.NotContains(t, out, waitingMessage)
}

func TestFreezeKey(t *testing.T) {
	m := update(t, seededModel(t), runes("f"))
	require.True(t, m.session.Frozen())
	assert.Contains(t, m.headerCanvas().plain(0), "FROZEN")

	m = update(t, m, ingestMsg{ev: event(1, map[string]int64{"T3;x": 100})})
	assert.EqualValues(t, 1, m.session.Profiles(), "discarded while frozen")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.session.Frozen())
	assert.Contains(t, m.headerCanvas().plain(0), "LIVE")
}

func TestNavigationKeys(t *testing.T) {
	m := update(t, seededModel(t), runes("j"))
	assert.Equal(t, []int{0}, m.session.CursorPath())
	detail := m.detailCanvas().plain(0)
	assert.Contains(t, detail, "▸ T1")
	assert.Contains(t, detail, "total: 10 (76.9%)")
	assert.Contains(t, detail, "depth: 1")

	m = update(t, m, runes("l"))
	assert.Equal(t, []int{1}, m.session.CursorPath())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, []int{0, 0, 0}, m.session.CursorPath())
	m = update(t, m, runes("l"))
	assert.Contains(t, m.detailCanvas().plain(0), "Native code", "frame type explained")
	m = update(t, m, runes("k"))
	assert.Equal(t, []int{0, 0}, m.session.CursorPath())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"T1", "main"}, m.session.ZoomPath())
	assert.Contains(t, m.detailCanvas().plain(0), "zoomed: main")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"T1"}, m.session.ZoomPath())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, m.session.ZoomPath())
}

func TestCursorMarkerDrawn(t *testing.T) {
	m := update(t, seededModel(t), runes("j"))
	cv := m.flameCanvas(m.width, m.flameHeight())
	rows := rowsContaining(cv, "▸")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0], "T1 sits one row below the root")
}

func TestResetKey(t *testing.T) {
	m := update(t, seededModel(t), runes("j"), runes("r"))
	assert.False(t, m.session.HasData())
	assert.Contains(t, view(m), waitingMessage)
}

func TestSearchFlow(t *testing.T) {
	m := update(t, seededModel(t), runes("/"))
	require.Equal(t, session.Searching, m.session.Mode())
	assert.Contains(t, view(m), "cancel")

	m = update(t, m, runes("t"), runes("2"))
	require.Equal(t, "t2", m.session.Search().Input)
	require.Len(t, m.session.Search().Matches, 1)
	assert.NotEmpty(t, rowsContaining(m.flameCanvas(m.width, m.flameHeight()), " ▸ T2"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, session.Browsing, m.session.Mode())
	assert.Equal(t, []string{"T2"}, m.session.ZoomPath())
	assert.Contains(t, m.detailCanvas().plain(0), "zoomed: T2")
}

func TestSearchKeysDoNotNavigate(t *testing.T) {
	m := update(t, seededModel(t), runes("/"), runes("q"), runes("j"))
	assert.Equal(t, "qj", m.session.Search().Input)
	assert.Empty(t, m.session.CursorPath())
	assert.NotEmpty(t, rowsContaining(m.flameCanvas(m.width, m.flameHeight()), "no matches"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, m.session.Search().Input)
	assert.Len(t, m.session.Search().Matches, 2)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, session.Browsing, m.session.Mode())
	assert.Empty(t, m.session.ZoomPath())
}

func TestQuit(t *testing.T) {
	m := seededModel(t)
	_, cmd := m.Update(runes("q"))
	assert.True(t, isQuit(cmd))

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))

	m = update(t, m, runes("/"))
	_, cmd = m.Update(runes("q"))
	assert.False(t, isQuit(cmd), "q is typed while searching")
}

func TestInfoPanel(t *testing.T) {
	m := update(t, seededModel(t), runes("j"), runes("?"))
	out := view(m)
	assert.Contains(t, out, "T1")
	assert.Contains(t, out, "no frame type tag")
	assert.Contains(t, out, "zoom")

	m = update(t, m, runes("j"))
	assert.Equal(t, []int{0}, m.session.CursorPath(), "closing the panel swallows the key")
	assert.NotContains(t, view(m), "no frame type tag")
}

func TestEmptyFrameMessage(t *testing.T) {
	m := seededModel(t)
	m.frame = session.Frame{}
	assert.NotEmpty(t, rowsContaining(m.flameCanvas(m.width, m.flameHeight()), emptyMessage))
}

func TestTickRearms(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestWaitForEvent(t *testing.T) {
	q := ingest.NewQueue()
	ev := event(1, map[string]int64{"T1;main": 1})
	require.True(t, q.Push(ev))

	msg := waitForEvent(context.Background(), q)()
	got, ok := msg.(ingestMsg)
	require.True(t, ok)
	assert.Equal(t, ev.Samples, got.ev.Samples)

	q.Close()
	_, ok = waitForEvent(context.Background(), q)().(queueClosedMsg)
	assert.True(t, ok)
}
