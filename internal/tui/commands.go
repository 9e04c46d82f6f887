package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Oloruntobi1/flametop/internal/ingest"
)

type tickMsg time.Time

// ingestMsg carries one event from the queue into the update loop.
type ingestMsg struct {
	ev ingest.Event
}

// queueClosedMsg means no further events will arrive.
type queueClosedMsg struct {
	err error
}

// tickerCmd sends a tickMsg at a given interval
func tickerCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the queue in the background and delivers the next
// event. It is re-armed after every ingestMsg.
func waitForEvent(ctx context.Context, q *ingest.Queue) tea.Cmd {
	return func() tea.Msg {
		ev, err := q.Next(ctx)
		if err != nil {
			return queueClosedMsg{err: err}
		}
		return ingestMsg{ev: ev}
	}
}
