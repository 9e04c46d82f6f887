// Package tui is the terminal front end: a bubbletea program that owns the
// session, folds ingest events into it and draws the live flame graph.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/Oloruntobi1/flametop/internal/ingest"
	"github.com/Oloruntobi1/flametop/internal/session"
)

const (
	defaultName = "flametop"
	defaultTick = 100 * time.Millisecond

	// header, detail bar and footer
	chromeRows = 3
)

type Options struct {
	// Name is shown in the header. Defaults to "flametop".
	Name       string
	ListenAddr string
	// Tick is the redraw interval.
	Tick    time.Duration
	Queue   *ingest.Queue
	Session *session.Session
	Log     logrus.FieldLogger
}

// Model is the bubbletea model. It is the only code that mutates the
// session.
type Model struct {
	ctx     context.Context
	name    string
	addr    string
	tick    time.Duration
	queue   *ingest.Queue
	session *session.Session
	log     logrus.FieldLogger

	keys       keyMap
	searchKeys searchKeyMap
	help       help.Model
	spinner    spinner.Model
	styles     Styles

	width, height int
	ready         bool
	showInfo      bool
	frame         session.Frame
}

// New builds the model. Events are read from opts.Queue until ctx is done
// or the queue is closed.
func New(ctx context.Context, opts Options) Model {
	if opts.Name == "" {
		opts.Name = defaultName
	}
	if opts.Tick <= 0 {
		opts.Tick = defaultTick
	}
	if opts.Session == nil {
		opts.Session = session.New()
	}
	if opts.Queue == nil {
		opts.Queue = ingest.NewQueue()
	}
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}

	styles := defaultStyles()
	return Model{
		ctx:        ctx,
		name:       opts.Name,
		addr:       opts.ListenAddr,
		tick:       opts.Tick,
		queue:      opts.Queue,
		session:    opts.Session,
		log:        opts.Log.WithField("component", "tui"),
		keys:       defaultKeyMap(),
		searchKeys: defaultSearchKeyMap(),
		help:       styles.helpModel(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		styles:     styles,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickerCmd(m.tick), waitForEvent(m.ctx, m.queue), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = max(0, msg.Width-m.styles.Footer.GetHorizontalFrameSize())
		m.ready = true

	case tickMsg:
		cmds = append(cmds, tickerCmd(m.tick))

	case ingestMsg:
		if m.session.Merge(msg.ev) {
			m.log.WithFields(logrus.Fields{
				"source":  msg.ev.Source,
				"samples": msg.ev.Samples,
			}).Trace("merged profile")
		} else {
			m.log.WithField("source", msg.ev.Source).Debug("frozen, profile discarded")
		}
		cmds = append(cmds, waitForEvent(m.ctx, m.queue))

	case queueClosedMsg:
		m.log.WithError(msg.err).Debug("ingest stopped")

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)
	}

	m.reconcile()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showInfo {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.showInfo = false
		return m, nil
	}
	if m.session.Mode() == session.Searching {
		return m.handleSearchKey(msg)
	}

	s := m.session
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.log.Debug("quit requested")
		return m, tea.Quit
	case key.Matches(msg, m.keys.Freeze):
		s.ToggleFreeze()
		m.log.WithField("frozen", s.Frozen()).Debug("freeze toggled")
	case key.Matches(msg, m.keys.Down):
		s.Descend()
	case key.Matches(msg, m.keys.Up):
		s.Ascend()
	case key.Matches(msg, m.keys.Left):
		s.Prev()
	case key.Matches(msg, m.keys.Right):
		s.Next()
	case key.Matches(msg, m.keys.ZoomIn):
		s.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		s.ZoomOut()
	case key.Matches(msg, m.keys.Search):
		s.OpenSearch()
	case key.Matches(msg, m.keys.Reset):
		s.Reset()
		m.log.Debug("reset")
	case key.Matches(msg, m.keys.Info):
		m.showInfo = true
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	s := m.session
	switch {
	case key.Matches(msg, m.searchKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.searchKeys.Cancel):
		s.CancelSearch()
	case key.Matches(msg, m.searchKeys.Confirm):
		s.ConfirmSearch()
	case key.Matches(msg, m.searchKeys.Up):
		s.SearchUp()
	case key.Matches(msg, m.searchKeys.Down):
		s.SearchDown()
	case key.Matches(msg, m.searchKeys.Backspace):
		s.SearchBackspace()
	case msg.Type == tea.KeySpace:
		s.SearchType(' ')
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			s.SearchType(r)
		}
	}
	return m, nil
}

func (m Model) flameHeight() int {
	return max(0, m.height-chromeRows)
}

// reconcile lays out the current tree for the flame area. It runs after
// every message so the cursor and scroll always match what View draws.
func (m *Model) reconcile() {
	if !m.ready {
		return
	}
	m.frame = m.session.Reconcile(m.width, m.flameHeight())
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.session.Tree().Root.Total == 0 {
		return m.waitingCanvas().String()
	}
	if m.showInfo {
		return m.infoView()
	}

	var footer string
	if m.session.Mode() == session.Searching {
		footer = m.help.ShortHelpView(m.searchKeys.ShortHelp())
	} else {
		footer = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	return m.headerCanvas().String() + "\n" +
		m.detailCanvas().String() + "\n" +
		m.flameCanvas(m.width, m.flameHeight()).String() + "\n" +
		m.styles.Footer.Render(footer)
}

func matchNames(s *session.Search) []string {
	names := make([]string, len(s.Matches))
	for i, match := range s.Matches {
		names[i] = match.Name
	}
	return names
}
