package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmproxy/internal/session"
)

// StatusFetcher produces a fresh session status snapshot.
type StatusFetcher func(ctx context.Context) (session.AuthStatus, error)

// keyMap defines the [key.Binding] mapping for the watch view.
type keyMap struct {
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.refresh, k.quit}}
}

// WatchModel is the auth watch view: a session status snapshot refreshed on
// an interval, with a spinner while a fetch is in flight.
type WatchModel struct {
	ctx      context.Context
	fetch    StatusFetcher
	interval time.Duration

	status   session.AuthStatus
	fetched  bool
	fetching bool
	err      error

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewWatchModel creates the watch view polling fetch every interval.
func NewWatchModel(ctx context.Context, fetch StatusFetcher, interval time.Duration) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title

	return WatchModel{
		ctx:      ctx,
		fetch:    fetch,
		interval: interval,
		spinner:  sp,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m WatchModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.fetch(m.ctx)
		return statusFetchedMsg(status, err)
	}
}

func (m WatchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg()
	})
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			if !m.fetching {
				m.fetching = true
				return m, m.fetchCmd()
			}
		}
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgStatusFetched:
			data := msg.data.(struct {
				status session.AuthStatus
				err    error
			})
			m.fetching = false
			m.fetched = true
			m.status = data.status
			m.err = data.err
			return m, m.tickCmd()

		case MsgTick:
			if !m.fetching {
				m.fetching = true
				return m, m.fetchCmd()
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m WatchModel) View() string {
	var body string

	switch {
	case m.err != nil:
		body = styles.err.Render("status check failed: " + m.err.Error())
	case !m.fetched:
		body = m.spinner.View() + " checking session..."
	default:
		body = RenderAuthStatus(m.status)
		if m.fetching {
			body += "\n" + m.spinner.View() + " refreshing..."
		}
	}

	return body + "\n\n" + m.help.View(m.keys) + "\n"
}
