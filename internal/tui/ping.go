package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/mmprobe/internal/lifecycle"
	"github.com/muurk/mmprobe/internal/mattermost"
	"github.com/muurk/mmprobe/internal/ping"
	"github.com/muurk/mmprobe/internal/ui"
)

// EventSource yields server events. *mattermost.EventStream satisfies it.
type EventSource interface {
	Next() (mattermost.Event, error)
}

// Events that make the widget check the server again.
var recheckEvents = map[string]bool{
	mattermost.EventHello:       true,
	mattermost.EventConfig:      true,
	mattermost.EventLicense:     true,
	mattermost.EventPluginState: true,
}

type serverEventMsg struct {
	event mattermost.Event
}

type streamClosedMsg struct {
	err error
}

// waitForEvent blocks on the next server event
func waitForEvent(src EventSource) tea.Cmd {
	return func() tea.Msg {
		ev, err := src.Next()
		if err != nil {
			return streamClosedMsg{err: err}
		}
		return serverEventMsg{event: ev}
	}
}

// pingKeyMap defines key bindings for the ping widget
type pingKeyMap struct {
	Ping key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Ping, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Ping, k.Quit}}
}

// PingModel is the interactive server health widget.
type PingModel struct {
	Widget  ping.Component
	Server  string
	Spinner spinner.Model
	Help    help.Model
	Keys    pingKeyMap

	// Events is the optional server event stream; nil when not watching.
	Events    EventSource
	LastEvent string
	StreamErr string

	Renders int

	Width  int
	Height int
}

// NewPingModel creates the widget screen. events may be nil.
func NewPingModel(widget ping.Component, server string, events EventSource) PingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return PingModel{
		Widget:  widget,
		Server:  server,
		Spinner: s,
		Help:    help.New(),
		Events:  events,
		Keys: pingKeyMap{
			Ping: key.NewBinding(
				key.WithKeys("p", "enter", " "),
				key.WithHelp("p/enter", "ping"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init starts listening for server events when watching
func (m PingModel) Init() tea.Cmd {
	if m.Events == nil {
		return nil
	}
	return waitForEvent(m.Events)
}

// Update handles key presses, server events, and request completions
func (m PingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Ping):
			return m.apply(ping.Trigger())
		}
		return m, nil

	case serverEventMsg:
		m.LastEvent = msg.event.Event
		next := waitForEvent(m.Events)
		if !recheckEvents[msg.event.Event] {
			return m, next
		}
		var cmd tea.Cmd
		m, cmd = m.apply(ping.Trigger())
		return m, tea.Batch(cmd, next)

	case streamClosedMsg:
		if !errors.Is(msg.err, mattermost.ErrStreamClosed) {
			m.StreamErr = msg.err.Error()
		}
		m.Events = nil
		return m, nil

	case spinner.TickMsg:
		if !m.Widget.Model().RequestInFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case lifecycle.Intent:
		return m.apply(msg)
	}

	return m, nil
}

func (m PingModel) apply(in lifecycle.Intent) (PingModel, tea.Cmd) {
	widget, render, cmd := m.Widget.Update(in)
	m.Widget = widget
	if render {
		m.Renders++
	}
	if cmd != nil {
		cmd = tea.Batch(cmd, m.Spinner.Tick)
	}
	return m, cmd
}

// View renders the widget
func (m PingModel) View() string {
	state := m.Widget.Model()

	var b strings.Builder
	b.WriteString(header("Server ping", m.Server))
	b.WriteString("\n\n")

	b.WriteString(button("Ping", !state.RequestInFlight))
	b.WriteString("  ")
	status := ping.Status(state)
	switch {
	case state.RequestInFlight:
		b.WriteString(m.Spinner.View() + PendingLineStyle.Render(" "+status))
	case status == "healthy":
		b.WriteString(SuccessLineStyle.Render(status))
	case state.HasError() || state.HasResponse():
		b.WriteString(ErrorLineStyle.Render(status))
	default:
		b.WriteString(LabelStyle.Render(status))
	}
	b.WriteString("\n")

	if state.LastResponse != nil {
		b.WriteString("\n")
		b.WriteString(VersionTable(*state.LastResponse))
		b.WriteString("\n")
	}
	if state.LastError != "" {
		b.WriteString("\n")
		b.WriteString(ErrorLineStyle.Render("Error: " + state.LastError))
		b.WriteString("\n")
	}

	if m.Events != nil || m.LastEvent != "" || m.StreamErr != "" {
		b.WriteString("\n")
		b.WriteString(m.watchLine())
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.Help.View(m.Keys)))
	return FrameStyle.Render(b.String())
}

func (m PingModel) watchLine() string {
	switch {
	case m.StreamErr != "":
		return ErrorLineStyle.Render("Event stream lost: " + m.StreamErr)
	case m.Events == nil:
		return LabelStyle.Render("Event stream closed")
	case m.LastEvent == "":
		return LabelStyle.Render("Watching server events...")
	default:
		return LabelStyle.Render("Last event: ") + ValueStyle.Render(m.LastEvent)
	}
}

// VersionTable renders the client version hints of a ping response
func VersionTable(resp mattermost.PingResponse) string {
	rows := make([][]string, 0, 3)
	for _, v := range resp.ClientVersions() {
		rows = append(rows, []string{v.Platform, orDash(v.Latest), orDash(v.Minimum)})
	}
	return ui.Table([]string{"Client", "Latest", "Minimum"}, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
