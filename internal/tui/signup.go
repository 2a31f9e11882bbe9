package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/mmprobe/internal/lifecycle"
	"github.com/muurk/mmprobe/internal/signup"
)

// signupKeyMap defines key bindings for the signup form
type signupKeyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k signupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k signupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Quit}}
}

// SignupModel is the interactive signup form.
type SignupModel struct {
	Form    signup.Component
	Server  string
	Input   textinput.Model
	Spinner spinner.Model
	Help    help.Model
	Keys    signupKeyMap

	// Renders counts transitions that asked for a redraw.
	Renders int

	Width  int
	Height int
}

// NewSignupModel creates the form screen for form, which posts to server.
func NewSignupModel(form signup.Component, server string) SignupModel {
	input := textinput.New()
	input.Placeholder = "you@example.com"
	input.Prompt = "Email: "
	input.CharLimit = 254
	input.Width = 40
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return SignupModel{
		Form:    form,
		Server:  server,
		Input:   input,
		Spinner: s,
		Help:    help.New(),
		Keys: signupKeyMap{
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "sign up"),
			),
			Quit: key.NewBinding(
				key.WithKeys("esc", "ctrl+c"),
				key.WithHelp("esc", "quit"),
			),
		},
	}
}

// Init starts the cursor blinking
func (m SignupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses, input edits, and request completions
func (m SignupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Submit):
			return m.apply(signup.Submit())
		}

		before := m.Input.Value()
		var inputCmd tea.Cmd
		m.Input, inputCmd = m.Input.Update(msg)
		if m.Input.Value() == before {
			return m, inputCmd
		}
		next, cmd := m.apply(signup.EmailChanged(m.Input.Value()))
		return next, tea.Batch(inputCmd, cmd)

	case spinner.TickMsg:
		if !m.Form.Model().RequestInFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case lifecycle.Intent:
		return m.apply(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// apply feeds one intent to the form and starts the spinner when a request
// goes out.
func (m SignupModel) apply(in lifecycle.Intent) (SignupModel, tea.Cmd) {
	form, render, cmd := m.Form.Update(in)
	m.Form = form
	if render {
		m.Renders++
	}
	if cmd != nil {
		cmd = tea.Batch(cmd, m.Spinner.Tick)
	}
	return m, cmd
}

// View renders the form
func (m SignupModel) View() string {
	state := m.Form.Model()

	var b strings.Builder
	b.WriteString(header("Sign up", m.Server))
	b.WriteString("\n\n")
	b.WriteString(m.Input.View())
	b.WriteString("\n\n")

	if state.RequestInFlight {
		b.WriteString(button("Sign up", false))
		b.WriteString("  " + m.Spinner.View() + PendingLineStyle.Render(" Signing up..."))
	} else {
		b.WriteString(button("Sign up", true))
	}
	b.WriteString("\n\n")
	b.WriteString(ValueStyle.Render(signup.EmailLine(state)))
	b.WriteString("\n")

	if state.LastResponse != nil {
		b.WriteString(SuccessLineStyle.Render("Server status: " + state.LastResponse.Status))
		b.WriteString("\n")
	}
	if state.LastError != "" {
		b.WriteString(ErrorLineStyle.Render("Error: " + state.LastError))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.Help.View(m.Keys)))
	return FrameStyle.Render(b.String())
}
