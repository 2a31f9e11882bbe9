package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/mmprobe/internal/ping"
	"github.com/muurk/mmprobe/internal/signup"
)

// RunSignup runs the signup form until the user quits and returns the final
// form state.
func RunSignup(form signup.Component, server string, opts ...tea.ProgramOption) (signup.Model, error) {
	final, err := tea.NewProgram(NewSignupModel(form, server), opts...).Run()
	if err != nil {
		return signup.Model{}, fmt.Errorf("signup screen: %w", err)
	}
	m, ok := final.(SignupModel)
	if !ok {
		return signup.Model{}, fmt.Errorf("signup screen: unexpected model %T", final)
	}
	return m.Form.Model(), nil
}

// RunPing runs the ping widget until the user quits and returns the final
// widget state. events may be nil.
func RunPing(widget ping.Component, server string, events EventSource, opts ...tea.ProgramOption) (ping.Model, error) {
	final, err := tea.NewProgram(NewPingModel(widget, server, events), opts...).Run()
	if err != nil {
		return ping.Model{}, fmt.Errorf("ping screen: %w", err)
	}
	m, ok := final.(PingModel)
	if !ok {
		return ping.Model{}, fmt.Errorf("ping screen: unexpected model %T", final)
	}
	return m.Widget.Model(), nil
}
