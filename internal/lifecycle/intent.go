package lifecycle

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Intent is an event that may change a Model. The set is closed: only the
// types in this package implement it.
//
// Every Intent is also a tea.Msg, so a Bubble Tea program can carry them on
// its own message queue.
type Intent interface {
	isIntent()
}

// Action names the network action a TriggerAction asks for.
type Action string

const (
	ActionSignUp Action = "signup"
	ActionPing   Action = "ping"
)

// FieldChanged reports that the user edited a text field. A non-nil Err means
// the raw input event could not be decoded into a value.
type FieldChanged struct {
	Field string
	Value string
	Err   error
}

// TriggerAction asks the component to start its network request.
type TriggerAction struct {
	Action Action
}

// RequestCompleted carries the settlement of the outstanding request.
// Exactly one of Response and Err is set.
type RequestCompleted[P any] struct {
	Response *P
	Err      error
}

func (FieldChanged) isIntent()        {}
func (TriggerAction) isIntent()       {}
func (RequestCompleted[P]) isIntent() {}

// Trigger builds a TriggerAction for the given action.
func Trigger(action Action) TriggerAction {
	return TriggerAction{Action: action}
}

// Succeeded builds a successful RequestCompleted.
func Succeeded[P any](payload P) RequestCompleted[P] {
	return RequestCompleted[P]{Response: &payload}
}

// Failed builds a failed RequestCompleted.
func Failed[P any](err error) RequestCompleted[P] {
	if err == nil {
		err = fmt.Errorf("request failed")
	}
	return RequestCompleted[P]{Err: err}
}

// Send wraps an intent in a command so renderers can emit it through the
// Bubble Tea runtime.
func Send(in Intent) tea.Cmd {
	return func() tea.Msg {
		return in
	}
}
