package lifecycle

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/mmprobe/internal/logging"
)

var (
	errNoRunner      = errors.New("component has no request runner")
	errUnexpectedMsg = errors.New("effect returned an unexpected message")
)

// Component binds a Model to the Runner that serves its trigger. It is a
// value type so it can live inside a Bubble Tea model; copies share the
// Runner.
type Component[P any] struct {
	name   string
	model  Model[P]
	runner *Runner[P]
}

// NewComponent creates a component in its initial state.
func NewComponent[P any](name string, runner *Runner[P]) Component[P] {
	return Component[P]{name: name, runner: runner}
}

// Name returns the component name used in logs.
func (c Component[P]) Name() string {
	return c.name
}

// Model returns a snapshot of the current state.
func (c Component[P]) Model() Model[P] {
	return c.model.Clone()
}

// Runner returns the effect runner.
func (c Component[P]) Runner() *Runner[P] {
	return c.runner
}

// Update applies one intent. It returns the updated component, whether the
// renderer should redraw, and the effect to run (nil when none).
func (c Component[P]) Update(in Intent) (Component[P], bool, tea.Cmd) {
	before := c.model.RequestInFlight
	next, out := Reduce(c.model, in)
	c.model = next

	logging.LogTransition(c.name, intentName(in), before, next.RequestInFlight, out.Render)

	if !out.Dispatch {
		return c, out.Render, nil
	}
	if c.runner == nil {
		return c, out.Render, Send(Failed[P](errNoRunner))
	}
	return c, out.Render, c.runner.Start(next)
}

func intentName(in Intent) string {
	switch in := in.(type) {
	case FieldChanged:
		if in.Err != nil {
			return "field_changed_error"
		}
		return "field_changed"
	case TriggerAction:
		return "trigger:" + string(in.Action)
	default:
		return "request_completed"
	}
}
