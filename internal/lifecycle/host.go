package lifecycle

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc receives a snapshot each time a transition asks for a redraw.
type RenderFunc[P any] func(Model[P])

// Host is a headless serial event queue for a single component. It is the
// scripted counterpart of a Bubble Tea program: intents are processed one at
// a time on the goroutine calling Run, and effect results are folded back in
// on that same goroutine.
type Host[P any] struct {
	comp    Component[P]
	render  RenderFunc[P]
	queue   []Intent
	pending int
}

// NewHost creates a host for comp. render may be nil.
func NewHost[P any](comp Component[P], render RenderFunc[P]) *Host[P] {
	return &Host[P]{
		comp:   comp,
		render: render,
	}
}

// Send queues an intent. It never blocks. Call it before Run or from a
// RenderFunc; the queue is not safe for use from other goroutines.
func (h *Host[P]) Send(in Intent) {
	h.queue = append(h.queue, in)
}

// Model returns the current state.
func (h *Host[P]) Model() Model[P] {
	return h.comp.Model()
}

// Component returns the hosted component.
func (h *Host[P]) Component() Component[P] {
	return h.comp
}

// RunUntilIdle processes intents until the queue is empty and no effect is
// outstanding, then returns the final state. A request that never settles
// keeps the host running until ctx is done.
func (h *Host[P]) RunUntilIdle(ctx context.Context) (Model[P], error) {
	results := make(chan Intent)

	for {
		if len(h.queue) == 0 && h.pending == 0 {
			return h.comp.Model(), nil
		}

		if err := ctx.Err(); err != nil {
			return h.comp.Model(), err
		}

		var in Intent
		if len(h.queue) > 0 {
			in = h.queue[0]
			h.queue[0] = nil
			h.queue = h.queue[1:]
		} else {
			select {
			case <-ctx.Done():
				return h.comp.Model(), ctx.Err()
			case in = <-results:
				h.pending--
			}
		}

		var render bool
		var cmd tea.Cmd
		h.comp, render, cmd = h.comp.Update(in)
		if render && h.render != nil {
			h.render(h.comp.Model())
		}
		if cmd != nil {
			h.pending++
			go h.runEffect(ctx, cmd, results)
		}
	}
}

func (h *Host[P]) runEffect(ctx context.Context, cmd tea.Cmd, results chan<- Intent) {
	msg := cmd()
	in, ok := msg.(Intent)
	if !ok {
		in = Failed[P](errUnexpectedMsg)
	}
	select {
	case results <- in:
	case <-ctx.Done():
	}
}
