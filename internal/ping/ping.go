// Package ping is the server health widget: a button that fetches
// /api/v4/system/ping and the client version hints it returns.
package ping

import (
	"net/http"

	"github.com/muurk/mmprobe/internal/lifecycle"
	"github.com/muurk/mmprobe/internal/mattermost"
)

// Name identifies the component in logs.
const Name = "ping"

// Component is the ping widget state machine.
type Component = lifecycle.Component[mattermost.PingResponse]

// Model is the ping widget state.
type Model = lifecycle.Model[mattermost.PingResponse]

// BuildRequest returns the request builder for client's server. The widget
// has no fields, so the builder ignores them.
func BuildRequest(client *mattermost.Client) lifecycle.RequestBuilder {
	endpoint := client.Endpoint(mattermost.PingPath)
	return func(map[string]string) (lifecycle.Request, error) {
		return lifecycle.Request{Method: http.MethodGet, URL: endpoint}, nil
	}
}

// New creates a ping widget bound to client.
func New(client *mattermost.Client) Component {
	return lifecycle.NewComponent(Name, NewRunner(client))
}

// NewRunner creates the effect runner for a ping widget.
func NewRunner(client *mattermost.Client) *lifecycle.Runner[mattermost.PingResponse] {
	return lifecycle.NewRunner[mattermost.PingResponse](client, BuildRequest(client))
}

// Trigger is the intent for the ping button.
func Trigger() lifecycle.TriggerAction {
	return lifecycle.Trigger(lifecycle.ActionPing)
}

// Status summarises the widget for a one-line display.
func Status(m Model) string {
	switch {
	case m.RequestInFlight:
		return "pinging"
	case m.LastResponse != nil && m.LastResponse.Healthy():
		return "healthy"
	case m.LastResponse != nil:
		return "unhealthy: " + m.LastResponse.Status
	case m.LastError != "":
		return "unreachable"
	default:
		return "not checked"
	}
}
