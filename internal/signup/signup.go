// Package signup is the account signup form: one email field and a button
// that posts a new user to the server.
package signup

import (
	"net/http"

	"github.com/muurk/mmprobe/internal/lifecycle"
	"github.com/muurk/mmprobe/internal/mattermost"
)

// Name identifies the component in logs.
const Name = "signup"

// FieldEmail is the only form field.
const FieldEmail = "email"

// Component is the signup form state machine.
type Component = lifecycle.Component[mattermost.SignupResponse]

// Model is the signup form state.
type Model = lifecycle.Model[mattermost.SignupResponse]

// BuildRequest returns the request builder for client's server. A form that
// was never edited sends an empty email and lets the server reject it.
func BuildRequest(client *mattermost.Client) lifecycle.RequestBuilder {
	endpoint := client.Endpoint(mattermost.UsersPath)
	return func(fields map[string]string) (lifecycle.Request, error) {
		return lifecycle.Request{
			Method: http.MethodPost,
			URL:    endpoint,
			Body:   mattermost.NewSignupRequest(fields[FieldEmail]),
		}, nil
	}
}

// New creates a signup form bound to client.
func New(client *mattermost.Client) Component {
	return lifecycle.NewComponent(Name, NewRunner(client))
}

// NewRunner creates the effect runner for a signup form.
func NewRunner(client *mattermost.Client) *lifecycle.Runner[mattermost.SignupResponse] {
	return lifecycle.NewRunner[mattermost.SignupResponse](client, BuildRequest(client))
}

// EmailChanged is the intent for an edit of the email input.
func EmailChanged(raw any) lifecycle.FieldChanged {
	return lifecycle.FieldFromInput(FieldEmail, raw)
}

// Submit is the intent for the sign-up button.
func Submit() lifecycle.TriggerAction {
	return lifecycle.Trigger(lifecycle.ActionSignUp)
}

// EmailLine is the text shown under the form.
func EmailLine(m Model) string {
	email, ok := m.Field(FieldEmail)
	if !ok {
		email = "No email yet"
	}
	return "Your email is: " + email
}
