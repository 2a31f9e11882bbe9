package lifecycle

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/logging"
)

// Request is one outbound call as the component describes it.
type Request struct {
	Method string
	URL    string
	// Body is encoded as JSON when non-nil.
	Body any
}

// Transport submits a request and decodes the response payload into dest.
// Every failure (connection, status, decode) is reported through the error.
type Transport interface {
	Submit(ctx context.Context, req Request, dest any) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request, dest any) error

// Submit calls f.
func (f TransportFunc) Submit(ctx context.Context, req Request, dest any) error {
	return f(ctx, req, dest)
}

// RequestBuilder turns the current field values into a Request. The map is a
// private copy and may be kept.
type RequestBuilder func(fields map[string]string) (Request, error)

// DefaultTimeout bounds a single request. Zero disables the bound.
const DefaultTimeout = 10 * time.Second

// Runner is the effect runner for one component instance. It is safe to
// share between copies of a Component value.
type Runner[P any] struct {
	transport Transport
	build     RequestBuilder

	ctx     context.Context
	timeout time.Duration

	live    atomic.Int32
	started atomic.Int64
}

// NewRunner creates a Runner that builds requests with build and submits them
// through transport.
func NewRunner[P any](transport Transport, build RequestBuilder) *Runner[P] {
	return &Runner[P]{
		transport: transport,
		build:     build,
		ctx:       context.Background(),
		timeout:   DefaultTimeout,
	}
}

// SetContext sets the parent context for requests started after the call.
func (r *Runner[P]) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.ctx = ctx
}

// SetTimeout sets the per-request timeout. Zero or negative means requests
// may stay in flight indefinitely.
func (r *Runner[P]) SetTimeout(timeout time.Duration) {
	r.timeout = timeout
}

// Timeout returns the per-request timeout.
func (r *Runner[P]) Timeout() time.Duration {
	return r.timeout
}

// Live returns the number of requests submitted but not yet settled.
func (r *Runner[P]) Live() int {
	return int(r.live.Load())
}

// Started returns the number of requests this runner has created.
func (r *Runner[P]) Started() int {
	return int(r.started.Load())
}

// Start builds the request for m and returns the command that performs it.
// The command's message is always a RequestCompleted[P], including when the
// request could not be built, so the in-flight flag can never leak on a
// local failure.
func (r *Runner[P]) Start(m Model[P]) tea.Cmd {
	req, err := r.build(cloneFields(m.Fields))
	if err != nil {
		logging.Warn("Request build failed", zap.Error(err))
		return Send(Failed[P](fmt.Errorf("build request: %w", err)))
	}

	r.started.Add(1)
	r.live.Add(1)

	parent := r.ctx
	timeout := r.timeout

	return func() tea.Msg {
		defer r.live.Add(-1)

		ctx := parent
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, timeout)
			defer cancel()
		}

		start := time.Now()
		logging.LogRequest(req.Method, req.URL, req.Body != nil)

		var payload P
		if err := r.transport.Submit(ctx, req, &payload); err != nil {
			logging.LogRequestFailed(req.Method, req.URL, time.Since(start), err)
			return Failed[P](err)
		}

		logging.LogResponse(req.Method, req.URL, time.Since(start))
		return Succeeded(payload)
	}
}
