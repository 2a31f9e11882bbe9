// Package stubserver is a small stand-in for a Mattermost server.
//
// It answers the three endpoints mmprobe talks to so the client can be
// tried without a real deployment:
//
//   - GET  /api/v4/system/ping   health and client version hints
//   - POST /api/v4/users         account creation with duplicate checks
//   - GET  /api/v4/websocket     event stream (hello, then broadcasts)
//
// Accounts live in memory and vanish when the process exits. Errors use the
// server's JSON error shape ({"id", "message", "status_code"}) so clients
// see the same messages a real server would send.
//
// Start blocks until ctx is canceled or SIGINT/SIGTERM arrives. SIGHUP
// broadcasts a config_changed event to every connected stream, which makes
// a watching ping widget check health again.
package stubserver
