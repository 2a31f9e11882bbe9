// Package mattermost is the HTTP and WebSocket client for the small slice of
// the Mattermost v4 API that mmprobe talks to.
//
// Client implements lifecycle.Transport, so a component's effect runner can
// submit requests through it without knowing anything about HTTP:
//
//	client, err := mattermost.NewClient("http://localhost:8065")
//	if err != nil {
//	    return err
//	}
//	runner := lifecycle.NewRunner[mattermost.PingResponse](client, ping.BuildRequest(client))
//
// Endpoints:
//
//	POST /api/v4/users         create a user (signup)
//	GET  /api/v4/system/ping   server health and client version hints
//	GET  /api/v4/websocket     server event stream
//
// Every failure is returned as an *APIError. Its Type separates transport
// problems (timeout, refused connection, DNS) from HTTP status errors and
// undecodable bodies. For status errors the server's own message is used
// when the body carries one.
package mattermost
