// Package discovery finds Mattermost server candidates on the local network
// with multicast DNS.
//
// Mattermost does not announce itself over mDNS, but servers are often
// published by a local responder (Avahi, Bonjour) either under a dedicated
// "_mattermost._tcp" type or as a plain "_http._tcp" web service. The scanner
// browses both and returns every service with a usable address; candidates
// announced as Mattermost sort first. Confirming a candidate is the caller's
// job (mmprobe discover --ping pings each one).
//
// # Usage Example
//
//	servers, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, server := range servers {
//	    fmt.Printf("Found: %s -> %s\n", server, server.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
