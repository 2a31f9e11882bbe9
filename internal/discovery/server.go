package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server is a service found on the local network that may be a Mattermost
// server.
type Server struct {
	// Instance is the advertised service instance name (e.g., "Team Chat")
	Instance string

	// Service is the service type it was found under
	Service string

	// Hostname is the mDNS hostname (e.g., "chat.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the advertised port
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service was seen
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	name := s.Instance
	if name == "" {
		name = strings.TrimSuffix(s.Hostname, ".")
	}
	return fmt.Sprintf("%s (%s) at %s", name, s.Service, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// BaseURL returns the HTTP base URL for the server. TLS is assumed on port
// 443 or when the TXT record says so.
func (s *Server) BaseURL() string {
	scheme := "http"
	if s.Port == 443 || strings.EqualFold(s.GetMetadata("scheme"), "https") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// Advertised reports whether the service announces itself as Mattermost,
// either through the dedicated service type or a TXT hint.
func (s *Server) Advertised() bool {
	if s.Service == MattermostServiceType {
		return true
	}
	if strings.EqualFold(s.GetMetadata("product"), "mattermost") {
		return true
	}
	return strings.Contains(strings.ToLower(s.Instance), "mattermost")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
