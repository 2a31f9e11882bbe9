package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/logging"
)

const (
	// MattermostServiceType is the service type a server can be announced
	// under with a local mDNS responder
	MattermostServiceType = "_mattermost._tcp"

	// HTTPServiceType catches servers announced as plain web services
	HTTPServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the Mattermost default listen port
	DefaultPort = 8065
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for announcements
	Timeout time.Duration

	// Services are the service types to browse
	Services []string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:  DefaultScanTimeout,
		Services: []string{MattermostServiceType, HTTPServiceType},
	}
}

// Scan browses every configured service type until the timeout and returns
// the servers found, advertised Mattermost servers first.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		servers []*Server
		seen    = make(map[string]bool)
		wg      sync.WaitGroup
	)

	for _, service := range s.Services {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}

		entries := make(chan *zeroconf.ServiceEntry)
		wg.Add(1)
		go func(service string) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case entry, ok := <-entries:
					if !ok {
						return
					}
					server := parseServiceEntry(entry, service)
					if server == nil {
						continue
					}
					key := server.BaseURL()
					mu.Lock()
					if !seen[key] {
						seen[key] = true
						servers = append(servers, server)
						logging.Debug("Discovered server",
							zap.String("service", service),
							zap.String("url", key),
							zap.String("instance", server.Instance),
						)
					}
					mu.Unlock()
				}
			}
		}(service)

		if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
			return nil, fmt.Errorf("failed to browse for %s services: %w", service, err)
		}
	}

	<-ctx.Done()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	sortServers(servers)
	return servers, nil
}

// sortServers orders advertised servers first, then by URL.
func sortServers(servers []*Server) {
	sort.SliceStable(servers, func(i, j int) bool {
		ai, aj := servers[i].Advertised(), servers[j].Advertised()
		if ai != aj {
			return ai
		}
		return servers[i].BaseURL() < servers[j].BaseURL()
	})
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry, service string) *Server {
	if entry == nil {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Server{
		Instance:     entry.Instance,
		Service:      service,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Server, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
