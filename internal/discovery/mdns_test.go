package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		service  string
		wantNil  bool
		wantIP   string
		wantPort int
		wantURL  string
	}{
		{
			name: "mattermost service with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Team Chat"},
				HostName:      "chat.local.",
				Port:          8065,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"path=/"},
			},
			service:  MattermostServiceType,
			wantIP:   "192.168.1.20",
			wantPort: 8065,
			wantURL:  "http://192.168.1.20:8065",
		},
		{
			name: "missing port uses default",
			entry: &zeroconf.ServiceEntry{
				HostName: "chat.local",
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			service:  HTTPServiceType,
			wantIP:   "10.0.0.5",
			wantPort: DefaultPort,
			wantURL:  "http://10.0.0.5:8065",
		},
		{
			name: "IPv6 fallback",
			entry: &zeroconf.ServiceEntry{
				HostName: "chat.local",
				Port:     8065,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			service:  HTTPServiceType,
			wantIP:   "fe80::1",
			wantPort: 8065,
			wantURL:  "http://[fe80::1]:8065",
		},
		{
			name: "tls port",
			entry: &zeroconf.ServiceEntry{
				HostName: "chat.local",
				Port:     443,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.21")},
			},
			service:  HTTPServiceType,
			wantIP:   "192.168.1.21",
			wantPort: 443,
			wantURL:  "https://192.168.1.21:443",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "ghost.local",
				Port:     8065,
			},
			service: HTTPServiceType,
			wantNil: true,
		},
		{
			name:    "nil entry",
			service: HTTPServiceType,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := parseServiceEntry(tt.entry, tt.service)

			if tt.wantNil {
				if server != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", server)
				}
				return
			}
			if server == nil {
				t.Fatal("parseServiceEntry() = nil, want server")
			}
			if server.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", server.IP, tt.wantIP)
			}
			if server.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", server.Port, tt.wantPort)
			}
			if server.BaseURL() != tt.wantURL {
				t.Errorf("BaseURL() = %v, want %v", server.BaseURL(), tt.wantURL)
			}
			if server.Service != tt.service {
				t.Errorf("Service = %v, want %v", server.Service, tt.service)
			}
			if time.Since(server.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", server.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "chat.local",
		Port:     8065,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
		Text:     []string{"path=/", "product=mattermost", "flag", "scheme=https"},
	}

	server := parseServiceEntry(entry, HTTPServiceType)
	if server == nil {
		t.Fatal("parseServiceEntry() = nil, want server")
	}

	expected := map[string]string{
		"path":    "/",
		"product": "mattermost",
		"flag":    "",
		"scheme":  "https",
	}
	if len(server.Metadata) != len(expected) {
		t.Errorf("Metadata has %d entries, want %d", len(server.Metadata), len(expected))
	}
	for key, want := range expected {
		if got := server.GetMetadata(key); got != want {
			t.Errorf("Metadata[%q] = %q, want %q", key, got, want)
		}
	}
	if !server.Advertised() {
		t.Error("product=mattermost should mark the server as advertised")
	}
	if server.BaseURL() != "https://192.168.1.20:8065" {
		t.Errorf("BaseURL() = %s, want https scheme from TXT", server.BaseURL())
	}
}

func TestServer_Advertised(t *testing.T) {
	tests := []struct {
		name   string
		server Server
		want   bool
	}{
		{name: "dedicated service type", server: Server{Service: MattermostServiceType}, want: true},
		{name: "instance name", server: Server{Service: HTTPServiceType, Instance: "Mattermost on nas"}, want: true},
		{name: "plain web server", server: Server{Service: HTTPServiceType, Instance: "Printer"}, want: false},
		{name: "nil metadata", server: Server{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.Advertised(); got != tt.want {
				t.Errorf("Advertised() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServer_String(t *testing.T) {
	s := &Server{Hostname: "chat.local.", Service: HTTPServiceType, IP: "192.168.1.20", Port: 8065}
	if got := s.String(); got != "chat.local (_http._tcp) at 192.168.1.20:8065" {
		t.Errorf("String() = %q", got)
	}

	s.Instance = "Team Chat"
	if got := s.String(); got != "Team Chat (_http._tcp) at 192.168.1.20:8065" {
		t.Errorf("String() = %q", got)
	}
}

func TestSortServers(t *testing.T) {
	servers := []*Server{
		{Service: HTTPServiceType, IP: "10.0.0.9", Port: 80},
		{Service: HTTPServiceType, IP: "10.0.0.1", Port: 80},
		{Service: MattermostServiceType, IP: "10.0.0.5", Port: 8065},
	}

	sortServers(servers)

	want := []string{"http://10.0.0.5:8065", "http://10.0.0.1:80", "http://10.0.0.9:80"}
	for i, s := range servers {
		if s.BaseURL() != want[i] {
			t.Errorf("servers[%d] = %s, want %s", i, s.BaseURL(), want[i])
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if len(scanner.Services) != 2 || scanner.Services[0] != MattermostServiceType {
		t.Errorf("Services = %v", scanner.Services)
	}
}
