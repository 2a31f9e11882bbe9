package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultServerURL is used when no flag, profile or default is configured.
const DefaultServerURL = "http://localhost:8065"

const (
	defaultRequestTimeout  = "10s"
	defaultDiscoverTimeout = 5
)

// Registry represents the entire user configuration file.
// It stores saved server profiles and application preferences.
type Registry struct {
	Version     int                `yaml:"version" toml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty" toml:"servers,omitempty"` // Keyed by profile name
	Preferences *Preferences       `yaml:"preferences,omitempty" toml:"preferences,omitempty"`

	// path is where the registry was loaded from and will be saved to
	path string
}

// Server is one saved server profile.
type Server struct {
	URL         string    `yaml:"url" toml:"url"`
	Nickname    string    `yaml:"nickname,omitempty" toml:"nickname,omitempty"`
	LastSeen    time.Time `yaml:"last_seen,omitempty" toml:"last_seen,omitempty"`       // Last successful ping
	LastStatus  string    `yaml:"last_status,omitempty" toml:"last_status,omitempty"`   // Status reported by that ping
	LastVersion string    `yaml:"last_version,omitempty" toml:"last_version,omitempty"` // Desktop app version the server advertised
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultServer   string `yaml:"default_server,omitempty" toml:"default_server,omitempty"`
	RequestTimeout  string `yaml:"request_timeout,omitempty" toml:"request_timeout,omitempty"` // Go duration; "0" disables
	DiscoverTimeout int    `yaml:"discover_timeout" toml:"discover_timeout"`                   // mDNS browse time in seconds
	UserAgent       string `yaml:"user_agent,omitempty" toml:"user_agent,omitempty"`
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Servers:     make(map[string]*Server),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		RequestTimeout:  defaultRequestTimeout,
		DiscoverTimeout: defaultDiscoverTimeout,
	}
}

// Path returns the file the registry is bound to.
func (r *Registry) Path() string {
	return r.path
}

// Timeout parses the request timeout preference. An empty value means the
// default of 10s; zero disables the timeout.
func (p *Preferences) Timeout() (time.Duration, error) {
	raw := defaultRequestTimeout
	if p != nil && strings.TrimSpace(p.RequestTimeout) != "" {
		raw = strings.TrimSpace(p.RequestTimeout)
	}
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must not be negative", raw)
	}
	return d, nil
}

// DiscoverDuration returns the mDNS browse time.
func (p *Preferences) DiscoverDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return defaultDiscoverTimeout * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// GetServer retrieves a profile by name.
// Returns nil if the profile doesn't exist in the registry.
func (r *Registry) GetServer(name string) *Server {
	return r.Servers[name]
}

// Names returns the profile names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Servers))
	for name := range r.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddServer creates or replaces a profile. rawURL is stored as given after
// trimming; the client normalises it when used.
func (r *Registry) AddServer(name, rawURL, nickname string) (*Server, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile name is empty")
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("profile %q: server url is empty", name)
	}

	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}
	server := &Server{URL: rawURL, Nickname: strings.TrimSpace(nickname)}
	r.Servers[name] = server
	return server, nil
}

// RemoveServer deletes a profile. Removing the default profile clears the
// default.
func (r *Registry) RemoveServer(name string) error {
	if _, ok := r.Servers[name]; !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	delete(r.Servers, name)
	if r.Preferences != nil && r.Preferences.DefaultServer == name {
		r.Preferences.DefaultServer = ""
	}
	return nil
}

// SetDefault makes name the default profile.
func (r *Registry) SetDefault(name string) error {
	if _, ok := r.Servers[name]; !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	r.Preferences.DefaultServer = name
	return nil
}

// RecordPing stores the outcome of a successful ping against a profile.
// Unknown profiles are ignored.
func (r *Registry) RecordPing(name, status, version string, at time.Time) {
	server := r.Servers[name]
	if server == nil {
		return
	}
	server.LastSeen = at
	server.LastStatus = status
	server.LastVersion = version
}

// Resolved is the server a command should talk to.
type Resolved struct {
	// Profile is the profile name, empty when the URL came from a flag or
	// the built-in default.
	Profile string
	URL     string
}

// ResolveServer picks the server URL. Precedence: an explicit URL, then the
// named profile, then the default profile, then DefaultServerURL.
func (r *Registry) ResolveServer(explicitURL, profile string) (Resolved, error) {
	if u := strings.TrimSpace(explicitURL); u != "" {
		return Resolved{URL: u}, nil
	}

	if profile != "" {
		server := r.Servers[profile]
		if server == nil {
			return Resolved{}, fmt.Errorf("unknown profile %q", profile)
		}
		return Resolved{Profile: profile, URL: server.URL}, nil
	}

	if r.Preferences != nil && r.Preferences.DefaultServer != "" {
		if server := r.Servers[r.Preferences.DefaultServer]; server != nil {
			return Resolved{Profile: r.Preferences.DefaultServer, URL: server.URL}, nil
		}
	}

	return Resolved{URL: DefaultServerURL}, nil
}
