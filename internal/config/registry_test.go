package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "mmprobe"); got != want {
		t.Errorf("GetConfigDir() = %s, want %s", got, want)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", path)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Servers == nil {
		t.Error("NewRegistry().Servers should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if d, err := reg.Preferences.Timeout(); err != nil || d != 10*time.Second {
		t.Errorf("Timeout() = %v, %v, want 10s", d, err)
	}
	if reg.Preferences.DiscoverDuration() != 5*time.Second {
		t.Errorf("DiscoverDuration() = %v, want 5s", reg.Preferences.DiscoverDuration())
	}
}

func TestPreferencesTimeout(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: 10 * time.Second},
		{raw: "0", want: 0},
		{raw: "0s", want: 0},
		{raw: "250ms", want: 250 * time.Millisecond},
		{raw: " 3s ", want: 3 * time.Second},
		{raw: "-1s", wantErr: true},
		{raw: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := (&Preferences{RequestTimeout: tt.raw}).Timeout()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Timeout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Timeout() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilPrefs *Preferences
	if d, _ := nilPrefs.Timeout(); d != 10*time.Second {
		t.Errorf("nil Preferences Timeout() = %v, want 10s", d)
	}
}

func TestRegistryProfiles(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.AddServer("", "http://x", ""); err == nil {
		t.Error("AddServer with empty name should fail")
	}
	if _, err := reg.AddServer("work", "  ", ""); err == nil {
		t.Error("AddServer with empty url should fail")
	}

	if _, err := reg.AddServer("work", " https://chat.example.com ", " Work "); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}
	if _, err := reg.AddServer("home", "http://nas.local:8065", ""); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	work := reg.GetServer("work")
	if work == nil || work.URL != "https://chat.example.com" || work.Nickname != "Work" {
		t.Fatalf("GetServer(work) = %+v", work)
	}
	if names := reg.Names(); strings.Join(names, ",") != "home,work" {
		t.Errorf("Names() = %v, want [home work]", names)
	}

	if err := reg.SetDefault("missing"); err == nil {
		t.Error("SetDefault of unknown profile should fail")
	}
	if err := reg.SetDefault("work"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if err := reg.RemoveServer("work"); err != nil {
		t.Fatalf("RemoveServer() error = %v", err)
	}
	if reg.Preferences.DefaultServer != "" {
		t.Errorf("removing the default profile should clear DefaultServer, got %q", reg.Preferences.DefaultServer)
	}
	if err := reg.RemoveServer("work"); err == nil {
		t.Error("RemoveServer of unknown profile should fail")
	}
}

func TestRegistryRecordPing(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddServer("home", "http://nas.local:8065", "")
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	reg.RecordPing("home", "OK", "5.9.0", at)
	reg.RecordPing("ghost", "OK", "1.0.0", at)

	home := reg.GetServer("home")
	if !home.LastSeen.Equal(at) || home.LastStatus != "OK" || home.LastVersion != "5.9.0" {
		t.Errorf("home = %+v", home)
	}
	if reg.GetServer("ghost") != nil {
		t.Error("RecordPing should not create profiles")
	}
}

func TestResolveServer(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddServer("work", "https://chat.example.com", "")
	_, _ = reg.AddServer("home", "http://nas.local:8065", "")

	tests := []struct {
		name        string
		defaultName string
		explicit    string
		profile     string
		want        Resolved
		wantErr     bool
	}{
		{name: "builtin default", want: Resolved{URL: DefaultServerURL}},
		{name: "default profile", defaultName: "home", want: Resolved{Profile: "home", URL: "http://nas.local:8065"}},
		{name: "named profile beats default", defaultName: "home", profile: "work", want: Resolved{Profile: "work", URL: "https://chat.example.com"}},
		{name: "explicit url beats all", defaultName: "home", profile: "work", explicit: "http://10.0.0.5:8065", want: Resolved{URL: "http://10.0.0.5:8065"}},
		{name: "unknown profile", profile: "nope", wantErr: true},
		{name: "dangling default", defaultName: "deleted", want: Resolved{URL: DefaultServerURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg.Preferences.DefaultServer = tt.defaultName
			got, err := reg.ResolveServer(tt.explicit, tt.profile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveServer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveServer() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Version != 1 || len(reg.Servers) != 0 {
		t.Errorf("Load() of missing file = %+v, want defaults", reg)
	}
	if reg.Path() != path {
		t.Errorf("Path() = %s, want %s", reg.Path(), path)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			reg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			_, _ = reg.AddServer("work", "https://chat.example.com", "Work chat")
			_ = reg.SetDefault("work")
			reg.Preferences.RequestTimeout = "0"
			reg.Preferences.UserAgent = "status-bot/1.0"
			reg.RecordPing("work", "OK", "5.9.0", time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))

			if err := reg.Save(); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
				t.Error("temporary file should be renamed away")
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !strings.HasPrefix(string(data), "# mmprobe configuration file") {
				t.Errorf("saved file should start with the header, got %q", string(data[:40]))
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			work := loaded.GetServer("work")
			if work == nil || work.URL != "https://chat.example.com" || work.Nickname != "Work chat" {
				t.Fatalf("loaded work = %+v", work)
			}
			if work.LastStatus != "OK" || work.LastVersion != "5.9.0" || work.LastSeen.Year() != 2026 {
				t.Errorf("loaded ping record = %+v", work)
			}
			if loaded.Preferences.DefaultServer != "work" || loaded.Preferences.UserAgent != "status-bot/1.0" {
				t.Errorf("loaded preferences = %+v", loaded.Preferences)
			}
			if d, err := loaded.Preferences.Timeout(); err != nil || d != 0 {
				t.Errorf("loaded Timeout() = %v, %v, want disabled", d, err)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	badVersion := filepath.Join(dir, "v2.yaml")
	_ = os.WriteFile(badVersion, []byte("version: 2\n"), 0600)
	if _, err := Load(badVersion); err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("Load(v2) error = %v", err)
	}

	badTOML := filepath.Join(dir, "broken.toml")
	_ = os.WriteFile(badTOML, []byte("version = [\n"), 0600)
	if _, err := Load(badTOML); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Load(broken.toml) error = %v", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "empty yaml", file: "config.yaml", content: ""},
		{name: "comment-only yaml", file: "config.yaml", content: "# servers go here\n\n"},
		{name: "empty toml", file: "config.toml", content: ""},
		{name: "comment-only toml", file: "config.toml", content: "# servers go here\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			_ = os.WriteFile(path, []byte(tt.content), 0600)

			reg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if reg.Version != 1 || reg.Servers == nil || reg.Preferences == nil {
				t.Errorf("Load() = %+v, want a default registry", reg)
			}
			if reg.Path() != path {
				t.Errorf("Path() = %s, want %s", reg.Path(), path)
			}
		})
	}
}

func TestLoad_MissingVersionWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("servers:\n  work:\n    url: https://chat.example.com\n"), 0600)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config version: 0") {
		t.Errorf("Load() error = %v, want unsupported version", err)
	}
}

func TestLoad_FillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.yaml")
	_ = os.WriteFile(path, []byte("version: 1\n"), 0600)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Servers == nil || reg.Preferences == nil {
		t.Errorf("Load() = %+v, want initialised sections", reg)
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor("/a/b/config.TOML") != FormatTOML {
		t.Error("FormatFor(.TOML) should be TOML")
	}
	if FormatFor("/a/b/config.yml") != FormatYAML || FormatFor("noext") != FormatYAML {
		t.Error("FormatFor should default to YAML")
	}
}
