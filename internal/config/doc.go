// Package config manages the mmprobe configuration file: saved Mattermost
// server profiles and client preferences.
//
// # Configuration File Location
//
// The default file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/mmprobe/config.yaml or $HOME/.config/mmprobe/config.yaml
//   - macOS: $HOME/.config/mmprobe/config.yaml
//   - Windows: %LOCALAPPDATA%\mmprobe\config.yaml
//
// Any other path can be given with --config. A path ending in .toml is read
// and written as TOML; everything else is YAML.
//
// # Usage Example
//
//	registry, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
//	if _, err := registry.AddServer("work", "https://chat.example.com", "Work chat"); err != nil {
//	    return err
//	}
//	_ = registry.SetDefault("work")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// Server resolution for a command follows ResolveServer: --server, then
// --profile, then the default profile, then http://localhost:8065.
package config
