// Package config handles the optional gpureplay.toml settings file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// File is the on-disk replay configuration.
type File struct {
	Session Session `toml:"session"`
	Surface Surface `toml:"surface"`
	Viewer  Viewer  `toml:"viewer"`
	Log     Log     `toml:"log"`
}

// Session configures the emulated GPU session.
type Session struct {
	RAMMegabytes int `toml:"ram-mb"`
}

// Surface configures the Fermi2D render target.
type Surface struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Viewer configures the debug window.
type Viewer struct {
	Title string `toml:"title"`
	Scale int    `toml:"scale"`
}

// Log configures diagnostics verbosity (commonlog levels).
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Defaults fills missing fields with reasonable defaults.
func (f *File) Defaults() {
	if f.Session.RAMMegabytes <= 0 {
		f.Session.RAMMegabytes = 16
	}
	if f.Surface.Width <= 0 {
		f.Surface.Width = 320
	}
	if f.Surface.Height <= 0 {
		f.Surface.Height = 240
	}
	if f.Viewer.Title == "" {
		f.Viewer.Title = "gpureplay"
	}
	if f.Viewer.Scale <= 0 {
		f.Viewer.Scale = 2
	}
}

// Load parses a config file. A missing path (or empty string) yields
// the defaults.
func Load(path string) (*File, error) {
	var f File
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &f); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}
	f.Defaults()
	return &f, nil
}
