// Package profile reads the profiles.ini registry that maps profile names to
// their directories.
package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// StoreFilename is the name of the store inside a profile directory.
const StoreFilename = "browser.db"

var (
	ErrNoProfiles      = errors.New("no profiles found")
	ErrProfileNotFound = errors.New("profile not found")
)

// Profile is a [ProfileN] section.
type Profile struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsRelative bool   `json:"is_relative"`
	Default    bool   `json:"default"`
}

// Dir returns the profile directory. Relative paths are resolved against
// the directory holding profiles.ini.
func (p *Profile) Dir(iniDir string) string {
	if p.IsRelative || !filepath.IsAbs(p.Path) {
		return filepath.Join(iniDir, filepath.FromSlash(p.Path))
	}

	return p.Path
}

// StorePath returns the path of the profile's store.
func (p *Profile) StorePath(iniDir string) string {
	return filepath.Join(p.Dir(iniDir), StoreFilename)
}

// Registry is the parsed content of a profiles.ini file.
type Registry struct {
	Dir      string // directory holding profiles.ini
	Profiles []Profile
}

// Load parses the profiles.ini file at p.
func Load(p string) (*Registry, error) {
	inidata, err := ini.Load(p)
	if err != nil {
		return nil, fmt.Errorf("error loading file: %w", err)
	}

	r := &Registry{Dir: filepath.Dir(p)}
	for _, sec := range inidata.Sections() {
		if !strings.HasPrefix(sec.Name(), "Profile") {
			continue
		}

		path := sec.Key("Path").String()
		if path == "" {
			slog.Warn("profile without path", "section", sec.Name())
			continue
		}

		r.Profiles = append(r.Profiles, Profile{
			Name:       sec.Key("Name").String(),
			Path:       path,
			IsRelative: sec.Key("IsRelative").MustBool(true),
			Default:    sec.Key("Default").MustBool(false),
		})
	}

	if len(r.Profiles) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoProfiles, p)
	}

	slog.Debug("profiles loaded", "path", p, "count", len(r.Profiles))

	return r, nil
}

// Find returns the profile with the given name.
func (r *Registry) Find(name string) (Profile, error) {
	for _, p := range r.Profiles {
		if p.Name == name {
			return p, nil
		}
	}

	return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
}

// Default returns the profile marked Default=1, or the first one.
func (r *Registry) Default() Profile {
	for _, p := range r.Profiles {
		if p.Default {
			return p
		}
	}

	return r.Profiles[0]
}
