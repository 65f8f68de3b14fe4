// Package config holds the application configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mateconpizza/browserdb/pkg/db"
)

// version of the application.
var version = "0.1.0"

const (
	appName        string = "browserdb"  // Default name of the application
	command        string = "browserdb"  // Default name of the executable
	DefaultDBName  string = "browser.db" // Default name of the store
	configFilename string = "config.yml" // Default config filename
	backupDirname  string = "backup"     // Default backup directory name
)

// EnvHome overrides the data directory.
const EnvHome = "BROWSERDB_HOME"

var (
	ErrConfigInvalid = errors.New("invalid config")
	ErrConfigParse   = errors.New("parsing config")
)

// Config is the content of config.yml.
type Config struct {
	Driver        string `yaml:"driver"`         // sqlite (modernc) or sqlite3 (mattn)
	Path          string `yaml:"path"`           // store path; empty uses the data dir
	Profile       string `yaml:"profile"`        // profile name in profiles.ini
	ProfilesINI   string `yaml:"profiles_ini"`   // path to profiles.ini
	Locale        string `yaml:"locale"`         // language of the root folder titles
	SchemaVersion int    `yaml:"schema_version"` // 0 uses the built-in version
	Backup        Backup `yaml:"backup"`
	Cache         Cache  `yaml:"cache"`
}

// Backup settings.
type Backup struct {
	Enabled bool   `yaml:"enabled"` // back up before a reset
	Dir     string `yaml:"dir"`     // empty uses <data>/backup
}

// Cache settings.
type Cache struct {
	Size int `yaml:"size"` // readability cache entries
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Driver: db.DefaultDriver,
		Locale: "en",
		Backup: Backup{Enabled: true},
		Cache:  Cache{Size: 64},
	}
}

// Load reads the config file at p. A missing file yields the defaults.
func Load(p string) (*Config, error) {
	cfg := Defaults()

	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", p)
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("closing config file", "error", err)
		}
	}()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("config loaded", "path", p)

	return cfg, nil
}

// Validate checks the values and fills the blanks with defaults.
func (c *Config) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = db.DefaultDriver
	case db.DriverModernc, db.DriverMattn:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrConfigInvalid, c.Driver)
	}

	if c.SchemaVersion < 0 {
		return fmt.Errorf("%w: schema_version %d", ErrConfigInvalid, c.SchemaVersion)
	}

	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size %d", ErrConfigInvalid, c.Cache.Size)
	}

	if c.Cache.Size == 0 {
		slog.Warn("empty cache size, using default")
		c.Cache.Size = Defaults().Cache.Size
	}

	return nil
}

// Write encodes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return enc.Close()
}

// StorePath returns the store path: the configured path, or the store
// inside dataDir.
func (c *Config) StorePath(dataDir string) string {
	if c.Path != "" {
		return ExpandHome(c.Path)
	}

	return filepath.Join(dataDir, DefaultDBName)
}

// BackupDir returns the backup directory, or "" when backups are disabled.
func (c *Config) BackupDir(dataDir string) string {
	if !c.Backup.Enabled {
		return ""
	}

	return c.BackupPath(dataDir)
}

// BackupPath returns the backup directory whether or not backups are
// enabled.
func (c *Config) BackupPath(dataDir string) string {
	if c.Backup.Dir != "" {
		return ExpandHome(c.Backup.Dir)
	}

	return filepath.Join(dataDir, backupDirname)
}

// Version returns the application version.
func Version() string {
	return version
}

// Command returns the executable name.
func Command() string {
	return command
}

// SetVerbosity installs the default logger. Each step raises the level from
// error to debug.
func SetVerbosity(verbose int) {
	levels := []slog.Level{
		slog.LevelError,
		slog.LevelWarn,
		slog.LevelInfo,
		slog.LevelDebug,
	}
	level := levels[max(0, min(verbose, len(levels)-1))]

	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == "source" {
					if source, ok := a.Value.Any().(*slog.Source); ok {
						dir, file := filepath.Split(source.File)
						source.File = filepath.Join(filepath.Base(filepath.Clean(dir)), file)

						return slog.Attr{Key: "source", Value: slog.AnyValue(source)}
					}
				}

				return a
			},
		}),
	)
	slog.SetDefault(logger)

	slog.Debug("logging", "level", level)
}
