package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/mateconpizza/browserdb/internal/profile"
	"github.com/mateconpizza/browserdb/internal/sys/files"
	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/seed"
	"github.com/mateconpizza/browserdb/pkg/store"
)

var ErrProfilesUnset = errors.New("profiles_ini not set")

// storePath resolves the store to work on: --db, then the selected profile,
// then the data directory.
func storePath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	name := profileName
	if name == "" {
		name = cfg.Profile
	}

	if name == "" {
		return cfg.StorePath(dataDir), nil
	}

	reg, err := loadProfiles()
	if err != nil {
		return "", err
	}

	p, err := reg.Find(name)
	if err != nil {
		return "", err
	}

	return p.StorePath(reg.Dir), nil
}

func loadProfiles() (*profile.Registry, error) {
	if cfg.ProfilesINI == "" {
		return nil, ErrProfilesUnset
	}

	return profile.Load(cfg.ProfilesINI)
}

// openExisting opens a store that must already exist.
func openExisting() (*db.SQLite, error) {
	p, err := storePath()
	if err != nil {
		return nil, err
	}

	return db.New(cfg.Driver, p)
}

// openOrCreate opens the store, creating the file and its directory when
// missing.
func openOrCreate() (*db.SQLite, error) {
	p, err := storePath()
	if err != nil {
		return nil, err
	}

	if err := files.MkdirAll(filepath.Dir(p)); err != nil {
		return nil, err
	}

	return db.Open(cfg.Driver, p)
}

// storeOptions returns the options for store.Open from the config.
func storeOptions() store.Options {
	l := seed.New(seed.ParseLocale(cfg.Locale))
	slog.Debug("root titles", "language", l.Language())

	return store.Options{
		Version:   cfg.SchemaVersion,
		Seeder:    l,
		BackupDir: cfg.BackupDir(dataDir),
	}
}

func expectedVersion() int {
	if cfg.SchemaVersion != 0 {
		return cfg.SchemaVersion
	}

	return store.SchemaVersion
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

func printReport(w io.Writer, name string, rep store.Report) {
	switch {
	case rep.Created:
		fmt.Fprintf(w, "%s: created at version %d\n", name, rep.To)
	case rep.Reset:
		fmt.Fprintf(w, "%s: reset from version %d to %d, stored history and bookmarks were discarded\n",
			name, rep.From, rep.To)
		if rep.Backup != "" {
			fmt.Fprintf(w, "%s: previous data saved to %s\n", name, rep.Backup)
		}
	default:
		fmt.Fprintf(w, "%s: up to date at version %d\n", name, rep.To)
	}
}

func closeStore(r *db.SQLite) {
	slog.Debug("closing store", "name", r.Name())
	r.Close()
}
