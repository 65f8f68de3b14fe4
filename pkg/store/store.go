// Package store opens the browser store: it checks the stored schema version
// and creates or resets the tables before handing out the connection.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/language"

	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/schema"
	"github.com/mateconpizza/browserdb/pkg/seed"
	"github.com/mateconpizza/browserdb/pkg/tables"
)

// SchemaVersion is the version of the current table shape.
const SchemaVersion = 1

// ErrUnavailable means the store could not be prepared and must not be used.
var ErrUnavailable = errors.New("store unavailable")

// Options configures Open. Zero values select the defaults.
type Options struct {
	Version   int
	Catalog   *schema.Catalog
	Seeder    tables.Seeder
	BackupDir string // backup before a reset; empty disables
}

// Report describes what Open did.
type Report struct {
	From    int    `json:"from"`
	To      int    `json:"to"`
	Created bool   `json:"created"`
	Reset   bool   `json:"reset"`  // stored rows were discarded
	Backup  string `json:"backup"` // backup path, if one was taken
}

// Store is an opened browser store.
type Store struct {
	*db.SQLite
	Tables *tables.Manager
	Report Report
}

// Open prepares the tables of r for opts.Version.
func Open(ctx context.Context, r *db.SQLite, opts Options) (*Store, error) {
	if opts.Version == 0 {
		opts.Version = SchemaVersion
	}

	if opts.Catalog == nil {
		opts.Catalog = schema.Browser()
	}

	if opts.Seeder == nil {
		opts.Seeder = seed.New(language.English)
	}

	m, err := tables.New(r, opts.Catalog,
		tables.WithSeeder(opts.Seeder),
		tables.WithVersionFunc(func(ctx context.Context, tx *sqlx.Tx, v int) error {
			return db.SetUserVersion(ctx, tx, v)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	rep, err := prepare(ctx, r, m, opts)
	if err != nil {
		slog.Error("preparing store", "name", r.Name(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &Store{SQLite: r, Tables: m, Report: rep}, nil
}

// Status reads the stored version and table presence without changing
// anything.
func Status(ctx context.Context, r *db.SQLite, c *schema.Catalog) (version int, exists bool, err error) {
	if c == nil {
		c = schema.Browser()
	}

	m, err := tables.New(r, c)
	if err != nil {
		return 0, false, err
	}

	version, err = r.UserVersion(ctx)
	if err != nil {
		return 0, false, err
	}

	exists, err = m.Exists(ctx)
	if err != nil {
		return 0, false, err
	}

	return version, exists, nil
}

func prepare(ctx context.Context, r *db.SQLite, m *tables.Manager, opts Options) (Report, error) {
	rep := Report{To: opts.Version}

	from, err := r.UserVersion(ctx)
	if err != nil {
		return rep, err
	}
	rep.From = from

	exists, err := m.Exists(ctx)
	if err != nil {
		return rep, err
	}

	if !exists {
		if err := m.Create(ctx, opts.Version); err != nil {
			return rep, err
		}
		rep.Created = true
		slog.Info("store created", "name", r.Name(), "version", opts.Version)

		return rep, nil
	}

	if from == opts.Version {
		return rep, nil
	}

	if opts.BackupDir != "" && r.Cfg.Path != "" {
		p, err := r.Backup(ctx, opts.BackupDir)
		if err != nil {
			return rep, fmt.Errorf("backup before reset: %w", err)
		}
		rep.Backup = p
	}

	if err := m.UpdateTable(ctx, from, opts.Version); err != nil {
		return rep, err
	}
	rep.Reset = true
	slog.Warn("store reset", "name", r.Name(), "from", from, "to", opts.Version, "backup", rep.Backup)

	return rep, nil
}
