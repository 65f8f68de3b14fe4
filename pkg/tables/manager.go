// Package tables manages the lifecycle of a catalog of tables: creating it,
// checking for its presence, resetting it on version changes and dropping it.
package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/browserdb/pkg/ddl"
	"github.com/mateconpizza/browserdb/pkg/schema"
)

var ErrStatementCount = errors.New("statement count does not match catalog")

// DB is the connection the manager runs against.
type DB interface {
	Conn() *sqlx.DB
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// Seeder inserts baseline rows after the tables are created.
type Seeder interface {
	Prepopulate(ctx context.Context, ex sqlx.ExecerContext) error
}

// VersionFunc persists version within the transaction that created the
// tables.
type VersionFunc func(ctx context.Context, tx *sqlx.Tx, version int) error

// Option configures a Manager.
type Option func(*Manager)

// WithSeeder sets the seeder run by Create.
func WithSeeder(s Seeder) Option {
	return func(m *Manager) {
		m.seeder = s
	}
}

// WithVersionFunc sets the hook run at the end of Create.
func WithVersionFunc(fn VersionFunc) Option {
	return func(m *Manager) {
		m.setVersion = fn
	}
}

// Manager creates, resets and drops the tables of a catalog.
//
// Callers must serialize access; the manager does not lock.
type Manager struct {
	db         DB
	catalog    *schema.Catalog
	seeder     Seeder
	setVersion VersionFunc
}

// New returns a manager for c. The catalog is validated before any statement
// can run.
func New(r DB, c *schema.Catalog, opts ...Option) (*Manager, error) {
	if r == nil {
		return nil, errors.New("tables: nil database")
	}

	if c == nil {
		return nil, fmt.Errorf("%w: nil catalog", schema.ErrInvalidCatalog)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{db: r, catalog: c}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Catalog returns the managed catalog.
func (m *Manager) Catalog() *schema.Catalog {
	return m.catalog
}

// Exists reports whether at least one catalog table is present. It does not
// check views or column shape.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	q, args, err := sqlx.In(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN (?)",
		m.catalog.Tables(),
	)
	if err != nil {
		return false, fmt.Errorf("building exists query: %w", err)
	}

	var found []string
	if err := m.db.Conn().SelectContext(ctx, &found, q, args...); err != nil {
		slog.Error("checking tables", "error", err)
		return false, fmt.Errorf("checking tables: %w", err)
	}

	slog.Debug("tables present", "found", len(found), "listed", len(m.catalog.Tables()))

	return len(found) > 0, nil
}

// Create creates every table and view, then seeds and records version, all
// in one transaction. Every version creates the current shape.
func (m *Manager) Create(ctx context.Context, version int) error {
	slog.Info("creating tables", "version", version)

	err := m.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return m.create(ctx, tx, version)
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	return nil
}

// UpdateTable moves the tables from one version to another. Equal versions
// are a no-op. Any other pair, version 0 and downgrades included, drops every
// table and view and creates them again at to; stored rows are discarded.
func (m *Manager) UpdateTable(ctx context.Context, from, to int) error {
	if from == to {
		slog.Debug("tables up to date", "version", to)
		return nil
	}

	slog.Warn("resetting tables, stored rows will be discarded", "from", from, "to", to)

	err := m.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := m.drop(ctx, tx); err != nil {
			return err
		}

		return m.create(ctx, tx, to)
	})
	if err != nil {
		return fmt.Errorf("update from %d to %d: %w", from, to, err)
	}

	return nil
}

// Drop drops every view, every table and the legacy tables. Missing objects
// are skipped, so Drop can run repeatedly.
func (m *Manager) Drop(ctx context.Context) error {
	slog.Info("dropping tables")

	err := m.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return m.drop(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	return nil
}

func (m *Manager) create(ctx context.Context, tx *sqlx.Tx, version int) error {
	stmts := m.catalog.CreateStatements()
	if n, want := len(stmts), len(m.catalog.Tables())+len(m.catalog.Views()); n != want {
		return fmt.Errorf("%w: %d != %d", ErrStatementCount, n, want)
	}

	if err := ddl.RunAll(ctx, tx, ddl.Strings(stmts...)...); err != nil {
		return err
	}

	if m.seeder != nil {
		if err := m.seeder.Prepopulate(ctx, tx); err != nil {
			return err
		}
	}

	if m.setVersion != nil {
		if err := m.setVersion(ctx, tx, version); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) drop(ctx context.Context, tx *sqlx.Tx) error {
	stmts := m.catalog.DropStatements()
	slog.Debug("dropping objects", "statements", len(stmts))

	return ddl.RunAll(ctx, tx, ddl.Strings(stmts...)...)
}
