// Package db provides the SQLite connection layer for the browser store.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	MaxOpenConns    = 1         // Single writer connection
	MaxIdleConns    = 1         // Keep the connection (and in-memory stores) alive
	MaxLifetimeConn = time.Hour // Maximum connection lifetime
)

// Driver names registered by the SQLite drivers.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, CGO-free
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3
)

// DefaultDriver is used when no driver is configured.
const DefaultDriver = DriverModernc

// Table is the name of a table or view.
type Table string

// SQLite wraps the connection to a browser store.
type SQLite struct {
	DB        *sqlx.DB `json:"-"`
	Cfg       *Cfg     `json:"db"`
	closeOnce sync.Once
}

// Name returns the name of the SQLite database.
func (r *SQLite) Name() string {
	return r.Cfg.Name
}

// Conn returns the underlying connection.
func (r *SQLite) Conn() *sqlx.DB {
	return r.DB
}

// Close closes the SQLite database connection and logs any errors encountered.
func (r *SQLite) Close() {
	s := r.Name()
	r.closeOnce.Do(func() {
		if err := r.DB.Close(); err != nil {
			slog.Error("closing database", "name", s, "error", err)
		} else {
			slog.Debug("database closed", "name", s)
		}
	})
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, panics included.
func (r *SQLite) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		} else if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback error", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("fn transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}

// New opens an existing store at path.
func New(driver, p string) (*SQLite, error) {
	return newRepository(driver, p, func(path string) error {
		slog.Debug("new repo: checking if database exists", "path", path)
		if !fileExists(path) {
			return fmt.Errorf("%w: %q", ErrDBNotFound, path)
		}

		return nil
	})
}

// Open opens the store at path, creating the file when missing.
func Open(driver, p string) (*SQLite, error) {
	return newRepository(driver, p, func(string) error { return nil })
}

// NewMemory opens a private in-memory store. Mostly useful in tests.
func NewMemory(driver, name string) (*SQLite, error) {
	db, err := OpenDatabase(driver, fmt.Sprintf("file:%s?mode=memory", name))
	if err != nil {
		return nil, err
	}

	return &SQLite{DB: db, Cfg: &Cfg{Name: name, Driver: driver}}, nil
}

func newRepository(driver, p string, validate func(string) error) (*SQLite, error) {
	if p == "" {
		return nil, fmt.Errorf("%w: %q", ErrDBNotFound, p)
	}

	if err := validate(p); err != nil {
		return nil, err
	}

	c, err := NewSQLiteCfg(p)
	if err != nil {
		return nil, err
	}
	c.Driver = driver

	db, err := OpenDatabase(driver, c.Fullpath())
	if err != nil {
		slog.Error("NewRepo", "error", err, "path", p)
		return nil, err
	}

	return &SQLite{DB: db, Cfg: c}, nil
}

// buildSQLiteDSN constructs a SQLite Data Source Name from a file path and
// optional parameters.
func buildSQLiteDSN(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	return path + separator + params.Encode()
}

// dsnParams returns the connection pragmas in the syntax each driver expects.
func dsnParams(driver string, memory bool) (url.Values, error) {
	v := url.Values{}

	switch driver {
	case DriverModernc:
		v.Add("_pragma", "foreign_keys(1)")
		v.Add("_pragma", "busy_timeout(5000)")
		if !memory {
			v.Add("_pragma", "journal_mode(WAL)")
			v.Add("_pragma", "synchronous(NORMAL)")
		}
	case DriverMattn:
		v.Set("_foreign_keys", "on")
		v.Set("_busy_timeout", "5000")
		if !memory {
			v.Set("_journal_mode", "WAL")
			v.Set("_synchronous", "NORMAL")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnknown, driver)
	}

	return v, nil
}

// OpenDatabase opens a SQLite database at the specified path and verifies
// the connection, returning the database handle or an error.
func OpenDatabase(driver, path string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DefaultDriver
	}

	slog.Debug("opening database", "driver", driver, "path", path)
	memory := strings.Contains(path, "mode=memory") || path == ":memory:"

	params, err := dsnParams(driver, memory)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, buildSQLiteDSN(path, params))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)
	db.SetConnMaxLifetime(MaxLifetimeConn)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: on ping context", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

// Cfg represents the configuration for a SQLite database.
type Cfg struct {
	Name   string `json:"name"`   // Name of the SQLite database
	Path   string `json:"path"`   // Directory holding the database
	Driver string `json:"driver"` // Registered driver name
}

// Fullpath returns the full path to the SQLite database.
func (c *Cfg) Fullpath() string {
	return filepath.Join(c.Path, c.Name)
}

// NewSQLiteCfg returns the default settings for the database.
func NewSQLiteCfg(p string) (*Cfg, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", p, err)
	}

	return &Cfg{
		Path: filepath.Dir(abs),
		Name: ensureDBSuffix(filepath.Base(abs)),
	}, nil
}
