package db

import (
	"errors"
	"strings"

	mattn "github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	// database errs.
	ErrDBNotFound     = errors.New("database not found")
	ErrDBCorrupted    = errors.New("database corrupted")
	ErrDriverUnknown  = errors.New("unknown sqlite driver")
	ErrVersionInvalid = errors.New("invalid schema version")
)

var (
	// records errs.
	ErrRecordNotFound = errors.New("no record found")
)

var (
	// backups errs.
	ErrBackupExists   = errors.New("backup already exists")
	ErrBackupDirUnset = errors.New("backup directory not set")
)

// IsConstraint reports whether err is a SQLite constraint violation
// (UNIQUE, PRIMARY KEY, FOREIGN KEY, NOT NULL, CHECK).
func IsConstraint(err error) bool {
	if err == nil {
		return false
	}

	var me mattn.Error
	if errors.As(err, &me) {
		return me.Code == mattn.ErrConstraint
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
	}

	return strings.Contains(err.Error(), "constraint failed")
}

// IsBusy reports whether err is a SQLite BUSY or LOCKED error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}

	var me mattn.Error
	if errors.As(err, &me) {
		return me.Code == mattn.ErrBusy || me.Code == mattn.ErrLocked
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		c := se.Code() & 0xff
		return c == sqlitelib.SQLITE_BUSY || c == sqlitelib.SQLITE_LOCKED
	}

	return strings.Contains(err.Error(), "database is locked")
}
