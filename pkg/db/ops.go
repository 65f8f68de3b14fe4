package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
)

// Default date format for backup names.
const defaultDateFormat = "20060102-150405"

// TableExists checks whether a table with the specified name exists in the
// SQLite database.
func (r *SQLite) TableExists(ctx context.Context, t Table) (bool, error) {
	return objectExists(ctx, r, "table", t)
}

// ViewExists checks whether a view with the specified name exists.
func (r *SQLite) ViewExists(ctx context.Context, t Table) (bool, error) {
	return objectExists(ctx, r, "view", t)
}

func objectExists(ctx context.Context, r *SQLite, kind string, t Table) (bool, error) {
	var count int

	err := r.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", kind, t)
	if err != nil {
		slog.Error("checking if object exists", "type", kind, "name", t, "error", err)
		return false, fmt.Errorf("%s exists: %w", kind, err)
	}

	return count > 0, nil
}

// Count returns the number of rows in the specified table or view.
func (r *SQLite) Count(ctx context.Context, t Table) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", t)); err != nil {
		return 0, fmt.Errorf("count %q: %w", t, err)
	}

	return n, nil
}

// UserVersion returns the schema version stored in the database header.
func (r *SQLite) UserVersion(ctx context.Context) (int, error) {
	var v int
	if err := r.DB.GetContext(ctx, &v, "PRAGMA user_version"); err != nil {
		return 0, fmt.Errorf("reading user_version: %w", err)
	}

	return v, nil
}

// SetUserVersion stores v in the database header using ex, which may be the
// connection or an open transaction.
func SetUserVersion(ctx context.Context, ex sqlx.ExecerContext, v int) error {
	if v < 0 {
		return fmt.Errorf("%w: %d", ErrVersionInvalid, v)
	}

	if _, err := ex.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}

	return nil
}

// Vacuum rebuilds the database file, repacking it into a minimal amount of
// disk space.
func (r *SQLite) Vacuum(ctx context.Context) error {
	slog.Debug("vacuuming database")

	if _, err := r.DB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	return nil
}

// Backup copies the database into dir and returns the backup path.
func (r *SQLite) Backup(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		return "", ErrBackupDirUnset
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	// destDSN -> 20060102-150405_dbName.db
	destDSN := fmt.Sprintf("%s_%s", time.Now().Format(defaultDateFormat), r.Name())
	destPath := filepath.Join(dir, destDSN)
	slog.Info("creating SQLite backup", "src", r.Cfg.Fullpath(), "dest", destPath)

	if fileExists(destPath) {
		return "", fmt.Errorf("%w: %q", ErrBackupExists, destPath)
	}

	if _, err := r.DB.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}

	if err := VerifyIntegrity(r.Cfg.Driver, destPath); err != nil {
		return "", err
	}

	return destPath, nil
}

// VerifyIntegrity checks the integrity of the SQLite database at path.
func VerifyIntegrity(driver, path string) error {
	slog.Debug("verifying SQLite integrity", "path", path)

	db, err := OpenDatabase(driver, path)
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing db", "error", err)
		}
	}()

	var result string
	if err := db.Get(&result, "PRAGMA integrity_check"); err != nil {
		return fmt.Errorf("%w: %w", ErrDBCorrupted, err)
	}

	if result != "ok" {
		return fmt.Errorf("%w: integrity check: %q", ErrDBCorrupted, result)
	}

	slog.Debug("SQLite integrity verified", "result", result)

	return nil
}

// fileExists checks if a file exists.
func fileExists(s string) bool {
	_, err := os.Stat(s)
	return !os.IsNotExist(err)
}

func ensureDBSuffix(s string) string {
	const suffix = ".db"
	if s == "" {
		return s
	}

	if filepath.Ext(s) != "" {
		return s
	}

	return s + suffix
}
