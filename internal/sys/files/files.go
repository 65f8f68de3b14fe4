// Package files provides utilities for working with files/directories.
package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

const dirPerm = 0o750

var (
	ErrFileNotFound = errors.New("file not found")
	ErrPathNotFound = errors.New("path not found")
)

// Exists checks if a file exists.
func Exists(s string) bool {
	if s == "" {
		return false
	}

	_, err := os.Stat(s)

	return !os.IsNotExist(err)
}

// MkdirAll creates all the given paths.
func MkdirAll(s ...string) error {
	for _, p := range s {
		if Exists(p) {
			continue
		}

		slog.Debug("creating path", "path", p)
		if err := os.MkdirAll(p, dirPerm); err != nil {
			return fmt.Errorf("creating %s: %w", p, err)
		}
	}

	return nil
}

// List returns the files in root whose name ends with suffix, sorted by
// name.
func List(root, suffix string) ([]string, error) {
	if !Exists(root) {
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, root)
	}

	found, err := filepath.Glob(filepath.Join(root, "*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", root, err)
	}
	slices.Sort(found)

	slog.Debug("files found", "path", root, "count", len(found))

	return found, nil
}

// Remove removes the specified file if it exists.
func Remove(s string) error {
	if !Exists(s) {
		return fmt.Errorf("%w: %q", ErrFileNotFound, s)
	}

	slog.Debug("removing file", "path", s)
	if err := os.Remove(s); err != nil {
		return fmt.Errorf("removing file: %w", err)
	}

	return nil
}
