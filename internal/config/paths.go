package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gap "github.com/muesli/go-app-paths"
)

// DataPath returns the data path for the application. BROWSERDB_HOME takes
// precedence.
func DataPath() (string, error) {
	if p := os.Getenv(EnvHome); p != "" {
		return ExpandHome(p), nil
	}

	scope := gap.NewScope(gap.User, appName)
	dataDir, err := scope.DataPath("")
	if err != nil {
		return "", fmt.Errorf("getting data path: %w", err)
	}

	return dataDir, nil
}

// ConfigPath returns the config path for the application.
func ConfigPath() (string, error) {
	scope := gap.NewScope(gap.User, appName)
	configDir, err := scope.ConfigPath("")
	if err != nil {
		return "", fmt.Errorf("getting config path: %w", err)
	}

	return configDir, nil
}

// ConfigFile returns the path of config.yml.
func ConfigFile() (string, error) {
	dir, err := ConfigPath()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, configFilename), nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(s string) string {
	if strings.HasPrefix(s, "~/") {
		dirname, err := os.UserHomeDir()
		if err != nil {
			return s
		}
		s = filepath.Join(dirname, s[2:])
	}

	return s
}
