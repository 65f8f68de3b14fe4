package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/browserdb/pkg/db"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), configFilename)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("values", func(t *testing.T) {
		t.Parallel()
		p := writeConfig(t, `
driver: sqlite3
path: /tmp/places.db
locale: es-AR
schema_version: 3
backup:
  enabled: false
cache:
  size: 128
`)
		cfg, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, db.DriverMattn, cfg.Driver)
		assert.Equal(t, "/tmp/places.db", cfg.Path)
		assert.Equal(t, "es-AR", cfg.Locale)
		assert.Equal(t, 3, cfg.SchemaVersion)
		assert.False(t, cfg.Backup.Enabled)
		assert.Equal(t, 128, cfg.Cache.Size)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "driver: postgres\n"))
		require.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("negative version", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "schema_version: -1\n"))
		require.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "driver: [\n"))
		require.ErrorIs(t, err, ErrConfigParse)
	})
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	cfg.Profile = "default-release"

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "profile: default-release")

	p := writeConfig(t, buf.String())
	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPaths(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	assert.Equal(t, filepath.Join("/data", DefaultDBName), cfg.StorePath("/data"))
	assert.Equal(t, filepath.Join("/data", "backup"), cfg.BackupDir("/data"))

	cfg.Path = "/elsewhere/store.db"
	cfg.Backup.Dir = "/backups"
	assert.Equal(t, "/elsewhere/store.db", cfg.StorePath("/data"))
	assert.Equal(t, "/backups", cfg.BackupDir("/data"))

	cfg.Backup.Enabled = false
	assert.Empty(t, cfg.BackupDir("/data"))
	assert.Equal(t, "/backups", cfg.BackupPath("/data"))
}

//nolint:paralleltest //modifies the environment
func TestBackupDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Defaults()
	cfg.Backup.Dir = "~/bk"
	assert.Equal(t, filepath.Join(home, "bk"), cfg.BackupDir("/data"))
	assert.Equal(t, filepath.Join(home, "bk"), cfg.BackupPath("/data"))
}

//nolint:paralleltest //modifies the environment
func TestDataPathEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	got, err := DataPath()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
