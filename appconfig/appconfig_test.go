package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultStorePath, s.StorePath)
	require.Equal(t, DefaultLogLevel, s.LogLevel)
	require.True(t, s.Builtin)
	require.Empty(t, s.TablesDir)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotsparams.yaml")
	body := "tables_dir: ./tables\nlog_level: debug\nbuiltin: false\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("GOTSPARAMS_STORE_PATH", "/tmp/params.db")
	t.Setenv("GOTSPARAMS_LOG_LEVEL", "warn")

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./tables", s.TablesDir)
	require.Equal(t, "/tmp/params.db", s.StorePath)
	require.Equal(t, "warn", s.LogLevel, "environment overrides the file")
	require.False(t, s.Builtin)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
