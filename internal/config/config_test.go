package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8417", cfg.ListenAddr)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "file", cfg.Storage)
	assert.Equal(t, "SAR", cfg.CurrencySuffix)
	assert.Equal(t, "+966", cfg.DefaultCountryCode)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen_addr: \":9000\"\nstorage: sqlite\ncurrency_suffix: EGP\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, "EGP", cfg.CurrencySuffix)
	assert.Equal(t, "data", cfg.DataDir, "unset keys still get defaults")
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9000\"\n"), 0o644))
	t.Setenv("LEDGER_LISTEN_ADDR", ":7000")
	t.Setenv("LEDGER_COUNTRY_CODE", "+20")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "+20", cfg.DefaultCountryCode)
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage: cloud\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(": not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
