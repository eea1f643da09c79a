package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("API_KEY", "k")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "k", cfg.APIKey)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_port":"9000","model":"from-file","admin_email":"a@b.c"}`), 0644))

	t.Setenv("API_KEY", "secret")
	t.Setenv("SMEARN_MODEL", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, "a@b.c", cfg.AdminEmail)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)

	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.RequestsPerMinute = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_SessionHours(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "k"
	assert.Equal(t, 24, cfg.SessionHours)

	cfg.SessionHours = 0
	assert.Error(t, cfg.Validate())
}

func TestSave_OmitsAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := Default()
	cfg.APIKey = "do-not-write"

	require.NoError(t, cfg.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "do-not-write")
}

func TestSave_KeepsModel(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "super-secret"
	cfg.Model = "gemini-custom"
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
	assert.Contains(t, string(data), "gemini-custom")
}
