package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.SQLDatabase.URI = "/tmp/users.db"
	cfg.API.Port = "9000"
	cfg.OperationTimeout = 3 * time.Second
	require.NoError(t, cfg.Save(path))
	require.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("sql_database:\n  provider: postgres\n  uri: postgres://localhost/app\noperation_timeout: 2s\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.SQLDatabase.Provider)
	assert.Equal(t, 2*time.Second, cfg.OperationTimeout)
	assert.Equal(t, "mongodb", cfg.NoSQLDatabase.Provider)
	assert.Equal(t, "8989", cfg.API.Port)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sql_database:\n  provider: oracle\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvMongoURI, "mongodb+srv://cluster.example.net")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.SQLDatabase.Provider)
	assert.Equal(t, "mongodb+srv://cluster.example.net", cfg.NoSQLDatabase.URI)
}

func TestGetConfigPath_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/dbmanager.yaml")
	assert.Equal(t, "/etc/dbmanager.yaml", GetConfigPath())
}

func TestDatabaseConfig_ToModel(t *testing.T) {
	d := DatabaseConfig{Provider: "mongodb", URI: "mongodb://h", Database: "d", Options: map[string]string{"k": "v"}}
	m := d.ToModel()
	assert.Equal(t, "mongodb", m.Provider)
	assert.Equal(t, "mongodb://h", m.URI)
	assert.Equal(t, "d", m.Database)
	assert.Equal(t, "v", m.Options["k"])
}
