package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagebridge.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  listen_addr = "0.0.0.0:9000"
  auth_token  = "shared-secret"
}

record_store {
  base_url  = "https://api.example.com"
  api_token = "integration-token"
  version   = "2022-06-28"
}

database "docs" {
  id = "11111111-1111-1111-1111-111111111111"
}

database "tasks" {
  id = "22222222-2222-2222-2222-222222222222"
}
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.ListenAddr)
	assert.Equal(t, "shared-secret", cfg.Server.AuthToken)
	assert.Equal(t, "https://api.example.com", cfg.RecordStore.BaseURL)
	assert.Equal(t, "markdown", cfg.Export.DefaultFormat)
}

func TestResolveDatabase(t *testing.T) {
	cfg := &Config{Databases: []*Database{
		{Alias: "docs", ID: "id-docs"},
		{Alias: "tasks", ID: "id-tasks"},
	}}

	id, ok := cfg.ResolveDatabase("tasks")
	assert.True(t, ok)
	assert.Equal(t, "id-tasks", id)

	// Unrecognized keys fall back to the first configured database.
	id, ok = cfg.ResolveDatabase("roadmap")
	assert.True(t, ok)
	assert.Equal(t, "id-docs", id)

	empty := &Config{}
	_, ok = empty.ResolveDatabase("docs")
	assert.False(t, ok)
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{
		Server: &Server{},
		Databases: []*Database{
			{Alias: "docs"},
			{Alias: "docs", ID: "x"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record_store block is required")
	assert.Contains(t, err.Error(), "auth_token is required")
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), "duplicate alias")
}

func TestAuthTokenFromEnvironment(t *testing.T) {
	t.Setenv("PAGEBRIDGE_AUTH_TOKEN", "env-secret")
	t.Setenv("RECORDSTORE_API_TOKEN", "env-api-token")

	path := writeConfig(t, `
record_store {
  base_url = "https://api.example.com"
}

database "docs" {
  id = "11111111-1111-1111-1111-111111111111"
}
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "env-secret", cfg.Server.AuthToken)
	assert.Equal(t, "env-api-token", cfg.RecordStore.APIToken)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.ListenAddr)
}
