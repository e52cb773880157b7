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
	path := filepath.Join(t.TempDir(), "autosource.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
registry: sim
seed: 42
format: json
metrics_file: /tmp/autosource.prom
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Registry:    "sim",
		Seed:        42,
		Format:      "json",
		MetricsFile: "/tmp/autosource.prom",
	}, c)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "seed: 7\n"))
	require.NoError(t, err)

	assert.Equal(t, "autosource", c.Registry)
	assert.Equal(t, "text", c.Format)
	assert.Equal(t, uint64(7), c.Seed)
}

func TestLoad_EmptyFile(t *testing.T) {
	c, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "registy: sim\n", "field registy not found"},
		{"bad registry", "registry: github\n", "registry must be one of"},
		{"bad format", "format: xml\n", "format must be one of"},
		{"negative seed", "seed: -1\n", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
