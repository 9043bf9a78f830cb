package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `connection_string_env: STAGING_SQL
action: DeployReport
arguments: /OutputPath:report.xml
build_arguments: -c Release
timeout: 10m
sqlpackage_path: /opt/sqlpackage/sqlpackage
cloudsql_instance: proj:region:inst
variables:
  Environment: staging
  Region: eu-west
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "STAGING_SQL", cfg.ConnectionStringEnv)
	assert.Equal(t, "DeployReport", cfg.Action)
	assert.Equal(t, "/OutputPath:report.xml", cfg.Arguments)
	assert.Equal(t, "-c Release", cfg.BuildArguments)
	assert.Equal(t, "/opt/sqlpackage/sqlpackage", cfg.SQLPackagePath)
	assert.Equal(t, "proj:region:inst", cfg.CloudSQLInstance)
	assert.Equal(t, map[string]string{"Environment": "staging", "Region": "eu-west"}, cfg.Variables)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_MinimalYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "action: publish\n"))
	require.NoError(t, err)

	assert.Equal(t, "publish", cfg.Action)
	assert.Empty(t, cfg.Variables)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "action: [unclosed\n"))
	assert.ErrorIs(t, err, sqlaction.ErrInvalidConfig)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"unknown action", "action: Extract\n", `unknown SqlPackage action "Extract"`},
		{"bad timeout", "timeout: soon\n", `timeout "soon"`},
		{"negative timeout", "timeout: -5m\n", `timeout "-5m"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, sqlaction.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), ConfigFileName)
		})
	}
}
