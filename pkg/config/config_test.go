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
	path := filepath.Join(t.TempDir(), "cgstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 0.01, cfg.Threshold)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "/sys/fs/cgroup", cfg.CgroupRoot)
	assert.Equal(t, 80, cfg.Global.ProgressWidth)
	assert.NotEmpty(t, cfg.StateFile)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Threshold, cfg.Threshold)
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, `
state_file: /var/lib/cgstats/state.yaml
threshold: 0.05
global:
  progress_width: 100
  progress_full_character: "#"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cgstats/state.yaml", cfg.StateFile)
	assert.Equal(t, 0.05, cfg.Threshold)
	assert.Equal(t, 100, cfg.Global.ProgressWidth)
	assert.Equal(t, "#", cfg.Global.ProgressFullCharacter)
	assert.Equal(t, "=", cfg.Global.ProgressEmptyCharacter)
	assert.Equal(t, "[", cfg.Global.ProgressPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "threshold: [1, 2"))
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "threshold: 0.05\nstore: file\n")
	t.Setenv("CGSTATS_THRESHOLD", "0.2")
	t.Setenv("CGSTATS_STORE", "redis")
	t.Setenv("CGSTATS_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("CGSTATS_REDIS_DB", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Threshold)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, Validate(cfg))
}

func TestInvalidEnvironmentNumbers(t *testing.T) {
	t.Setenv("CGSTATS_THRESHOLD", "lots")
	_, err := Load("")
	require.ErrorContains(t, err, "CGSTATS_THRESHOLD")

	t.Setenv("CGSTATS_THRESHOLD", "")
	t.Setenv("CGSTATS_REDIS_DB", "zero")
	_, err = Load("")
	require.ErrorContains(t, err, "CGSTATS_REDIS_DB")
}

func TestValidateReportsFields(t *testing.T) {
	cfg := Default()
	cfg.Store = "etcd"
	cfg.Threshold = 2
	cfg.Global.ProgressWidth = 0
	cfg.Log.Format = "xml"

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "store must be one of")
	assert.Contains(t, msg, "threshold must be at most 1")
	assert.Contains(t, msg, "global.progress_width must be greater than 2")
	assert.Contains(t, msg, "log.format must be one of")
}

func TestValidateBackendRequirements(t *testing.T) {
	cfg := Default()
	cfg.StateFile = " "
	require.ErrorContains(t, Validate(cfg), "state_file is required")

	cfg = Default()
	cfg.Store = StoreRedis
	cfg.Redis.Address = ""
	require.ErrorContains(t, Validate(cfg), "redis.address is required")
}

func TestValidateAllowsNonPositiveThreshold(t *testing.T) {
	cfg := Default()
	cfg.Threshold = 0
	require.NoError(t, Validate(cfg))
	cfg.Threshold = -0.5
	require.NoError(t, Validate(cfg))
}
