package judge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 60*time.Second, cfg.CompileTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, "stdout", cfg.CaptureFile)
	assert.EqualValues(t, 0, cfg.CaptureLimitBytes())
}

func TestConfigZeroValuesFallBack(t *testing.T) {
	var cfg Config
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 60*time.Second, cfg.CompileTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dredd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeoutSec: 5
pollIntervalMs: 100
captureLimitKb: 16
log:
  level: debug
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	assert.EqualValues(t, 16*1024, cfg.CaptureLimitBytes())
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "stdout", cfg.CaptureFile)
	assert.Equal(t, 60*time.Second, cfg.CompileTimeout())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeoutSec: [oops"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
