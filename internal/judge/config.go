// internal/judge/config.go
package judge

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Nuolong/dredd/internal/util"
)

const (
	// --- Default limits ---
	DefaultTimeoutSec        = 30 // execution deadline in seconds
	DefaultCompileTimeoutSec = 60 // compile deadline in seconds
	DefaultPollIntervalMS    = 250
	DefaultCaptureLimitKB    = 64 // API capture cap; CLI runs leave it 0 (unlimited)

	// --- Host environment ---
	DefaultCaptureName = "stdout"
	DefaultScratchDir  = "/tmp/dredd-runs"
)

// Config holds the judge configuration. The zero value is not usable; start
// from DefaultConfig or LoadConfig.
type Config struct {
	TimeoutSec        int            `yaml:"timeoutSec"`
	CompileTimeoutSec int            `yaml:"compileTimeoutSec"`
	PollIntervalMS    int            `yaml:"pollIntervalMs"`
	WorkDir           string         `yaml:"workDir"`
	CaptureFile       string         `yaml:"captureFile"`
	CaptureLimitKB    int            `yaml:"captureLimitKb"` // 0 = unlimited
	ScratchDir        string         `yaml:"scratchDir"`     // base for API run dirs
	Log               util.LogConfig `yaml:"log"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		TimeoutSec:        DefaultTimeoutSec,
		CompileTimeoutSec: DefaultCompileTimeoutSec,
		PollIntervalMS:    DefaultPollIntervalMS,
		WorkDir:           ".",
		CaptureFile:       DefaultCaptureName,
		ScratchDir:        DefaultScratchDir,
		Log:               util.LogConfig{Level: "info", Format: "console"},
	}
}

// LoadConfig overlays a YAML file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout returns the execution deadline.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return DefaultTimeoutSec * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// CompileTimeout returns the compile deadline.
func (c Config) CompileTimeout() time.Duration {
	if c.CompileTimeoutSec <= 0 {
		return DefaultCompileTimeoutSec * time.Second
	}
	return time.Duration(c.CompileTimeoutSec) * time.Second
}

// PollInterval returns how often the supervisor checks the child.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// CaptureLimitBytes returns the capture size cap, 0 for unlimited.
func (c Config) CaptureLimitBytes() int64 {
	if c.CaptureLimitKB <= 0 {
		return 0
	}
	return int64(c.CaptureLimitKB) * 1024
}
