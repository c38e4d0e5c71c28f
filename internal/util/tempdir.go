// internal/util/tempdir.go
package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetupRunDir creates a unique scratch directory for one judged run.
// It returns the path to the created directory and a cleanup function.
func SetupRunDir(baseDir string) (runDir string, cleanup func(), err error) {
	runID := uuid.New().String()
	runDir = filepath.Join(baseDir, runID)

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create base scratch directory %s: %w", baseDir, err)
	}

	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create run dir %s: %w", runDir, err)
	}
	Debug("created run dir", zap.String("dir", runDir))

	cleanup = func() {
		if err := os.RemoveAll(runDir); err != nil {
			Warn("failed to clean up run dir", zap.String("dir", runDir), zap.Error(err))
		}
	}

	return runDir, cleanup, nil
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(dirName string) error {
	if err := os.MkdirAll(dirName, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirName, err)
	}
	return nil
}
