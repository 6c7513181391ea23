// Package support provides test helpers for the espec CLI specs.
package support

import (
	"os"
)

// TestEnv holds the isolated working directory for a scenario.
type TestEnv struct {
	// TempDir is the temporary directory for this scenario
	TempDir string
	// OriginalDir is the directory we were in before the scenario
	OriginalDir string
}

// NewTestEnv creates a fresh project directory and changes into it.
func NewTestEnv() (*TestEnv, error) {
	originalDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "espec-spec-*")
	if err != nil {
		return nil, err
	}

	if err := os.Chdir(tempDir); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	return &TestEnv{
		TempDir:     tempDir,
		OriginalDir: originalDir,
	}, nil
}

// Cleanup restores the original working directory and removes the
// scenario directory.
func (e *TestEnv) Cleanup() error {
	if err := os.Chdir(e.OriginalDir); err != nil {
		return err
	}
	return os.RemoveAll(e.TempDir)
}
