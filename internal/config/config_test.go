package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func TestInit_DefaultsWithoutConfigFile(t *testing.T) {
	inTempDir(t)

	require.NoError(t, Init(""))

	assert.Equal(t, "features", Dir())
	assert.Equal(t, filepath.Join("features", "espec.db"), DBPath())
	assert.False(t, Strict())
	assert.Equal(t, "json", Format())
}

func TestInit_ReadsWorkingDirectoryConfig(t *testing.T) {
	inTempDir(t)
	content := "dir: specs\nstrict: true\nformat: yaml\n"
	require.NoError(t, os.WriteFile(".espec.yaml", []byte(content), 0644))

	require.NoError(t, Init(""))

	assert.Equal(t, "specs", Dir())
	assert.Equal(t, filepath.Join("specs", "espec.db"), DBPath())
	assert.True(t, Strict())
	assert.Equal(t, "yaml", Format())
}

func TestInit_ExplicitPath(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: elsewhere\n"), 0644))

	require.NoError(t, Init(path))

	assert.Equal(t, "elsewhere", Dir())
}

func TestInit_ExplicitPathMustExist(t *testing.T) {
	dir := inTempDir(t)

	err := Init(filepath.Join(dir, "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestAccessors_FallBackWithoutInit(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, "features", Dir())
	assert.Equal(t, "json", Format())
	assert.False(t, Strict())
}
