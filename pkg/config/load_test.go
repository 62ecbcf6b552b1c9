package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupXDG points the XDG lookup at throwaway directories and blanks
// the GITPIPE_* overrides so tests never see the host's configuration.
func setupXDG(t *testing.T) (userDir, systemDir string) {
	t.Helper()

	// Registered before Setenv so it runs after the env restore and
	// re-reads the host's real values.
	t.Cleanup(func() { xdg.Reload() })

	base := t.TempDir()
	userDir = filepath.Join(base, "user")
	systemDir = filepath.Join(base, "system")
	t.Setenv("XDG_CONFIG_HOME", userDir)
	t.Setenv("XDG_CONFIG_DIRS", systemDir)
	xdg.Reload()

	for _, name := range []string{
		EnvBinary, EnvObjectMax, EnvQueueBound,
		EnvQueuePolicy, EnvLogLevel, EnvLogFormat,
	} {
		t.Setenv(name, "")
	}
	return userDir, systemDir
}

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaultsWhenNothingConfigured(t *testing.T) {
	setupXDG(t)

	loaded, lerr := Load("")
	require.NoError(t, lerr)
	assert.Equal(t, Default(), loaded.Settings)
	assert.Empty(t, loaded.Origins)
}

func TestLoadUserFile(t *testing.T) {
	userDir, _ := setupXDG(t)
	writeConfigFile(t, filepath.Join(userDir, "gitpipe", "config.toml"),
		"[engine]\nenv = [\"GIT_TRACE=1\"]\n\n[log]\nlevel = \"debug\"\n")

	loaded, lerr := Load("")
	require.NoError(t, lerr)

	assert.Equal(t, "debug", loaded.Settings.Log.Level)
	assert.Equal(t, []string{"GIT_TRACE=1"}, loaded.Settings.Engine.Env)
	assert.Equal(t, "git", loaded.Settings.Engine.Binary, "untouched settings keep their defaults")

	require.Len(t, loaded.Origins, 1)
	assert.Equal(t, UserLevel, loaded.Origins[0].Level)
	assert.Equal(t, UserPath(), loaded.Origins[0].Path)
}

func TestLoadLayersInPrecedenceOrder(t *testing.T) {
	userDir, systemDir := setupXDG(t)
	writeConfigFile(t, filepath.Join(systemDir, "gitpipe", "config.toml"),
		"[engine]\nbinary = \"/opt/git/bin/git\"\n\n[log]\nlevel = \"warn\"\n")
	writeConfigFile(t, filepath.Join(userDir, "gitpipe", "config.toml"),
		"[log]\nlevel = \"debug\"\n")

	repo := t.TempDir()
	writeConfigFile(t, filepath.Join(repo, RepoFileName),
		"[log]\nformat = \"json\"\n")

	loaded, lerr := Load(repo)
	require.NoError(t, lerr)

	assert.Equal(t, "/opt/git/bin/git", loaded.Settings.Engine.Binary,
		"only the system layer names a binary")
	assert.Equal(t, "debug", loaded.Settings.Log.Level,
		"the user layer overrides the system one")
	assert.Equal(t, "json", loaded.Settings.Log.Format)

	require.Len(t, loaded.Origins, 3)
	assert.Equal(t, SystemLevel, loaded.Origins[0].Level)
	assert.Equal(t, UserLevel, loaded.Origins[1].Level)
	assert.Equal(t, RepoLevel, loaded.Origins[2].Level)
}

func TestLoadEnvOverridesFiles(t *testing.T) {
	userDir, _ := setupXDG(t)
	writeConfigFile(t, filepath.Join(userDir, "gitpipe", "config.toml"),
		"[log]\nlevel = \"debug\"\n")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvQueueBound, "64")

	loaded, lerr := Load("")
	require.NoError(t, lerr)

	assert.Equal(t, "error", loaded.Settings.Log.Level)
	assert.Equal(t, 64, loaded.Settings.Progress.QueueBound)

	require.NotEmpty(t, loaded.Origins)
	last := loaded.Origins[len(loaded.Origins)-1]
	assert.Equal(t, EnvLevel, last.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	userDir, _ := setupXDG(t)
	path := filepath.Join(userDir, "gitpipe", "config.toml")
	writeConfigFile(t, path, "not = [ broken\n")

	_, lerr := Load("")
	require.Error(t, lerr)
	assert.True(t, IsInvalidFormat(lerr))

	var cerr *ConfigError
	require.ErrorAs(t, lerr, &cerr)
	assert.Equal(t, path, cerr.Path)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	userDir, _ := setupXDG(t)
	writeConfigFile(t, filepath.Join(userDir, "gitpipe", "config.toml"),
		"[engine]\nbinayr = \"x\"\n")

	_, lerr := Load("")
	require.Error(t, lerr)
	assert.True(t, IsInvalidFormat(lerr))
	assert.Contains(t, lerr.Error(), "engine.binayr")
}

func TestLoadRejectsMalformedEnvNumber(t *testing.T) {
	setupXDG(t)
	t.Setenv(EnvObjectMax, "lots")

	_, lerr := Load("")
	require.Error(t, lerr)
	assert.True(t, IsInvalidFormat(lerr))

	var cerr *ConfigError
	require.ErrorAs(t, lerr, &cerr)
	assert.Equal(t, EnvObjectMax, cerr.Key)
}

func TestLoadValidatesMergedResult(t *testing.T) {
	userDir, _ := setupXDG(t)
	writeConfigFile(t, filepath.Join(userDir, "gitpipe", "config.toml"),
		"[progress]\nqueue_policy = \"sometimes\"\n")

	_, lerr := Load("")
	require.Error(t, lerr)
	assert.True(t, IsValidation(lerr))
}

func TestPathsFollowXDG(t *testing.T) {
	userDir, systemDir := setupXDG(t)

	assert.Equal(t, filepath.Join(userDir, "gitpipe", "config.toml"), UserPath())
	require.Len(t, SystemPaths(), 1)
	assert.Equal(t, filepath.Join(systemDir, "gitpipe", "config.toml"), SystemPaths()[0])
}
