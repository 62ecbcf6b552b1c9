package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
)

const (
	appDir   = "gitpipe"
	fileName = "config.toml"

	// RepoFileName is the per-repository override file, looked up at
	// the repository root.
	RepoFileName = ".gitpipe.toml"
)

// Origin records one source that contributed settings.
type Origin struct {
	// Path is the file path, or the variable name for EnvLevel.
	Path  string
	Level Level
}

// Loaded is the outcome of a Load: the merged settings plus the
// sources that shaped them, in the order they were applied.
type Loaded struct {
	Settings Settings
	Origins  []Origin
}

// UserPath returns the user-level config location.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, fileName)
}

// SystemPaths returns the system-level locations, most important
// first, one per XDG system config directory.
func SystemPaths() []string {
	paths := make([]string, 0, len(xdg.ConfigDirs))
	for _, dir := range xdg.ConfigDirs {
		paths = append(paths, filepath.Join(dir, appDir, fileName))
	}
	return paths
}

// Load builds the effective settings for the repository rooted at
// repoRoot (empty skips the repository layer). Missing files simply
// contribute nothing; a file that fails to parse or carries unknown
// keys aborts the load, as does a merged result that fails validation.
func Load(repoRoot string) (*Loaded, error) {
	loaded := &Loaded{Settings: Default()}

	var sources []Origin
	system := SystemPaths()
	// Earlier system directories take precedence, so apply them later.
	for i := len(system) - 1; i >= 0; i-- {
		sources = append(sources, Origin{Path: system[i], Level: SystemLevel})
	}
	sources = append(sources, Origin{Path: UserPath(), Level: UserLevel})
	if repoRoot != "" {
		sources = append(sources, Origin{Path: filepath.Join(repoRoot, RepoFileName), Level: RepoLevel})
	}

	for _, src := range sources {
		applied, derr := decodeFile(src.Path, &loaded.Settings)
		if derr != nil {
			return nil, derr
		}
		if applied {
			loaded.Origins = append(loaded.Origins, src)
		}
	}

	envOrigins, eerr := applyEnv(&loaded.Settings)
	if eerr != nil {
		return nil, eerr
	}
	loaded.Origins = append(loaded.Origins, envOrigins...)

	if verr := loaded.Settings.Validate(); verr != nil {
		return nil, verr
	}
	return loaded, nil
}

// decodeFile overlays one TOML file onto s, reporting whether the file
// existed and was applied.
func decodeFile(path string, s *Settings) (bool, error) {
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		if errors.Is(rerr, os.ErrNotExist) {
			return false, nil
		}
		return false, NewConfigError("load", err.CodeNotFound, "", path, rerr)
	}

	md, derr := toml.Decode(string(data), s)
	if derr != nil {
		return false, NewConfigError("load", err.CodeInvalidFormat, "", path, derr)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return false, NewConfigError("load", err.CodeInvalidFormat,
			strings.Join(keys, ", "), path, errors.New("unknown configuration keys"))
	}
	return true, nil
}
