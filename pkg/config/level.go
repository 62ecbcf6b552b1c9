package config

// Level orders the places a setting can come from. Higher levels
// override lower ones when the layers are merged.
type Level int

const (
	// BuiltinLevel is the hardcoded defaults (lowest precedence).
	BuiltinLevel Level = iota

	// SystemLevel is a config.toml under one of the XDG system config
	// directories.
	SystemLevel

	// UserLevel is $XDG_CONFIG_HOME/gitpipe/config.toml.
	UserLevel

	// RepoLevel is .gitpipe.toml at the repository root.
	RepoLevel

	// EnvLevel is a GITPIPE_* environment variable (highest
	// precedence).
	EnvLevel
)

// String returns the level's display name.
func (l Level) String() string {
	switch l {
	case BuiltinLevel:
		return "builtin"
	case SystemLevel:
		return "system"
	case UserLevel:
		return "user"
	case RepoLevel:
		return "repository"
	case EnvLevel:
		return "environment"
	default:
		return "unknown"
	}
}
