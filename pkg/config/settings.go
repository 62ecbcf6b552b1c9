// Package config loads gitpipe's own settings. The effective
// configuration is layered: builtin defaults, then system and user
// TOML files discovered through the XDG base directories, then the
// repository's .gitpipe.toml, then GITPIPE_* environment variables.
// Each layer overrides the ones below it; the merged result is
// validated before use.
package config

import (
	"io"
	"strings"

	"github.com/utkarsh5026/gitpipe/pkg/common/logger"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

// Queue overflow policies accepted by progress.queue_policy.
const (
	PolicyBlock      = "block"
	PolicyDropOldest = "drop-oldest"
)

// Settings is the full gitpipe configuration.
//
// Example config.toml:
//
//	[engine]
//	binary = "/usr/local/bin/git"
//	env = ["GIT_TRACE_PERFORMANCE=1"]
//
//	[objects]
//	max_bytes = 1048576
//
//	[progress]
//	queue_bound = 256
//	queue_policy = "drop-oldest"
//
//	[log]
//	level = "debug"
//	format = "json"
type Settings struct {
	Engine   EngineSettings   `toml:"engine"`
	Objects  ObjectSettings   `toml:"objects"`
	Progress ProgressSettings `toml:"progress"`
	Log      LogSettings      `toml:"log"`
}

// EngineSettings control how engine subprocesses are spawned.
type EngineSettings struct {
	// Binary is the engine executable; a bare name is resolved from
	// PATH.
	Binary string `toml:"binary"`

	// Env lists extra KEY=value pairs passed to every spawned engine
	// process.
	Env []string `toml:"env"`
}

// ObjectSettings control object reads in the CLI.
type ObjectSettings struct {
	// MaxBytes is the largest object the tool materializes in one
	// buffer; bigger blobs are streamed instead.
	MaxBytes int64 `toml:"max_bytes"`
}

// ProgressSettings control the event queue between an operation's
// stream pumps and its consumer.
type ProgressSettings struct {
	// QueueBound caps the queue at that many undelivered events.
	// Zero leaves it unbounded.
	QueueBound int `toml:"queue_bound"`

	// QueuePolicy selects what a full bounded queue does: "block"
	// applies backpressure, "drop-oldest" discards.
	QueuePolicy string `toml:"queue_policy"`
}

// LogSettings control the default logger.
type LogSettings struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`
}

// Default returns the builtin settings every load starts from.
func Default() Settings {
	return Settings{
		Engine:  EngineSettings{Binary: "git"},
		Objects: ObjectSettings{MaxBytes: 512 * 1024},
		Progress: ProgressSettings{
			QueuePolicy: PolicyBlock,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// QueuePolicyValue maps the configured policy name onto the progress
// engine's enum.
func (p *ProgressSettings) QueuePolicyValue() progress.QueuePolicy {
	if strings.EqualFold(p.QueuePolicy, PolicyDropOldest) {
		return progress.DropOldest
	}
	return progress.BlockProducer
}

// LoggerConfig maps the log section onto the logger package's config,
// writing to out.
func (l *LogSettings) LoggerConfig(out io.Writer) logger.Config {
	cfg := logger.Config{
		Level:  logger.LevelInfo,
		Format: logger.FormatText,
		Output: out,
	}

	switch strings.ToLower(l.Level) {
	case "debug":
		cfg.Level = logger.LevelDebug
	case "warn":
		cfg.Level = logger.LevelWarn
	case "error":
		cfg.Level = logger.LevelError
	}

	if strings.EqualFold(l.Format, string(logger.FormatJSON)) {
		cfg.Format = logger.FormatJSON
	}
	return cfg
}
