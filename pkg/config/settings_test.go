package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/gitpipe/pkg/common/logger"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Equal(t, "git", s.Engine.Binary)
	assert.Equal(t, int64(512*1024), s.Objects.MaxBytes)
	assert.Equal(t, 0, s.Progress.QueueBound)
	assert.Equal(t, PolicyBlock, s.Progress.QueuePolicy)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "text", s.Log.Format)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantKey string
	}{
		{
			"empty binary",
			func(s *Settings) { s.Engine.Binary = "  " },
			"engine.binary",
		},
		{
			"env entry without separator",
			func(s *Settings) { s.Engine.Env = []string{"NO_SEPARATOR"} },
			"engine.env",
		},
		{
			"env entry with empty key",
			func(s *Settings) { s.Engine.Env = []string{"=value"} },
			"engine.env",
		},
		{
			"zero object cap",
			func(s *Settings) { s.Objects.MaxBytes = 0 },
			"objects.max_bytes",
		},
		{
			"negative queue bound",
			func(s *Settings) { s.Progress.QueueBound = -1 },
			"progress.queue_bound",
		},
		{
			"unknown queue policy",
			func(s *Settings) { s.Progress.QueuePolicy = "sometimes" },
			"progress.queue_policy",
		},
		{
			"unknown log level",
			func(s *Settings) { s.Log.Level = "loud" },
			"log.level",
		},
		{
			"unknown log format",
			func(s *Settings) { s.Log.Format = "xml" },
			"log.format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)

			verr := s.Validate()
			require.Error(t, verr)
			assert.True(t, IsValidation(verr))

			var cerr *ConfigError
			require.ErrorAs(t, verr, &cerr)
			assert.Equal(t, tt.wantKey, cerr.Key)
		})
	}
}

func TestQueuePolicyValue(t *testing.T) {
	p := ProgressSettings{QueuePolicy: PolicyDropOldest}
	assert.Equal(t, progress.DropOldest, p.QueuePolicyValue())

	p.QueuePolicy = "Block"
	assert.Equal(t, progress.BlockProducer, p.QueuePolicyValue())
}

func TestLoggerConfigMapping(t *testing.T) {
	buf := &bytes.Buffer{}
	l := LogSettings{Level: "debug", Format: "json"}

	cfg := l.LoggerConfig(buf)
	assert.Equal(t, logger.LevelDebug, cfg.Level)
	assert.Equal(t, logger.FormatJSON, cfg.Format)
	assert.Same(t, buf, cfg.Output)

	l = LogSettings{Level: "warn", Format: "text"}
	cfg = l.LoggerConfig(buf)
	assert.Equal(t, logger.LevelWarn, cfg.Level)
	assert.Equal(t, logger.FormatText, cfg.Format)
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{BuiltinLevel, "builtin"},
		{SystemLevel, "system"},
		{UserLevel, "user"},
		{RepoLevel, "repository"},
		{EnvLevel, "environment"},
		{Level(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}
