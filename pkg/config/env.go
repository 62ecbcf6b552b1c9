package config

import (
	"os"
	"strconv"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
)

// Environment override variables. Each one, when set and non-empty,
// wins over every file level.
const (
	EnvBinary      = "GITPIPE_BINARY"
	EnvObjectMax   = "GITPIPE_OBJECT_MAX_BYTES"
	EnvQueueBound  = "GITPIPE_QUEUE_BOUND"
	EnvQueuePolicy = "GITPIPE_QUEUE_POLICY"
	EnvLogLevel    = "GITPIPE_LOG_LEVEL"
	EnvLogFormat   = "GITPIPE_LOG_FORMAT"
)

// applyEnv overlays GITPIPE_* variables onto s and reports which ones
// contributed. Empty values count as unset.
func applyEnv(s *Settings) ([]Origin, error) {
	overrides := []struct {
		name string
		set  func(value string) error
	}{
		{EnvBinary, func(v string) error { s.Engine.Binary = v; return nil }},
		{EnvObjectMax, func(v string) error { return setEnvInt64(EnvObjectMax, v, &s.Objects.MaxBytes) }},
		{EnvQueueBound, func(v string) error { return setEnvInt(EnvQueueBound, v, &s.Progress.QueueBound) }},
		{EnvQueuePolicy, func(v string) error { s.Progress.QueuePolicy = v; return nil }},
		{EnvLogLevel, func(v string) error { s.Log.Level = v; return nil }},
		{EnvLogFormat, func(v string) error { s.Log.Format = v; return nil }},
	}

	var origins []Origin
	for _, o := range overrides {
		value, ok := os.LookupEnv(o.name)
		if !ok || value == "" {
			continue
		}
		if serr := o.set(value); serr != nil {
			return nil, serr
		}
		origins = append(origins, Origin{Path: o.name, Level: EnvLevel})
	}
	return origins, nil
}

func setEnvInt64(name, value string, dst *int64) error {
	n, perr := strconv.ParseInt(value, 10, 64)
	if perr != nil {
		return NewConfigError("env", err.CodeInvalidFormat, name, "", perr)
	}
	*dst = n
	return nil
}

func setEnvInt(name, value string, dst *int) error {
	n, perr := strconv.Atoi(value)
	if perr != nil {
		return NewConfigError("env", err.CodeInvalidFormat, name, "", perr)
	}
	*dst = n
	return nil
}
