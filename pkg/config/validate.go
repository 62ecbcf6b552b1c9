package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks every setting and reports the first violation.
func (s *Settings) Validate() error {
	if verr := s.Engine.validate(); verr != nil {
		return verr
	}
	if verr := s.Objects.validate(); verr != nil {
		return verr
	}
	if verr := s.Progress.validate(); verr != nil {
		return verr
	}
	return s.Log.validate()
}

func (e *EngineSettings) validate() error {
	if strings.TrimSpace(e.Binary) == "" {
		return NewInvalidValueError("engine.binary", fmt.Errorf("binary cannot be empty"))
	}
	for _, entry := range e.Env {
		key, _, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return NewInvalidValueError("engine.env", fmt.Errorf("entry %q is not KEY=value", entry))
		}
	}
	return nil
}

func (o *ObjectSettings) validate() error {
	if o.MaxBytes <= 0 {
		return NewInvalidValueError("objects.max_bytes", fmt.Errorf("must be a positive byte count"))
	}
	return nil
}

func (p *ProgressSettings) validate() error {
	if p.QueueBound < 0 {
		return NewInvalidValueError("progress.queue_bound", fmt.Errorf("must be zero or positive"))
	}

	policies := []string{PolicyBlock, PolicyDropOldest}
	if !slices.Contains(policies, strings.ToLower(p.QueuePolicy)) {
		return NewInvalidValueError("progress.queue_policy",
			fmt.Errorf("must be one of: %s", strings.Join(policies, ", ")))
	}
	return nil
}

func (l *LogSettings) validate() error {
	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, strings.ToLower(l.Level)) {
		return NewInvalidValueError("log.level",
			fmt.Errorf("must be one of: %s", strings.Join(levels, ", ")))
	}

	formats := []string{"text", "json"}
	if !slices.Contains(formats, strings.ToLower(l.Format)) {
		return NewInvalidValueError("log.format",
			fmt.Errorf("must be one of: %s", strings.Join(formats, ", ")))
	}
	return nil
}
