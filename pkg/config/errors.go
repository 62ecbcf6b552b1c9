package config

import (
	"fmt"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
)

const pkgName = "config"

// ConfigError carries the file path or key a configuration failure
// refers to, on top of the base error.
type ConfigError struct {
	base *err.Error

	// Path is the config file (or environment variable) involved, if
	// any.
	Path string

	// Key is the offending setting, if one can be named.
	Key string
}

// NewConfigError creates a ConfigError.
func NewConfigError(op, code, key, path string, underlying error) *ConfigError {
	return &ConfigError{
		base: err.New(pkgName, code, op, "", underlying),
		Path: path,
		Key:  key,
	}
}

// NewInvalidValueError reports a setting that failed validation.
func NewInvalidValueError(key string, underlying error) *ConfigError {
	return NewConfigError("validate", err.CodeValidation, key, "", underlying)
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := e.base.Error()
	if e.Key != "" {
		msg += fmt.Sprintf(" [key=%s]", e.Key)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" [path=%s]", e.Path)
	}
	return msg
}

// Unwrap returns the base error.
func (e *ConfigError) Unwrap() error {
	return e.base
}

// IsInvalidFormat reports whether e is a parse or unknown-key failure.
func IsInvalidFormat(e error) bool {
	return err.IsCode(e, err.CodeInvalidFormat)
}

// IsValidation reports whether e is a rejected setting value.
func IsValidation(e error) bool {
	return err.IsCode(e, err.CodeValidation)
}
