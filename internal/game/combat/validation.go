package combat

import (
	"errors"
	"fmt"
)

// Configuration errors. They are always wrapped in *ConfigError.
var (
	ErrInvalidAttackSpeed = errors.New("attack speed must be a positive number of ticks")
	ErrZeroDamage         = errors.New("configuration deals zero expected damage")
	ErrTrialCap           = errors.New("trial exceeded tick cap")
	ErrInvalidOption      = errors.New("stance not allowed for style")
	ErrInvalidTrials      = errors.New("trial count must be positive")
)

// ConfigError reports a configuration the engine refuses to evaluate,
// echoing the offending values back to the caller.
type ConfigError struct {
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(err error, format string, args ...any) *ConfigError {
	return &ConfigError{Err: err, Detail: fmt.Sprintf(format, args...)}
}
