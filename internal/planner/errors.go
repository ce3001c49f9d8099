package planner

import (
	"errors"
	"fmt"
)

// ConfigurationError marks a structurally invalid session: a precondition
// of plan construction was violated. It is fatal for that plan and is never
// silently defaulted around.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// IsConfigurationError reports whether err is (or wraps) a configuration error.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
