package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Error marks a failed engine invocation: the external process exited
// non-zero. Stderr carries the process diagnostic text verbatim.
type Error struct {
	Binary string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	tail := strings.TrimSpace(e.Stderr)
	if idx := strings.LastIndexByte(tail, '\n'); idx >= 0 {
		tail = tail[idx+1:]
	}
	if tail == "" {
		return fmt.Sprintf("%s: %v", e.Binary, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Binary, e.Err, tail)
}

func (e *Error) Unwrap() error { return e.Err }

// IsEngineError reports whether err is (or wraps) an engine failure.
func IsEngineError(err error) bool {
	var ee *Error
	return errors.As(err, &ee)
}

// Diagnostic returns the full stderr text of an engine failure, or the
// plain error string for anything else.
func Diagnostic(err error) string {
	var ee *Error
	if errors.As(err, &ee) && strings.TrimSpace(ee.Stderr) != "" {
		return ee.Stderr
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
