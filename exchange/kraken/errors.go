package kraken

import (
	"github.com/pkg/errors"
)

//
// ConfigError represents a malformed or missing credential. It is never transient: retrying the
// same request with the same credential will fail the same way.
//
type ConfigError struct {
	err error
}

func newConfigError(cause error, format string, args ...interface{}) *ConfigError {
	return &ConfigError{err: wrapf(cause, format, args...)}
}

func (o *ConfigError) Error() string {
	return "kraken configuration error: " + o.err.Error()
}

func (o *ConfigError) Unwrap() error {
	return o.err
}

//
// ClockError represents a clock reading that cannot be turned into a nonce.
//
type ClockError struct {
	err error
}

func newClockError(format string, args ...interface{}) *ClockError {
	return &ClockError{err: errors.Errorf(format, args...)}
}

func (o *ClockError) Error() string {
	return "kraken clock error: " + o.err.Error()
}

func (o *ClockError) Unwrap() error {
	return o.err
}

//
// InvariantError represents a programming defect detected while building a signed request (e.g. a
// caller-supplied nonce or a nonce that did not increase). It must never be silently corrected.
//
type InvariantError struct {
	err error
}

func newInvariantError(format string, args ...interface{}) *InvariantError {
	return &InvariantError{err: errors.Errorf(format, args...)}
}

func (o *InvariantError) Error() string {
	return "kraken invariant violated: " + o.err.Error()
}

func (o *InvariantError) Unwrap() error {
	return o.err
}

//
// wrapf wraps the cause with the formatted message, or creates a fresh error carrying the message
// when there is no cause.
//
func wrapf(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return errors.Errorf(format, args...)
	}

	return errors.Wrapf(cause, format, args...)
}
