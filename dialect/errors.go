package dialect

import (
	"errors"
	"fmt"
)

// ErrorKind is the user-facing category of a connection failure.
type ErrorKind uint8

// Error kind constants. KindUnclassified is the zero value so that an
// unmatched message degrades to "unclassified" rather than to a category.
const (
	KindUnclassified ErrorKind = iota
	KindCannotConnectHostPort
	KindDatabaseNameIncorrect
	KindUsernameOrPasswordIncorrect
	KindInvalidHostname
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindUnclassified:
		return "unclassified"
	case KindCannotConnectHostPort:
		return "cannot-connect-check-host-and-port"
	case KindDatabaseNameIncorrect:
		return "database-name-incorrect"
	case KindUsernameOrPasswordIncorrect:
		return "username-or-password-incorrect"
	case KindInvalidHostname:
		return "invalid-hostname"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// ErrorCategory is the result of classifying a backend error: the category
// kind plus the raw message. Raw always preserves the original backend text
// so operators keep the full diagnostic even when the kind is unclassified.
type ErrorCategory struct {
	Kind ErrorKind
	Raw  string
}

// Unclassified reports whether no dialect pattern matched the message.
func (c ErrorCategory) Unclassified() bool { return c.Kind == KindUnclassified }

// ClassifiedError wraps a backend error with its user-facing category.
// It is returned by probe and connection helpers so callers can surface a
// humanized message while retaining the underlying error chain.
type ClassifiedError struct {
	Category ErrorCategory
	Err      error
}

// Error returns the error string.
func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("dialect: %s: %v", e.Category.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ClassifiedError) Unwrap() error { return e.Err }

// CategoryOf extracts the error category from an error chain. The boolean
// reports whether a ClassifiedError was found.
func CategoryOf(err error) (ErrorCategory, bool) {
	var e *ClassifiedError
	if errors.As(err, &e) {
		return e.Category, true
	}
	return ErrorCategory{}, false
}

// IsClassified returns true if the error carries an error category.
func IsClassified(err error) bool {
	if err == nil {
		return false
	}
	var e *ClassifiedError
	return errors.As(err, &e)
}

// NotRegisteredError is returned by Lookup for an unknown driver id.
type NotRegisteredError struct {
	name string
}

// Error returns the error string.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("dialect: driver %q not registered", e.name)
}

// Name returns the driver id that was looked up.
func (e *NotRegisteredError) Name() string { return e.name }

// IsNotRegistered returns true if the error is a NotRegisteredError.
func IsNotRegistered(err error) bool {
	if err == nil {
		return false
	}
	var e *NotRegisteredError
	return errors.As(err, &e)
}

// NotSupportedError is returned when a dialect has no implementation for an
// optional capability, such as setting a session timezone.
type NotSupportedError struct {
	Driver string // Driver id
	Op     string // Capability name
}

// Error returns the error string.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("dialect: driver %q does not support %s", e.Driver, e.Op)
}

// IsNotSupported returns true if the error is a NotSupportedError.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSupportedError
	return errors.As(err, &e)
}

// IntervalError is returned by DateInterval for an amount or unit that
// cannot be formatted into a raw interval fragment.
type IntervalError struct {
	Unit   TemporalUnit
	Amount float64
	Reason string
}

// Error returns the error string.
func (e *IntervalError) Error() string {
	return fmt.Sprintf("dialect: interval %v %s: %s", e.Amount, e.Unit, e.Reason)
}

// IsIntervalError returns true if the error is an IntervalError.
func IsIntervalError(err error) bool {
	if err == nil {
		return false
	}
	var e *IntervalError
	return errors.As(err, &e)
}
