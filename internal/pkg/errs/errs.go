package errs

import (
	"fmt"
	"strings"
)

// kind is a sentinel error that can belong to a broader class of errors.
// errors.Is walks from a kind to its parent, so ErrValueIsInvalid also
// matches ErrInvalidArgument.
type kind struct {
	msg    string
	parent error
}

func (k *kind) Error() string { return k.msg }

func (k *kind) Unwrap() error { return k.parent }

func newKind(msg string, parent error) error {
	return &kind{msg: msg, parent: parent}
}

// Error classes surfaced to callers of the fulfillment engine.
var (
	// ErrInvalidArgument marks malformed input rejected before any side effect.
	ErrInvalidArgument = newKind("invalid argument", nil)
	// ErrResourceContention is a retryable failure after concurrent reservations
	// kept winning the race for the same inventory.
	ErrResourceContention = newKind("resource contention", nil)
	// ErrConfiguration is a fatal error caused by missing engine configuration.
	ErrConfiguration = newKind("configuration error", nil)
)

// Sentinel errors for the concrete error types of this package.
var (
	ErrObjectNotFound      = newKind("object not found", nil)
	ErrValueIsInvalid      = newKind("value is invalid", ErrInvalidArgument)
	ErrValueIsOutOfRange   = newKind("value is out of range", ErrInvalidArgument)
	ErrValueIsRequired     = newKind("value is required", ErrInvalidArgument)
	ErrInvalidPincode      = newKind("pincode is invalid", ErrInvalidArgument)
	ErrReservationConflict = newKind("reservation conflict", nil)
)

// ObjectNotFoundError is returned when a lookup by identifier finds nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(fmt.Sprintf("%s", e.ID)), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(fmt.Sprintf("%s", e.ID)))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a parameter whose value breaks a business rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(fmt.Sprintf("%v", e.Value)), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// PincodeIsInvalidError is returned for anything that is not a six digit postal code.
type PincodeIsInvalidError struct {
	Value string
}

func NewPincodeIsInvalidError(value string) *PincodeIsInvalidError {
	return &PincodeIsInvalidError{Value: value}
}

func (e *PincodeIsInvalidError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidPincode, sanitize(e.Value))
}

func (e *PincodeIsInvalidError) Unwrap() error {
	return ErrInvalidPincode
}

// ResourceContentionError is returned when a reservation could not be committed
// after the configured number of attempts. Callers may retry the request.
type ResourceContentionError struct {
	Resource string
	Attempts int
	Cause    error
}

func NewResourceContentionError(resource string, attempts int, cause error) *ResourceContentionError {
	return &ResourceContentionError{Resource: resource, Attempts: attempts, Cause: cause}
}

func (e *ResourceContentionError) Error() string {
	msg := fmt.Sprintf("%s: %s after %d attempts", ErrResourceContention, e.Resource, e.Attempts)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ResourceContentionError) Unwrap() error {
	return ErrResourceContention
}

// ConfigurationError names the configuration entry that is missing or broken.
type ConfigurationError struct {
	Subject string
	Cause   error
}

func NewConfigurationError(subject string) *ConfigurationError {
	return &ConfigurationError{Subject: subject}
}

func NewConfigurationErrorWithCause(subject string, cause error) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Cause: cause}
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrConfiguration, e.Subject, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration, e.Subject)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func sanitize(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
