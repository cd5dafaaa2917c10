package model

import (
	"errors"
	"fmt"
)

// Validation failure kinds. Every field-level failure wraps exactly one of these.
var (
	ErrInvalidAddressFormat          = errors.New("invalid address format")
	ErrInvalidEncryptedPayloadFormat = errors.New("invalid encrypted payload format")
	ErrInconsistentSourceFields      = errors.New("inconsistent source fields")
	ErrInvalidTimestamp              = errors.New("invalid timestamp")
)

// ValidationError reports which field of a record failed and why.
type ValidationError struct {
	Field  string
	Err    error
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code returns a stable machine-readable identifier for the failure kind.
func (e *ValidationError) Code() string {
	switch {
	case errors.Is(e.Err, ErrInvalidAddressFormat):
		return "INVALID_ADDRESS_FORMAT"
	case errors.Is(e.Err, ErrInvalidEncryptedPayloadFormat):
		return "INVALID_ENCRYPTED_PAYLOAD_FORMAT"
	case errors.Is(e.Err, ErrInconsistentSourceFields):
		return "INCONSISTENT_SOURCE_FIELDS"
	case errors.Is(e.Err, ErrInvalidTimestamp):
		return "INVALID_TIMESTAMP"
	default:
		return "INVALID"
	}
}

func invalid(field string, kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Err: kind, Reason: fmt.Sprintf(format, args...)}
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
