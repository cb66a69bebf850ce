package building

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPayload is returned when there is nothing to decode.
	ErrEmptyPayload = errors.New("payload is empty")
	// ErrDecode marks malformed building payloads.
	ErrDecode = errors.New("decode buildings")
	// ErrSchemaMismatch marks a sensor without a matching table column.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// DecodeError reports which building (if any) could not be decoded.
type DecodeError struct {
	Building string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Building == "" {
		return fmt.Sprintf("decode buildings: %v", e.Err)
	}
	return fmt.Sprintf("decode building %q: %v", e.Building, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// SchemaMismatchError reports a sensor whose column is absent.
type SchemaMismatchError struct {
	Building string
	Sensor   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("building %q: sensor %q has no column", e.Building, e.Sensor)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

func decodeErr(name string, format string, args ...any) error {
	return &DecodeError{Building: name, Err: fmt.Errorf(format, args...)}
}
