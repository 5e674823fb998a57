package id

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotSet is wrapped by every *FieldNotSetError.
	ErrFieldNotSet = errors.New("field not set")
	// ErrFieldOverflow means a field value does not fit its reserved bits.
	ErrFieldOverflow = errors.New("field overflows its bit range")
)

// FieldNotSetError reports a required construction field that was left empty.
type FieldNotSetError struct {
	Type  string
	Field string
}

func (e *FieldNotSetError) Error() string {
	return fmt.Sprintf("%s: %s not set", e.Type, e.Field)
}

func (e *FieldNotSetError) Unwrap() error {
	return ErrFieldNotSet
}
