package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrDefinitionNotFound = errors.New("account definition not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateName      = errors.New("duplicate account name")
	ErrUnbalanced         = errors.New("postings do not balance")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrCycle              = errors.New("definition parent cycle")
)

// NotFoundError carries the name or ID that failed to resolve. It unwraps to
// ErrDefinitionNotFound or ErrAccountNotFound.
type NotFoundError struct {
	Err error
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func definitionNotFound(key fmt.Stringer) error {
	return &NotFoundError{Err: ErrDefinitionNotFound, Key: key.String()}
}

func definitionNameNotFound(name string) error {
	return &NotFoundError{Err: ErrDefinitionNotFound, Key: fmt.Sprintf("%q", name)}
}

func accountNotFound(key fmt.Stringer) error {
	return &NotFoundError{Err: ErrAccountNotFound, Key: key.String()}
}
