package docstore

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocuments   = errors.New("no documents in result")
	ErrMalformedID   = errors.New("malformed document id")
	ErrInvalidUpdate = errors.New("invalid update")
)

// StoreError wraps a failure reported by the backend.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("docstore %s on %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *StoreError unless it is nil or one of the package
// sentinels, which callers are expected to match directly.
func Wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoDocuments) || errors.Is(err, ErrMalformedID) || errors.Is(err, ErrInvalidUpdate) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}
