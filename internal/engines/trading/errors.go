package trading

import (
	"errors"
	"fmt"
)

var (
	// ErrChallengeNotActive is returned when a trade action targets a
	// challenge that is not in "active" status.
	ErrChallengeNotActive = errors.New("challenge is not active")

	// ErrChallengeNotFound is returned when the referenced challenge does not exist.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrTradeNotFound is returned when the referenced trade does not exist.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrTradeAlreadyClosed is returned when closing a trade that is not open.
	ErrTradeAlreadyClosed = errors.New("trade is already closed")
)

// PersistenceError wraps a storage-layer failure. The engine does not retry;
// retries, if any, belong to the storage collaborator.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
