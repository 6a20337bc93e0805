package main

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound is wrapped by object stores when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// MissingKeyError means no object key could be resolved from a message body.
// Redelivery will not help, the body never changes.
type MissingKeyError struct {
	Reason string
}

func (e *MissingKeyError) Error() string {
	return "no s3_key found in message: " + e.Reason
}

type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch object %q: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist result for %q: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// TransportError is a failure talking to the queue service itself.
type TransportError struct {
	Op       string
	QueueURL string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.QueueURL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsProcessingError reports whether err is one of the errors the processing
// engine classifies a failed attempt with.
func IsProcessingError(err error) bool {
	var (
		missing *MissingKeyError
		fetch   *FetchError
		persist *PersistError
	)
	return errors.As(err, &missing) || errors.As(err, &fetch) || errors.As(err, &persist)
}

// Retryable reports whether redelivering the message that produced err could
// succeed.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var missing *MissingKeyError
	return !errors.As(err, &missing)
}
