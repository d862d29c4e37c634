package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is matched by every TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEmptySequence reports an absent result. Terminal operations never
	// return it on their own; Require converts absence into it.
	ErrEmptySequence = errors.New("stream: empty sequence")

	// ErrSourceConsumed is returned when a one-shot source, such as a channel,
	// is evaluated a second time.
	ErrSourceConsumed = errors.New("stream: source already consumed")
)

// TypeMismatchError reports elements that cannot take part in an operation,
// such as sorting values without a natural ordering or deduplicating
// non-comparable keys.
type TypeMismatchError struct {
	Op     string
	Type   string
	Reason string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("stream.%s: %s %s", e.Op, e.Type, e.Reason)
}

// Unwrap returns ErrTypeMismatch.
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// DuplicateKeyError is returned by ToMap when two elements map to the same key.
type DuplicateKeyError struct {
	Key      interface{}
	Existing interface{}
	Incoming interface{}
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("stream.to_map: duplicate key %v (values %v and %v)", e.Key, e.Existing, e.Incoming)
}
