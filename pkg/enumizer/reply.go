package enumizer

import "fmt"

// Reply is the outcome of waiting for a return value after a command was
// delivered. Err is set when the reply channel failed, for instance because
// the dispatcher dropped the sender without answering.
type Reply[T any] struct {
	Value T
	Err   error
}

// NewReply builds a Reply from the result of a channel receive.
func NewReply[T any](v T, err error) Reply[T] {
	return Reply[T]{Value: v, Err: err}
}

// Ok reports whether a value was received
func (r Reply[T]) Ok() bool {
	return r.Err == nil
}

// Get returns the received value and the receive error
func (r Reply[T]) Get() (T, error) {
	return r.Value, r.Err
}

// Unwrap returns the value or panics if no value was received.
func (r Reply[T]) Unwrap() T {
	if r.Err != nil {
		panic(fmt.Sprintf("enumizer: failed to receive return value: %v", r.Err))
	}
	return r.Value
}
