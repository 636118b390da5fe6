// Package stdchan is the default return value channel class: a single-use,
// single-item Go channel linking one dispatcher reply to one proxy call.
package stdchan

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSenderDropped is returned by Recv when the sender was closed without a value.
	ErrSenderDropped = errors.New("stdchan: sender dropped without sending a reply")
	// ErrReceiverDropped is returned by Send when nobody waits for the reply anymore.
	ErrReceiverDropped = errors.New("stdchan: receiver dropped")
	// ErrAlreadySent is returned by a second Send on the same sender.
	ErrAlreadySent = errors.New("stdchan: reply already sent")
	// ErrAlreadyReceived is returned by a second Recv on the same receiver.
	ErrAlreadyReceived = errors.New("stdchan: reply already received")
	// ErrUnlinked is returned for zero value endpoints.
	ErrUnlinked = errors.New("stdchan: endpoint not created by Create")
)

type link[T any] struct {
	mu       sync.Mutex
	value    chan T
	sent     bool
	closed   bool
	dropped  bool
	received bool
}

// Sender is the dispatcher side of a reply channel.
type Sender[T any] struct {
	l *link[T]
}

// Receiver is the proxy side of a reply channel.
type Receiver[T any] struct {
	l *link[T]
}

// Create returns a linked sender and receiver pair.
func Create[T any]() (Sender[T], Receiver[T]) {
	l := &link[T]{value: make(chan T, 1)}
	return Sender[T]{l: l}, Receiver[T]{l: l}
}

// Send delivers v. It never blocks.
func Send[T any](s Sender[T], v T) error {
	if s.l == nil {
		return ErrUnlinked
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	switch {
	case s.l.dropped:
		return ErrReceiverDropped
	case s.l.sent, s.l.closed:
		return ErrAlreadySent
	}

	s.l.sent = true
	s.l.value <- v
	close(s.l.value)
	return nil
}

// Close drops the sender. A pending or future Recv fails with ErrSenderDropped
// unless a value was already sent.
func (s Sender[T]) Close() {
	if s.l == nil {
		return
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()

	if s.l.sent || s.l.closed {
		return
	}
	s.l.closed = true
	close(s.l.value)
}

// Close drops the receiver so that a later Send fails.
func (r Receiver[T]) Close() {
	if r.l == nil {
		return
	}

	r.l.mu.Lock()
	r.l.dropped = true
	r.l.mu.Unlock()
}

// Close drops s. Generated dispatchers defer it so that a reply arm left
// without sending, by a panic or runtime.Goexit, still wakes the receiver.
func Close[T any](s Sender[T]) {
	s.Close()
}

// Forget drops r. Generated proxies call it when a command never reached
// the dispatcher.
func Forget[T any](r Receiver[T]) {
	r.Close()
}

// Recv blocks until the reply arrives or the sender is dropped.
func Recv[T any](r Receiver[T]) (T, error) {
	return RecvContext(context.Background(), r)
}

// RecvContext is Recv bounded by ctx.
func RecvContext[T any](ctx context.Context, r Receiver[T]) (T, error) {
	var zero T
	if r.l == nil {
		return zero, ErrUnlinked
	}

	select {
	case v, ok := <-r.l.value:
		r.l.mu.Lock()
		defer r.l.mu.Unlock()
		if !ok {
			if r.l.received {
				return zero, ErrAlreadyReceived
			}
			return zero, ErrSenderDropped
		}
		r.l.received = true
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
