// Package correlated is a return value channel class for commands that cross
// a serialization boundary. Senders carry only a correlation id, so a command
// can be encoded, shipped elsewhere and answered by id. The Registry passed as
// extra context keeps track of the calls waiting for a reply.
package correlated

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	defaultTimeout = 30 * time.Second

	// ErrTimeout is returned by Recv when no reply arrived in time.
	ErrTimeout = errors.New("reply timeout")
	// ErrCancelled is returned by Recv when the pending call was cancelled by the replying side.
	ErrCancelled = errors.New("reply cancelled")
	// ErrUnknownID is returned by Send for ids that are not pending.
	ErrUnknownID = errors.New("no pending call for id")
)

// Sender identifies the call a reply belongs to.
type Sender[T any] struct {
	ID uuid.UUID `json:"id"`
}

// Receiver waits for the reply of one call.
type Receiver[T any] struct {
	ID uuid.UUID
}

// pendingCall represents an active request
type pendingCall struct {
	Done    chan struct{}
	Payload any
	Error   error
	settled bool
}

// Config represents registry configuration
type Config struct {
	Timeout *time.Duration
}

// Registry matches replies with pending calls.
type Registry struct {
	mutex   sync.Mutex
	pending map[uuid.UUID]*pendingCall
	timeout time.Duration
}

// NewRegistry creates a registry. A nil config uses a 30 second timeout.
func NewRegistry(config *Config) *Registry {
	timeout := defaultTimeout
	if config != nil && config.Timeout != nil {
		timeout = *config.Timeout
	}

	return &Registry{
		pending: make(map[uuid.UUID]*pendingCall),
		timeout: timeout,
	}
}

// Pending returns the number of calls not yet collected by Recv
func (r *Registry) Pending() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.pending)
}

// Cancel fails the pending call with ErrCancelled. It is the equivalent of
// dropping a sender without replying.
func (r *Registry) Cancel(id uuid.UUID) {
	r.finish(id, nil, ErrCancelled)
}

func (r *Registry) finish(id uuid.UUID, payload any, err error) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	call, ok := r.pending[id]
	if !ok || call.settled {
		return false
	}

	call.settled = true
	call.Payload = payload
	call.Error = err
	close(call.Done)
	return true
}

func (r *Registry) lookup(id uuid.UUID) (*pendingCall, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	call, ok := r.pending[id]
	return call, ok
}

func (r *Registry) forget(id uuid.UUID) {
	r.mutex.Lock()
	delete(r.pending, id)
	r.mutex.Unlock()
}

// Create registers a new pending call.
func Create[T any](r *Registry) (Sender[T], Receiver[T]) {
	id := uuid.New()

	r.mutex.Lock()
	r.pending[id] = &pendingCall{Done: make(chan struct{})}
	r.mutex.Unlock()

	return Sender[T]{ID: id}, Receiver[T]{ID: id}
}

// Send answers the pending call identified by s.
func Send[T any](r *Registry, s Sender[T], v T) error {
	if !r.finish(s.ID, v, nil) {
		return errors.Wrapf(ErrUnknownID, "send %s", s.ID)
	}
	return nil
}

// Close cancels the call of s unless it was already answered.
func Close[T any](r *Registry, s Sender[T]) {
	r.Cancel(s.ID)
}

// Forget removes the pending call of rx without waiting for it.
func Forget[T any](r *Registry, rx Receiver[T]) {
	r.forget(rx.ID)
}

// Recv waits for the reply using the registry timeout.
func Recv[T any](r *Registry, rx Receiver[T]) (T, error) {
	return RecvContext(context.Background(), r, rx)
}

// RecvContext waits for the reply until ctx is done or the registry timeout elapses.
func RecvContext[T any](ctx context.Context, r *Registry, rx Receiver[T]) (T, error) {
	var zero T

	call, ok := r.lookup(rx.ID)
	if !ok {
		return zero, errors.Wrapf(ErrUnknownID, "recv %s", rx.ID)
	}
	defer r.forget(rx.ID)

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case <-call.Done:
	case <-timer.C:
		r.finish(rx.ID, nil, ErrTimeout)
	case <-ctx.Done():
		r.finish(rx.ID, nil, ctx.Err())
	}
	<-call.Done

	r.mutex.Lock()
	payload, callErr := call.Payload, call.Error
	r.mutex.Unlock()

	if callErr != nil {
		return zero, errors.Wrapf(callErr, "recv %s", rx.ID)
	}

	v, ok := payload.(T)
	if !ok {
		return zero, errors.Errorf("recv %s: reply has type %T", rx.ID, payload)
	}
	return v, nil
}
