package enumizer

import (
	"errors"
	"fmt"
)

var (
	// ErrProxyConsumed is returned by once proxies on every call after the first.
	ErrProxyConsumed = errors.New("enumizer: proxy already consumed")
	// ErrNilCommand is returned by dispatchers given a nil command.
	ErrNilCommand = errors.New("enumizer: nil command")
	// ErrUnknownCommand is returned by dispatchers given a command of another enum.
	ErrUnknownCommand = errors.New("enumizer: unknown command")
	// ErrNilArgument is returned by proxies given a nil pointer for an argument
	// the command stores by value.
	ErrNilArgument = errors.New("enumizer: nil argument")
)

// ConventionMismatchError is returned by a dispatcher arm whose method needs
// stronger receiver access than the dispatcher was generated for.
type ConventionMismatchError struct {
	Method     string
	Enum       string
	Convention Convention
}

// Error implements the error interface
func (e *ConventionMismatchError) Error() string {
	return fmt.Sprintf("enumizer: cannot call %s from %s with %s receiver access", e.Method, e.Enum, e.Convention)
}

// IsConventionMismatch reports whether err is or wraps a ConventionMismatchError
func IsConventionMismatch(err error) bool {
	var target *ConventionMismatchError
	return errors.As(err, &target)
}

// MustNotFail panics when a dispatch that was declared infallible reports an error.
func MustNotFail(err error) {
	if err != nil {
		panic(fmt.Sprintf("enumizer: infallible dispatch failed: %v", err))
	}
}

// MustDeliver panics when a command could not be delivered.
func MustDeliver(err error) {
	if err != nil {
		panic(fmt.Sprintf("enumizer: failed to deliver command: %v", err))
	}
}

// UnknownCommand wraps ErrUnknownCommand with the dynamic type of cmd.
func UnknownCommand(cmd any) error {
	return fmt.Errorf("%w %T", ErrUnknownCommand, cmd)
}

// NilArgument wraps ErrNilArgument with the name of the argument.
func NilArgument(name string) error {
	return fmt.Errorf("%w %s", ErrNilArgument, name)
}

// Uncallable builds the panic value of adapter methods that cannot be reached
// through a proxy of the given receiver access.
func Uncallable(iface, method, proxy string) error {
	return fmt.Errorf("enumizer: cannot call %s.%s accepting too weak receiver access on %s", iface, method, proxy)
}
