package enumizer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConventionString(t *testing.T) {
	assert.Equal(t, "once", Once.String())
	assert.Equal(t, "mut", Mut.String())
	assert.Equal(t, "ref", Ref.String())
	assert.Equal(t, "unknown", Convention(9).String())
}

func TestConventionMismatchError(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", &ConventionMismatchError{Method: "Bar", Enum: "CalcEnum", Convention: Ref})

	assert.True(t, IsConventionMismatch(err))
	assert.False(t, IsConventionMismatch(ErrNilCommand))
	assert.Contains(t, err.Error(), "cannot call Bar from CalcEnum with ref receiver access")
}

func TestReply(t *testing.T) {
	ok := NewReply(42, nil)
	assert.True(t, ok.Ok())
	assert.Equal(t, 42, ok.Unwrap())

	failed := NewReply(0, errors.New("sender dropped"))
	assert.False(t, failed.Ok())
	v, err := failed.Get()
	assert.Zero(t, v)
	assert.EqualError(t, err, "sender dropped")
	assert.PanicsWithValue(t, "enumizer: failed to receive return value: sender dropped", func() { failed.Unwrap() })
}

func TestPanicHelpers(t *testing.T) {
	assert.NotPanics(t, func() { MustNotFail(nil) })
	assert.NotPanics(t, func() { MustDeliver(nil) })
	assert.Panics(t, func() { MustNotFail(ErrProxyConsumed) })
	assert.PanicsWithValue(t, "enumizer: failed to deliver command: enumizer: proxy already consumed", func() { MustDeliver(ErrProxyConsumed) })
}

type stray struct{}

func TestCommandErrors(t *testing.T) {
	err := UnknownCommand(stray{})
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "enumizer.stray")

	nilArg := NilArgument("name")
	assert.ErrorIs(t, nilArg, ErrNilArgument)
	assert.EqualError(t, nilArg, "enumizer: nil argument name")

	assert.EqualError(t, Uncallable("Calc", "Bar", "CalcProxyOnce"),
		"enumizer: cannot call Calc.Bar accepting too weak receiver access on CalcProxyOnce")
}
