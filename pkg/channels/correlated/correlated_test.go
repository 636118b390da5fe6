package correlated

import (
	"context"
	"encoding/json"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	reg := NewRegistry(nil)
	tx, rx := Create[string](reg)
	assert.Equal(t, 1, reg.Pending())

	go func() {
		_ = Send(reg, tx, "pong")
	}()

	v, err := Recv(reg, rx)
	require.NoError(t, err)
	assert.Equal(t, "pong", v)
	assert.Equal(t, 0, reg.Pending())
}

func TestSenderSerializes(t *testing.T) {
	reg := NewRegistry(nil)
	tx, rx := Create[int](reg)

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded Sender[int]
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, Send(reg, decoded, 9))

	v, err := Recv(reg, rx)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestSendTwice(t *testing.T) {
	reg := NewRegistry(nil)
	tx, _ := Create[int](reg)

	require.NoError(t, Send(reg, tx, 1))
	err := Send(reg, tx, 2)
	assert.Equal(t, ErrUnknownID, errors.Cause(err))
}

func TestTimeout(t *testing.T) {
	timeout := 10 * time.Millisecond
	reg := NewRegistry(&Config{Timeout: &timeout})
	_, rx := Create[int](reg)

	_, err := Recv(reg, rx)
	assert.Equal(t, ErrTimeout, errors.Cause(err))
	assert.Equal(t, 0, reg.Pending())
}

func TestCancel(t *testing.T) {
	reg := NewRegistry(nil)
	tx, rx := Create[int](reg)
	reg.Cancel(tx.ID)

	_, err := Recv(reg, rx)
	assert.Equal(t, ErrCancelled, errors.Cause(err))
}

func TestRecvContext(t *testing.T) {
	reg := NewRegistry(nil)
	_, rx := Create[int](reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RecvContext(ctx, reg, rx)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestForgetAfterFailedDelivery(t *testing.T) {
	reg := NewRegistry(nil)
	deliver := func(Sender[int]) error { return errors.New("queue full") }

	for i := 0; i < 3; i++ {
		tx, rx := Create[int](reg)
		if err := deliver(tx); err != nil {
			Forget(reg, rx)
		}
	}

	assert.Equal(t, 0, reg.Pending())
}

func TestCloseAfterSendKeepsReply(t *testing.T) {
	reg := NewRegistry(nil)
	tx, rx := Create[int](reg)

	require.NoError(t, Send(reg, tx, 5))
	Close(reg, tx)

	v, err := Recv(reg, rx)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestCloseWithoutReply(t *testing.T) {
	reg := NewRegistry(nil)
	tx, rx := Create[int](reg)

	go func() {
		defer Close(reg, tx)
		runtime.Goexit()
	}()

	_, err := Recv(reg, rx)
	assert.Equal(t, ErrCancelled, errors.Cause(err))
	assert.Equal(t, 0, reg.Pending())
}
