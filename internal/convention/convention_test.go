package convention

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

func methods(convs ...models.ReceiverConvention) []*models.Method {
	out := make([]*models.Method, len(convs))
	for i, c := range convs {
		out[i] = &models.Method{Name: "m", Receiver: c}
	}
	return out
}

func iface(convs ...models.ReceiverConvention) *models.Interface {
	return &models.Interface{Name: "Iface", Methods: methods(convs...)}
}

func TestFolds(t *testing.T) {
	tests := []struct {
		name   string
		convs  []models.ReceiverConvention
		caller models.ReceiverConvention
		callee models.ReceiverConvention
	}{
		{"empty", nil, models.BySharedRef, models.ByValue},
		{"pure ref", []models.ReceiverConvention{models.BySharedRef, models.BySharedRef}, models.BySharedRef, models.BySharedRef},
		{"pure once", []models.ReceiverConvention{models.ByValue}, models.ByValue, models.ByValue},
		{"mut and ref", []models.ReceiverConvention{models.ByUniqueRef, models.BySharedRef}, models.ByUniqueRef, models.BySharedRef},
		{"mut and once", []models.ReceiverConvention{models.ByUniqueRef, models.ByValue}, models.ByValue, models.ByUniqueRef},
		{"all three", []models.ReceiverConvention{models.ByValue, models.ByUniqueRef, models.BySharedRef}, models.ByValue, models.BySharedRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := methods(tt.convs...)
			assert.Equal(t, tt.caller, MostInconvenientForCaller(ms))
			assert.Equal(t, tt.callee, MostInconvenientForCallee(ms))
		})
	}
}

func TestFoldsAreMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	all := []models.ReceiverConvention{models.ByValue, models.ByUniqueRef, models.BySharedRef}

	for i := 0; i < 500; i++ {
		n := rng.Intn(6)
		convs := make([]models.ReceiverConvention, n)
		for j := range convs {
			convs[j] = all[rng.Intn(len(all))]
		}

		withRef := methods(append(append([]models.ReceiverConvention{}, convs...), models.BySharedRef)...)
		assert.Equal(t, models.BySharedRef, MostInconvenientForCallee(withRef))

		withOnce := methods(append(append([]models.ReceiverConvention{}, convs...), models.ByValue)...)
		assert.Equal(t, models.ByValue, MostInconvenientForCaller(withOnce))
	}
}

func TestReachabilityTables(t *testing.T) {
	ref := &models.Method{Receiver: models.BySharedRef}
	mut := &models.Method{Receiver: models.ByUniqueRef}
	once := &models.Method{Receiver: models.ByValue}

	assert.True(t, CanServe(models.ByValue, ref))
	assert.True(t, CanServe(models.ByValue, once))
	assert.True(t, CanServe(models.ByUniqueRef, mut))
	assert.False(t, CanServe(models.ByUniqueRef, once))
	assert.True(t, CanServe(models.BySharedRef, ref))
	assert.False(t, CanServe(models.BySharedRef, mut))

	assert.True(t, CanCall(once, models.BySharedRef))
	assert.True(t, CanCall(mut, models.BySharedRef))
	assert.True(t, CanCall(mut, models.ByUniqueRef))
	assert.False(t, CanCall(mut, models.ByValue))
	assert.True(t, CanCall(ref, models.BySharedRef))
	assert.False(t, CanCall(ref, models.ByUniqueRef))
	assert.False(t, CanCall(ref, models.ByValue))
}

func TestCheckCallFn(t *testing.T) {
	mixed := iface(models.ByValue, models.BySharedRef)

	err := CheckCallFn(models.CallFnRequest{Name: "call", Convention: models.BySharedRef}, mixed)
	require.Error(t, err)
	assert.Equal(t, errors.ConventionMismatchErrorCode, errors.CodeOf(err))

	assert.NoError(t, CheckCallFn(models.CallFnRequest{Name: "call", Convention: models.BySharedRef, AllowMismatch: true}, mixed))
	assert.NoError(t, CheckCallFn(models.CallFnRequest{Name: "call", Convention: models.ByValue}, mixed))

	assert.Error(t, CheckCallFn(models.CallFnRequest{Name: "callMut", Convention: models.ByUniqueRef}, mixed))
	assert.NoError(t, CheckCallFn(models.CallFnRequest{Name: "callMut", Convention: models.ByUniqueRef}, iface(models.ByUniqueRef, models.BySharedRef)))
	assert.NoError(t, CheckCallFn(models.CallFnRequest{Name: "call", Convention: models.BySharedRef}, iface(models.BySharedRef)))
}

func TestCheckProxy(t *testing.T) {
	refOnly := iface(models.BySharedRef)
	mutOnly := iface(models.ByUniqueRef)
	onceOnly := iface(models.ByValue)

	mutProxy := models.ProxyRequest{Name: "P", Convention: models.ByUniqueRef, Adapter: models.Unwrapping}
	assert.Error(t, CheckProxy(mutProxy, refOnly))
	assert.NoError(t, CheckProxy(mutProxy, mutOnly))

	onceProxy := models.ProxyRequest{Name: "P", Convention: models.ByValue, Adapter: models.Infallible}
	assert.Error(t, CheckProxy(onceProxy, mutOnly))
	assert.NoError(t, CheckProxy(onceProxy, onceOnly))

	panicking := models.ProxyRequest{Name: "P", Convention: models.ByValue, Adapter: models.UnwrappingAndPanicking}
	assert.NoError(t, CheckProxy(panicking, refOnly))

	refProxy := models.ProxyRequest{Name: "P", Convention: models.BySharedRef, Adapter: models.Unwrapping}
	assert.NoError(t, CheckProxy(refProxy, iface(models.ByValue, models.BySharedRef)))
}
