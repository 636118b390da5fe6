// Package convention computes how demanding an interface is for its callers
// and its implementors, and gates the artifacts that may be generated for it.
package convention

import (
	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

// MostInconvenientForCaller folds from BySharedRef: any ByValue method forces
// ByValue, otherwise any ByUniqueRef method forces ByUniqueRef.
func MostInconvenientForCaller(methods []*models.Method) models.ReceiverConvention {
	result := models.BySharedRef
	for _, m := range methods {
		switch m.Receiver {
		case models.ByValue:
			return models.ByValue
		case models.ByUniqueRef:
			result = models.ByUniqueRef
		}
	}
	return result
}

// MostInconvenientForCallee folds from ByValue: any BySharedRef method forces
// BySharedRef, otherwise any ByUniqueRef method forces ByUniqueRef.
func MostInconvenientForCallee(methods []*models.Method) models.ReceiverConvention {
	result := models.ByValue
	for _, m := range methods {
		switch m.Receiver {
		case models.BySharedRef:
			return models.BySharedRef
		case models.ByUniqueRef:
			result = models.ByUniqueRef
		}
	}
	return result
}

// CanServe reports whether a dispatcher holding the implementation with the
// given access can run the method.
func CanServe(level models.ReceiverConvention, m *models.Method) bool {
	switch level {
	case models.ByValue:
		return true
	case models.ByUniqueRef:
		return m.Receiver != models.ByValue
	default:
		return m.Receiver == models.BySharedRef
	}
}

// CanCall reports whether a proxy of the given access can forward the method
// from an implementation of the original interface.
func CanCall(m *models.Method, level models.ReceiverConvention) bool {
	switch m.Receiver {
	case models.ByValue:
		return true
	case models.ByUniqueRef:
		return level != models.ByValue
	default:
		return level == models.BySharedRef
	}
}

// CheckCallFn rejects dispatchers that would contain unreachable arms unless
// the request allows them.
func CheckCallFn(req models.CallFnRequest, iface *models.Interface) error {
	if req.AllowMismatch {
		return nil
	}

	caller := MostInconvenientForCaller(iface.Methods)
	switch req.Convention {
	case models.ByUniqueRef:
		if caller == models.ByValue {
			return mismatch(req.Name, req.Convention, iface,
				"%s: %s has methods consuming the receiver, a mut dispatcher cannot call them", req.Name, iface.Name)
		}
	case models.BySharedRef:
		if caller != models.BySharedRef {
			return mismatch(req.Name, req.Convention, iface,
				"%s: %s has methods needing exclusive or owned receiver access, a ref dispatcher cannot call them", req.Name, iface.Name)
		}
	}
	return nil
}

// CheckProxy rejects adapter impls whose proxy access cannot serve every
// method. UnwrappingAndPanicking opts out of the check.
func CheckProxy(req models.ProxyRequest, iface *models.Interface) error {
	switch req.Adapter {
	case models.Infallible, models.Unwrapping:
	default:
		return nil
	}

	callee := MostInconvenientForCallee(iface.Methods)
	switch req.Convention {
	case models.ByUniqueRef:
		if callee == models.BySharedRef {
			return mismatch(req.Name, req.Convention, iface,
				"%s: a mut proxy cannot implement the ref methods of %s", req.Name, iface.Name)
		}
	case models.ByValue:
		if callee != models.ByValue {
			return mismatch(req.Name, req.Convention, iface,
				"%s: a once proxy can only implement %s if every method consumes the receiver", req.Name, iface.Name)
		}
	}
	return nil
}

func mismatch(name string, conv models.ReceiverConvention, iface *models.Interface, format string, args ...interface{}) error {
	return errors.Mismatch(name, conv.String(), format, args...).
		WithLocation(errors.LocationOf(iface.Pos)).
		WithSuggestion("add allow_panic to the call_fn or choose unwrapping_and_panicking_impl to accept run-time failures")
}
