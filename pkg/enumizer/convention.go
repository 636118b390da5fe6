// Package enumizer holds the runtime support shared by generated command enums,
// dispatchers and proxies.
package enumizer

// Convention describes how a method accesses its receiver.
type Convention int

const (
	// Once methods consume the receiver and may run at most once.
	Once Convention = iota
	// Mut methods need exclusive access to the receiver.
	Mut
	// Ref methods only need shared access to the receiver.
	Ref
)

// String returns the directive spelling of the convention
func (c Convention) String() string {
	switch c {
	case Once:
		return "once"
	case Mut:
		return "mut"
	case Ref:
		return "ref"
	default:
		return "unknown"
	}
}
