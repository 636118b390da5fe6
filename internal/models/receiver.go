package models

import "fmt"

// ReceiverConvention describes how much access a method needs to its receiver.
// The ordering Once < Mut < Ref goes from the most to the least demanding.
type ReceiverConvention int

const (
	ByValue     ReceiverConvention = iota // consumes the receiver
	ByUniqueRef                           // exclusive access
	BySharedRef                           // shared access
)

// ParseConvention accepts the directive spellings ref, mut and once as well
// as the closure-trait spellings Fn, FnMut and FnOnce.
func ParseConvention(s string) (ReceiverConvention, error) {
	switch s {
	case "ref", "Fn":
		return BySharedRef, nil
	case "mut", "FnMut":
		return ByUniqueRef, nil
	case "once", "move", "FnOnce":
		return ByValue, nil
	}
	return BySharedRef, fmt.Errorf("unknown receiver convention %q, expected ref, mut or once", s)
}

// String returns the directive spelling
func (c ReceiverConvention) String() string {
	switch c {
	case ByValue:
		return "once"
	case ByUniqueRef:
		return "mut"
	default:
		return "ref"
	}
}

// Suffix is appended to default generated names: "", "Mut" or "Once".
func (c ReceiverConvention) Suffix() string {
	switch c {
	case ByValue:
		return "Once"
	case ByUniqueRef:
		return "Mut"
	default:
		return ""
	}
}

// RuntimeName is the matching constant in pkg/enumizer.
func (c ReceiverConvention) RuntimeName() string {
	switch c {
	case ByValue:
		return "Once"
	case ByUniqueRef:
		return "Mut"
	default:
		return "Ref"
	}
}
