package annotations

import (
	"fmt"
	"go/token"
	"strings"
)

// Prefix starts every enumizer directive comment
const Prefix = "//enumizer:"

// DirectiveType represents the kind of directive
type DirectiveType int

const (
	GenerateDirective DirectiveType = iota
	ReceiverDirective
	EnumAttrDirective
	ArgAttrDirective
	ReturnAttrDirective
	ToOwnedDirective
)

// String returns the string representation of the directive type
func (d DirectiveType) String() string {
	switch d {
	case GenerateDirective:
		return "generate"
	case ReceiverDirective:
		return "receiver"
	case EnumAttrDirective:
		return "enum_attr"
	case ArgAttrDirective:
		return "arg_attr"
	case ReturnAttrDirective:
		return "return_attr"
	case ToOwnedDirective:
		return "to_owned"
	default:
		return "unknown"
	}
}

// ParseDirectiveType converts string to DirectiveType
func ParseDirectiveType(s string) (DirectiveType, error) {
	switch s {
	case "generate":
		return GenerateDirective, nil
	case "receiver":
		return ReceiverDirective, nil
	case "enum_attr":
		return EnumAttrDirective, nil
	case "arg_attr":
		return ArgAttrDirective, nil
	case "return_attr":
		return ReturnAttrDirective, nil
	case "to_owned":
		return ToOwnedDirective, nil
	default:
		return GenerateDirective, fmt.Errorf("unknown directive type: %s", s)
	}
}

// Directive is one //enumizer: comment line
type Directive struct {
	Type DirectiveType
	Args string // text after the directive name, trimmed
	Raw  string
	Pos  token.Position
}

// IsDirective reports whether a comment line is an enumizer directive
func IsDirective(comment string) bool {
	return strings.HasPrefix(comment, Prefix)
}
