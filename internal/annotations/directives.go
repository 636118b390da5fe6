package annotations

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/vi/trait-enumizer/internal/errors"
)

// ParseDirective parses one comment line. ok is false for comments that are
// not enumizer directives.
func ParseDirective(comment string, pos token.Position) (d Directive, ok bool, err error) {
	if !IsDirective(comment) {
		return Directive{}, false, nil
	}

	body := strings.TrimPrefix(comment, Prefix)
	name, args, _ := strings.Cut(body, " ")
	name = strings.TrimSpace(name)

	typ, err := ParseDirectiveType(name)
	if err != nil {
		return Directive{}, true, errors.Newf(errors.SyntaxErrorCode, "unknown directive %s%s", Prefix, name).
			WithLocation(errors.LocationOf(pos)).
			WithSuggestion("known directives: generate, receiver, enum_attr, arg_attr, return_attr, to_owned")
	}

	d = Directive{Type: typ, Args: strings.TrimSpace(args), Raw: comment, Pos: pos}
	if err := d.validate(); err != nil {
		return Directive{}, true, err
	}
	return d, true, nil
}

func (d Directive) validate() error {
	switch d.Type {
	case ReceiverDirective, ToOwnedDirective:
		if d.Args == "" || strings.ContainsAny(d.Args, " \t") {
			return d.errorf("%s%s takes exactly one argument", Prefix, d.Type)
		}
	case EnumAttrDirective, ReturnAttrDirective:
		if d.Args == "" {
			return d.errorf("%s%s needs a fragment", Prefix, d.Type)
		}
	case ArgAttrDirective:
		arg, tag := d.ArgAndFragment()
		if arg == "" || tag == "" {
			return d.errorf("%sarg_attr needs an argument name and a fragment", Prefix)
		}
	}
	return nil
}

// ArgAndFragment splits the arguments of an arg_attr directive
func (d Directive) ArgAndFragment() (string, string) {
	arg, tag, _ := strings.Cut(d.Args, " ")
	return strings.TrimSpace(arg), strings.TrimSpace(tag)
}

// ConfigLocation points at the first character of a generate directive's text
func (d Directive) ConfigLocation() errors.SourceLocation {
	loc := errors.LocationOf(d.Pos)
	offset := len(d.Raw) - len(strings.TrimLeft(strings.TrimPrefix(d.Raw, Prefix+d.Type.String()), " "))
	loc.Column += offset
	return loc
}

func (d Directive) errorf(format string, args ...interface{}) error {
	return errors.New(errors.SyntaxErrorCode, fmt.Sprintf(format, args...)).WithLocation(errors.LocationOf(d.Pos))
}

// Extract returns the directives of a comment group in source order
func Extract(fset *token.FileSet, doc *ast.CommentGroup) ([]Directive, error) {
	if doc == nil {
		return nil, nil
	}

	var out []Directive
	for _, c := range doc.List {
		d, ok, err := ParseDirective(c.Text, fset.Position(c.Pos()))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// GenerateText joins the arguments of all generate directives in order, so
// long configurations can be split across lines.
func GenerateText(directives []Directive) (string, Directive, bool) {
	var parts []string
	var first Directive
	for _, d := range directives {
		if d.Type != GenerateDirective {
			continue
		}
		if len(parts) == 0 {
			first = d
		}
		parts = append(parts, d.Args)
	}
	return strings.Join(parts, ", "), first, len(parts) > 0
}
