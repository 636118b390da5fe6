package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/vi/trait-enumizer/internal/errors"
)

// RawOption is one option of the directive text before interpretation
type RawOption struct {
	Name        string
	Value       string
	HasValue    bool
	Fragment    string // content of the [...] group without the brackets
	HasFragment bool
	Group       []*RawOption
	HasGroup    bool
	Pos         lexer.Position
}

type parserState int

const (
	// ExpectingNewParam waits for an option name, a separator or the end
	ExpectingNewParam parserState = iota
	// ExpectingEqSign follows an option name: '=', '(', a fragment, ',' or the end
	ExpectingEqSign
	// ExpectingIdent follows '=' and waits for the value
	ExpectingIdent
	// ExpectingGroup follows '(' and waits for the first sub-option or ')'
	ExpectingGroup
	// expectingSeparator follows a complete option
	expectingSeparator
)

func (s parserState) String() string {
	switch s {
	case ExpectingNewParam:
		return "ExpectingNewParam"
	case ExpectingEqSign:
		return "ExpectingEqSign"
	case ExpectingIdent:
		return "ExpectingIdent"
	case ExpectingGroup:
		return "ExpectingGroup"
	default:
		return "expectingSeparator"
	}
}

// optionParser turns a token sequence into RawOptions. The option being
// filled travels with the state instead of living in a shared variable.
type optionParser struct {
	state   parserState
	pending *RawOption
	group   *RawOption // enclosing option while inside parentheses
	top     []*RawOption
	loc     errors.SourceLocation
}

// ParseOptions splits the directive text into options. loc points at the
// first character of text and is used for error positions.
func ParseOptions(text string, loc errors.SourceLocation) ([]*RawOption, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "cannot tokenize directive", err).WithLocation(loc)
	}

	p := &optionParser{loc: loc}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.EOF() {
			return p.finish(tok)
		}

		switch p.state {
		case ExpectingNewParam, ExpectingGroup:
			err = p.expectNewParam(tok)
		case ExpectingEqSign:
			err = p.expectEqSign(tok)
		case ExpectingIdent:
			i, err = p.expectIdent(tokens, i)
		case expectingSeparator:
			err = p.expectSeparator(tok)
		}
		if err != nil {
			return nil, err
		}
	}
	return p.top, nil
}

func (p *optionParser) expectNewParam(tok lexer.Token) error {
	switch {
	case tok.Type == wordToken:
		p.pending = &RawOption{Name: tok.Value, Pos: tok.Pos}
		p.state = ExpectingEqSign
	case tok.Value == "," && p.state == ExpectingNewParam:
	case tok.Value == ")" && p.group != nil:
		p.closeGroup()
	case tok.Value == "(":
		return p.syntaxError(tok, "unexpected parentheses")
	default:
		return p.syntaxError(tok, fmt.Sprintf("expected an option name, found %q", tok.Value))
	}
	return nil
}

func (p *optionParser) expectEqSign(tok lexer.Token) error {
	switch {
	case tok.Value == "=":
		p.state = ExpectingIdent
	case tok.Value == "(":
		if p.group != nil {
			return p.syntaxError(tok, fmt.Sprintf("unexpected parentheses after %s", p.pending.Name))
		}
		p.pending.HasGroup = true
		p.group = p.pending
		p.pending = nil
		p.state = ExpectingGroup
	case tok.Type == fragmentToken:
		p.pending.HasFragment = true
		p.pending.Fragment = strings.TrimSpace(tok.Value[1 : len(tok.Value)-1])
		p.complete()
	case tok.Value == ",":
		p.complete()
		p.state = ExpectingNewParam
	case tok.Value == ")" && p.group != nil:
		p.complete()
		p.closeGroup()
	default:
		return p.syntaxError(tok, fmt.Sprintf("expected ',' or '=' after %s, found %q", p.pending.Name, tok.Value))
	}
	return nil
}

// expectIdent reads a value. Adjacent word and fragment tokens are joined so
// that type expressions such as map[string]int survive unquoted.
func (p *optionParser) expectIdent(tokens []lexer.Token, i int) (int, error) {
	tok := tokens[i]
	switch tok.Type {
	case stringToken:
		value, err := strconv.Unquote(tok.Value)
		if err != nil {
			return i, p.syntaxError(tok, fmt.Sprintf("invalid string %s", tok.Value))
		}
		p.pending.Value = value
	case wordToken, fragmentToken:
		var b strings.Builder
		b.WriteString(tok.Value)
		for i+1 < len(tokens) {
			next := tokens[i+1]
			if (next.Type != wordToken && next.Type != fragmentToken) || !adjacent(tokens[i], next) {
				break
			}
			b.WriteString(next.Value)
			i++
		}
		p.pending.Value = b.String()
	default:
		return i, p.syntaxError(tok, fmt.Sprintf("expected a value for %s, found %q", p.pending.Name, tok.Value))
	}

	p.pending.HasValue = true
	p.complete()
	return i, nil
}

func (p *optionParser) expectSeparator(tok lexer.Token) error {
	switch {
	case tok.Value == ",":
		p.state = ExpectingNewParam
	case tok.Value == ")" && p.group != nil:
		p.closeGroup()
	case tok.Value == "(":
		return p.syntaxError(tok, "unexpected parentheses")
	default:
		return p.syntaxError(tok, fmt.Sprintf("expected ',' between options, found %q", tok.Value))
	}
	return nil
}

func (p *optionParser) complete() {
	if p.group != nil {
		p.group.Group = append(p.group.Group, p.pending)
	} else {
		p.top = append(p.top, p.pending)
	}
	p.pending = nil
	p.state = expectingSeparator
}

func (p *optionParser) closeGroup() {
	p.top = append(p.top, p.group)
	p.group = nil
	p.state = expectingSeparator
}

func (p *optionParser) finish(eof lexer.Token) ([]*RawOption, error) {
	if p.group != nil {
		return nil, p.syntaxError(eof, fmt.Sprintf("missing ')' after %s(", p.group.Name))
	}

	switch p.state {
	case ExpectingEqSign:
		p.complete()
	case ExpectingIdent:
		return nil, p.syntaxError(eof, fmt.Sprintf("missing value after %s=", p.pending.Name))
	}
	return p.top, nil
}

func (p *optionParser) syntaxError(tok lexer.Token, msg string) error {
	loc := p.loc
	if loc.Line > 0 {
		loc.Column += tok.Pos.Offset
	}
	return errors.New(errors.SyntaxErrorCode, msg).
		WithLocation(loc).
		WithContext("state", p.state.String())
}
