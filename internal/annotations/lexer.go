package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// configLexer tokenizes the text of a generate directive. Square bracket
// fragments may nest one level so that fragments can carry indexes.
var configLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Fragment", Pattern: `\[(?:[^\[\]]|\[[^\[\]]*\])*\]`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Word", Pattern: `[^\s=,()\[\]"]+`},
	{Name: "Punct", Pattern: `[=,()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	fragmentToken   = configLexer.Symbols()["Fragment"]
	stringToken     = configLexer.Symbols()["String"]
	wordToken       = configLexer.Symbols()["Word"]
	punctToken      = configLexer.Symbols()["Punct"]
	whitespaceToken = configLexer.Symbols()["Whitespace"]
)

// tokenize returns the significant tokens of text, ending with an EOF token
func tokenize(text string) ([]lexer.Token, error) {
	l, err := configLexer.Lex("", strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	all, err := lexer.ConsumeAll(l)
	if err != nil {
		return nil, err
	}

	tokens := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		if tok.Type == whitespaceToken {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// adjacent reports whether b starts right where a ends
func adjacent(a, b lexer.Token) bool {
	return a.Pos.Offset+len(a.Value) == b.Pos.Offset
}
