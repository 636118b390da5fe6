package parser

import (
	"go/parser"
	"go/token"
	"strings"

	"github.com/vi/trait-enumizer/internal/annotations"
	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/utils"
)

// Strip returns source with every enumizer directive line removed, the way
// the code reads once annotations are consumed.
func Strip(filename string, source []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "failed to parse source", err)
	}

	lines := make(map[int]bool)
	for _, group := range file.Comments {
		for _, c := range group.List {
			if annotations.IsDirective(c.Text) {
				lines[fset.Position(c.Pos()).Line] = true
			}
		}
	}

	if len(lines) == 0 {
		return source, nil
	}

	src := strings.Split(string(source), "\n")
	out := make([]string, 0, len(src))
	for i, line := range src {
		if lines[i+1] && annotations.IsDirective(strings.TrimSpace(line)) {
			continue
		}
		out = append(out, line)
	}

	return utils.FormatGoCode([]byte(strings.Join(out, "\n")))
}
