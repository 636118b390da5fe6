package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
)

// FormatGoCode formats Go source code using the same logic as gofmt. On
// failure the syntax error is reported instead of the formatter's message.
func FormatGoCode(source []byte) ([]byte, error) {
	formatted, err := format.Source(source)
	if err != nil {
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w", parseErr)
		}
		return source, err
	}
	return formatted, nil
}

// FormatAndWriteGoFile formats Go code and writes it to a file
func FormatAndWriteGoFile(filename string, code []byte) error {
	formatted, err := FormatGoCode(code)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, formatted, 0644)
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
