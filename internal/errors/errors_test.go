package errors

import (
	stderrors "errors"
	"fmt"
	"go/token"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseErrorMessage(t *testing.T) {
	err := Definition(token.Position{Filename: "calc.go", Line: 7, Column: 2}, "%s.%s: variadic parameters are not supported", "Calc", "Sum").
		WithSuggestion("take a slice instead")

	assert.Equal(t, "calc.go:7:2: Calc.Sum: variadic parameters are not supported", err.Error())
	assert.Equal(t, DefinitionErrorCode, err.ErrorCode())
	assert.Equal(t, []string{"take a slice instead"}, err.Suggestions())
	assert.Equal(t, "DefinitionError", err.ErrorCode().String())
}

func TestSourceLocationString(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:3", SourceLocation{File: "a.go", Line: 3}.String())
	assert.True(t, SourceLocation{Line: 3}.IsEmpty())
}

func TestWrappedCause(t *testing.T) {
	err := FileSystem("write", "calc_enumizer.go", fs.ErrPermission)

	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, err.Error(), "failed to write file 'calc_enumizer.go'")
	assert.Equal(t, "write", err.Context()["operation"])
	assert.Equal(t, FileSystemErrorCode, CodeOf(err))
}

func TestCodeOfWalksChain(t *testing.T) {
	inner := Configuration("returnval", "unknown class %s", "oneshot")
	outer := Wrap(UnknownErrorCode, "outer", inner)

	assert.Equal(t, UnknownErrorCode, CodeOf(outer))
	assert.Equal(t, ConfigurationErrorCode, CodeOf(fmt.Errorf("generate: %w", inner)))
	assert.Equal(t, UnknownErrorCode, CodeOf(stderrors.New("plain")))
	assert.Equal(t, UnknownErrorCode, CodeOf(nil))

	var target *BaseError
	require.ErrorAs(t, outer, &target)
	assert.Equal(t, "returnval", inner.Context()["option"])
}

func TestMultipleErrors(t *testing.T) {
	m := NewMultipleErrors()
	assert.NoError(t, m.ErrOrNil())
	assert.Equal(t, "no errors", m.Error())

	first := Mismatch("CallCalc", "ref", "cannot call Bar").WithSuggestion("add allow_panic")
	m.Add(first)
	assert.Equal(t, "cannot call Bar", m.Error())

	m.Add(Generation("CalcEnum", fs.ErrInvalid))
	require.Error(t, m.ErrOrNil())
	assert.Contains(t, m.Error(), "multiple errors (2 total)")
	assert.Contains(t, m.Error(), "  2. failed to generate CalcEnum")
	assert.True(t, m.HasCode(ConventionMismatchErrorCode))
	assert.False(t, m.HasCode(SyntaxErrorCode))
	assert.Equal(t, []string{"add allow_panic"}, m.Suggestions())
	assert.ErrorIs(t, m, fs.ErrInvalid)
}
