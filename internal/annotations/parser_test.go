package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vi/trait-enumizer/internal/errors"
)

func TestParseOptionsShapes(t *testing.T) {
	opts, err := ParseOptions(`name=CalcEnum, pub, enum_attr[sumtype:decl], call_fn(ref, name=Dispatch, extra_arg_type=map[string]int), returnval="./replies"`, errors.SourceLocation{})
	require.NoError(t, err)
	require.Len(t, opts, 5)

	assert.Equal(t, "name", opts[0].Name)
	assert.True(t, opts[0].HasValue)
	assert.Equal(t, "CalcEnum", opts[0].Value)

	assert.Equal(t, "pub", opts[1].Name)
	assert.False(t, opts[1].HasValue)

	assert.Equal(t, "enum_attr", opts[2].Name)
	assert.True(t, opts[2].HasFragment)
	assert.Equal(t, "sumtype:decl", opts[2].Fragment)

	call := opts[3]
	assert.True(t, call.HasGroup)
	require.Len(t, call.Group, 3)
	assert.Equal(t, "ref", call.Group[0].Name)
	assert.Equal(t, "Dispatch", call.Group[1].Value)
	assert.Equal(t, "map[string]int", call.Group[2].Value)

	assert.Equal(t, "./replies", opts[4].Value)
}

func TestParseOptionsTolerance(t *testing.T) {
	opts, err := ParseOptions(" pub ,, call_fn( ref , ) ,", errors.SourceLocation{})
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Len(t, opts[1].Group, 1)

	opts, err = ParseOptions("", errors.SourceLocation{})
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestParseOptionsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"nested parentheses", "proxy(ref, name(x))", "unexpected parentheses"},
		{"missing close", "call_fn(ref", "missing ')'"},
		{"missing value", "name=", "missing value"},
		{"missing comma", "pub inherent_impl", "expected ',' between options"},
		{"leading paren", "(ref)", "unexpected parentheses"},
		{"double equals", "name==x", "expected a value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.input, errors.SourceLocation{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
		})
	}
}

func TestParseOptionsErrorColumn(t *testing.T) {
	_, err := ParseOptions("pub inherent_impl", errors.SourceLocation{File: "calc.go", Line: 3, Column: 21})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calc.go:3:25")
}
