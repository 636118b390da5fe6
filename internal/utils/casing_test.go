package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpperCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"foo", "Foo"},
		{"get_x", "GetX"},
		{"getX", "GetX"},
		{"Bar", "Bar"},
		{"set__value_", "SetValue"},
		{"x", "X"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, UpperCamel(tt.input))
		})
	}
}

func TestFirstLetter(t *testing.T) {
	assert.Equal(t, "calcEnum", LowerFirst("CalcEnum"))
	assert.Equal(t, "CalcEnum", UpperFirst("calcEnum"))
	assert.Equal(t, "", LowerFirst(""))
	assert.True(t, IsExported("Calc"))
	assert.False(t, IsExported("calc"))
	assert.False(t, IsExported(""))
}
