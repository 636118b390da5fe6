package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

func parse(t *testing.T, text string) *models.Configuration {
	t.Helper()
	cfg, err := ParseConfig(text, errors.SourceLocation{})
	require.NoError(t, err)
	return cfg
}

func TestParseConfigFull(t *testing.T) {
	cfg := parse(t, `name=CalcCommand, pub, returnval=stdchan, enum_attr[sumtype:decl],
		call_fn(ref, name=Dispatch, allow_panic, extra_arg_type=*correlated.Registry, async),
		proxy(FnMut, name=CalcProxy, resultified_trait=CalcResultified, unwrapping_impl, extra_field_type=*correlated.Registry)`)

	assert.Equal(t, "CalcCommand", cfg.EnumName)
	assert.Equal(t, models.Public, cfg.Access)
	assert.Equal(t, "stdchan", cfg.ReturnVal)
	assert.Equal(t, []string{"sumtype:decl"}, cfg.EnumAttrs)

	require.Len(t, cfg.CallFns, 1)
	assert.Equal(t, models.CallFnRequest{
		Convention:    models.BySharedRef,
		Name:          "Dispatch",
		AllowMismatch: true,
		ExtraArgType:  "*correlated.Registry",
		Async:         true,
	}, cfg.CallFns[0])

	require.Len(t, cfg.Proxies, 1)
	assert.Equal(t, models.ProxyRequest{
		Convention:      models.ByUniqueRef,
		Name:            "CalcProxy",
		ResultifiedName: "CalcResultified",
		ExtraFieldType:  "*correlated.Registry",
		Adapter:         models.Unwrapping,
	}, cfg.Proxies[0])
}

func TestParseConfigLegacySpellings(t *testing.T) {
	cfg := parse(t, "call_mut(allow_panic), call, once_proxy(infallible_impl), ref_proxy, inherent_impl, pub_crate")

	require.Len(t, cfg.CallFns, 2)
	assert.Equal(t, models.ByUniqueRef, cfg.CallFns[0].Convention)
	assert.True(t, cfg.CallFns[0].AllowMismatch)
	assert.Equal(t, models.BySharedRef, cfg.CallFns[1].Convention)

	require.Len(t, cfg.Proxies, 2)
	assert.Equal(t, models.ByValue, cfg.Proxies[0].Convention)
	assert.Equal(t, models.Infallible, cfg.Proxies[0].Adapter)
	assert.Equal(t, models.BySharedRef, cfg.Proxies[1].Convention)

	assert.True(t, cfg.InherentImpl)
	assert.Equal(t, models.PubCrate, cfg.Access)
}

func TestParseConfigRepeatable(t *testing.T) {
	cfg := parse(t, "call_fn(ref), call_fn(once, name=consume), enum_attr[a], enum_attr[b]")
	assert.Len(t, cfg.CallFns, 2)
	assert.Equal(t, []string{"a", "b"}, cfg.EnumAttrs)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"duplicate option", "name=A, name=B", "duplicate option name"},
		{"unknown option", "nmae=A", "unknown option nmae"},
		{"unknown sub-option", "proxy(ref, nmae=P)", "unknown sub-option nmae of proxy"},
		{"duplicate sub-option", "proxy(ref, async, async)", "duplicate sub-option async"},
		{"several adapters", "proxy(ref, infallible_impl, unwrapping_impl)", "choose only one of infallible_impl, unwrapping_impl or unwrapping_and_panicking_impl"},
		{"missing convention", "call_fn(name=x)", "needs a receiver convention"},
		{"two conventions", "call_fn(ref, mut)", "choose only one receiver convention"},
		{"flag with value", "pub=yes", "does not take a value"},
		{"value without value", "returnval", "requires a value"},
		{"group without parens", "proxy", "requires parentheses"},
		{"flag with parens", "inherent_impl(x)", "unexpected parentheses"},
		{"bad identifier", "name=1abc", "not a valid identifier"},
		{"bad type", "call_fn(ref, extra_arg_type=*)", "not a valid type expression"},
		{"pub twice", "pub, pub_crate", "choose only one of pub or pub_crate"},
		{"async twice", "proxy(ref, async, no_async)", "choose only one of async or no_async"},
		{"fragment on flag", "pub[x]", "does not take a [fragment]"},
		{"enum_attr without fragment", "enum_attr", "requires a [fragment]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.input, errors.SourceLocation{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseConfigSuggestsNames(t *testing.T) {
	_, err := ParseConfig("retunval=stdchan", errors.SourceLocation{})
	require.Error(t, err)

	var base *errors.BaseError
	require.ErrorAs(t, err, &base)
	assert.Equal(t, errors.ConfigurationErrorCode, base.ErrorCode())
	assert.Contains(t, base.Suggestions(), "did you mean returnval?")
}
