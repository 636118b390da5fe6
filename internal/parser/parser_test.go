package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

const calcSource = `package calc

import (
	stdctx "context"
)

// Calc is a calculator.
//
//enumizer:generate returnval=stdchan, call_fn(mut), proxy(ref, infallible_impl)
type Calc interface {
	Foo()
	//enumizer:receiver mut
	Bar(x int32)
	//enumizer:return_attr json:"ret"
	Get(ctx stdctx.Context) int64
	//enumizer:to_owned name
	//enumizer:arg_attr name json:"n"
	Rename(name *string, tags []string)
}

type unrelated interface {
	Skip()
}
`

func analyze(t *testing.T, source string) (*PackageResult, error) {
	t.Helper()
	return NewParser().ParseSource("calc.go", source)
}

func TestParseSourceInterface(t *testing.T) {
	result, err := analyze(t, calcSource)
	require.NoError(t, err)

	assert.Equal(t, "calc", result.Name)
	require.Len(t, result.Interfaces, 1)

	iface := result.Interfaces[0]
	assert.Equal(t, "Calc", iface.Name)
	assert.False(t, iface.Inherent)
	assert.Equal(t, "stdchan", iface.Config.ReturnVal)
	require.Len(t, iface.Methods, 4)

	foo := iface.Methods[0]
	assert.Equal(t, "Foo", foo.Name)
	assert.Equal(t, models.BySharedRef, foo.Receiver)
	assert.Empty(t, foo.Args)
	assert.False(t, foo.HasReturn())

	bar := iface.Methods[1]
	assert.Equal(t, models.ByUniqueRef, bar.Receiver)
	require.Len(t, bar.Args, 1)
	assert.Equal(t, "x", bar.Args[0].Name)
	assert.Equal(t, "int32", bar.Args[0].TypeText)

	get := iface.Methods[2]
	assert.True(t, get.Context)
	assert.Equal(t, "ctx", get.ContextName)
	assert.Empty(t, get.Args)
	assert.Equal(t, "int64", get.ReturnText)
	assert.Equal(t, []string{`json:"ret"`}, get.ReturnAttrs)

	rename := iface.Methods[3]
	require.Len(t, rename.Args, 2)
	assert.True(t, rename.Args[0].ToOwned)
	assert.Equal(t, "*string", rename.Args[0].TypeText)
	assert.Equal(t, []string{`json:"n"`}, rename.Args[0].Attrs)
	assert.Equal(t, "[]string", rename.Args[1].TypeText)

	assert.Contains(t, iface.Imports, models.Import{Name: "stdctx", Path: "context"})
}

func TestParseSourceInherent(t *testing.T) {
	src := `package counter

//enumizer:generate inherent_impl, call_fn(mut)
type Counter struct{ n int }

func (c Counter) Value() int { return c.n }

func (c *Counter) Add(delta int) { c.n += delta }

func (c *Counter) reset() { c.n = 0 }
`
	result, err := NewParser().ParseSource("counter.go", src)
	// Value returns a value without returnval
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Value returns a value")

	p := NewParser()
	p.SetDefaultReturnVal("stdchan")
	result, err = p.ParseSource("counter.go", src)
	require.NoError(t, err)

	iface := result.Interfaces[0]
	assert.True(t, iface.Inherent)
	assert.Equal(t, "stdchan", iface.Config.ReturnVal)
	require.Len(t, iface.Methods, 2)
	assert.Equal(t, "Value", iface.Methods[0].Name)
	assert.Equal(t, models.BySharedRef, iface.Methods[0].Receiver)
	assert.Equal(t, "Add", iface.Methods[1].Name)
	assert.Equal(t, models.ByUniqueRef, iface.Methods[1].Receiver)
}

func TestParseSourceRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{
			name: "embedded interface",
			body: "//enumizer:generate\ntype A interface {\n\tfmt.Stringer\n\tFoo()\n}",
			msg:  "embedded interfaces",
		},
		{
			name: "variadic",
			body: "//enumizer:generate\ntype A interface {\n\tFoo(xs ...int)\n}",
			msg:  "variadic",
		},
		{
			name: "unnamed parameter",
			body: "//enumizer:generate\ntype A interface {\n\tFoo(int)\n}",
			msg:  "must be named",
		},
		{
			name: "blank parameter",
			body: "//enumizer:generate\ntype A interface {\n\tFoo(_ int)\n}",
			msg:  "not _",
		},
		{
			name: "two results",
			body: "//enumizer:generate returnval=stdchan\ntype A interface {\n\tFoo() (int, error)\n}",
			msg:  "at most one value",
		},
		{
			name: "return without class",
			body: "//enumizer:generate\ntype A interface {\n\tFoo() int\n}",
			msg:  "no return value channel class",
		},
		{
			name: "not an interface",
			body: "//enumizer:generate\ntype A struct{}",
			msg:  "is not an interface",
		},
		{
			name: "inherent on interface",
			body: "//enumizer:generate inherent_impl\ntype A interface {\n\tFoo()\n}",
			msg:  "needs a concrete type",
		},
		{
			name: "variant collision",
			body: "//enumizer:generate\ntype A interface {\n\tfoo()\n\tFoo()\n}",
			msg:  "both become variant Foo",
		},
		{
			name: "reply field collision",
			body: "//enumizer:generate returnval=stdchan\ntype A interface {\n\tFoo(ret int) int\n}",
			msg:  "collides with the reply field",
		},
		{
			name: "return_attr without return",
			body: "//enumizer:generate\ntype A interface {\n\t//enumizer:return_attr json:\"x\"\n\tFoo()\n}",
			msg:  "without a return value",
		},
		{
			name: "to_owned on value",
			body: "//enumizer:generate\ntype A interface {\n\t//enumizer:to_owned x\n\tFoo(x int)\n}",
			msg:  "must be a pointer, slice or map",
		},
		{
			name: "unknown argument",
			body: "//enumizer:generate\ntype A interface {\n\t//enumizer:to_owned y\n\tFoo(x *int)\n}",
			msg:  "has no argument y",
		},
		{
			name: "bad receiver",
			body: "//enumizer:generate\ntype A interface {\n\t//enumizer:receiver shared\n\tFoo()\n}",
			msg:  "Foo",
		},
		{
			name: "generate on method",
			body: "//enumizer:generate\ntype A interface {\n\t//enumizer:generate\n\tFoo()\n}",
			msg:  "belongs on a type",
		},
		{
			name: "directive on function",
			body: "//enumizer:receiver mut\nfunc free() {}",
			msg:  "has no receiver",
		},
		{
			name: "directive on unexported inherent method",
			body: "//enumizer:generate inherent_impl\ntype A struct{}\n\nfunc (a *A) Foo() {}\n\n//enumizer:receiver once\nfunc (a A) reset() {}",
			msg:  "A.reset is unexported and not enumized",
		},
		{
			name: "resultified clash",
			body: "//enumizer:generate\ntype A interface {\n\tFoo()\n\tTryFoo()\n}",
			msg:  "clashes with the resultified form",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyze(t, "package p\n\nimport \"fmt\"\n\nvar _ fmt.Stringer\n\n"+tt.body+"\n")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseSourceLocations(t *testing.T) {
	_, err := analyze(t, "package p\n\n//enumizer:generate\ntype A interface {\n\tFoo(xs ...int)\n}\n")
	require.Error(t, err)
	assert.Equal(t, errors.DefinitionErrorCode, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "calc.go:5")
}

func TestContextRequiresImport(t *testing.T) {
	src := `package p

type context struct{ Context int }

//enumizer:generate
type A interface {
	Foo(c context.Context)
}
`
	result, err := analyze(t, src)
	require.NoError(t, err)
	m := result.Interfaces[0].Methods[0]
	assert.False(t, m.Context)
	assert.Len(t, m.Args, 1)
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("calc.go", calcSource)
	write("calc_test.go", "package calc\n\n//enumizer:generate\ntype T interface{ X() }\n")
	write("calc_enumizer.go", "// Code generated by enumizer. DO NOT EDIT.\n\npackage calc\n\n//enumizer:generate\ntype G interface{ Y() }\n")

	result, err := NewParser().ParseDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, result.Dir)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, "Calc", result.Interfaces[0].Name)
}

func TestParseDirectoryEmpty(t *testing.T) {
	result, err := NewParser().ParseDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Interfaces)
}

func TestDescribe(t *testing.T) {
	result, err := analyze(t, calcSource)
	require.NoError(t, err)

	out := Describe(result.Interfaces[0])
	assert.Contains(t, out, "interface Calc")
	assert.Contains(t, out, "Bar [mut] (x int32)")
	assert.Contains(t, out, "Get [ref] ctx () -> int64")
	assert.Contains(t, out, "name *string owned")
}

func TestStrip(t *testing.T) {
	out, err := Strip("calc.go", []byte(calcSource))
	require.NoError(t, err)

	assert.NotContains(t, string(out), "//enumizer:")
	assert.Contains(t, string(out), "// Calc is a calculator.")
	assert.Contains(t, string(out), "Bar(x int32)")
}
