package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterSource = `package counter

//enumizer:generate pub, call_fn(mut), proxy(mut)
type Counter interface {
	Add(n int)
	Reset()
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		inspectStrip = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "enumizer "+Version)
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "counter.go")
	require.NoError(t, os.WriteFile(source, []byte(counterSource), 0o644))

	out, err := execute(t, "generate", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Generation Complete")

	generated := filepath.Join(dir, "counter_enumizer.go")
	content, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(content), "func CallMutCounterEnum(")
	assert.Contains(t, string(content), "type CounterProxyMut struct")

	out, err = execute(t, "inspect", source)
	require.NoError(t, err)
	assert.Contains(t, out, "interface Counter")
	assert.Contains(t, out, "Add [ref] (n int)")

	out, err = execute(t, "clean", dir)
	require.NoError(t, err, out)
	assert.NoFileExists(t, generated)
	assert.FileExists(t, source)
}

func TestGenerateFailure(t *testing.T) {
	dir := t.TempDir()
	bad := "package counter\n\n//enumizer:generate\ntype Counter interface{ Get() int }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.go"), []byte(bad), 0o644))

	out, err := execute(t, "generate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "no return value channel class")
	assert.NoFileExists(t, filepath.Join(dir, "counter_enumizer.go"))
}

func TestInspectStrip(t *testing.T) {
	source := filepath.Join(t.TempDir(), "counter.go")
	require.NoError(t, os.WriteFile(source, []byte(counterSource), 0o644))

	out, err := execute(t, "inspect", "--strip", source)
	require.NoError(t, err)
	assert.NotContains(t, out, "//enumizer:")
	assert.Contains(t, out, "type Counter interface")
}

func TestInspectRequiresFile(t *testing.T) {
	_, err := execute(t, "inspect")
	assert.Error(t, err)
}
