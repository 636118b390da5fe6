package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(t *testing.T, level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	t.Setenv("NO_COLOR", "1")
	d := NewDiagnosticSystem(level)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	d.SetOutput(out, errOut)
	return d, out, errOut
}

func TestDiagnosticLevels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(t, DiagnosticInfo)

	d.Info("scanning %s", "./...")
	d.Verbose("hidden")
	d.Error("broken %d", 1)

	assert.Contains(t, out.String(), "[INFO] scanning ./...")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, errOut.String(), "[ERROR] broken 1")
}

func TestQuietDiagnostics(t *testing.T) {
	d, out, errOut := newTestDiagnostics(t, DiagnosticError)

	d.Info("nope")
	d.Success("nope")
	d.Error("yes")
	d.Hints([]string{"try returnval=stdchan"})

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "yes")
	assert.Contains(t, errOut.String(), "hint: try returnval=stdchan")
}

func TestSummarySorted(t *testing.T) {
	d, out, _ := newTestDiagnostics(t, DiagnosticInfo)

	d.Summary("Done", map[string]interface{}{"b": 2, "a": 1})

	s := out.String()
	assert.Less(t, bytes.Index([]byte(s), []byte("a: 1")), bytes.Index([]byte(s), []byte("b: 2")))
}

func TestIndent(t *testing.T) {
	d, out, _ := newTestDiagnostics(t, DiagnosticInfo)

	d.Indent()
	d.List("item")
	d.Unindent()
	d.Unindent()
	d.List("top")

	assert.Contains(t, out.String(), "  - item\n- top\n")
}
