package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

type fakeInspector struct {
	calls []string
	class *models.ChannelClass
	err   error
}

func (f *fakeInspector) Inspect(dir, importPath string) (*models.ChannelClass, error) {
	f.calls = append(f.calls, importPath)
	if f.err != nil {
		return nil, f.err
	}
	class := *f.class
	class.ImportPath = importPath
	return &class, nil
}

func TestChannelClassRegistry_Builtins(t *testing.T) {
	r := NewChannelClassRegistry(nil)

	assert.Equal(t, []string{"correlated", "stdchan"}, r.List())

	class, err := r.Resolve("stdchan", ".")
	require.NoError(t, err)
	assert.Equal(t, "stdchan", class.Package)
	assert.Empty(t, class.ExtraType)
	assert.True(t, class.Context)

	class, err = r.Resolve("github.com/vi/trait-enumizer/pkg/channels/correlated", ".")
	require.NoError(t, err)
	assert.Equal(t, "*correlated.Registry", class.ExtraType)
}

func TestChannelClassRegistry_Register(t *testing.T) {
	r := NewChannelClassRegistry(nil)

	err := r.Register(models.ChannelClass{Spec: "mine", ImportPath: "example.com/chans/mine"})
	require.NoError(t, err)

	class, ok := r.Get("mine")
	require.True(t, ok)
	assert.Equal(t, "mine", class.Package)

	err = r.Register(models.ChannelClass{Spec: "mine", ImportPath: "example.com/other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestChannelClassRegistry_UnknownShortName(t *testing.T) {
	r := NewChannelClassRegistry(&fakeInspector{})

	_, err := r.Resolve("oneshot", ".")
	require.Error(t, err)
	assert.Equal(t, errors.ChannelClassErrorCode, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "unknown channel class oneshot")
}

func TestChannelClassRegistry_InspectsAndCaches(t *testing.T) {
	inspector := &fakeInspector{class: &models.ChannelClass{Package: "rpcchan", Context: false}}
	r := NewChannelClassRegistry(inspector)

	class, err := r.Resolve("example.com/rpcchan", ".")
	require.NoError(t, err)
	assert.Equal(t, "example.com/rpcchan", class.Spec)
	assert.Equal(t, "rpcchan", class.Package)

	_, err = r.Resolve("example.com/rpcchan", ".")
	require.NoError(t, err)
	assert.Len(t, inspector.calls, 1)
}

func TestChannelClassRegistry_WithoutInspector(t *testing.T) {
	r := NewChannelClassRegistry(nil)

	_, err := r.Resolve("example.com/rpcchan", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestChannelClassRegistry_Relative(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n\ngo 1.25\n"), 0o644))
	dir := filepath.Join(root, "calc")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	inspector := &fakeInspector{class: &models.ChannelClass{Package: "chans"}}
	r := NewChannelClassRegistry(inspector)

	class, err := r.Resolve("../internal/chans", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/app/internal/chans"}, inspector.calls)
	assert.Equal(t, "example.com/app/internal/chans", class.ImportPath)

	_, err = r.Resolve("../../elsewhere", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside module")
}
