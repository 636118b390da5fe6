package registry

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
	"github.com/vi/trait-enumizer/internal/utils"
)

const channelsPath = "github.com/vi/trait-enumizer/pkg/channels/"

// BuiltinClasses are the channel classes shipped with the runtime library
var BuiltinClasses = []models.ChannelClass{
	{
		Spec:       "stdchan",
		ImportPath: channelsPath + "stdchan",
		Package:    "stdchan",
		Context:    true,
		Close:      true,
		Forget:     true,
	},
	{
		Spec:       "correlated",
		ImportPath: channelsPath + "correlated",
		Package:    "correlated",
		ExtraType:  "*correlated.Registry",
		Context:    true,
		Close:      true,
		Forget:     true,
	},
}

// ChannelClassRegistry resolves channel classes by short name or import path
type ChannelClassRegistry struct {
	classes   map[string]models.ChannelClass
	inspector Inspector
	mu        sync.RWMutex
}

// NewChannelClassRegistry creates a registry holding the built-in classes.
// A nil inspector disables classes outside the registry.
func NewChannelClassRegistry(inspector Inspector) *ChannelClassRegistry {
	r := &ChannelClassRegistry{
		classes:   make(map[string]models.ChannelClass),
		inspector: inspector,
	}
	for _, class := range BuiltinClasses {
		r.classes[class.Spec] = class
	}
	return r
}

// Register adds a class under its spec
func (r *ChannelClassRegistry) Register(class models.ChannelClass) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[class.Spec]; exists {
		return errors.Newf(errors.ChannelClassErrorCode, "channel class %s already registered", class.Spec)
	}
	if class.Package == "" {
		class.Package = path.Base(class.ImportPath)
	}
	r.classes[class.Spec] = class
	return nil
}

// Get returns a class by short name or import path
func (r *ChannelClassRegistry) Get(name string) (models.ChannelClass, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if class, ok := r.classes[name]; ok {
		return class, true
	}
	for _, class := range r.classes {
		if class.ImportPath == name {
			return class, true
		}
	}
	return models.ChannelClass{}, false
}

// List returns the registered short names in sorted order
func (r *ChannelClassRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a returnval spec into a class. Short names and import paths
// of known classes resolve directly; any other import path, or a ./relative
// directory inside the module of dir, is inspected and then cached.
func (r *ChannelClassRegistry) Resolve(spec, dir string) (*models.ChannelClass, error) {
	if class, ok := r.Get(spec); ok {
		return &class, nil
	}

	importPath := spec
	pkgDir := ""
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		mod, err := utils.FindModule(dir)
		if err != nil {
			return nil, r.errorf(spec, "relative channel class outside a module: %v", err)
		}
		importPath, err = mod.ImportPathFor(dir, spec)
		if err != nil {
			return nil, r.errorf(spec, "%v", err)
		}
		if class, ok := r.Get(importPath); ok {
			return &class, nil
		}
		pkgDir = dir
	} else if !strings.Contains(spec, "/") {
		return nil, r.errorf(spec, "unknown channel class %s", spec).
			WithSuggestion("known classes: " + strings.Join(r.List(), ", "))
	}

	if r.inspector == nil {
		return nil, r.errorf(spec, "channel class %s is not registered", spec)
	}

	if pkgDir == "" {
		pkgDir = dir
	}
	class, err := r.inspector.Inspect(pkgDir, importPath)
	if err != nil {
		return nil, err
	}
	class.Spec = spec

	r.mu.Lock()
	r.classes[spec] = *class
	r.mu.Unlock()
	return class, nil
}

func (r *ChannelClassRegistry) errorf(spec, format string, args ...interface{}) *errors.BaseError {
	return errors.Newf(errors.ChannelClassErrorCode, format, args...).WithContext("returnval", spec)
}
