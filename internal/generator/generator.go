package generator

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/convention"
	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
	"github.com/vi/trait-enumizer/internal/registry"
)

// DefaultSuffix replaces ".go" in the name of the annotated file
const DefaultSuffix = "_enumizer.go"

// Header is the first line of every generated file
const Header = "Code generated by enumizer. DO NOT EDIT."

// Generator implements the CodeGenerator interface
type Generator struct {
	classes registry.ClassRegistry
	suffix  string
}

// NewGenerator creates a new code generator resolving channel classes through classes
func NewGenerator(classes registry.ClassRegistry) *Generator {
	return &Generator{classes: classes, suffix: DefaultSuffix}
}

// SetSuffix changes the output file suffix
func (g *Generator) SetSuffix(suffix string) {
	if suffix != "" {
		g.suffix = suffix
	}
}

// OutputPath returns the path of the file generated for sourcePath
func (g *Generator) OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, ".go") + g.suffix
}

// GenerateFile renders every interface annotated in one source file. Any
// error aborts the whole file.
func (g *Generator) GenerateFile(pkgName, sourcePath string, ifaces []*models.Interface) (*GeneratedFile, error) {
	if len(ifaces) == 0 {
		return nil, errors.Newf(errors.GenerationErrorCode, "no annotated interfaces in %s", sourcePath)
	}

	units := make([]*unit, 0, len(ifaces))
	for _, iface := range ifaces {
		u, err := g.prepare(iface, sourcePath)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	if err := checkNames(units); err != nil {
		return nil, err
	}

	f := jen.NewFile(pkgName)
	f.HeaderComment(Header)

	var stats Stats
	for _, u := range units {
		stats.Add(u.emit(f))
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Generation(sourcePath, err).WithContext("package", pkgName)
	}

	return &GeneratedFile{
		PackageName: pkgName,
		FilePath:    g.OutputPath(sourcePath),
		Content:     buf.Bytes(),
		Stats:       stats,
	}, nil
}

// prepare validates the configuration of one interface against its methods
// and channel class, then converts its types.
func (g *Generator) prepare(iface *models.Interface, sourcePath string) (*unit, error) {
	loc := errors.LocationOf(iface.Pos)
	cfg := iface.Config

	cfg.ResolveDefaults(iface.Name)
	if err := cfg.Validate(); err != nil {
		return nil, withLocation(err, loc)
	}

	for _, req := range cfg.CallFns {
		if err := convention.CheckCallFn(req, iface); err != nil {
			return nil, err
		}
	}
	for _, req := range cfg.Proxies {
		if err := convention.CheckProxy(req, iface); err != nil {
			return nil, err
		}
	}

	var class *models.ChannelClass
	if iface.HasReturns() {
		resolved, err := g.classes.Resolve(cfg.ReturnVal, filepath.Dir(sourcePath))
		if err != nil {
			return nil, withLocation(err, loc)
		}
		class = resolved
		cfg.Class = class

		if err := checkClass(iface, class); err != nil {
			return nil, err.WithLocation(loc)
		}
	}

	if err := checkProxyMembers(iface); err != nil {
		return nil, err.WithLocation(loc)
	}

	u, err := newUnit(iface, class)
	if err != nil {
		return nil, errors.Generation(iface.Name, err).WithLocation(loc)
	}
	return u, nil
}

// checkClass matches extra types and context support against the class
func checkClass(iface *models.Interface, class *models.ChannelClass) *errors.BaseError {
	want := normalizeType(class.ExtraType)

	for _, req := range iface.Config.CallFns {
		if err := checkExtra(class, want, req.Name, "extra_arg_type", req.ExtraArgType); err != nil {
			return err
		}
	}
	for _, req := range iface.Config.Proxies {
		if err := checkExtra(class, want, req.Name, "extra_field_type", req.ExtraFieldType); err != nil {
			return err
		}
		if req.Async && !class.Context {
			return errors.Newf(errors.ChannelClassErrorCode,
				"proxy %s is async but channel class %s has no RecvContext", req.Name, class.Spec).
				WithSuggestion("remove async from the proxy or use a class providing RecvContext, such as stdchan")
		}
	}
	return nil
}

func checkExtra(class *models.ChannelClass, want, artifact, option, got string) *errors.BaseError {
	switch {
	case want == "" && got != "":
		return errors.Configuration(option,
			"%s: %s=%s but channel class %s takes no extra context", artifact, option, got, class.Spec)
	case want != "" && got == "":
		return errors.Configuration(option,
			"%s: channel class %s needs %s=%s", artifact, class.Spec, option, class.ExtraType).
			WithSuggestion(fmt.Sprintf("add %s=%s", option, class.ExtraType))
	case want != "" && normalizeType(got) != want:
		return errors.Configuration(option,
			"%s: %s=%s does not match the extra context %s of channel class %s", artifact, option, got, class.ExtraType, class.Spec)
	}
	return nil
}

func normalizeType(text string) string {
	if text == "" {
		return ""
	}
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return strings.Join(strings.Fields(text), "")
	}
	return types.ExprString(expr)
}

// checkProxyMembers keeps original method names clear of proxy internals
func checkProxyMembers(iface *models.Interface) *errors.BaseError {
	for _, req := range iface.Config.Proxies {
		if req.Adapter != models.Unwrapping && req.Adapter != models.UnwrappingAndPanicking {
			continue
		}
		for _, member := range proxyMembers {
			if _, clash := iface.Method(member); clash {
				return errors.Newf(errors.GenerationErrorCode,
					"proxy %s: method %s of %s clashes with a proxy member of the same name", req.Name, member, iface.Name).
					WithSuggestion("rename the method or use infallible_impl")
			}
		}
	}
	return nil
}

// checkNames rejects generated identifiers declared twice in one file
func checkNames(units []*unit) error {
	owners := make(map[string]string)
	declare := func(name, what string) error {
		if prev, dup := owners[name]; dup {
			return errors.Newf(errors.ConfigurationErrorCode, "generated name %s is used by both %s and %s", name, prev, what).
				WithSuggestion("pick distinct names with name=")
		}
		owners[name] = what
		return nil
	}

	for _, u := range units {
		if err := declare(u.iface.Name, "interface "+u.iface.Name); err != nil {
			return err
		}
	}

	for _, u := range units {
		cfg := u.cfg
		names := []struct{ name, what string }{{cfg.EnumName, "the enum of " + u.iface.Name}}
		for _, m := range u.iface.Methods {
			names = append(names, struct{ name, what string }{u.variant(m), "the variant for " + u.iface.Name + "." + m.Name})
		}
		for _, req := range cfg.CallFns {
			names = append(names, struct{ name, what string }{req.Name, "a call fn of " + u.iface.Name})
		}
		for _, req := range cfg.Proxies {
			names = append(names,
				struct{ name, what string }{req.Name, "a proxy of " + u.iface.Name},
				struct{ name, what string }{constructorName(req.Name), "the constructor of " + req.Name},
			)
			if req.ResultifiedName != "" {
				names = append(names, struct{ name, what string }{req.ResultifiedName, "the resultified interface of " + req.Name})
			}
			if req.Adapter == models.Infallible {
				names = append(names, struct{ name, what string }{infallibleName(req.ResultifiedName), "the infallible adapter of " + req.Name})
			}
		}

		for _, n := range names {
			if err := declare(n.name, n.what); err != nil {
				return withLocation(err, errors.LocationOf(u.iface.Pos))
			}
		}
	}
	return nil
}

// emit writes the artifacts of one interface in a fixed order
func (u *unit) emit(f *jen.File) Stats {
	stats := Stats{Interfaces: 1, Variants: len(u.iface.Methods)}

	u.emitEnum(f)

	for _, req := range u.cfg.CallFns {
		u.emitDispatcher(f, req)
		stats.Dispatchers++
	}

	for _, req := range u.cfg.Proxies {
		if req.ResultifiedName != "" {
			u.emitResultified(f, req)
			stats.Resultified++
		}
	}

	for _, req := range u.cfg.Proxies {
		u.emitProxy(f, req)
		stats.Proxies++
	}

	for _, req := range u.cfg.Proxies {
		switch req.Adapter {
		case models.Infallible:
			u.emitInfallible(f, req)
			stats.Adapters++
		case models.Unwrapping, models.UnwrappingAndPanicking:
			u.emitUnwrapping(f, req)
			stats.Adapters++
		}
	}

	return stats
}

func withLocation(err error, loc errors.SourceLocation) error {
	if base, ok := err.(*errors.BaseError); ok && base.Loc.IsEmpty() {
		return base.WithLocation(loc)
	}
	return err
}
